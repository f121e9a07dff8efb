package memory

import (
	"context"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/application/account"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/logger"
)

// NoopPublisher stands in for RabbitMQ in dev and in tests.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishAccountCreated(ctx context.Context, evt account.AccountCreatedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("account_id", evt.AccountID).
		Str("email", evt.Email).
		Msg("noop publish account_created")
	return nil
}
