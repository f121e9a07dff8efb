package account

import (
	"context"
	"strings"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

// Validate resolves a session token to its account identity.
// Missing, unknown and expired tokens all fail closed as session_invalid.
func (s *Service) Validate(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, domain.ErrSessionInvalid()
	}
	return s.sessions.Get(ctx, token)
}

// Logout revokes the session behind the token. Missing tokens are a no-op
// so the handler stays idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}
