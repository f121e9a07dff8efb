package account

import (
	"context"
	"time"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

/*
AccountRepo
-----------
Persistence port for accounts.
Only describes WHAT the account service needs, not HOW it's stored.
Uniqueness on normalized email is enforced by the store itself
(unique constraint), never by a check-then-insert in this package.
*/
type AccountRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2. No other component may hash or compare
passwords on its own.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
SessionStore
------------
Server-side session management keyed by an opaque client-held token.
Backed by Redis in production, in-memory otherwise.
*/
type SessionStore interface {
	Create(ctx context.Context, accountID, email string, ttl time.Duration) (token string, err error)
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

/*
EventPublisher
--------------
Publishes account lifecycle events to the message broker.
Downstream services consume these; this service never blocks on them.
*/
type EventPublisher interface {
	PublishAccountCreated(ctx context.Context, evt AccountCreatedEvent) error
}

type AccountCreatedEvent struct {
	AccountID string
	Email     string
}
