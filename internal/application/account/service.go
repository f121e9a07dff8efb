package account

import (
	"strings"
	"time"
)

type Service struct {
	accounts AccountRepo
	hasher   PasswordHasher
	sessions SessionStore
	pub      EventPublisher

	sessionTTL time.Duration
	audit      func(action string, fields map[string]string)
}

type Config struct {
	SessionTTL time.Duration
}

func NewService(
	accounts AccountRepo,
	hasher PasswordHasher,
	sessions SessionStore,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		accounts:   accounts,
		hasher:     hasher,
		sessions:   sessions,
		pub:        pub,
		sessionTTL: ttl,
		audit:      func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// AuthResult is the common output of Signup and Login: the account, its
// denormalized session view, and the opaque token for the client cookie.
type AuthResult struct {
	AccountID string
	Email     string
	Token     string
}

// normalizeEmail fixes the single normalization policy for the whole
// service: surrounding whitespace stripped, lowercased. Uniqueness is
// defined over this form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
