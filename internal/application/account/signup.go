package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

// Signup creates a new account and issues a session for it.
// Exactly one account row is created on success; none on any failure path.
// The hash is computed before the insert so a partial write is impossible.
func (s *Service) Signup(ctx context.Context, email, password, confirmPassword string) (AuthResult, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	confirmPassword = strings.TrimSpace(confirmPassword)

	if email == "" || password == "" || confirmPassword == "" {
		return AuthResult{}, domain.ErrMissingFields()
	}
	if password != confirmPassword {
		return AuthResult{}, domain.ErrPasswordMismatch()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, domain.ErrHashFailed(err)
	}

	a := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	// The repo maps a unique-violation to ErrEmailTaken; relying on the
	// constraint keeps concurrent signups of the same email safe.
	created, err := s.accounts.Create(ctx, a)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.sessions.Create(ctx, created.ID, created.Email, s.sessionTTL)
	if err != nil {
		return AuthResult{}, err
	}

	s.audit("account_created", map[string]string{
		"account_id": created.ID,
		"email":      created.Email,
	})

	if s.pub != nil {
		if err := s.pub.PublishAccountCreated(ctx, AccountCreatedEvent{
			AccountID: created.ID,
			Email:     created.Email,
		}); err != nil {
			// best-effort: a broker outage must not fail the signup
			s.audit("account_created_publish_failed", map[string]string{
				"account_id": created.ID,
				"error":      err.Error(),
			})
		}
	}

	return AuthResult{AccountID: created.ID, Email: created.Email, Token: token}, nil
}
