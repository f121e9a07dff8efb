package account

import (
	"context"
	"errors"
	"strings"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

// Login authenticates an account and issues a session.
// IMPORTANT: must not leak whether the email exists (avoid user
// enumeration): unknown email and wrong password both come back as
// invalid_credentials.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return AuthResult{}, domain.ErrMissingFields()
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials; let store outages
		// surface as what they are.
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindInfrastructure {
			return AuthResult{}, err
		}
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(a.PasswordHash, password); err != nil {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	token, err := s.sessions.Create(ctx, a.ID, a.Email, s.sessionTTL)
	if err != nil {
		return AuthResult{}, err
	}

	s.audit("account_logged_in", map[string]string{"account_id": a.ID})

	return AuthResult{AccountID: a.ID, Email: a.Email, Token: token}, nil
}
