package middleware

import (
	"context"
	"net/http"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/security"
)

// SessionValidator resolves a session token to an account identity.
type SessionValidator func(ctx context.Context, token string) (domain.Session, error)

// RequireSession is the page gate: every protected page runs through it.
// A missing, unknown or expired token fails closed with a redirect to the
// login page; on success the session is injected into the request context.
func RequireSession(validate SessionValidator, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := security.ReadSessionToken(r)
			if err != nil || token == "" {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			sess, err := validate(r.Context(), token)
			if err != nil {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
