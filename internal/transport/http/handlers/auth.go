package http_handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/application/account"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/security"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/logger"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/dto"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/middleware"
)

type AuthHandler struct {
	svc           *account.Service
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(svc *account.Service, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Signup handles POST /signup. On success it sets the session cookie and
// redirects to the dashboard; on failure it redirects back to the signup
// page with the error code in the query string.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/signup", domain.ErrMissingFields())
		return
	}

	form := dto.SignupFormFromRequest(r)
	if err := form.Validate(); err != nil {
		middleware.SignupAttemptsTotal.WithLabelValues(domain.Code(err)).Inc()
		redirectWithError(w, r, "/signup", err)
		return
	}

	res, err := h.svc.Signup(r.Context(), form.Email, form.Password, form.ConfirmPassword)
	if err != nil {
		middleware.SignupAttemptsTotal.WithLabelValues(domain.Code(err)).Inc()
		logSignupFailure(r, err)
		redirectWithError(w, r, "/signup", err)
		return
	}

	middleware.SignupAttemptsTotal.WithLabelValues("success").Inc()
	logger.WithCtx(r.Context()).Info().
		Str("account_id", res.AccountID).
		Str("email", res.Email).
		Msg("account_created")

	security.SetSessionToken(w, res.Token, h.sessionTTL, h.secureCookies)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/login", domain.ErrMissingFields())
		return
	}

	form := dto.LoginFormFromRequest(r)
	if err := form.Validate(); err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(domain.Code(err)).Inc()
		redirectWithError(w, r, "/login", err)
		return
	}

	res, err := h.svc.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(domain.Code(err)).Inc()
		// no email in the log line: failed logins must not build an
		// address list for whoever reads the logs
		logger.WithCtx(r.Context()).Info().
			Str("code", domain.Code(err)).
			Msg("login_failed")
		redirectWithError(w, r, "/login", err)
		return
	}

	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.WithCtx(r.Context()).Info().
		Str("account_id", res.AccountID).
		Msg("account_logged_in")

	security.SetSessionToken(w, res.Token, h.sessionTTL, h.secureCookies)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles GET /logout: revokes the session server-side, clears the
// cookie, and sends the browser back to the login page. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := security.ReadSessionToken(r); err == nil && token != "" {
		_ = h.svc.Logout(r.Context(), token)
	}

	security.ClearSessionToken(w, h.secureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func logSignupFailure(r *http.Request, err error) {
	logger.WithCtx(r.Context()).Info().
		Str("code", domain.Code(err)).
		Msg("signup_failed")
}

// redirectWithError sends the browser back to the originating form with a
// stable error code; the page handler translates it into a message.
func redirectWithError(w http.ResponseWriter, r *http.Request, path string, err error) {
	code := domain.Code(err)
	if code == "" {
		code = "internal_error"
	}
	http.Redirect(w, r, path+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}
