package http_handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/application/account"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/geodata"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/memory"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/security"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/logger"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/middleware"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/router"
)

type fakeFetcher struct {
	body []byte
	err  error

	gotQuery geodata.Query
}

func (f *fakeFetcher) FetchMap(ctx context.Context, q geodata.Query) ([]byte, error) {
	f.gotQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

// newTestApp wires the full HTTP surface against in-memory adapters.
func newTestApp(t *testing.T) (http.Handler, *fakeFetcher) {
	t.Helper()

	logger.InitWithWriter(io.Discard)

	svc := account.NewService(
		memory.NewAccountRepo(),
		security.NewBcryptHasher(4),
		memory.NewSessionStore(),
		memory.NewNoopPublisher(),
		account.Config{SessionTTL: time.Hour},
	)

	pages, err := NewPageHandler()
	require.NoError(t, err)

	fetcher := &fakeFetcher{body: []byte("<div id=\"map\"></div>")}

	h, err := router.New(router.Deps{
		Health:      NewHealthHandler(nil),
		Auth:        NewAuthHandler(svc, time.Hour, false),
		Pages:       pages,
		Geodata:     NewGeodataHandler(fetcher),
		RequestIDMW: middleware.RequestID,
		SessionMW:   middleware.RequireSession(svc.Validate, "/login"),
	})
	require.NoError(t, err)

	return h, fetcher
}

func postForm(t *testing.T, h http.Handler, path string, vals url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == security.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func signupVals(email, password, confirm string) url.Values {
	return url.Values{
		"email":            {email},
		"password":         {password},
		"confirm_password": {confirm},
	}
}

func TestSignup_SetsCookieAndRedirectsToDashboard(t *testing.T) {
	h, _ := newTestApp(t)

	rec := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	c := sessionCookie(t, rec)
	require.True(t, c.HttpOnly)
	require.Equal(t, "/", c.Path)
}

func TestSignup_PasswordMismatchRedirectsBack(t *testing.T) {
	h, _ := newTestApp(t)

	rec := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd?"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/signup?error=password_mismatch", rec.Header().Get("Location"))
	require.Empty(t, rec.Result().Cookies())
}

func TestSignup_DuplicateEmailRedirectsBack(t *testing.T) {
	h, _ := newTestApp(t)

	rec := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(t, h, "/signup", signupVals("a@x.com", "Other1pass", "Other1pass"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/signup?error=email_taken", rec.Header().Get("Location"))
}

func TestSignup_MissingFieldsRedirectsBack(t *testing.T) {
	h, _ := newTestApp(t)

	rec := postForm(t, h, "/signup", url.Values{"email": {"a@x.com"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/signup?error=missing_fields", rec.Header().Get("Location"))
}

func TestSignup_WeakPasswordRedirectsBack(t *testing.T) {
	h, _ := newTestApp(t)

	rec := postForm(t, h, "/signup", signupVals("a@x.com", "alllowercase1", "alllowercase1"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/signup?error=weak_password", rec.Header().Get("Location"))
}

func TestLogin_SuccessAndWrongPassword(t *testing.T) {
	h, _ := newTestApp(t)

	rec := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(t, h, "/login", url.Values{"email": {"a@x.com"}, "password": {"Passw0rd!"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	sessionCookie(t, rec)

	rec = postForm(t, h, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrongpass1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?error=invalid_credentials", rec.Header().Get("Location"))
}

func TestLogin_UnknownEmailSameRedirectAsWrongPassword(t *testing.T) {
	h, _ := newTestApp(t)

	rec := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	unknown := postForm(t, h, "/login", url.Values{"email": {"nobody@x.com"}, "password": {"Passw0rd!"}})
	wrongPw := postForm(t, h, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrongpass1"}})

	require.Equal(t, unknown.Header().Get("Location"), wrongPw.Header().Get("Location"))
}

func TestDashboard_GateRedirectsWithoutSession(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/dashboard")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestDashboard_RendersForValidSession(t *testing.T) {
	h, _ := newTestApp(t)

	signup := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))
	c := sessionCookie(t, signup)

	rec := get(t, h, "/dashboard", c)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "a@x.com")
	require.Contains(t, body, "/logout")
}

func TestLogout_ClearsCookieAndRevokesSession(t *testing.T) {
	h, _ := newTestApp(t)

	signup := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))
	c := sessionCookie(t, signup)

	rec := get(t, h, "/logout", c)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	var cleared bool
	for _, sc := range rec.Result().Cookies() {
		if sc.Name == security.SessionCookieName && sc.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared, "expected the session cookie to be cleared")

	// the old token must be dead server-side, not just gone from the browser
	rec = get(t, h, "/dashboard", c)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogout_WithoutSessionIsIdempotent(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginPage_ShowsFlashForErrorCode(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/login?error=invalid_credentials")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid email or password.")

	rec = get(t, h, "/login")
	require.NotContains(t, rec.Body.String(), "Invalid email or password.")
}

func TestSignupPage_ShowsFlashForErrorCode(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/signup?error=email_taken")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Email already registered.")
}

func TestRootServesLoginPage(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "form")
}

func TestGetData_RequiresSession(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/getData?latitude=19.07&longitude=72.87&distance=10&year=2020")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGetData_ProxiesUpstreamBody(t *testing.T) {
	h, fetcher := newTestApp(t)

	signup := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))
	c := sessionCookie(t, signup)

	rec := get(t, h, "/getData?latitude=19.07&longitude=72.87&distance=10&year=2020", c)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "map")

	require.Equal(t, 19.07, fetcher.gotQuery.Latitude)
	require.Equal(t, 72.87, fetcher.gotQuery.Longitude)
	require.Equal(t, 10.0, fetcher.gotQuery.Distance)
	require.Equal(t, 2020, fetcher.gotQuery.Year)
}

func TestGetData_InvalidParams(t *testing.T) {
	h, _ := newTestApp(t)

	signup := postForm(t, h, "/signup", signupVals("a@x.com", "Passw0rd!", "Passw0rd!"))
	c := sessionCookie(t, signup)

	cases := []string{
		"/getData?latitude=abc&longitude=72&distance=10&year=2020",
		"/getData?latitude=91&longitude=72&distance=10&year=2020",
		"/getData?latitude=19&longitude=181&distance=10&year=2020",
		"/getData?latitude=19&longitude=72&distance=0&year=2020",
		"/getData?latitude=19&longitude=72&distance=10&year=1999",
	}
	for _, path := range cases {
		rec := get(t, h, path, c)
		require.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestHealthz(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}
