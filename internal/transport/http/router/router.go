package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type PageHandler interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	SignupPage(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
}

type GeodataHandler interface {
	GetData(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Auth    AuthHandler
	Pages   PageHandler
	Geodata GeodataHandler

	RequestIDMW func(http.Handler) http.Handler
	MetricsMW   func(http.Handler) http.Handler
	SessionMW   func(http.Handler) http.Handler // the page gate
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Pages == nil {
		return nil, fmt.Errorf("nil Page handler")
	}
	if deps.Geodata == nil {
		return nil, fmt.Errorf("nil Geodata handler")
	}
	if deps.SessionMW == nil {
		return nil, fmt.Errorf("nil Session middleware")
	}

	r := chi.NewRouter()
	if deps.RequestIDMW != nil {
		r.Use(deps.RequestIDMW)
	}
	if deps.MetricsMW != nil {
		r.Use(deps.MetricsMW)
	}

	// operational
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	// public pages + auth forms
	r.Get("/", deps.Pages.LoginPage)
	r.Get("/login", deps.Pages.LoginPage)
	r.Get("/signup", deps.Pages.SignupPage)
	r.Post("/login", deps.Auth.Login)
	r.Post("/signup", deps.Auth.Signup)
	r.Get("/logout", deps.Auth.Logout)

	// protected pages, behind the page gate
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionMW)
		r.Get("/dashboard", deps.Pages.Dashboard)
		r.Get("/getData", deps.Geodata.GetData)
	})

	return r, nil
}
