package http_handlers

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/logger"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const earliestDataYear = 2000

type PageHandler struct {
	tmpl *template.Template
}

func NewPageHandler() (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{tmpl: tmpl}, nil
}

type authPageData struct {
	Flash string
}

type dashboardData struct {
	Email string
	Years []int
}

// flashMessage maps stable error codes (carried in the ?error query
// param across the form redirect) to user-facing text. Unknown email and
// wrong password share one message on purpose.
func flashMessage(code string) string {
	switch code {
	case "":
		return ""
	case "missing_fields":
		return "Please fill in all fields."
	case "password_mismatch":
		return "Passwords do not match."
	case "email_taken":
		return "Email already registered."
	case "weak_password":
		return "Password must be at least 8 characters with an uppercase letter, a lowercase letter and a number."
	case "invalid_field":
		return "Please enter a valid email address."
	case "invalid_credentials":
		return "Invalid email or password."
	case "store_unavailable", "session_store_unavailable":
		return "Service temporarily unavailable. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", authPageData{
		Flash: flashMessage(r.URL.Query().Get("error")),
	})
}

func (h *PageHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", authPageData{
		Flash: flashMessage(r.URL.Query().Get("error")),
	})
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		// gate should have caught this; fail closed anyway
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	current := time.Now().Year()
	years := make([]int, 0, current-earliestDataYear+1)
	for y := current; y >= earliestDataYear; y-- {
		years = append(years, y)
	}

	h.render(w, r, "dashboard.html", dashboardData{
		Email: sess.Email,
		Years: years,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.WithCtx(r.Context()).Error().Err(err).Str("template", name).Msg("template render failed")
	}
}
