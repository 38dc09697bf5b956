package handler

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"keyword-shortener/auth"
	"keyword-shortener/config"
	"keyword-shortener/email"
	"keyword-shortener/model"
	"keyword-shortener/session"
	"keyword-shortener/shortener"
	"keyword-shortener/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler serves the HTML surface of the shortener: landing page, shorten
// form, keyword redirects, contact form, and the account pages.
type Handler struct {
	registry *shortener.Registry
	auth     *auth.Service
	sessions *session.Manager
	email    *email.Service
	messages store.MessageStore
	config   config.Config
	baseURL  string
	tmpl     *template.Template
}

// New creates the handler with its dependencies injected.
func New(
	registry *shortener.Registry,
	authService *auth.Service,
	sessions *session.Manager,
	emailService *email.Service,
	messages store.MessageStore,
	cfg config.Config,
) (*Handler, error) {
	// Use configured base_url if provided, otherwise construct from scheme, IP, and port
	baseURL := cfg.WebServer.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s:%s", cfg.WebServer.Scheme, cfg.WebServer.IP, cfg.WebServer.Port)
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Handler{
		registry: registry,
		auth:     authService,
		sessions: sessions,
		email:    emailService,
		messages: messages,
		config:   cfg,
		baseURL:  baseURL,
		tmpl:     tmpl,
	}, nil
}

// pageData is the payload every template receives.
type pageData struct {
	User     string
	Flashes  []string
	Keyword  string
	ShortURL string
	Links    []model.LinkRecord
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.Flashes = h.sessions.Flashes(w, r)
	if user, ok := h.sessions.CurrentUser(r); ok {
		data.User = user
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
	}
}

// opCtx bounds store operations the way the Redis backend expects; the file
// backend ignores the deadline.
func (h *Handler) opCtx(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.config.Redis.OperationTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", pageData{})
}
