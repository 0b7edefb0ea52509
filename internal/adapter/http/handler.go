package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mailtrack/internal/core/port"
)

// Options configures the HTTP adapter.
type Options struct {
	Logger *slog.Logger
	// SessionSecret signs the session cookie.
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookie  bool
	// Ping reports database health for /healthz. Nil always reports ok.
	Ping func(context.Context) error
	// Metrics is mounted on /metrics, behind the login, when non-nil.
	Metrics http.Handler
}

// Handler is the inbound HTTP adapter. It serves the admin pages and the
// public tracking endpoints on a chi.Router.
type Handler struct {
	campaigns port.CampaignUseCase
	auth      port.AuthUseCase
	logger    *slog.Logger
	cookies   sessionCookies
	pages     pages
	ping      func(context.Context) error
	router    chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(campaigns port.CampaignUseCase, auth port.AuthUseCase, opts Options) (*Handler, error) {
	if len(opts.SessionSecret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	p, err := parsePages()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		campaigns: campaigns,
		auth:      auth,
		logger:    logger,
		cookies: sessionCookies{
			secret: []byte(opts.SessionSecret),
			secure: opts.SecureCookie,
			ttl:    opts.SessionTTL,
		},
		pages: p,
		ping:  opts.Ping,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, h.accessLog, middleware.Recoverer)

	r.Get("/login", h.handleLoginForm)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)
	// link scanners and prefetchers may send HEAD
	r.Get("/track/{token}", h.handleTrack)
	r.Head("/track/{token}", h.handleTrack)
	r.Get("/track/{token}/pixel.gif", h.handlePixel)
	r.Head("/track/{token}/pixel.gif", h.handlePixel)
	// healthz answers with a bare status and nothing else
	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/", h.handleIndex)
		r.Get("/campaign/create", h.handleCreateForm)
		r.Post("/campaign/create", h.handleCreate)
		r.Get("/campaign/{id}", h.handleDashboard)
		if opts.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", opts.Metrics)
		}
	})
	h.router = r
	return h, nil
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
