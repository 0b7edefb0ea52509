package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"mailtrack/internal/core/domain"
)

type ctxKey struct{}

func withSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// sessionFromContext returns the session attached by requireSession.
func sessionFromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(ctxKey{}).(*domain.Session)
	return s
}

// accessLog logs one line per request after it completes.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			h.logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// requireSession redirects anonymous requests to the login form, keeping
// the original location in ?next.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.currentSession(r)
		if err != nil {
			h.logger.Error("authenticate", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if s == nil {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
	})
}

// currentSession resolves the session cookie. A tampered cookie is treated
// as no session.
func (h *Handler) currentSession(r *http.Request) (*domain.Session, error) {
	token, err := h.cookies.token(r)
	if err != nil {
		h.logger.Debug("rejecting session cookie", slog.Any("error", err))
		return nil, nil
	}
	return h.auth.Authenticate(r.Context(), token)
}

// localPath returns next when it is a path on this host and "/" otherwise.
// Browsers drop tabs and newlines and treat a backslash as a slash, so any
// of those is refused before parsing.
func localPath(next string) string {
	if next == "" || strings.ContainsAny(next, "\t\r\n\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil || u.Opaque != "" {
		return "/"
	}
	p := u.EscapedPath()
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}
