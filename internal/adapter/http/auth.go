package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"mailtrack/internal/core/port"
)

type loginPage struct {
	page
	Next     string
	Username string
	Error    string
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	next := localPath(r.URL.Query().Get("next"))
	if s, err := h.currentSession(r); err == nil && s != nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "login", loginPage{Next: next})
}

// handleLogin validates the credentials and starts a session. Both unknown
// users and wrong passwords get the same 401 response.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var (
		username = r.PostForm.Get("username")
		next     = localPath(r.PostForm.Get("next"))
	)

	s, err := h.auth.Login(r.Context(), username, r.PostForm.Get("password"))
	switch {
	case errors.Is(err, port.ErrInvalidCredentials):
		h.render(w, http.StatusUnauthorized, "login", loginPage{
			Next:     next,
			Username: username,
			Error:    err.Error(),
		})
		return
	case err != nil:
		h.logger.Error("login error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.cookies.set(w, s.Token)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, err := h.cookies.token(r); err == nil && token != "" {
		if err = h.auth.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout error", slog.Any("error", err))
		}
	}
	h.cookies.clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
