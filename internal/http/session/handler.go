// Package session handles operator login and logout.
package session

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
)

type Handler struct {
	auth   *auth.Manager
	secure bool
}

// NewHandler builds the login handler. A nil manager means login is not configured and every
// attempt succeeds without a session.
func NewHandler(m *auth.Manager, secureCookies bool) *Handler {
	return &Handler{
		auth:   m,
		secure: secureCookies,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	OK        bool       `json:"ok"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		httpx.JSON(w, http.StatusOK, loginResponse{OK: true})
		return
	}

	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	token, expires, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.JSON(w, http.StatusOK, loginResponse{OK: true, ExpiresAt: &expires})
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}
