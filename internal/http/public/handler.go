// Package public serves the customer-facing share links. Its routes are reachable without an
// operator session.
package public

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/dto"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
)

type Handler struct {
	svc *estimate.Service
}

func NewHandler(svc *estimate.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/estimates/{token}", h.view)
	r.Post("/estimates/{token}/respond", h.respond)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "estimate not found", http.StatusNotFound)
		return
	}

	e, err := h.svc.ViewShared(r.Context(), token)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToSharedEstimate(e))
}

type respondRequest struct {
	Decision estimate.Decision `json:"decision" validate:"required,oneof=accept reject negotiate"`
	Message  string            `json:"message" validate:"max=2000"`
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "estimate not found", http.StatusNotFound)
		return
	}

	var req respondRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	e, err := h.svc.Respond(r.Context(), token, estimate.Response{
		Decision: req.Decision,
		Message:  req.Message,
	})
	if err != nil && !errors.Is(err, estimate.ErrOrderNotMaterialized) {
		httpx.Error(w, r, err)
		return
	}

	// The customer's answer is recorded even when the order has to be retried.
	httpx.JSON(w, http.StatusOK, dto.ToSharedEstimate(e))
}
