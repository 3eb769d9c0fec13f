package pipeline

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

type Handler struct {
	svc *pipeline.Service
}

func NewHandler(svc *pipeline.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.board)
	r.Put("/", h.save)
	r.Post("/move", h.move)
}

type boardResponse struct {
	Stages []pipeline.Stage `json:"stages"`
}

func (h *Handler) board(w http.ResponseWriter, r *http.Request) {
	stages, err := h.svc.Board(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, boardResponse{Stages: stages})
}

type saveRequest struct {
	Stages []pipeline.Stage `json:"stages" validate:"required,dive"`
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	for _, s := range req.Stages {
		if s.ID == "" {
			http.Error(w, "stage id is required", http.StatusBadRequest)
			return
		}
	}

	if err := h.svc.Save(r.Context(), req.Stages); err != nil {
		httpx.Error(w, r, err)
		return
	}

	h.board(w, r)
}

type moveRequest struct {
	CardID string `json:"cardId" validate:"required"`
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	if err := h.svc.MoveCard(r.Context(), req.CardID, req.From, req.To); err != nil {
		httpx.Error(w, r, err)
		return
	}

	h.board(w, r)
}
