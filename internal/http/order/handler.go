package order

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/dto"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
)

type Handler struct {
	svc *order.Service
}

func NewHandler(svc *order.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/finance", h.finance)
	r.Get("/export.csv", h.exportCSV)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/progress", h.updateProgress)
}

type createOrderRequest struct {
	Customer         string              `json:"customer" validate:"required"`
	EstimateID       *int64              `json:"estimateId"`
	Amount           decimal.Decimal     `json:"amount" validate:"gte=0"`
	Items            int                 `json:"items" validate:"gte=0"`
	Status           order.Status        `json:"status"`
	SubStatus        string              `json:"subStatus"`
	Progress         int                 `json:"progress" validate:"gte=0,lte=100"`
	PaymentStatus    order.PaymentStatus `json:"paymentStatus"`
	PaymentReceived  decimal.Decimal     `json:"paymentReceived" validate:"gte=0"`
	ConfirmedDate    *time.Time          `json:"confirmedDate"`
	ExpectedDelivery *time.Time          `json:"expectedDelivery"`
	Notes            string              `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	o, err := h.svc.Create(r.Context(), order.CreateParams{
		Status:           req.Status,
		Customer:         req.Customer,
		EstimateID:       req.EstimateID,
		Amount:           req.Amount,
		Items:            req.Items,
		Progress:         req.Progress,
		SubStatus:        req.SubStatus,
		PaymentStatus:    req.PaymentStatus,
		PaymentReceived:  req.PaymentReceived,
		ConfirmedDate:    req.ConfirmedDate,
		ExpectedDelivery: req.ExpectedDelivery,
		Notes:            req.Notes,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, dto.ToOrder(o))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToOrders(orders))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToOrder(o))
}

type updateProgressRequest struct {
	Status           *order.Status        `json:"status,omitempty"`
	SubStatus        *string              `json:"subStatus,omitempty"`
	Progress         *int                 `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	PaymentStatus    *order.PaymentStatus `json:"paymentStatus,omitempty"`
	PaymentReceived  *decimal.Decimal     `json:"paymentReceived,omitempty"`
	ExpectedDelivery *time.Time           `json:"expectedDelivery,omitempty"`
}

func (h *Handler) updateProgress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateProgressRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	if req.PaymentReceived != nil && req.PaymentReceived.IsNegative() {
		http.Error(w, "paymentReceived must not be negative", http.StatusBadRequest)
		return
	}

	o, err := h.svc.UpdateProgress(r.Context(), id, order.ProgressParams{
		Status:           req.Status,
		SubStatus:        req.SubStatus,
		Progress:         req.Progress,
		PaymentStatus:    req.PaymentStatus,
		PaymentReceived:  req.PaymentReceived,
		ExpectedDelivery: req.ExpectedDelivery,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToOrder(o))
}

func (h *Handler) finance(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.FinanceSummary(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToSummary(summary))
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)

	if err := export.WriteOrdersCSV(w, orders); err != nil {
		httpx.Error(w, r, err)
	}
}
