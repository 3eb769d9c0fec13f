package estimate

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/dto"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

type Handler struct {
	svc *estimate.Service
}

func NewHandler(svc *estimate.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/export.csv", h.exportCSV)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

type itemRequest struct {
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" validate:"min=1"`
	CostPrice    decimal.Decimal `json:"costPrice" validate:"gte=0"`
	Margin       decimal.Decimal `json:"margin"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"gte=0"`
}

type createEstimateRequest struct {
	Status   estimate.Status `json:"status" validate:"required,oneof=draft submitted"`
	SendAs   estimate.SendAs `json:"sendAs" validate:"required,oneof=company personal"`
	Identity struct {
		Type string `json:"type" validate:"required"`
		Name string `json:"name" validate:"required"`
		Logo string `json:"logo"`
	} `json:"identity"`
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email" validate:"omitempty,email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	TemplateID string        `json:"templateId"`
	Items      []itemRequest `json:"items" validate:"dive"`
	// Totals sent by clients are recomputed; only the tax rate is read from them.
	Totals *struct {
		TaxRate *decimal.Decimal `json:"taxRate"`
	} `json:"totals"`
	TaxEnabled    *bool  `json:"taxEnabled"`
	Notes         string `json:"notes"`
	InternalNotes string `json:"internalNotes"`
}

func (req createEstimateRequest) params() estimate.CreateParams {
	items := make([]pricing.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = pricing.LineItem{
			Description:  it.Description,
			Quantity:     it.Quantity,
			CostPrice:    it.CostPrice,
			Margin:       it.Margin,
			SellingPrice: it.SellingPrice,
		}
	}

	taxRate := decimal.NewFromInt(pricing.DefaultTaxRate)
	if req.Totals != nil && req.Totals.TaxRate != nil {
		taxRate = *req.Totals.TaxRate
	}

	taxEnabled := true
	if req.TaxEnabled != nil {
		taxEnabled = *req.TaxEnabled
	}

	return estimate.CreateParams{
		Status: req.Status,
		SendAs: req.SendAs,
		Identity: estimate.Identity{
			Type: req.Identity.Type,
			Name: req.Identity.Name,
			Logo: req.Identity.Logo,
		},
		Customer: estimate.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		TemplateID:    req.TemplateID,
		Items:         items,
		TaxRate:       taxRate,
		TaxEnabled:    taxEnabled,
		Notes:         req.Notes,
		InternalNotes: req.InternalNotes,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEstimateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	e, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, dto.ToEstimate(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	estimates, err := h.svc.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToEstimates(estimates))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToEstimate(e))
}

type updateStatusRequest struct {
	Status estimate.Status `json:"status" validate:"required"`
}

// statusFailure reports a status change that was stored while its order could not be created.
type statusFailure struct {
	Error           string       `json:"error"`
	StatusPersisted bool         `json:"statusPersisted"`
	Estimate        dto.Estimate `json:"estimate"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	operator, _ := auth.Operator(r.Context())
	slog.Info("estimate status change requested", "estimate_id", id, "status", req.Status, "operator", operator)

	e, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, estimate.ErrOrderNotMaterialized) && e != nil {
			httpx.JSON(w, http.StatusBadGateway, statusFailure{
				Error:           err.Error(),
				StatusPersisted: true,
				Estimate:        dto.ToEstimate(e),
			})

			return
		}

		httpx.Error(w, r, err)

		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToEstimate(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}

	operator, _ := auth.Operator(r.Context())
	slog.Info("estimate deleted", "estimate_id", id, "operator", operator)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	estimates, err := h.svc.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="estimates.csv"`)

	if err := export.WriteEstimatesCSV(w, estimates); err != nil {
		httpx.Error(w, r, err)
	}
}
