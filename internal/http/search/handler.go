package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/dto"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
	"github.com/MrJamesThe3rd/dealdesk/internal/search"
)

type Handler struct {
	svc *search.Service
}

func NewHandler(svc *search.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.search)
}

type searchResponse struct {
	Customers []dto.Customer `json:"customers"`
	Vendors   []dto.Vendor   `json:"vendors"`
	Estimates []dto.Estimate `json:"estimates"`
	Orders    []dto.Order    `json:"orders"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, searchResponse{
		Customers: dto.ToCustomers(res.Customers),
		Vendors:   dto.ToVendors(res.Vendors),
		Estimates: dto.ToEstimates(res.Estimates),
		Orders:    dto.ToOrders(res.Orders),
	})
}
