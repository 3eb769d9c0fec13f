package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/dto"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc       *contact.Service
	importSvc *importer.Service
}

func NewHandler(svc *contact.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
	}
}

func (h *Handler) CustomerRoutes(r chi.Router) {
	r.Post("/", h.createCustomer)
	r.Get("/", h.listCustomers)
	r.Post("/import", h.importCustomers)
}

func (h *Handler) VendorRoutes(r chi.Router) {
	r.Post("/", h.createVendor)
	r.Get("/", h.listVendors)
	r.Post("/import", h.importVendors)
}

type createCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	c := &contact.Customer{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.svc.CreateCustomer(r.Context(), c); err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, dto.ToCustomers([]*contact.Customer{c})[0])
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="customers.csv"`)

		if err := export.WriteCustomersCSV(w, customers); err != nil {
			httpx.Error(w, r, err)
		}

		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToCustomers(customers))
}

type createVendorRequest struct {
	Name     string          `json:"name" validate:"required"`
	Contact  string          `json:"contact"`
	Email    string          `json:"email" validate:"omitempty,email"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
	Category string          `json:"category"`
	Rating   decimal.Decimal `json:"rating" validate:"gte=0,lte=5"`
	LeadTime string          `json:"leadTime"`
	Notes    string          `json:"notes"`
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	v := &contact.Vendor{
		Name:     req.Name,
		Contact:  req.Contact,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Category: req.Category,
		Rating:   req.Rating,
		LeadTime: req.LeadTime,
		Notes:    req.Notes,
	}

	if err := h.svc.CreateVendor(r.Context(), v); err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, dto.ToVendors([]*contact.Vendor{v})[0])
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.ListVendors(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="vendors.csv"`)

		if err := export.WriteVendorsCSV(w, vendors); err != nil {
			httpx.Error(w, r, err)
		}

		return
	}

	httpx.JSON(w, http.StatusOK, dto.ToVendors(vendors))
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) importCustomers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	customers, err := h.importSvc.ParseCustomers(file)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	for i := range customers {
		if err := h.svc.CreateCustomer(r.Context(), &customers[i]); err != nil {
			httpx.Error(w, r, err)
			return
		}
	}

	httpx.JSON(w, http.StatusCreated, importResponse{Imported: len(customers)})
}

func (h *Handler) importVendors(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	vendors, err := h.importSvc.ParseVendors(file)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	for i := range vendors {
		if err := h.svc.CreateVendor(r.Context(), &vendors[i]); err != nil {
			httpx.Error(w, r, err)
			return
		}
	}

	httpx.JSON(w, http.StatusCreated, importResponse{Imported: len(vendors)})
}
