// Package dto holds the JSON shapes the API returns for domain records.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

type Estimate struct {
	ID            int64                   `json:"id"`
	ShareToken    uuid.UUID               `json:"shareToken"`
	Status        estimate.Status         `json:"status"`
	SendAs        estimate.SendAs         `json:"sendAs"`
	Identity      estimate.Identity       `json:"identity"`
	Customer      estimate.Customer       `json:"customer"`
	TemplateID    string                  `json:"templateId,omitempty"`
	Items         []pricing.LineItem      `json:"items"`
	Totals        pricing.Totals          `json:"totals"`
	TaxEnabled    bool                    `json:"taxEnabled"`
	Notes         string                  `json:"notes"`
	InternalNotes string                  `json:"internalNotes"`
	History       []estimate.HistoryEntry `json:"history"`
	Revisions     int                     `json:"revisions"`
	CreatedAt     time.Time               `json:"createdAt"`
}

func ToEstimate(e *estimate.Estimate) Estimate {
	items := e.Items
	if items == nil {
		items = []pricing.LineItem{}
	}

	history := e.History
	if history == nil {
		history = []estimate.HistoryEntry{}
	}

	return Estimate{
		ID:            e.ID,
		ShareToken:    e.ShareToken,
		Status:        e.Status,
		SendAs:        e.SendAs,
		Identity:      e.Identity,
		Customer:      e.Customer,
		TemplateID:    e.TemplateID,
		Items:         items,
		Totals:        e.Totals,
		TaxEnabled:    e.TaxEnabled,
		Notes:         e.Notes,
		InternalNotes: e.InternalNotes,
		History:       history,
		Revisions:     e.Revisions(),
		CreatedAt:     e.CreatedAt,
	}
}

func ToEstimates(es []*estimate.Estimate) []Estimate {
	resp := make([]Estimate, len(es))
	for i, e := range es {
		resp[i] = ToEstimate(e)
	}

	return resp
}

// SharedItem is a line item as the customer sees it, without cost or margin.
type SharedItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// SharedEstimate is the customer-facing view served through a share link.
type SharedEstimate struct {
	Status    estimate.Status   `json:"status"`
	Identity  estimate.Identity `json:"identity"`
	Customer  estimate.Customer `json:"customer"`
	Items     []SharedItem      `json:"items"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Tax       decimal.Decimal   `json:"tax"`
	TaxRate   decimal.Decimal   `json:"taxRate"`
	Total     decimal.Decimal   `json:"total"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"createdAt"`
}

func ToSharedEstimate(e *estimate.Estimate) SharedEstimate {
	items := make([]SharedItem, len(e.Items))
	for i, it := range e.Items {
		items[i] = SharedItem{Description: it.Description, Quantity: it.Quantity, Price: it.SellingPrice}
	}

	return SharedEstimate{
		Status:    e.Status,
		Identity:  e.Identity,
		Customer:  e.Customer,
		Items:     items,
		Subtotal:  e.Totals.Subtotal,
		Tax:       e.Totals.Tax,
		TaxRate:   e.Totals.TaxRate,
		Total:     e.Totals.Total,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

type Order struct {
	ID               int64               `json:"id"`
	Status           order.Status        `json:"status"`
	Customer         string              `json:"customer"`
	EstimateID       *int64              `json:"estimateId,omitempty"`
	Amount           decimal.Decimal     `json:"amount"`
	Items            int                 `json:"items"`
	Progress         int                 `json:"progress"`
	SubStatus        string              `json:"subStatus"`
	PaymentStatus    order.PaymentStatus `json:"paymentStatus"`
	PaymentReceived  decimal.Decimal     `json:"paymentReceived"`
	Outstanding      decimal.Decimal     `json:"outstanding"`
	ConfirmedDate    *time.Time          `json:"confirmedDate,omitempty"`
	ExpectedDelivery *time.Time          `json:"expectedDelivery,omitempty"`
	Notes            string              `json:"notes"`
	CreatedAt        time.Time           `json:"createdAt"`
}

func ToOrder(o *order.Order) Order {
	return Order{
		ID:               o.ID,
		Status:           o.Status,
		Customer:         o.Customer,
		EstimateID:       o.EstimateID,
		Amount:           o.Amount,
		Items:            o.Items,
		Progress:         o.Progress,
		SubStatus:        o.SubStatus,
		PaymentStatus:    o.PaymentStatus,
		PaymentReceived:  o.PaymentReceived,
		Outstanding:      o.Outstanding(),
		ConfirmedDate:    o.ConfirmedDate,
		ExpectedDelivery: o.ExpectedDelivery,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
	}
}

func ToOrders(os []*order.Order) []Order {
	resp := make([]Order, len(os))
	for i, o := range os {
		resp[i] = ToOrder(o)
	}

	return resp
}

type Summary struct {
	Orders          int                         `json:"orders"`
	OrderValue      decimal.Decimal             `json:"orderValue"`
	Received        decimal.Decimal             `json:"received"`
	Outstanding     decimal.Decimal             `json:"outstanding"`
	ByPaymentStatus map[order.PaymentStatus]int `json:"byPaymentStatus"`
}

func ToSummary(s *order.Summary) Summary {
	return Summary{
		Orders:          s.Orders,
		OrderValue:      s.OrderValue,
		Received:        s.Received,
		Outstanding:     s.Outstanding,
		ByPaymentStatus: s.ByPaymentStatus,
	}
}

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToCustomers(cs []*contact.Customer) []Customer {
	resp := make([]Customer, len(cs))
	for i, c := range cs {
		resp[i] = Customer{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, CreatedAt: c.CreatedAt}
	}

	return resp
}

type Vendor struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Contact   string          `json:"contact"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Category  string          `json:"category"`
	Rating    decimal.Decimal `json:"rating"`
	LeadTime  string          `json:"leadTime"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"createdAt"`
}

func ToVendors(vs []*contact.Vendor) []Vendor {
	resp := make([]Vendor, len(vs))
	for i, v := range vs {
		resp[i] = Vendor{
			ID:        v.ID,
			Name:      v.Name,
			Contact:   v.Contact,
			Email:     v.Email,
			Phone:     v.Phone,
			Address:   v.Address,
			Category:  v.Category,
			Rating:    v.Rating,
			LeadTime:  v.LeadTime,
			Notes:     v.Notes,
			CreatedAt: v.CreatedAt,
		}
	}

	return resp
}
