package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusSourcing   Status = "sourcing"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
)

var Statuses = []Status{StatusConfirmed, StatusSourcing, StatusProcessing, StatusReady, StatusDelivered}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}

	return false
}

// InProgress reports whether the order is being worked on but not yet delivered.
func (s Status) InProgress() bool {
	return s == StatusSourcing || s == StatusProcessing || s == StatusReady
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentAdvance PaymentStatus = "advance"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentAdvance, PaymentPartial, PaymentPaid}

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentAdvance, PaymentPartial, PaymentPaid:
		return true
	}

	return false
}

const initialSubStatus = "Confirmed"

var (
	ErrNotFound             = errors.New("order not found")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrEstimateHasOrder     = errors.New("estimate already has an order")
)

// Order is a fulfillment record. EstimateID points back at the estimate it was created
// from; it does not own the estimate and survives its deletion.
type Order struct {
	ID               int64
	Status           Status
	Customer         string
	EstimateID       *int64
	Amount           decimal.Decimal
	Items            int // Number of line items on the source estimate
	Progress         int // 0-100
	SubStatus        string
	PaymentStatus    PaymentStatus
	PaymentReceived  decimal.Decimal
	ConfirmedDate    *time.Time
	ExpectedDelivery *time.Time
	Notes            string
	CreatedAt        time.Time
}

// Outstanding is the amount still to be collected, never negative.
func (o *Order) Outstanding() decimal.Decimal {
	rest := o.Amount.Sub(o.PaymentReceived)
	if rest.IsNegative() {
		return decimal.Zero
	}

	return rest
}
