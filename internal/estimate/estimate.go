package estimate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

// Status represents the negotiation state of an estimate.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusSent        Status = "sent"
	StatusViewed      Status = "viewed"
	StatusAccepted    Status = "accepted"
	StatusNegotiating Status = "negotiating"
	StatusRejected    Status = "rejected"
)

// Statuses lists every known status in the order they usually occur.
var Statuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusSent,
	StatusViewed,
	StatusNegotiating,
	StatusAccepted,
	StatusRejected,
}

// ParseStatus converts a label into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}

	return st, nil
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}

	return false
}

// IsInitial reports whether an estimate may be created with this status.
func (s Status) IsInitial() bool {
	return s == StatusDraft || s == StatusSubmitted
}

// SendAs selects whose identity the estimate is issued under.
type SendAs string

const (
	SendAsCompany  SendAs = "company"
	SendAsPersonal SendAs = "personal"
)

type Identity struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// HistoryEntry records one status change.
type HistoryEntry struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
}

// Estimate is a priced quote and its negotiation log.
type Estimate struct {
	ID            int64
	ShareToken    uuid.UUID
	Status        Status
	SendAs        SendAs
	Identity      Identity
	Customer      Customer
	TemplateID    string
	Items         []pricing.LineItem
	Totals        pricing.Totals
	TaxEnabled    bool
	Notes         string
	InternalNotes string
	CreatedAt     time.Time
	History       []HistoryEntry // Append-only
}

// Revisions counts how many times the estimate went back into negotiation.
func (e *Estimate) Revisions() int {
	n := 0

	for _, h := range e.History {
		if h.Status == StatusNegotiating {
			n++
		}
	}

	return n
}
