package pipeline

import (
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
)

const (
	StageNew         = "new"
	StageNegotiating = "negotiating"
	StageAccepted    = "accepted"
	StageRejected    = "rejected"
	StageConfirmed   = "confirmed"
	StageProcessing  = "processing"
	StageCompleted   = "completed"
)

var (
	ErrStageNotFound = errors.New("pipeline stage not found")
	ErrCardNotFound  = errors.New("pipeline card not found")
)

// Card is a board entry projected from an estimate or an order.
type Card struct {
	ID         string           `json:"id"`
	Customer   string           `json:"customer,omitempty"`
	Email      string           `json:"email,omitempty"`
	EstimateID *int64           `json:"estimateId,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	Revisions  int              `json:"revisions,omitempty"`
}

type Stage struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Cards []Card `json:"cards"`
}

// DefaultStages returns a fresh, empty board in display order.
func DefaultStages() []Stage {
	return []Stage{
		{ID: StageNew, Name: "New Estimate Sent", Color: "bg-info", Cards: []Card{}},
		{ID: StageNegotiating, Name: "Customer Negotiating", Color: "bg-warning", Cards: []Card{}},
		{ID: StageAccepted, Name: "Customer Accepted", Color: "bg-success", Cards: []Card{}},
		{ID: StageRejected, Name: "Customer Rejected", Color: "bg-destructive", Cards: []Card{}},
		{ID: StageConfirmed, Name: "Order Confirmed", Color: "bg-chart-4", Cards: []Card{}},
		{ID: StageProcessing, Name: "Order Processing", Color: "bg-primary", Cards: []Card{}},
		{ID: StageCompleted, Name: "Completed", Color: "bg-muted-foreground", Cards: []Card{}},
	}
}

func StageForEstimate(s estimate.Status) string {
	switch s {
	case estimate.StatusNegotiating:
		return StageNegotiating
	case estimate.StatusAccepted:
		return StageAccepted
	case estimate.StatusRejected:
		return StageRejected
	default:
		return StageNew
	}
}

func StageForOrder(s order.Status) string {
	switch {
	case s == order.StatusDelivered:
		return StageCompleted
	case s.InProgress():
		return StageProcessing
	default:
		return StageConfirmed
	}
}

func EstimateCardID(id int64) string {
	return "estimate-" + strconv.FormatInt(id, 10)
}

func OrderCardID(id int64) string {
	return "order-" + strconv.FormatInt(id, 10)
}

// CountCards returns the number of cards across all stages.
func CountCards(stages []Stage) int {
	n := 0
	for _, s := range stages {
		n += len(s.Cards)
	}

	return n
}

func cardFromEstimate(e *estimate.Estimate) Card {
	id := e.ID
	amount := e.Totals.Total
	date := e.CreatedAt

	return Card{
		ID:         EstimateCardID(e.ID),
		Customer:   e.Customer.Name,
		Email:      e.Customer.Email,
		EstimateID: &id,
		Amount:     &amount,
		Date:       &date,
		Notes:      e.Notes,
		Revisions:  e.Revisions(),
	}
}

// cardFromOrder builds the order's card, keeping contact details and revisions from an
// existing card for the same deal.
func cardFromOrder(o *order.Order, prev *Card) Card {
	amount := o.Amount

	c := Card{
		Customer: o.Customer,
		Amount:   &amount,
		Notes:    o.Notes,
	}

	if o.EstimateID != nil {
		id := *o.EstimateID
		c.ID = EstimateCardID(id)
		c.EstimateID = &id
	} else {
		c.ID = OrderCardID(o.ID)
	}

	switch {
	case o.ConfirmedDate != nil:
		d := *o.ConfirmedDate
		c.Date = &d
	case !o.CreatedAt.IsZero():
		d := o.CreatedAt
		c.Date = &d
	}

	if prev != nil {
		c.Email = prev.Email
		c.Revisions = prev.Revisions
	}

	return c
}

// findCard returns the card with the given id and the index of its stage, or -1.
func findCard(stages []Stage, cardID string) (*Card, int) {
	for i := range stages {
		for j := range stages[i].Cards {
			if stages[i].Cards[j].ID == cardID {
				c := stages[i].Cards[j]
				return &c, i
			}
		}
	}

	return nil, -1
}

// place removes every copy of the card from the board and appends it to the target stage.
func place(stages []Stage, card Card, target string) ([]Stage, error) {
	idx := stageIndex(stages, target)
	if idx < 0 {
		return nil, ErrStageNotFound
	}

	removeCard(stages, card.ID)
	stages[idx].Cards = append(stages[idx].Cards, card)

	return stages, nil
}

func removeCard(stages []Stage, cardID string) {
	for i := range stages {
		stages[i].Cards = slices.DeleteFunc(stages[i].Cards, func(c Card) bool {
			return c.ID == cardID
		})
	}
}

func stageIndex(stages []Stage, id string) int {
	for i := range stages {
		if stages[i].ID == id {
			return i
		}
	}

	return -1
}

func cloneStages(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	for i, s := range stages {
		s.Cards = slices.Clone(s.Cards)
		out[i] = s
	}

	return out
}

// withDefaults appends any default stage missing from a stored board.
func withDefaults(stages []Stage) []Stage {
	if len(stages) == 0 {
		return DefaultStages()
	}

	for _, def := range DefaultStages() {
		if stageIndex(stages, def.ID) < 0 {
			stages = append(stages, def)
		}
	}

	for i := range stages {
		if stages[i].Cards == nil {
			stages[i].Cards = []Card{}
		}
	}

	return stages
}
