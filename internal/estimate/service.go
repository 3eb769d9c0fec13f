package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=estimate
type Repository interface {
	Insert(ctx context.Context, e *Estimate) error
	Get(ctx context.Context, id int64) (*Estimate, error)
	GetByShareToken(ctx context.Context, token uuid.UUID) (*Estimate, error)
	List(ctx context.Context) ([]*Estimate, error)
	UpdateStatus(ctx context.Context, id int64, status Status, history []HistoryEntry) error
	UpdateInternalNotes(ctx context.Context, id int64, notes string) error
	Delete(ctx context.Context, id int64) error
}

// Materializer creates the order that follows an accepted estimate.
type Materializer interface {
	MaterializeFromAcceptedEstimate(ctx context.Context, e *Estimate) (int64, error)
}

// Projector keeps the pipeline board in step with estimates.
type Projector interface {
	SyncFromEstimate(ctx context.Context, e *Estimate) error
	RemoveEstimate(ctx context.Context, id int64) error
}

// CustomerRegistry records customers named on estimates.
type CustomerRegistry interface {
	EnsureCustomer(ctx context.Context, name, email, phone string) error
}

type Service struct {
	repo      Repository
	orders    Materializer
	board     Projector
	customers CustomerRegistry
	now       func() time.Time
}

func NewService(repo Repository, orders Materializer, board Projector, customers CustomerRegistry) *Service {
	return &Service{
		repo:      repo,
		orders:    orders,
		board:     board,
		customers: customers,
		now:       time.Now,
	}
}

type CreateParams struct {
	Status        Status
	SendAs        SendAs
	Identity      Identity
	Customer      Customer
	TemplateID    string
	Items         []pricing.LineItem
	TaxRate       decimal.Decimal
	TaxEnabled    bool
	Notes         string
	InternalNotes string
}

// Create prices and stores a new estimate. Margin is authoritative: each item's selling price
// is derived from cost and margin. Items without a cost keep the selling price as entered.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Estimate, error) {
	if !params.Status.IsInitial() {
		return nil, fmt.Errorf("%w: new estimates start as draft or submitted, got %q", ErrInvalidStatus, params.Status)
	}

	items := make([]pricing.LineItem, len(params.Items))
	for i, item := range params.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d: quantity must be at least 1, got %d", ErrInvalidItem, i+1, item.Quantity)
		}

		items[i] = priceItem(item)
	}

	e := &Estimate{
		ShareToken:    uuid.New(),
		Status:        params.Status,
		SendAs:        params.SendAs,
		Identity:      params.Identity,
		Customer:      params.Customer,
		TemplateID:    params.TemplateID,
		Items:         items,
		Totals:        pricing.ComputeTotals(items, params.TaxRate, params.TaxEnabled),
		TaxEnabled:    params.TaxEnabled,
		Notes:         params.Notes,
		InternalNotes: params.InternalNotes,
		History:       []HistoryEntry{},
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(e.Customer.Name); name != "" && s.customers != nil {
		if err := s.customers.EnsureCustomer(ctx, name, e.Customer.Email, e.Customer.Phone); err != nil {
			slog.Error("failed to register customer", "estimate_id", e.ID, "customer", name, "error", err)
		}
	}

	s.syncBoard(ctx, e)

	return e, nil
}

func priceItem(item pricing.LineItem) pricing.LineItem {
	if item.CostPrice.IsPositive() {
		return pricing.ComputeLineItem(item, pricing.FieldMargin)
	}

	return pricing.ComputeLineItem(item, pricing.FieldSellingPrice)
}

func (s *Service) Get(ctx context.Context, id int64) (*Estimate, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Estimate, error) {
	return s.repo.List(ctx)
}

// SetStatus records a status change and runs its side effects once the change is stored.
//
// Accepting an estimate materializes its order and then re-projects the board. A failed
// materialization does not undo the status change: the updated estimate is returned together
// with an error wrapping ErrOrderNotMaterialized.
func (s *Service) SetStatus(ctx context.Context, id int64, status Status) (*Estimate, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	history := append(e.History, HistoryEntry{Status: status, At: s.now()})

	if err := s.repo.UpdateStatus(ctx, id, status, history); err != nil {
		return nil, fmt.Errorf("updating estimate %d status: %w", id, err)
	}

	e.Status = status
	e.History = history

	var sideErr error

	if status == StatusAccepted && s.orders != nil {
		if _, err := s.orders.MaterializeFromAcceptedEstimate(ctx, e); err != nil {
			slog.Error("failed to materialize order", "estimate_id", id, "error", err)
			sideErr = fmt.Errorf("%w: %w", ErrOrderNotMaterialized, err)
		}
	}

	s.syncBoard(ctx, e)

	return e, sideErr
}

// Delete removes an estimate. Deleting an unknown id is not an error. Orders that reference
// the estimate are left in place.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.board != nil {
		if err := s.board.RemoveEstimate(ctx, id); err != nil {
			slog.Error("failed to remove estimate from pipeline", "estimate_id", id, "error", err)
		}
	}

	return nil
}

// ViewShared loads an estimate through its share link. The first view of a sent estimate
// marks it as viewed.
func (s *Service) ViewShared(ctx context.Context, token uuid.UUID) (*Estimate, error) {
	e, err := s.repo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if e.Status != StatusSent {
		return e, nil
	}

	return s.SetStatus(ctx, e.ID, StatusViewed)
}

// Decision is a customer's answer on a shared estimate.
type Decision string

const (
	DecisionAccept    Decision = "accept"
	DecisionReject    Decision = "reject"
	DecisionNegotiate Decision = "negotiate"
)

func (d Decision) status() (Status, bool) {
	switch d {
	case DecisionAccept:
		return StatusAccepted, true
	case DecisionReject:
		return StatusRejected, true
	case DecisionNegotiate:
		return StatusNegotiating, true
	}

	return "", false
}

type Response struct {
	Decision Decision
	Message  string
}

// Respond applies a customer's decision made through the share link. A message is kept in
// the internal notes before the status changes.
func (s *Service) Respond(ctx context.Context, token uuid.UUID, resp Response) (*Estimate, error) {
	status, ok := resp.Decision.status()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, resp.Decision)
	}

	e, err := s.repo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if msg := strings.TrimSpace(resp.Message); msg != "" {
		notes := "Customer (" + string(resp.Decision) + "): " + msg
		if e.InternalNotes != "" {
			notes = e.InternalNotes + "\n" + notes
		}

		if err := s.repo.UpdateInternalNotes(ctx, e.ID, notes); err != nil {
			return nil, fmt.Errorf("saving customer message: %w", err)
		}
	}

	return s.SetStatus(ctx, e.ID, status)
}

func (s *Service) syncBoard(ctx context.Context, e *Estimate) {
	if s.board == nil {
		return
	}

	if err := s.board.SyncFromEstimate(ctx, e); err != nil {
		slog.Error("failed to sync pipeline", "estimate_id", e.ID, "error", err)
	}
}
