package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	// FindByEstimateID returns nil and no error when no order references the estimate.
	FindByEstimateID(ctx context.Context, estimateID int64) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
}

// Projector keeps the pipeline board in step with orders.
type Projector interface {
	SyncFromOrder(ctx context.Context, o *Order) error
}

type Service struct {
	repo  Repository
	board Projector
	now   func() time.Time
}

func NewService(repo Repository, board Projector) *Service {
	return &Service{
		repo:  repo,
		board: board,
		now:   time.Now,
	}
}

// MaterializeFromAcceptedEstimate creates the order for an accepted estimate and returns its id.
//
// The lookup on estimate id makes the call idempotent: when an order already exists it is
// refreshed from the estimate (customer, amount, item count, notes) and keeps its id and its
// fulfillment and payment progress.
func (s *Service) MaterializeFromAcceptedEstimate(ctx context.Context, e *estimate.Estimate) (int64, error) {
	existing, err := s.repo.FindByEstimateID(ctx, e.ID)
	if err != nil {
		return 0, fmt.Errorf("looking up order for estimate %d: %w", e.ID, err)
	}

	if existing != nil {
		existing.Customer = e.Customer.Name
		existing.Amount = e.Totals.Total
		existing.Items = len(e.Items)
		existing.Notes = e.Notes

		if err := s.repo.Update(ctx, existing); err != nil {
			return 0, fmt.Errorf("refreshing order %d: %w", existing.ID, err)
		}

		return existing.ID, nil
	}

	now := s.now()
	estimateID := e.ID

	o := &Order{
		Status:          StatusConfirmed,
		Customer:        e.Customer.Name,
		EstimateID:      &estimateID,
		Amount:          e.Totals.Total,
		Items:           len(e.Items),
		Progress:        0,
		SubStatus:       initialSubStatus,
		PaymentStatus:   PaymentPending,
		PaymentReceived: decimal.Zero,
		ConfirmedDate:   &now,
		Notes:           e.Notes,
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		return 0, fmt.Errorf("creating order for estimate %d: %w", e.ID, err)
	}

	return o.ID, nil
}

type CreateParams struct {
	Status           Status
	Customer         string
	EstimateID       *int64
	Amount           decimal.Decimal
	Items            int
	Progress         int
	SubStatus        string
	PaymentStatus    PaymentStatus
	PaymentReceived  decimal.Decimal
	ConfirmedDate    *time.Time
	ExpectedDelivery *time.Time
	Notes            string
}

// Create stores an order entered by hand. An estimate can back at most one order.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	if params.Status == "" {
		params.Status = StatusConfirmed
	}

	if !params.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
	}

	if params.PaymentStatus == "" {
		params.PaymentStatus = PaymentPending
	}

	if !params.PaymentStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, params.PaymentStatus)
	}

	if params.EstimateID != nil {
		existing, err := s.repo.FindByEstimateID(ctx, *params.EstimateID)
		if err != nil {
			return nil, fmt.Errorf("looking up order for estimate %d: %w", *params.EstimateID, err)
		}

		if existing != nil {
			return nil, fmt.Errorf("%w: estimate %d has order %d", ErrEstimateHasOrder, *params.EstimateID, existing.ID)
		}
	}

	o := &Order{
		Status:           params.Status,
		Customer:         params.Customer,
		EstimateID:       params.EstimateID,
		Amount:           params.Amount,
		Items:            params.Items,
		Progress:         clampProgress(params.Progress),
		SubStatus:        params.SubStatus,
		PaymentStatus:    params.PaymentStatus,
		PaymentReceived:  params.PaymentReceived,
		ConfirmedDate:    params.ConfirmedDate,
		ExpectedDelivery: params.ExpectedDelivery,
		Notes:            params.Notes,
	}

	if o.Status == StatusDelivered {
		o.Progress = 100
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, err
	}

	s.syncBoard(ctx, o)

	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Order, error) {
	return s.repo.List(ctx)
}

// ProgressParams carries a partial fulfillment update; nil fields are left unchanged.
type ProgressParams struct {
	Status           *Status
	SubStatus        *string
	Progress         *int
	PaymentStatus    *PaymentStatus
	PaymentReceived  *decimal.Decimal
	ExpectedDelivery *time.Time
}

// UpdateProgress applies a fulfillment update and moves the order's pipeline card.
func (s *Service) UpdateProgress(ctx context.Context, id int64, params ProgressParams) (*Order, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *params.Status)
	}

	if params.PaymentStatus != nil && !params.PaymentStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, *params.PaymentStatus)
	}

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Status != nil {
		o.Status = *params.Status
	}

	if params.SubStatus != nil {
		o.SubStatus = *params.SubStatus
	}

	if params.Progress != nil {
		o.Progress = clampProgress(*params.Progress)
	}

	if params.PaymentStatus != nil {
		o.PaymentStatus = *params.PaymentStatus
	}

	if params.PaymentReceived != nil {
		o.PaymentReceived = *params.PaymentReceived
	}

	if params.ExpectedDelivery != nil {
		o.ExpectedDelivery = params.ExpectedDelivery
	}

	if o.Status == StatusDelivered {
		o.Progress = 100
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("updating order %d: %w", id, err)
	}

	s.syncBoard(ctx, o)

	return o, nil
}

// Summary is the finance overview across all orders.
type Summary struct {
	Orders          int
	OrderValue      decimal.Decimal
	Received        decimal.Decimal
	Outstanding     decimal.Decimal
	ByPaymentStatus map[PaymentStatus]int
}

func (s *Service) FinanceSummary(ctx context.Context) (*Summary, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	sum := &Summary{
		Orders:          len(orders),
		OrderValue:      decimal.Zero,
		Received:        decimal.Zero,
		Outstanding:     decimal.Zero,
		ByPaymentStatus: make(map[PaymentStatus]int),
	}

	for _, o := range orders {
		sum.OrderValue = sum.OrderValue.Add(o.Amount)
		sum.Received = sum.Received.Add(o.PaymentReceived)
		sum.Outstanding = sum.Outstanding.Add(o.Outstanding())
		sum.ByPaymentStatus[o.PaymentStatus]++
	}

	return sum, nil
}

func (s *Service) syncBoard(ctx context.Context, o *Order) {
	if s.board == nil {
		return
	}

	if err := s.board.SyncFromOrder(ctx, o); err != nil {
		slog.Error("failed to sync pipeline", "order_id", o.ID, "error", err)
	}
}

func clampProgress(p int) int {
	return min(max(p, 0), 100)
}
