// Package reconcile repairs the state a crash can leave between an estimate status write and
// its side effects: accepted estimates without an order, and a board that no longer matches
// its estimates and orders.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
)

type EstimateLister interface {
	List(ctx context.Context) ([]*estimate.Estimate, error)
}

type OrderStore interface {
	List(ctx context.Context) ([]*order.Order, error)
	FindByEstimateID(ctx context.Context, estimateID int64) (*order.Order, error)
}

type Materializer interface {
	MaterializeFromAcceptedEstimate(ctx context.Context, e *estimate.Estimate) (int64, error)
}

type Projector interface {
	SyncFromEstimate(ctx context.Context, e *estimate.Estimate) error
	SyncFromOrder(ctx context.Context, o *order.Order) error
}

type Report struct {
	Estimates         int
	Orders            int
	OrdersCreated     int
	CardsSynced       int
	MaterializeFailed []int64
	SyncFailed        []string
}

type Reconciler struct {
	estimates    EstimateLister
	orders       OrderStore
	materializer Materializer
	board        Projector
}

func New(estimates EstimateLister, orders OrderStore, materializer Materializer, board Projector) *Reconciler {
	return &Reconciler{
		estimates:    estimates,
		orders:       orders,
		materializer: materializer,
		board:        board,
	}
}

// Run creates missing orders for accepted estimates and then re-projects every estimate and
// order onto the board. Per-record failures are collected in the report; only failing to
// list estimates or orders aborts the run.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	estimates, err := r.estimates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing estimates: %w", err)
	}

	report := &Report{Estimates: len(estimates)}

	for _, e := range estimates {
		if e.Status != estimate.StatusAccepted {
			continue
		}

		existing, err := r.orders.FindByEstimateID(ctx, e.ID)
		if err != nil {
			slog.Error("failed to look up order", "estimate_id", e.ID, "error", err)
			report.MaterializeFailed = append(report.MaterializeFailed, e.ID)

			continue
		}

		if existing != nil {
			continue
		}

		id, err := r.materializer.MaterializeFromAcceptedEstimate(ctx, e)
		if err != nil {
			slog.Error("failed to materialize order", "estimate_id", e.ID, "error", err)
			report.MaterializeFailed = append(report.MaterializeFailed, e.ID)

			continue
		}

		slog.Info("created missing order", "estimate_id", e.ID, "order_id", id)
		report.OrdersCreated++
	}

	for _, e := range estimates {
		if err := r.board.SyncFromEstimate(ctx, e); err != nil {
			slog.Error("failed to sync estimate card", "estimate_id", e.ID, "error", err)
			report.SyncFailed = append(report.SyncFailed, fmt.Sprintf("estimate-%d", e.ID))

			continue
		}

		report.CardsSynced++
	}

	orders, err := r.orders.List(ctx)
	if err != nil {
		return report, fmt.Errorf("listing orders: %w", err)
	}

	report.Orders = len(orders)

	for _, o := range orders {
		if err := r.board.SyncFromOrder(ctx, o); err != nil {
			slog.Error("failed to sync order card", "order_id", o.ID, "error", err)
			report.SyncFailed = append(report.SyncFailed, fmt.Sprintf("order-%d", o.ID))

			continue
		}

		report.CardsSynced++
	}

	return report, nil
}
