package pipeline

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=pipeline
type Repository interface {
	Get(ctx context.Context) ([]Stage, error)
	Save(ctx context.Context, stages []Stage) error
}

// OrderLookup finds the order created from an estimate, if any.
type OrderLookup interface {
	FindByEstimateID(ctx context.Context, estimateID int64) (*order.Order, error)
}

// Service keeps the board in step with estimates and orders. Every operation loads the whole
// board, changes it and saves it back.
type Service struct {
	repo   Repository
	orders OrderLookup
}

func NewService(repo Repository, orders OrderLookup) *Service {
	return &Service{
		repo:   repo,
		orders: orders,
	}
}

// Board returns the stored board, or the default stages when nothing has been saved yet.
func (s *Service) Board(ctx context.Context) ([]Stage, error) {
	stages, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	return withDefaults(cloneStages(stages)), nil
}

// Save replaces the whole board.
func (s *Service) Save(ctx context.Context, stages []Stage) error {
	return s.repo.Save(ctx, withDefaults(cloneStages(stages)))
}

// SyncFromEstimate places the estimate's card in the stage matching its status. When an order
// already exists for the estimate the order's stage is used instead.
func (s *Service) SyncFromEstimate(ctx context.Context, e *estimate.Estimate) error {
	if s.orders != nil {
		o, err := s.orders.FindByEstimateID(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("looking up order for estimate %d: %w", e.ID, err)
		}

		if o != nil {
			return s.SyncFromOrder(ctx, o)
		}
	}

	return s.update(ctx, func(stages []Stage) ([]Stage, error) {
		return place(stages, cardFromEstimate(e), StageForEstimate(e.Status))
	})
}

// SyncFromOrder places the order's card in the stage matching its status.
func (s *Service) SyncFromOrder(ctx context.Context, o *order.Order) error {
	return s.update(ctx, func(stages []Stage) ([]Stage, error) {
		var prev *Card
		if o.EstimateID != nil {
			prev, _ = findCard(stages, EstimateCardID(*o.EstimateID))
		}

		return place(stages, cardFromOrder(o, prev), StageForOrder(o.Status))
	})
}

// MoveCard moves a card between stages without looking at its estimate or order. The move
// holds until the next status change of the underlying record.
func (s *Service) MoveCard(ctx context.Context, cardID, from, to string) error {
	return s.update(ctx, func(stages []Stage) ([]Stage, error) {
		src := stageIndex(stages, from)
		if src < 0 {
			return nil, fmt.Errorf("%w: %q", ErrStageNotFound, from)
		}

		dst := stageIndex(stages, to)
		if dst < 0 {
			return nil, fmt.Errorf("%w: %q", ErrStageNotFound, to)
		}

		pos := -1
		for i, c := range stages[src].Cards {
			if c.ID == cardID {
				pos = i
				break
			}
		}

		if pos < 0 {
			return nil, fmt.Errorf("%w: %q in stage %q", ErrCardNotFound, cardID, from)
		}

		card := stages[src].Cards[pos]
		stages[src].Cards = append(stages[src].Cards[:pos], stages[src].Cards[pos+1:]...)
		stages[dst].Cards = append(stages[dst].Cards, card)

		return stages, nil
	})
}

// RemoveEstimate drops a deleted estimate's card. The card stays when an order still exists
// for the estimate.
func (s *Service) RemoveEstimate(ctx context.Context, id int64) error {
	if s.orders != nil {
		o, err := s.orders.FindByEstimateID(ctx, id)
		if err != nil {
			return fmt.Errorf("looking up order for estimate %d: %w", id, err)
		}

		if o != nil {
			return nil
		}
	}

	cardID := EstimateCardID(id)

	return s.update(ctx, func(stages []Stage) ([]Stage, error) {
		removeCard(stages, cardID)
		return stages, nil
	})
}

func (s *Service) update(ctx context.Context, fn func([]Stage) ([]Stage, error)) error {
	stages, err := s.Board(ctx)
	if err != nil {
		return fmt.Errorf("loading pipeline: %w", err)
	}

	stages, err = fn(stages)
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, stages); err != nil {
		return fmt.Errorf("saving pipeline: %w", err)
	}

	return nil
}
