package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/storage"
)

type mocks struct {
	repo   *pipeline.MockRepository
	orders *pipeline.MockOrderLookup
	board  []pipeline.Stage
}

// newService backs the mocked repository with m.board so tests can inspect what was saved.
func newService(t *testing.T, initial []pipeline.Stage) (*pipeline.Service, *mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &mocks{
		repo:   pipeline.NewMockRepository(ctrl),
		orders: pipeline.NewMockOrderLookup(ctrl),
		board:  initial,
	}

	m.repo.EXPECT().Get(gomock.Any()).DoAndReturn(func(context.Context) ([]pipeline.Stage, error) {
		return m.board, nil
	}).AnyTimes()
	m.repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, stages []pipeline.Stage) error {
		m.board = stages
		return nil
	}).AnyTimes()

	return pipeline.NewService(m.repo, m.orders), m
}

func stageOf(t *testing.T, stages []pipeline.Stage, cardID string) string {
	t.Helper()

	found := ""
	for _, s := range stages {
		for _, c := range s.Cards {
			if c.ID == cardID {
				require.Empty(t, found, "card %s is on more than one stage", cardID)
				found = s.ID
			}
		}
	}

	return found
}

func sampleEstimate(id int64, status estimate.Status) *estimate.Estimate {
	return &estimate.Estimate{
		ID:        id,
		Status:    status,
		Customer:  estimate.Customer{Name: "Acme Corp", Email: "buyer@acme.test"},
		Notes:     "Rush job",
		CreatedAt: time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestStageForEstimate(t *testing.T) {
	tests := map[estimate.Status]string{
		estimate.StatusDraft:       pipeline.StageNew,
		estimate.StatusSubmitted:   pipeline.StageNew,
		estimate.StatusSent:        pipeline.StageNew,
		estimate.StatusViewed:      pipeline.StageNew,
		estimate.StatusNegotiating: pipeline.StageNegotiating,
		estimate.StatusAccepted:    pipeline.StageAccepted,
		estimate.StatusRejected:    pipeline.StageRejected,
	}

	for status, want := range tests {
		assert.Equal(t, want, pipeline.StageForEstimate(status), "status %s", status)
	}
}

func TestStageForOrder(t *testing.T) {
	tests := map[order.Status]string{
		order.StatusConfirmed:  pipeline.StageConfirmed,
		order.StatusSourcing:   pipeline.StageProcessing,
		order.StatusProcessing: pipeline.StageProcessing,
		order.StatusReady:      pipeline.StageProcessing,
		order.StatusDelivered:  pipeline.StageCompleted,
	}

	for status, want := range tests {
		assert.Equal(t, want, pipeline.StageForOrder(status), "status %s", status)
	}
}

func TestService_Board(t *testing.T) {
	t.Run("EmptyReturnsDefaults", func(t *testing.T) {
		svc, _ := newService(t, nil)

		stages, err := svc.Board(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pipeline.DefaultStages(), stages)
	})

	t.Run("AppendsMissingDefaults", func(t *testing.T) {
		svc, _ := newService(t, []pipeline.Stage{
			{ID: "new", Name: "Fresh", Color: "bg-info", Cards: []pipeline.Card{{ID: "estimate-1"}}},
		})

		stages, err := svc.Board(context.Background())
		require.NoError(t, err)
		require.Len(t, stages, len(pipeline.DefaultStages()))
		assert.Equal(t, "Fresh", stages[0].Name)
		assert.Len(t, stages[0].Cards, 1)
	})

	t.Run("StoreError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := pipeline.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any()).Return(nil, storage.Unavailable("loading pipeline", errors.New("timeout")))

		_, err := pipeline.NewService(repo, nil).Board(context.Background())
		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})
}

func TestService_SyncFromEstimate(t *testing.T) {
	t.Run("NewEstimateLandsInNew", func(t *testing.T) {
		svc, m := newService(t, nil)
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(4)).Return(nil, nil)

		require.NoError(t, svc.SyncFromEstimate(context.Background(), sampleEstimate(4, estimate.StatusSubmitted)))

		assert.Equal(t, pipeline.StageNew, stageOf(t, m.board, "estimate-4"))
		assert.Equal(t, 1, pipeline.CountCards(m.board))

		card := m.board[0].Cards[0]
		assert.Equal(t, "Acme Corp", card.Customer)
		assert.Equal(t, "buyer@acme.test", card.Email)
		require.NotNil(t, card.EstimateID)
		assert.Equal(t, int64(4), *card.EstimateID)
	})

	t.Run("NegotiatingMovesCard", func(t *testing.T) {
		svc, m := newService(t, nil)
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(4)).Return(nil, nil).Times(2)

		e := sampleEstimate(4, estimate.StatusSubmitted)
		require.NoError(t, svc.SyncFromEstimate(context.Background(), e))

		e.Status = estimate.StatusNegotiating
		e.History = []estimate.HistoryEntry{{Status: estimate.StatusNegotiating, At: time.Now()}}
		require.NoError(t, svc.SyncFromEstimate(context.Background(), e))

		assert.Equal(t, pipeline.StageNegotiating, stageOf(t, m.board, "estimate-4"))
		assert.Equal(t, 1, pipeline.CountCards(m.board))
		assert.Empty(t, m.board[0].Cards)
		assert.Equal(t, 1, m.board[1].Cards[0].Revisions)
	})

	t.Run("Idempotent", func(t *testing.T) {
		svc, m := newService(t, nil)
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

		e := sampleEstimate(9, estimate.StatusRejected)
		require.NoError(t, svc.SyncFromEstimate(context.Background(), e))
		first := pipeline.CountCards(m.board)

		require.NoError(t, svc.SyncFromEstimate(context.Background(), e))
		assert.Equal(t, first, pipeline.CountCards(m.board))
		assert.Equal(t, pipeline.StageRejected, stageOf(t, m.board, "estimate-9"))
	})

	t.Run("OrderStageWins", func(t *testing.T) {
		svc, m := newService(t, nil)
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(4)).Return(&order.Order{
			ID:         2,
			Status:     order.StatusConfirmed,
			Customer:   "Acme Corp",
			EstimateID: new(int64(4)),
			Amount:     decimal.NewFromInt(295),
		}, nil)

		require.NoError(t, svc.SyncFromEstimate(context.Background(), sampleEstimate(4, estimate.StatusAccepted)))

		assert.Equal(t, pipeline.StageConfirmed, stageOf(t, m.board, "estimate-4"))
	})

	t.Run("LookupError", func(t *testing.T) {
		svc, m := newService(t, nil)
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), gomock.Any()).Return(nil, storage.ErrUnavailable)

		err := svc.SyncFromEstimate(context.Background(), sampleEstimate(4, estimate.StatusAccepted))
		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})
}

func TestService_SyncFromOrder(t *testing.T) {
	t.Run("ReusesEstimateCard", func(t *testing.T) {
		svc, m := newService(t, nil)
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(4)).Return(nil, nil)

		e := sampleEstimate(4, estimate.StatusAccepted)
		require.NoError(t, svc.SyncFromEstimate(context.Background(), e))
		require.Equal(t, pipeline.StageAccepted, stageOf(t, m.board, "estimate-4"))

		o := &order.Order{ID: 2, Status: order.StatusProcessing, Customer: "Acme Corp", EstimateID: new(int64(4))}
		require.NoError(t, svc.SyncFromOrder(context.Background(), o))

		assert.Equal(t, pipeline.StageProcessing, stageOf(t, m.board, "estimate-4"))
		assert.Equal(t, 1, pipeline.CountCards(m.board))

		card := m.board[5].Cards[0]
		assert.Equal(t, "buyer@acme.test", card.Email)
	})

	t.Run("ManualOrderGetsOwnCard", func(t *testing.T) {
		svc, m := newService(t, nil)

		o := &order.Order{ID: 8, Status: order.StatusDelivered, Customer: "Globex"}
		require.NoError(t, svc.SyncFromOrder(context.Background(), o))

		assert.Equal(t, pipeline.StageCompleted, stageOf(t, m.board, "order-8"))
	})
}

func TestService_MoveCard(t *testing.T) {
	board := func() []pipeline.Stage {
		stages := pipeline.DefaultStages()
		stages[0].Cards = []pipeline.Card{{ID: "estimate-1"}, {ID: "estimate-2"}, {ID: "estimate-3"}}
		stages[1].Cards = []pipeline.Card{{ID: "estimate-4"}}
		return stages
	}

	type testCase struct {
		name    string
		cardID  string
		from    string
		to      string
		wantErr error
	}

	tests := []testCase{
		{name: "Success", cardID: "estimate-2", from: "new", to: "accepted"},
		{name: "SameStage", cardID: "estimate-1", from: "new", to: "new"},
		{name: "UnknownSource", cardID: "estimate-2", from: "lost", to: "new", wantErr: pipeline.ErrStageNotFound},
		{name: "UnknownTarget", cardID: "estimate-2", from: "new", to: "lost", wantErr: pipeline.ErrStageNotFound},
		{name: "CardNotInSource", cardID: "estimate-4", from: "new", to: "accepted", wantErr: pipeline.ErrCardNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newService(t, board())
			before := pipeline.CountCards(m.board)

			err := svc.MoveCard(context.Background(), tc.cardID, tc.from, tc.to)

			assert.Equal(t, before, pipeline.CountCards(m.board))

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.to, stageOf(t, m.board, tc.cardID))
		})
	}

	t.Run("KeepsOrderOfRemainingCards", func(t *testing.T) {
		svc, m := newService(t, board())

		require.NoError(t, svc.MoveCard(context.Background(), "estimate-2", "new", "accepted"))

		ids := []string{}
		for _, c := range m.board[0].Cards {
			ids = append(ids, c.ID)
		}

		assert.Equal(t, []string{"estimate-1", "estimate-3"}, ids)
	})

	t.Run("OverwrittenBySync", func(t *testing.T) {
		svc, m := newService(t, board())
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(1)).Return(nil, nil)

		require.NoError(t, svc.MoveCard(context.Background(), "estimate-1", "new", "rejected"))
		require.NoError(t, svc.SyncFromEstimate(context.Background(), sampleEstimate(1, estimate.StatusNegotiating)))

		assert.Equal(t, pipeline.StageNegotiating, stageOf(t, m.board, "estimate-1"))
	})
}

func TestService_RemoveEstimate(t *testing.T) {
	board := func() []pipeline.Stage {
		stages := pipeline.DefaultStages()
		stages[2].Cards = []pipeline.Card{{ID: "estimate-1"}, {ID: "estimate-2"}}
		return stages
	}

	t.Run("DropsCard", func(t *testing.T) {
		svc, m := newService(t, board())
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(1)).Return(nil, nil)

		require.NoError(t, svc.RemoveEstimate(context.Background(), 1))
		assert.Empty(t, stageOf(t, m.board, "estimate-1"))
		assert.Equal(t, 1, pipeline.CountCards(m.board))
	})

	t.Run("KeepsCardWithOrder", func(t *testing.T) {
		svc, m := newService(t, board())
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(1)).Return(&order.Order{ID: 3}, nil)

		require.NoError(t, svc.RemoveEstimate(context.Background(), 1))
		assert.Equal(t, 2, pipeline.CountCards(m.board))
	})

	t.Run("UnknownEstimate", func(t *testing.T) {
		svc, m := newService(t, board())
		m.orders.EXPECT().FindByEstimateID(gomock.Any(), int64(99)).Return(nil, nil)

		require.NoError(t, svc.RemoveEstimate(context.Background(), 99))
		assert.Equal(t, 2, pipeline.CountCards(m.board))
	})
}
