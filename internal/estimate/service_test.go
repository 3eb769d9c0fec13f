package estimate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
	"github.com/MrJamesThe3rd/dealdesk/internal/storage"
)

type mocks struct {
	repo      *estimate.MockRepository
	orders    *estimate.MockMaterializer
	board     *estimate.MockProjector
	customers *estimate.MockCustomerRegistry
}

func newService(t *testing.T) (*estimate.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:      estimate.NewMockRepository(ctrl),
		orders:    estimate.NewMockMaterializer(ctrl),
		board:     estimate.NewMockProjector(ctrl),
		customers: estimate.NewMockCustomerRegistry(ctrl),
	}

	return estimate.NewService(m.repo, m.orders, m.board, m.customers), m
}

func storedEstimate(status estimate.Status) *estimate.Estimate {
	return &estimate.Estimate{
		ID:         7,
		ShareToken: uuid.New(),
		Status:     status,
		Customer:   estimate.Customer{Name: "Acme Corp", Email: "buyer@acme.test"},
		Items: []pricing.LineItem{
			{Quantity: 2, CostPrice: decimal.NewFromInt(100), Margin: decimal.NewFromInt(25), SellingPrice: decimal.NewFromInt(125)},
		},
		Totals: pricing.ComputeTotals(
			[]pricing.LineItem{{Quantity: 2, CostPrice: decimal.NewFromInt(100), SellingPrice: decimal.NewFromInt(125)}},
			decimal.NewFromInt(18), true,
		),
		TaxEnabled: true,
		CreatedAt:  time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC),
		History:    []estimate.HistoryEntry{},
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    estimate.CreateParams
		setupMock func(m mocks)
		wantErr   error
	}

	validParams := estimate.CreateParams{
		Status:   estimate.StatusSubmitted,
		SendAs:   estimate.SendAsCompany,
		Identity: estimate.Identity{Type: "company", Name: "Northwind Supplies"},
		Customer: estimate.Customer{Name: "Acme Corp", Email: "buyer@acme.test"},
		Items: []pricing.LineItem{
			{Description: "Motor unit", Quantity: 2, CostPrice: decimal.NewFromInt(100), Margin: decimal.NewFromInt(25)},
		},
		TaxRate:    decimal.NewFromInt(18),
		TaxEnabled: true,
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams,
			setupMock: func(m mocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *estimate.Estimate) error {
						e.ID = 1
						e.CreatedAt = time.Now()
						return nil
					})
				m.customers.EXPECT().EnsureCustomer(gomock.Any(), "Acme Corp", "buyer@acme.test", "").Return(nil)
				m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "SideEffectFailuresAreNotFatal",
			params: validParams,
			setupMock: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				m.customers.EXPECT().EnsureCustomer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
				m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name: "RejectsZeroQuantity",
			params: estimate.CreateParams{
				Status: estimate.StatusDraft,
				Items:  []pricing.LineItem{{Description: "Motor unit", Quantity: 0, CostPrice: decimal.NewFromInt(100)}},
			},
			wantErr: estimate.ErrInvalidItem,
		},
		{
			name: "RejectsNonInitialStatus",
			params: estimate.CreateParams{
				Status: estimate.StatusAccepted,
			},
			wantErr: estimate.ErrInvalidStatus,
		},
		{
			name:   "RepoError",
			params: validParams,
			setupMock: func(m mocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(storage.Unavailable("inserting estimate", errors.New("connection refused")))
			},
			wantErr: storage.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, estimate.StatusSubmitted, got.Status)
			assert.Empty(t, got.History)
			assert.NotEqual(t, uuid.Nil, got.ShareToken)

			assert.True(t, decimal.NewFromInt(125).Equal(got.Items[0].SellingPrice))
			assert.True(t, decimal.NewFromInt(25).Equal(got.Items[0].Margin))
			assert.True(t, decimal.NewFromInt(250).Equal(got.Totals.Subtotal))
			assert.True(t, decimal.NewFromInt(45).Equal(got.Totals.Tax))
			assert.True(t, decimal.NewFromInt(295).Equal(got.Totals.Total))
			assert.True(t, decimal.NewFromInt(200).Equal(got.Totals.TotalCost))
			assert.True(t, decimal.NewFromInt(50).Equal(got.Totals.TotalProfit))
		})
	}
}

func TestService_Create_Pricing(t *testing.T) {
	type testCase struct {
		name       string
		item       pricing.LineItem
		wantPrice  decimal.Decimal
		wantMargin decimal.Decimal
	}

	tests := []testCase{
		{
			name:       "SellingPriceFollowsMargin",
			item:       pricing.LineItem{Quantity: 1, CostPrice: decimal.NewFromInt(100), Margin: decimal.NewFromInt(25), SellingPrice: decimal.NewFromInt(999)},
			wantPrice:  decimal.NewFromInt(125),
			wantMargin: decimal.NewFromInt(25),
		},
		{
			name:       "MissingSellingPriceIsDerived",
			item:       pricing.LineItem{Quantity: 3, CostPrice: decimal.NewFromInt(40), Margin: decimal.NewFromInt(50)},
			wantPrice:  decimal.NewFromInt(60),
			wantMargin: decimal.NewFromInt(50),
		},
		{
			name:       "NoCostKeepsEnteredPrice",
			item:       pricing.LineItem{Quantity: 1, Margin: decimal.NewFromInt(25), SellingPrice: decimal.NewFromInt(80)},
			wantPrice:  decimal.NewFromInt(80),
			wantMargin: decimal.NewFromInt(25),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newService(t)
			m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(nil)

			got, err := svc.Create(context.Background(), estimate.CreateParams{
				Status:     estimate.StatusDraft,
				Items:      []pricing.LineItem{tc.item},
				TaxRate:    decimal.NewFromInt(18),
				TaxEnabled: true,
			})
			require.NoError(t, err)

			assert.True(t, tc.wantPrice.Equal(got.Items[0].SellingPrice), "selling price %s", got.Items[0].SellingPrice)
			assert.True(t, tc.wantMargin.Equal(got.Items[0].Margin), "margin %s", got.Items[0].Margin)
		})
	}
}

func TestService_SetStatus(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.EXPECT().Get(gomock.Any(), int64(99)).Return(nil, estimate.ErrNotFound)

		got, err := svc.SetStatus(context.Background(), 99, estimate.StatusSent)

		assert.ErrorIs(t, err, estimate.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.SetStatus(context.Background(), 7, estimate.Status("archived"))

		assert.ErrorIs(t, err, estimate.ErrInvalidStatus)
	})

	t.Run("AppendsExactlyOneHistoryEntry", func(t *testing.T) {
		svc, m := newService(t)
		stored := storedEstimate(estimate.StatusSent)
		stored.History = []estimate.HistoryEntry{{Status: estimate.StatusSent, At: time.Now().Add(-time.Hour)}}

		m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(stored, nil)
		m.repo.EXPECT().
			UpdateStatus(gomock.Any(), int64(7), estimate.StatusNegotiating, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ estimate.Status, history []estimate.HistoryEntry) error {
				require.Len(t, history, 2)
				assert.Equal(t, estimate.StatusNegotiating, history[1].Status)
				assert.False(t, history[1].At.IsZero())
				return nil
			})
		m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.SetStatus(context.Background(), 7, estimate.StatusNegotiating)

		require.NoError(t, err)
		assert.Equal(t, estimate.StatusNegotiating, got.Status)
		assert.Len(t, got.History, 2)
		assert.Equal(t, 1, got.Revisions())
	})

	t.Run("AcceptedMaterializesThenSyncs", func(t *testing.T) {
		svc, m := newService(t)
		stored := storedEstimate(estimate.StatusSubmitted)

		gomock.InOrder(
			m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(stored, nil),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), estimate.StatusAccepted, gomock.Any()).Return(nil),
			m.orders.EXPECT().
				MaterializeFromAcceptedEstimate(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, e *estimate.Estimate) (int64, error) {
					assert.Equal(t, estimate.StatusAccepted, e.Status)
					return 3, nil
				}),
			m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(nil),
		)

		got, err := svc.SetStatus(context.Background(), 7, estimate.StatusAccepted)

		require.NoError(t, err)
		assert.Equal(t, estimate.StatusAccepted, got.Status)
	})

	t.Run("MaterializationFailureKeepsStatus", func(t *testing.T) {
		svc, m := newService(t)
		stored := storedEstimate(estimate.StatusSubmitted)

		m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(stored, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), estimate.StatusAccepted, gomock.Any()).Return(nil)
		m.orders.EXPECT().
			MaterializeFromAcceptedEstimate(gomock.Any(), gomock.Any()).
			Return(int64(0), storage.Unavailable("inserting order", errors.New("timeout")))
		m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.SetStatus(context.Background(), 7, estimate.StatusAccepted)

		assert.ErrorIs(t, err, estimate.ErrOrderNotMaterialized)
		assert.ErrorIs(t, err, storage.ErrUnavailable)
		require.NotNil(t, got)
		assert.Equal(t, estimate.StatusAccepted, got.Status)
	})

	t.Run("StatusWriteFailureSkipsSideEffects", func(t *testing.T) {
		svc, m := newService(t)
		stored := storedEstimate(estimate.StatusSubmitted)

		m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(stored, nil)
		m.repo.EXPECT().
			UpdateStatus(gomock.Any(), int64(7), estimate.StatusAccepted, gomock.Any()).
			Return(storage.Unavailable("updating status", errors.New("timeout")))

		got, err := svc.SetStatus(context.Background(), 7, estimate.StatusAccepted)

		assert.ErrorIs(t, err, storage.ErrUnavailable)
		assert.Nil(t, got)
	})

	t.Run("ProjectorFailureIsNotFatal", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(storedEstimate(estimate.StatusDraft), nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), estimate.StatusRejected, gomock.Any()).Return(nil)
		m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(errors.New("board unavailable"))

		got, err := svc.SetStatus(context.Background(), 7, estimate.StatusRejected)

		require.NoError(t, err)
		assert.Equal(t, estimate.StatusRejected, got.Status)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("MissingIDIsNotAnError", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.EXPECT().Delete(gomock.Any(), int64(404)).Return(nil)
		m.board.EXPECT().RemoveEstimate(gomock.Any(), int64(404)).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), 404))
	})

	t.Run("RepoError", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(errors.New("db error"))

		assert.Error(t, svc.Delete(context.Background(), 1))
	})
}

func TestService_ViewShared(t *testing.T) {
	t.Run("SentBecomesViewed", func(t *testing.T) {
		svc, m := newService(t)
		stored := storedEstimate(estimate.StatusSent)

		m.repo.EXPECT().GetByShareToken(gomock.Any(), stored.ShareToken).Return(stored, nil)
		m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(stored, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), estimate.StatusViewed, gomock.Any()).Return(nil)
		m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.ViewShared(context.Background(), stored.ShareToken)

		require.NoError(t, err)
		assert.Equal(t, estimate.StatusViewed, got.Status)
	})

	t.Run("OtherStatusesUntouched", func(t *testing.T) {
		svc, m := newService(t)
		stored := storedEstimate(estimate.StatusNegotiating)

		m.repo.EXPECT().GetByShareToken(gomock.Any(), stored.ShareToken).Return(stored, nil)

		got, err := svc.ViewShared(context.Background(), stored.ShareToken)

		require.NoError(t, err)
		assert.Equal(t, estimate.StatusNegotiating, got.Status)
	})
}

func TestService_Respond(t *testing.T) {
	t.Run("NegotiateKeepsMessage", func(t *testing.T) {
		svc, m := newService(t)
		stored := storedEstimate(estimate.StatusViewed)
		stored.InternalNotes = "call before Friday"

		m.repo.EXPECT().GetByShareToken(gomock.Any(), stored.ShareToken).Return(stored, nil)
		m.repo.EXPECT().
			UpdateInternalNotes(gomock.Any(), int64(7), "call before Friday\nCustomer (negotiate): can you do 10% less?").
			Return(nil)
		m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(stored, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), int64(7), estimate.StatusNegotiating, gomock.Any()).Return(nil)
		m.board.EXPECT().SyncFromEstimate(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Respond(context.Background(), stored.ShareToken, estimate.Response{
			Decision: estimate.DecisionNegotiate,
			Message:  " can you do 10% less? ",
		})

		require.NoError(t, err)
		assert.Equal(t, estimate.StatusNegotiating, got.Status)
	})

	t.Run("UnknownDecision", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Respond(context.Background(), uuid.New(), estimate.Response{Decision: "maybe"})

		assert.ErrorIs(t, err, estimate.ErrInvalidDecision)
	})
}

func TestParseStatus(t *testing.T) {
	for _, s := range estimate.Statuses {
		got, err := estimate.ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := estimate.ParseStatus("ACCEPTED")
	assert.ErrorIs(t, err, estimate.ErrInvalidStatus)
}
