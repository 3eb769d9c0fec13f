package httpx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
	"github.com/MrJamesThe3rd/dealdesk/internal/storage"
)

func TestStatus(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{name: "NotFound", err: fmt.Errorf("loading: %w", estimate.ErrNotFound), want: http.StatusNotFound},
		{name: "OrderNotFound", err: order.ErrNotFound, want: http.StatusNotFound},
		{name: "InvalidStatus", err: estimate.ErrInvalidStatus, want: http.StatusBadRequest},
		{name: "Malformed", err: httpx.ErrMalformed, want: http.StatusBadRequest},
		{name: "Unavailable", err: storage.Unavailable("getting estimate", errors.New("dial tcp")), want: http.StatusServiceUnavailable},
		{name: "NotMaterialized", err: fmt.Errorf("%w: boom", estimate.ErrOrderNotMaterialized), want: http.StatusBadGateway},
		{name: "InvalidTransition", err: estimate.ErrInvalidTransition, want: http.StatusConflict},
		{name: "EstimateHasOrder", err: fmt.Errorf("%w: estimate 7", order.ErrEstimateHasOrder), want: http.StatusConflict},
		{name: "InvalidItem", err: estimate.ErrInvalidItem, want: http.StatusBadRequest},
		{name: "Unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, httpx.Status(tc.err))
		})
	}
}

type itemRequest struct {
	Quantity  int             `json:"quantity" validate:"min=1"`
	CostPrice decimal.Decimal `json:"costPrice" validate:"gte=0"`
}

type payload struct {
	Name  string        `json:"name" validate:"required"`
	Items []itemRequest `json:"items" validate:"dive"`
}

func TestDecode(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","items":[{"quantity":1,"costPrice":"10.50"}]}`))

		var p payload
		require.NoError(t, httpx.Decode(req, &p))
		assert.True(t, p.Items[0].CostPrice.Equal(decimal.RequireFromString("10.5")))
	})

	t.Run("Malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

		var p payload
		assert.ErrorIs(t, httpx.Decode(req, &p), httpx.ErrMalformed)
	})

	t.Run("ValidationDetails", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"quantity":0,"costPrice":-1}]}`))

		var p payload
		err := httpx.Decode(req, &p)
		require.Error(t, err)

		rec := httptest.NewRecorder()
		httpx.Error(rec, req, err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body httpx.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "validation failed", body.Error)
		assert.Equal(t, "required", body.Details["payload.name"])
		assert.Equal(t, "min", body.Details["payload.items[0].quantity"])
		assert.Equal(t, "gte", body.Details["payload.items[0].costPrice"])
	})
}

func TestError_HidesInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()

	httpx.Error(rec, req, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
