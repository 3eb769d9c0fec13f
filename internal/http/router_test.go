package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/app"
	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	dealdeskHttp "github.com/MrJamesThe3rd/dealdesk/internal/http"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/dto"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/httpx"
)

const estimateBody = `{
	"status": "submitted",
	"sendAs": "company",
	"identity": {"type": "company", "name": "DealDesk Lda"},
	"customer": {"name": "Acme Corp", "email": "buyer@acme.test"},
	"items": [{"description": "Widget", "quantity": 2, "costPrice": 100, "margin": 25, "sellingPrice": 125}]
}`

type board struct {
	Stages []struct {
		ID    string `json:"id"`
		Cards []struct {
			ID string `json:"id"`
		} `json:"cards"`
	} `json:"stages"`
}

func newRouter(m *auth.Manager) http.Handler {
	svcs := app.NewServices(app.MemoryRepositories())

	return svcs.Router(m, dealdeskHttp.Options{PublicRateLimit: 100})
}

func do(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func stageOf(b board, cardID string) string {
	for _, s := range b.Stages {
		for _, c := range s.Cards {
			if c.ID == cardID {
				return s.ID
			}
		}
	}

	return ""
}

func TestRouter_AcceptEstimateCreatesOrder(t *testing.T) {
	h := newRouter(nil)

	rec := do(t, h, http.MethodPost, "/api/v1/estimates", estimateBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[dto.Estimate](t, rec)
	assert.True(t, created.Totals.Total.Equal(decimal.NewFromInt(295)))

	path := "/api/v1/estimates/" + strconv.FormatInt(created.ID, 10)

	rec = do(t, h, http.MethodPatch, path+"/status", `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "accepted", string(decode[dto.Estimate](t, rec).Status))

	// A second acceptance must not create a second order.
	rec = do(t, h, http.MethodPatch, path+"/status", `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	orders := decode[[]dto.Order](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, *orders[0].EstimateID)
	assert.True(t, orders[0].Amount.Equal(decimal.NewFromInt(295)))

	rec = do(t, h, http.MethodGet, "/api/v1/pipeline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", stageOf(decode[board](t, rec), "estimate-"+strconv.FormatInt(created.ID, 10)))

	rec = do(t, h, http.MethodGet, "/api/v1/search?q=acme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Acme Corp"`)
}

func TestRouter_PricesFromCostAndMargin(t *testing.T) {
	h := newRouter(nil)

	body := strings.Replace(estimateBody, `, "sellingPrice": 125`, "", 1)

	rec := do(t, h, http.MethodPost, "/api/v1/estimates", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[dto.Estimate](t, rec)
	require.Len(t, created.Items, 1)
	assert.True(t, created.Items[0].SellingPrice.Equal(decimal.NewFromInt(125)))
	assert.True(t, created.Totals.Tax.Equal(decimal.NewFromInt(45)))
	assert.True(t, created.Totals.Total.Equal(decimal.NewFromInt(295)))
	assert.True(t, created.Totals.TotalProfit.Equal(decimal.NewFromInt(50)))
}

func TestRouter_ManualOrderForAcceptedEstimate(t *testing.T) {
	h := newRouter(nil)

	rec := do(t, h, http.MethodPost, "/api/v1/estimates", estimateBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	id := strconv.FormatInt(decode[dto.Estimate](t, rec).ID, 10)

	rec = do(t, h, http.MethodPatch, "/api/v1/estimates/"+id+"/status", `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/orders", `{"customer":"Acme Corp","estimateId":`+id+`,"amount":10}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]dto.Order](t, rec), 1)
}

func TestRouter_Errors(t *testing.T) {
	h := newRouter(nil)

	t.Run("Validation", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/estimates", `{"status":"sent","sendAs":"company","identity":{"type":"company","name":"x"}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[httpx.ErrorResponse](t, rec)
		assert.Equal(t, "oneof", body.Details["createEstimateRequest.status"])
	})

	t.Run("UnknownEstimate", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/estimates/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/estimates", estimateBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		id := decode[dto.Estimate](t, rec).ID

		rec = do(t, h, http.MethodPatch, "/api/v1/estimates/"+strconv.FormatInt(id, 10)+"/status", `{"status":"archived"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MoveUnknownCard", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/pipeline/move", `{"cardId":"estimate-404","from":"new","to":"accepted"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("SecurityHeaders", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/orders", "")
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})
}

func TestRouter_Auth(t *testing.T) {
	m := auth.NewManager("admin", "hunter2", "0123456789abcdef0123456789abcdef", time.Hour)
	h := newRouter(m)

	rec := do(t, h, http.MethodGet, "/api/v1/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}

	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	rec = do(t, h, http.MethodPost, "/api/v1/estimates", estimateBody, session)
	require.Equal(t, http.StatusCreated, rec.Code)

	token := decode[dto.Estimate](t, rec).ShareToken.String()

	t.Run("ShareLinkIsPublic", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/public/estimates/"+token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "costPrice")

		rec = do(t, h, http.MethodPost, "/api/v1/public/estimates/"+token+"/respond", `{"decision":"accept","message":"Go ahead"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "accepted", string(decode[dto.SharedEstimate](t, rec).Status))

		rec = do(t, h, http.MethodGet, "/api/v1/orders", "", session)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]dto.Order](t, rec), 1)
	})

	t.Run("UnknownShareToken", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/public/estimates/not-a-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Logout", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/auth/logout", "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestRouter_CustomerImportAndCSV(t *testing.T) {
	h := newRouter(nil)

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "customers.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("Name;E-mail;Phone\nAcme Corp;buyer@acme.test;+351 912 000 111\n;;\nGlobex;;\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":2}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/customers?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="customers.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,email,phone,createdAt", lines[0])
	assert.Contains(t, lines[1], "Acme Corp,buyer@acme.test,+351 912 000 111")
}

func TestRouter_OrderProgress(t *testing.T) {
	h := newRouter(nil)

	rec := do(t, h, http.MethodPost, "/api/v1/orders", `{"customer":"Walk-in","amount":"100.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	o := decode[dto.Order](t, rec)
	assert.Equal(t, "confirmed", string(o.Status))

	path := "/api/v1/orders/" + strconv.FormatInt(o.ID, 10) + "/progress"

	rec = do(t, h, http.MethodPatch, path, `{"progress":150}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, path, `{"status":"delivered","paymentStatus":"paid","paymentReceived":"100"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[dto.Order](t, rec)
	assert.Equal(t, 100, updated.Progress)
	assert.True(t, updated.Outstanding.IsZero())

	rec = do(t, h, http.MethodGet, "/api/v1/pipeline", "")
	assert.Equal(t, "completed", stageOf(decode[board](t, rec), "order-"+strconv.FormatInt(o.ID, 10)))

	rec = do(t, h, http.MethodGet, "/api/v1/orders/finance", "")
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[dto.Summary](t, rec)
	assert.Equal(t, 1, summary.Orders)
	assert.True(t, summary.Received.Equal(decimal.NewFromInt(100)))
}
