package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/saldo/internal/auth"
	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	apihttp "github.com/MrJamesThe3rd/saldo/internal/http"
	analyticshttp "github.com/MrJamesThe3rd/saldo/internal/http/analytics"
	categorizehttp "github.com/MrJamesThe3rd/saldo/internal/http/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/http/importcsv"
	transactionhttp "github.com/MrJamesThe3rd/saldo/internal/http/transaction"
	"github.com/MrJamesThe3rd/saldo/internal/importer"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/storage/memory"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

type flakyStore struct {
	*memory.Store
	fail bool
}

func (f *flakyStore) PersistCreate(ctx context.Context, tx transaction.Transaction) error {
	if f.fail {
		return errors.New("database unavailable")
	}

	return f.Store.PersistCreate(ctx, tx)
}

type api struct {
	t       *testing.T
	handler http.Handler
	token   string
	store   *flakyStore
}

func newAPI(t *testing.T) *api {
	t.Helper()

	store := &flakyStore{Store: memory.New()}
	registry := ledger.NewRegistry(store, ledger.RegistryConfig{MaxLedgers: 8, IdleTTL: time.Hour}, nil)
	rules := categorize.NewService(categorize.NewMemoryRepository())
	verifier := auth.NewVerifier("test-secret")

	token, err := verifier.Issue("user-1", time.Hour)
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC) }

	h := apihttp.New(
		apihttp.Config{Verifier: verifier, AllowedOrigins: []string{"http://localhost:5173"}},
		transactionhttp.NewHandler(registry),
		analyticshttp.NewHandler(registry, now),
		importcsv.NewHandler(importer.NewService(rules), registry),
		categorizehttp.NewHandler(rules),
	)

	return &api{t: t, handler: h, token: token, store: store}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer "+a.token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

type txJSON struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	OccurredOn  string `json:"occurred_on"`
}

func (a *api) create(kind, desc, category, amount, date string) txJSON {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"kind":        kind,
		"description": desc,
		"category":    category,
		"amount":      amount,
		"occurred_on": date,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[txJSON](a.t, rec)
}

func TestRouter_RequiresToken(t *testing.T) {
	a := newAPI(t)
	a.token = "garbage"

	rec := a.do(http.MethodGet, "/api/v1/transactions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTransactions_CRUD(t *testing.T) {
	a := newAPI(t)

	paycheck := a.create("receita", "Paycheck", "salario", "5000.00", "2024-01-05")
	groceries := a.create("despesa", "Groceries", "alimentacao", "1200", "2024-01-10")
	assert.Equal(t, "1200.00", groceries.Amount)
	assert.Equal(t, "2024-01-10", groceries.OccurredOn)

	rec := a.do(http.MethodGet, "/api/v1/transactions?kind=despesa", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]txJSON](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, groceries.ID, list[0].ID)

	rec = a.do(http.MethodGet, "/api/v1/transactions?sort=amount&order=asc", nil)
	list = decode[[]txJSON](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, groceries.ID, list[0].ID)
	assert.Equal(t, paycheck.ID, list[1].ID)

	rec = a.do(http.MethodPatch, "/api/v1/transactions/"+groceries.ID, map[string]any{"amount": "1300"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1300.00", decode[txJSON](t, rec).Amount)

	rec = a.do(http.MethodGet, "/api/v1/analytics/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]any](t, rec)
	assert.Equal(t, "3700.00", summary["balance"])
	assert.Equal(t, "0.74", summary["savings_rate"])

	rec = a.do(http.MethodDelete, "/api/v1/transactions/"+groceries.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/transactions/"+groceries.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactions_Errors(t *testing.T) {
	a := newAPI(t)

	type testCase struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "Invalid",
			method:     http.MethodPost,
			path:       "/api/v1/transactions",
			body:       map[string]any{"kind": "despesa", "description": " ", "category": "alimentacao", "amount": "-1", "occurred_on": "2024-01-10"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "BadDate",
			method:     http.MethodPost,
			path:       "/api/v1/transactions",
			body:       map[string]any{"kind": "despesa", "description": "x", "category": "alimentacao", "amount": "1", "occurred_on": "10/01/2024"},
			wantStatus: http.StatusBadRequest,
		},
		{name: "BadID", method: http.MethodGet, path: "/api/v1/transactions/nope", wantStatus: http.StatusBadRequest},
		{name: "BadFilter", method: http.MethodGet, path: "/api/v1/transactions?kind=both", wantStatus: http.StatusBadRequest},
		{
			name:       "UpdateMissing",
			method:     http.MethodPatch,
			path:       "/api/v1/transactions/6f2d3c1e-9b7a-4c58-8e21-0d4f5a6b7c8d",
			body:       map[string]any{"description": "x"},
			wantStatus: http.StatusNotFound,
		},
		{name: "BadWindow", method: http.MethodGet, path: "/api/v1/analytics/window?range=2w", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	t.Run("ViolationsListed", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/transactions", map[string]any{"kind": "gift"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decode[struct {
			Violations []map[string]string `json:"violations"`
		}](t, rec)
		assert.GreaterOrEqual(t, len(body.Violations), 4)
	})
}

func TestTransactions_PersistenceFailure(t *testing.T) {
	a := newAPI(t)
	a.create("receita", "Paycheck", "salario", "5000", "2024-01-05")

	a.store.fail = true

	rec := a.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"kind": "despesa", "description": "Groceries", "category": "alimentacao", "amount": "12", "occurred_on": "2024-01-10",
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not save, please retry")

	rec = a.do(http.MethodGet, "/api/v1/transactions", nil)
	assert.Len(t, decode[[]txJSON](t, rec), 1, "rolled back")
}

func TestAnalytics(t *testing.T) {
	a := newAPI(t)
	a.create("receita", "Paycheck", "salario", "5000", "2024-01-05")
	a.create("despesa", "Groceries", "alimentacao", "1154.5", "2024-01-25")
	a.create("despesa", "Bus", "transporte", "266.8", "2024-01-30")
	a.create("despesa", "Old", "lazer", "10", "2023-06-01")

	rec := a.do(http.MethodGet, "/api/v1/analytics/categories?kind=despesa", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[struct {
		Shares []struct {
			Category string `json:"category"`
			Percent  string `json:"percent"`
		} `json:"shares"`
	}](t, rec)
	require.Len(t, cats.Shares, 3)
	assert.Equal(t, "alimentacao", cats.Shares[0].Category)

	rec = a.do(http.MethodGet, "/api/v1/analytics/window?range=7d", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	win := decode[struct {
		Start   string         `json:"start"`
		End     string         `json:"end"`
		Summary map[string]any `json:"summary"`
	}](t, rec)
	assert.Equal(t, "2024-01-24", win.Start)
	assert.Equal(t, "2024-01-31", win.End)
	assert.Equal(t, "1421.30", win.Summary["expenses"])
	assert.Equal(t, "0.00", win.Summary["income"])

	rec = a.do(http.MethodGet, "/api/v1/analytics/series?range=1y&ref=2024-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	series := decode[[]map[string]string](t, rec)
	assert.Len(t, series, 13)
	assert.Equal(t, "2024-01", series[len(series)-1]["label"])

	rec = a.do(http.MethodGet, "/api/v1/analytics/recent?n=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decode[[]txJSON](t, rec)
	require.Len(t, recent, 2)
	assert.Equal(t, "Bus", recent[0].Description)
	assert.Equal(t, "Old", recent[1].Description, "the newest inserted, then by date")
}

func TestImportAndCategorize(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/categorize", map[string]any{"pattern": "pingo doce", "category": "alimentacao", "description": "Supermercado"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/categorize/suggest?description=COMPRA+PINGO+DOCE+42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggest := decode[map[string]any](t, rec)
	assert.Equal(t, true, suggest["matched"])
	assert.Equal(t, "alimentacao", suggest["category"])

	csv := "Data mov.;Descrição;Montante\n30-01-2026;COMPRA PINGO DOCE 42;-58,74\n09-01-2026;TFI Wise;8.608,52\n"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("bank", "cgd"))
	fw, err := mw.CreateFormFile("file", "movimentos.csv")
	require.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import", &body)
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[struct {
		Imported     int      `json:"imported"`
		Transactions []txJSON `json:"transactions"`
	}](t, rec)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, "alimentacao", res.Transactions[0].Category)
	assert.Equal(t, "Supermercado", res.Transactions[0].Description)
	assert.Equal(t, "outros", res.Transactions[1].Category)
	assert.Equal(t, "receita", res.Transactions[1].Kind)
}
