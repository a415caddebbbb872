package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/favalens/internal/clients/fava"
	"github.com/bobmcallan/favalens/internal/common"
	"github.com/bobmcallan/favalens/internal/models"
)

// newTestServer wires a Server to a mock Fava upstream.
func newTestServer(t *testing.T, upstream http.HandlerFunc) (*Server, *httptest.Server) {
	t.Helper()
	mock := httptest.NewServer(upstream)
	t.Cleanup(mock.Close)

	client := fava.NewClient(
		fava.WithBaseURL(mock.URL),
		fava.WithLedger("test-ledger"),
	)
	srv := NewServer(common.NewDefaultConfig(), client, common.NewSilentLogger())
	return srv, mock
}

func favaJSON(t *testing.T, doc any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(doc))
	}
}

func TestHandleIncomeStatement_Success(t *testing.T) {
	srv, mock := newTestServer(t, favaJSON(t, map[string]any{
		"totals": map[string]any{"income": 10000.0, "expenses": -7500.0, "net": 2500.0},
		"children": []any{
			map[string]any{"name": "Salary", "balance": 10000.0},
			map[string]any{"name": "Rent", "balance": -2000.0},
			map[string]any{"name": "Food", "balance": -1500.0},
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/income_statement", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	assert.Equal(t, mock.URL+"/test-ledger/api/income_statement", result.Source)

	require.NotNil(t, result.Summary.Totals.Income)
	assert.Equal(t, 10000.0, *result.Summary.Totals.Income)
	require.NotNil(t, result.Summary.Totals.Expenses)
	assert.Equal(t, -7500.0, *result.Summary.Totals.Expenses)
	require.NotNil(t, result.Summary.Totals.NetProfit)
	assert.Equal(t, 2500.0, *result.Summary.Totals.NetProfit)

	require.Len(t, result.Summary.TopIncome, 1)
	assert.Equal(t, "Salary", result.Summary.TopIncome[0].Name)
	require.Len(t, result.Summary.TopExpenses, 2)
	assert.Equal(t, "Rent", result.Summary.TopExpenses[0].Name)
	assert.Equal(t, "Food", result.Summary.TopExpenses[1].Name)

	assert.NotNil(t, result.Raw, "raw included by default")
	assert.Len(t, result.Summary.Notes, 3)
}

func TestHandleIncomeStatement_ForwardsQueryParams(t *testing.T) {
	var capturedQuery map[string][]string
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	})

	req := httptest.NewRequest(http.MethodGet,
		"/income_statement?time=2024&interval=month&conversion=USD&filter=account:Assets", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2024"}, capturedQuery["time"])
	assert.Equal(t, []string{"month"}, capturedQuery["interval"])
	assert.Equal(t, []string{"USD"}, capturedQuery["conversion"])
	assert.Equal(t, []string{"account:Assets"}, capturedQuery["filter"])
	assert.NotContains(t, capturedQuery, "return_raw", "return_raw is ours, not Fava's")
}

func TestHandleIncomeStatement_ReturnRawFalse(t *testing.T) {
	srv, _ := newTestServer(t, favaJSON(t, map[string]any{"income": 5000.0}))

	req := httptest.NewRequest(http.MethodGet, "/income_statement?return_raw=false", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body, "summary")
	assert.NotContains(t, body, "raw")
}

func TestHandleIncomeStatement_ReturnRawTrueEchoesUpstream(t *testing.T) {
	doc := map[string]any{"totals": map[string]any{"income": 1.0}, "extra": "kept"}
	srv, _ := newTestServer(t, favaJSON(t, doc))

	req := httptest.NewRequest(http.MethodGet, "/income_statement?return_raw=true", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, doc, body["raw"])
}

func TestHandleIncomeStatement_NullUpstreamKeepsRaw(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`null`))
	})

	req := httptest.NewRequest(http.MethodGet, "/income_statement", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	val, hasRaw := body["raw"]
	assert.True(t, hasRaw, "raw key must be present for a null upstream body")
	assert.Nil(t, val)
	assert.Contains(t, body, "summary")
}

func TestHandleIncomeStatement_UpstreamStatusPropagated(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/income_statement", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Fava returned 500", resp.Error)
}

func TestHandleIncomeStatement_UpstreamNotFoundPropagated(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/income_statement", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Fava returned 404", resp.Error)
}

func TestHandleIncomeStatement_Unreachable(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := mock.URL
	mock.Close()

	client := fava.NewClient(fava.WithBaseURL(deadURL))
	srv := NewServer(common.NewDefaultConfig(), client, common.NewSilentLogger())

	req := httptest.NewRequest(http.MethodGet, "/income_statement", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "failed to reach Fava")
	assert.Contains(t, resp.Error, "connection refused")
}

func TestHandleIncomeStatement_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, favaJSON(t, map[string]any{}))

	req := httptest.NewRequest(http.MethodPost, "/income_statement", nil)
	rec := httptest.NewRecorder()
	srv.handleIncomeStatement(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, favaJSON(t, map[string]any{}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHandleVersion(t *testing.T) {
	srv, _ := newTestServer(t, favaJSON(t, map[string]any{}))

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	srv.handleVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["version"])
}
