package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildforge/treasury/internal/treasury/service"
	"github.com/guildforge/treasury/internal/treasury/storage/sqlite"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "treasury.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return NewHandler(service.NewService(store, store), nil).Routes()
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if actor != "" {
		req.Header.Set("X-Actor", actor)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createTreasury(t *testing.T, mux *http.ServeMux) uint64 {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/v1/treasuries", "GALICE", map[string]any{
		"guild_id":           42,
		"signers":            []string{"GALICE", "GBOB", "GCAROL"},
		"approval_threshold": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	return uint64(body["id"].(float64))
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	rec := doJSON(t, mux, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitializeTreasuryEndpoint(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	rec := doJSON(t, mux, http.MethodPost, "/v1/treasuries", "GALICE", map[string]any{
		"guild_id":           7,
		"signers":            []string{"GALICE", "GBOB"},
		"approval_threshold": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "GALICE", body["owner"])
	assert.EqualValues(t, 1000, body["high_value_threshold"])

	rec = doJSON(t, mux, http.MethodPost, "/v1/treasuries", "", map[string]any{
		"guild_id": 7, "signers": []string{"GALICE"}, "approval_threshold": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/v1/treasuries", "GALICE", map[string]any{
		"guild_id": 7, "signers": []string{"GALICE", "GBOB", "GCAROL"}, "approval_threshold": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDepositAndBalanceEndpoints(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	id := createTreasury(t, mux)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/deposits", id), "GDAVE", map[string]any{
		"amount": 2500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "deposit", body["type"])
	assert.Equal(t, "executed", body["status"])

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/v1/treasuries/%d/balance", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2500, decodeBody(t, rec)["balance"])

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/deposits", id), "GDAVE", map[string]any{
		"amount": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithdrawalApprovalFlowEndpoints(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	id := createTreasury(t, mux)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/deposits", id), "GALICE", map[string]any{
		"amount": 5000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/withdrawals", id), "GALICE", map[string]any{
		"recipient": "GDAVE",
		"amount":    2000,
		"reason":    "server costs",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	proposal := decodeBody(t, rec)
	assert.Equal(t, "pending", proposal["status"])
	txID := uint64(proposal["id"].(float64))

	// Executing before approval conflicts.
	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/transactions/%d/executions", txID), "GALICE", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/transactions/%d/approvals", txID), "GBOB", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", decodeBody(t, rec)["status"])

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/transactions/%d/approvals", txID), "GBOB", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/transactions/%d/executions", txID), "GCAROL", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "executed", decodeBody(t, rec)["status"])

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/v1/treasuries/%d/balance", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3000, decodeBody(t, rec)["balance"])
}

func TestBudgetAllowancePauseEndpoints(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	id := createTreasury(t, mux)

	rec := doJSON(t, mux, http.MethodPut, fmt.Sprintf("/v1/treasuries/%d/budgets/bounty", id), "GALICE", map[string]any{
		"allocated":      5000,
		"period_seconds": 2592000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	budget := decodeBody(t, rec)
	assert.Equal(t, "bounty", budget["category"])
	assert.EqualValues(t, 5000, budget["allocated"])

	rec = doJSON(t, mux, http.MethodPut, fmt.Sprintf("/v1/treasuries/%d/allowances", id), "GALICE", map[string]any{
		"admin":             "GBOB",
		"amount_per_period": 400,
		"period_seconds":    604800,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 400, decodeBody(t, rec)["remaining"])

	// Only the owner may grant allowances.
	rec = doJSON(t, mux, http.MethodPut, fmt.Sprintf("/v1/treasuries/%d/allowances", id), "GBOB", map[string]any{
		"admin":             "GBOB",
		"amount_per_period": 400,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/pause", id), "GALICE", map[string]any{
		"paused": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["paused"])

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/deposits", id), "GDAVE", map[string]any{
		"amount": 100,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHighValueThresholdEndpoint(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	id := createTreasury(t, mux)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/high-value-threshold", id), "GBOB", map[string]any{
		"threshold": 2000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2000, decodeBody(t, rec)["high_value_threshold"])

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/high-value-threshold", id), "GSTRANGER", map[string]any{
		"threshold": 100,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMilestonePaymentEndpoint(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	id := createTreasury(t, mux)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/deposits", id), "GALICE", map[string]any{
		"amount": 5000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/internal/v1/treasuries/%d/milestone-payments", id), "platform", map[string]any{
		"recipient": "GDAVE",
		"amount":    1500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "milestone_payment", body["type"])
	assert.Equal(t, "executed", body["status"])
}

func TestTransactionAndEventListEndpoints(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	id := createTreasury(t, mux)

	for _, amount := range []int{100, 200, 300} {
		rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/v1/treasuries/%d/deposits", id), "GDAVE", map[string]any{
			"amount": amount,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, mux, http.MethodGet, fmt.Sprintf("/v1/treasuries/%d/transactions?limit=2", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	txs := decodeBody(t, rec)["transactions"].([]any)
	require.Len(t, txs, 2)
	assert.EqualValues(t, 200, txs[0].(map[string]any)["amount"])
	assert.EqualValues(t, 300, txs[1].(map[string]any)["amount"])

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/v1/treasuries/%d/events", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeBody(t, rec)["events"].([]any)
	assert.NotEmpty(t, events)
}

func TestGrantProtectedRequests(t *testing.T) {
	t.Parallel()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "treasury.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	pub, priv := newGrantKeys(t)
	cfg := &GrantConfig{Issuer: "guildforge", Audience: "treasury", Key: pub}
	mux := NewHandler(service.NewService(store, store), cfg).Routes()

	payload := map[string]any{
		"guild_id":           7,
		"signers":            []string{"GALICE", "GBOB"},
		"approval_threshold": 1,
	}

	// X-Actor is ignored once grant verification is on.
	rec := doJSON(t, mux, http.MethodPost, "/v1/treasuries", "GALICE", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := SignActorGrant("guildforge", "treasury", "GALICE", priv, time.Minute)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	req := httptest.NewRequest(http.MethodPost, "/v1/treasuries", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	out := httptest.NewRecorder()
	mux.ServeHTTP(out, req)
	assert.Equal(t, http.StatusCreated, out.Code, out.Body.String())
}

func TestNotFoundResponses(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/v1/treasuries/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/v1/transactions/999/approvals", "GALICE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
