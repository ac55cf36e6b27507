package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fidcli/pkg/contracts/domain"
)

func fptr(v float64) *float64 { return &v }

func testHandler(t *testing.T) *TradesHandler {
	t.Helper()
	records := []domain.TradeRecord{
		{
			RunDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			Action:  domain.ActionBought, Symbol: "AAPL",
			Commission: fptr(4.95),
		},
		{
			RunDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			Action:  domain.ActionSold, Symbol: "AAPL",
			Fees: fptr(0.13),
		},
		{
			RunDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
			Action:  domain.ActionBought, Symbol: "MSFT",
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTradesHandler(records, logger)
}

func doRequest(t *testing.T, h *TradesHandler, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetTrades(t *testing.T) {
	rec, body := doRequest(t, testHandler(t), "/trades")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(3), body["count"])
}

func TestGetTradesSymbolFilter(t *testing.T) {
	_, body := doRequest(t, testHandler(t), "/trades?symbol=aapl")
	assert.Equal(t, float64(2), body["count"])
}

func TestGetTradesActionFilter(t *testing.T) {
	_, body := doRequest(t, testHandler(t), "/trades?action=sold")
	assert.Equal(t, float64(1), body["count"])
}

func TestGetTradesLimit(t *testing.T) {
	_, body := doRequest(t, testHandler(t), "/trades?limit=1")
	assert.Equal(t, float64(1), body["count"])
}

func TestGetTradesInvalidLimit(t *testing.T) {
	rec, _ := doRequest(t, testHandler(t), "/trades?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTradesLimitOutOfRange(t *testing.T) {
	rec, _ := doRequest(t, testHandler(t), "/trades?limit=99999")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTradesSymbolTooLong(t *testing.T) {
	rec, _ := doRequest(t, testHandler(t), "/trades?symbol=THISSYMBOLISTOOLONG")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummary(t *testing.T) {
	rec, body := doRequest(t, testHandler(t), "/summary")

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), data["total_trades"])
	assert.Equal(t, float64(2), data["buy_trades"])
	assert.Equal(t, float64(1), data["sell_trades"])
	assert.Equal(t, float64(2), data["unique_symbols"])
	assert.InDelta(t, 4.95, data["total_commission"].(float64), 1e-9)
	assert.InDelta(t, 0.13, data["total_fees"].(float64), 1e-9)
}

func TestGetTradesEmptyResult(t *testing.T) {
	rec, body := doRequest(t, testHandler(t), "/trades?symbol=TSLA")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
}
