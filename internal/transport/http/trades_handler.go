// Package http exposes parsed trade data over a read-only JSON API.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fidcli/internal/dataprocessing"
	"fidcli/internal/errors"
	"fidcli/internal/infrastructure"
	"fidcli/pkg/contracts/domain"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fidcli_http_requests_total",
		Help: "Total number of API requests by endpoint.",
	},
	[]string{"endpoint"},
)

// TradesHandler serves a parsed history file. The record list is immutable
// after construction, so handlers read it without locking.
type TradesHandler struct {
	records  []domain.TradeRecord
	summary  dataprocessing.Summary
	logger   *slog.Logger
	validate *validator.Validate
}

// NewTradesHandler creates a handler over an already-parsed record list.
func NewTradesHandler(records []domain.TradeRecord, logger *slog.Logger) *TradesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradesHandler{
		records:  records,
		summary:  dataprocessing.Summarize(records),
		logger:   logger,
		validate: validator.New(),
	}
}

// Routes returns the router for trade endpoints.
func (h *TradesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/trades", h.GetTrades)
	r.Get("/summary", h.GetSummary)
	return r
}

// tradesFilter is the validated query surface of GET /trades.
type tradesFilter struct {
	Symbol string `validate:"omitempty,max=12"`
	Action string `validate:"omitempty,max=32"`
	Limit  int    `validate:"omitempty,min=1,max=10000"`
}

// GetTrades handles GET /trades with optional symbol, action and limit
// query parameters.
func (h *TradesHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	requestsTotal.WithLabelValues("trades").Inc()

	filter, apiErr := parseFilter(r)
	if apiErr == nil {
		if err := h.validate.Struct(filter); err != nil {
			apiErr = errors.ErrValidation("query", err.Error())
		}
	}
	if apiErr != nil {
		infrastructure.LoggerFromContext(r.Context()).Warn("rejected trades query",
			slog.String("error", apiErr.Message))
		errors.WriteError(w, apiErr)
		return
	}

	trades := filterTrades(h.records, filter)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   trades,
		"count":  len(trades),
	})
}

// GetSummary handles GET /summary.
func (h *TradesHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	requestsTotal.WithLabelValues("summary").Inc()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.summary,
	})
}

func parseFilter(r *http.Request) (tradesFilter, *errors.APIError) {
	q := r.URL.Query()
	filter := tradesFilter{
		Symbol: strings.TrimSpace(q.Get("symbol")),
		Action: strings.TrimSpace(q.Get("action")),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.ErrValidation("limit", "must be an integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}

func filterTrades(records []domain.TradeRecord, filter tradesFilter) []domain.TradeRecord {
	matched := make([]domain.TradeRecord, 0, len(records))
	for _, rec := range records {
		if filter.Symbol != "" && !strings.EqualFold(rec.Symbol, filter.Symbol) {
			continue
		}
		if filter.Action != "" &&
			!strings.Contains(strings.ToUpper(string(rec.Action)), strings.ToUpper(filter.Action)) {
			continue
		}
		matched = append(matched, rec)
		if filter.Limit > 0 && len(matched) == filter.Limit {
			break
		}
	}
	return matched
}
