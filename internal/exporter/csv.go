// Package exporter serializes parsed trade records to output files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"fidcli/internal/errors"
	"fidcli/pkg/contracts/domain"
)

// tradeHeader is the output column order. Every record is produced by the
// same coercion path, so all rows share this field set.
var tradeHeader = []string{
	"run_date",
	"run_month",
	"run_year",
	"action",
	"symbol",
	"description",
	"type",
	"quantity",
	"price",
	"commission",
	"fees",
	"accrued_interest",
	"amount",
	"settlement_date",
}

// CSVWriter writes trade records to normalized CSV files.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteTrades writes records to path and returns the number of rows
// written. An empty record list prints a notice and writes nothing; that is
// not an error.
func (w *CSVWriter) WriteTrades(path string, records []domain.TradeRecord) (int, error) {
	if len(records) == 0 {
		fmt.Println("No trades to write to CSV file.")
		return 0, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.NewStorageError("failed to create output file", err).
			WithContext("path", path)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if err := cw.Write(tradeHeader); err != nil {
		return 0, errors.NewStorageError("failed to write header", err)
	}

	for _, rec := range records {
		if err := cw.Write(tradeRow(rec)); err != nil {
			return 0, errors.NewStorageError("failed to write record", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, errors.NewStorageError("failed to flush output file", err)
	}

	w.logger.Info("wrote trades", slog.String("path", path), slog.Int("records", len(records)))
	return len(records), nil
}

func tradeRow(rec domain.TradeRecord) []string {
	return []string{
		rec.RunDate.Format(domain.DateLayout),
		strconv.Itoa(rec.RunMonth),
		strconv.Itoa(rec.RunYear),
		string(rec.Action),
		rec.Symbol,
		rec.Description,
		rec.Type,
		formatOptFloat(rec.Quantity),
		formatOptFloat(rec.Price),
		formatOptFloat(rec.Commission),
		formatOptFloat(rec.Fees),
		formatOptFloat(rec.AccruedInterest),
		formatOptFloat(rec.Amount),
		formatOptDate(rec.SettlementDate),
	}
}

// formatOptFloat renders an optional numeric, using the shortest exact
// decimal form so round-tripped values compare equal.
func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatOptDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(domain.DateLayout)
}
