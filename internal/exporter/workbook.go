package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"fidcli/internal/dataprocessing"
	"fidcli/internal/errors"
	"fidcli/pkg/contracts/domain"
)

const (
	tradesSheet  = "Trades"
	summarySheet = "Summary"
)

// WorkbookWriter writes trade records and their summary to an xlsx workbook
// with a Trades sheet and a Summary sheet.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// WriteWorkbook writes records and summary to an xlsx file at path. Like the
// CSV writer, an empty record list writes nothing and is not an error.
func (w *WorkbookWriter) WriteWorkbook(path string, records []domain.TradeRecord, summary dataprocessing.Summary) error {
	if len(records) == 0 {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", tradesSheet)

	if err := w.writeTradesSheet(f, records); err != nil {
		return err
	}
	if err := w.writeSummarySheet(f, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).
			WithContext("path", path)
	}

	w.logger.Info("wrote workbook", slog.String("path", path), slog.Int("records", len(records)))
	return nil
}

func (w *WorkbookWriter) writeTradesSheet(f *excelize.File, records []domain.TradeRecord) error {
	for col, name := range tradeHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.NewStorageError("failed to build cell reference", err)
		}
		if err := f.SetCellValue(tradesSheet, cell, name); err != nil {
			return errors.NewStorageError("failed to write header cell", err)
		}
	}

	for i, rec := range records {
		for col, value := range tradeRow(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return errors.NewStorageError("failed to build cell reference", err)
			}
			if err := f.SetCellValue(tradesSheet, cell, value); err != nil {
				return errors.NewStorageError("failed to write trade cell", err)
			}
		}
	}

	return nil
}

func (w *WorkbookWriter) writeSummarySheet(f *excelize.File, summary dataprocessing.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.NewStorageError("failed to create summary sheet", err)
	}

	rows := []struct {
		label string
		value any
	}{
		{"Total Trades", summary.TotalTrades},
		{"Buy Trades", summary.BuyTrades},
		{"Sell Trades", summary.SellTrades},
		{"Unique Symbols", summary.UniqueSymbols},
		{"Total Commission", summary.TotalCommission},
		{"Total Fees", summary.TotalFees},
	}

	for i, row := range rows {
		labelCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(summarySheet, labelCell, row.label); err != nil {
			return errors.NewStorageError("failed to write summary label", err)
		}
		if err := f.SetCellValue(summarySheet, valueCell, row.value); err != nil {
			return errors.NewStorageError("failed to write summary value", err)
		}
	}

	return nil
}
