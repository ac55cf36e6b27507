package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fidcli/internal/dataprocessing"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	records := sampleRecords()
	summary := dataprocessing.Summarize(records)

	err := NewWorkbookWriter(discardLogger()).WriteWorkbook(path, records, summary)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{tradesSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(tradesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, tradeHeader, rows[0])
	assert.Equal(t, "03/14/2024", rows[1][0])
	assert.Equal(t, "AAPL", rows[1][4])

	label, err := f.GetCellValue(summarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Total Trades", label)

	total, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	err := NewWorkbookWriter(discardLogger()).WriteWorkbook(path, nil, dataprocessing.Summary{})
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
