// Command processor converts a brokerage history export into a normalized
// trade CSV and prints aggregate statistics.
//
// Usage:
//
//	processor <input_file> <output_file> [-v|--verbose] [--xlsx report.xlsx]
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"

	"fidcli/internal/config"
	"fidcli/internal/dataprocessing"
	"fidcli/internal/exporter"
	"fidcli/internal/infrastructure"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		verbose  bool
		xlsxPath string
	)
	flag.BoolVar(&verbose, "v", false, "print progress messages")
	flag.BoolVar(&verbose, "verbose", false, "print progress messages")
	flag.StringVar(&xlsxPath, "xlsx", "", "also write an xlsx report to this path")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <input_file> <output_file> [-v|--verbose] [--xlsx report.xlsx]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Accept the verbose flag after the positional arguments as well.
	args := make([]string, 0, flag.NArg())
	for _, arg := range flag.Args() {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
			continue
		}
		args = append(args, arg)
	}

	if len(args) != 2 {
		flag.Usage()
		return 2
	}
	input, output := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	if err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithTraceID(context.Background(), uuid.New().String())
	logger := infrastructure.LoggerFromContext(ctx)

	if verbose {
		fmt.Printf("Reading from %s\n", input)
	}

	parser := dataprocessing.NewParser(logger, cfg.Parser.LeadingLines)
	records, err := parser.ParseFile(input)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			fmt.Printf("Error: Input file '%s' not found\n", input)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		return 1
	}

	if verbose {
		fmt.Printf("Found %d trades\n", len(records))
	}

	summary := dataprocessing.Summarize(records)
	printSummary(os.Stdout, summary)

	writer := exporter.NewCSVWriter(logger)
	n, err := writer.WriteTrades(output, records)
	if err != nil {
		fmt.Printf("Error writing to CSV file: %v\n", err)
		return 1
	}
	if n > 0 {
		fmt.Printf("Successfully wrote %d trades to %s\n", n, output)
	}

	if xlsxPath != "" {
		wb := exporter.NewWorkbookWriter(logger)
		if err := wb.WriteWorkbook(xlsxPath, records, summary); err != nil {
			fmt.Printf("Error writing to xlsx file: %v\n", err)
			return 1
		}
		if len(records) > 0 {
			fmt.Printf("Successfully wrote xlsx report to %s\n", xlsxPath)
		}
	}

	return 0
}

func printSummary(w io.Writer, s dataprocessing.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Summary:")
	fmt.Fprintf(w, "Total Trades: %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Buy Trades: %d\n", s.BuyTrades)
	fmt.Fprintf(w, "Sell Trades: %d\n", s.SellTrades)
	fmt.Fprintf(w, "Unique Symbols: %d\n", s.UniqueSymbols)
	fmt.Fprintf(w, "Total Commission: %.2f\n", s.TotalCommission)
	fmt.Fprintf(w, "Total Fees: %.2f\n", s.TotalFees)
}
