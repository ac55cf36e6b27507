// Package dataprocessing locates and extracts the trade table embedded in a
// brokerage history export, and aggregates the extracted records.
//
// A history export is not a clean CSV: it opens with banner boilerplate,
// carries the actual table in the middle, and closes with free-text
// disclaimer paragraphs. There is no end-of-table marker, so the parser runs
// an explicit state machine (header, trades, trailer) and treats the first
// structurally invalid row as the trailer boundary rather than an error.
package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"fidcli/internal/errors"
	"fidcli/pkg/contracts/domain"
)

// LeadingBoilerplateLines is the number of banner lines a history export
// carries before its header row.
const LeadingBoilerplateLines = 2

type parsePhase int

const (
	phaseHeader parsePhase = iota
	phaseTrades
	phaseTrailer
)

// Parser extracts trade records from a history export stream.
type Parser struct {
	logger    *slog.Logger
	skipLines int
}

// NewParser creates a parser that discards skipLines of leading boilerplate
// before reading the header row. Pass LeadingBoilerplateLines for the stock
// export format.
func NewParser(logger *slog.Logger, skipLines int) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if skipLines < 0 {
		skipLines = 0
	}
	return &Parser{logger: logger, skipLines: skipLines}
}

// ParseFile opens path and parses it. A missing or unreadable file is a
// file-level error; malformed rows inside the file are not.
func (p *Parser) ParseFile(path string) ([]domain.TradeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open input file", err).
			WithContext("path", path)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads trade records from r. It skips the leading boilerplate, binds
// the column schema from the header row, then consumes rows until the first
// one that fails structural validation. That row and everything after it is
// the trailer; reaching it ends the parse without error.
func (p *Parser) Parse(r io.Reader) ([]domain.TradeRecord, error) {
	br := bufio.NewReader(r)

	// The boilerplate is skipped as raw lines, not CSV records: the banner
	// may contain blank lines, which encoding/csv would swallow and throw
	// the count off.
	for i := 0; i < p.skipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			p.logger.Warn("input ended inside leading boilerplate")
			return nil, nil
		}
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var (
		records []domain.TradeRecord
		sch     schema
		phase   = phaseHeader
	)

	for phase != phaseTrailer {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A raw read failure mid-stream means the tabular section
			// is over; the disclaimer text is not valid CSV.
			p.logger.Debug("read stopped", slog.String("reason", err.Error()))
			break
		}

		switch phase {
		case phaseHeader:
			bound, ok := bindSchema(row)
			if !ok {
				p.logger.Warn("header row does not define the trade table columns")
				return records, nil
			}
			sch = bound
			phase = phaseTrades

		case phaseTrades:
			if trailerReached(row, sch) {
				phase = phaseTrailer
				continue
			}
			rec, err := coerce(row, sch)
			if err != nil {
				// Coercion failures mark the trailer boundary, they
				// never fail the file.
				p.logger.Debug("row ended trade table",
					slog.Int("columns", len(row)),
					slog.String("reason", err.Error()))
				phase = phaseTrailer
				continue
			}
			records = append(records, rec)
		}
	}

	p.logger.Info("parsed trade table", slog.Int("records", len(records)))
	return records, nil
}

// schema holds the column index of each named field, bound once per file
// from the header row. Extended-variant columns hold -1 when the export
// does not carry them.
type schema struct {
	runDate         int
	action          int
	symbol          int
	description     int
	typ             int
	quantity        int
	price           int
	amount          int
	settlementDate  int
	commission      int
	fees            int
	accruedInterest int
}

// bindSchema maps header names to column indexes. Names are normalized so
// both the export's headers ("Run Date", "Price ($)") and this program's own
// output headers ("run_date", "price") bind. Returns false when any base
// column is missing.
func bindSchema(header []string) (schema, bool) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[normalizeHeader(name)] = i
	}

	find := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}

	sch := schema{
		runDate:         find("run_date"),
		action:          find("action"),
		symbol:          find("symbol"),
		description:     find("description"),
		typ:             find("type"),
		quantity:        find("quantity"),
		price:           find("price"),
		amount:          find("amount"),
		settlementDate:  find("settlement_date"),
		commission:      find("commission"),
		fees:            find("fees"),
		accruedInterest: find("accrued_interest"),
	}

	base := []int{
		sch.runDate, sch.action, sch.symbol, sch.description, sch.typ,
		sch.quantity, sch.price, sch.amount, sch.settlementDate,
	}
	for _, i := range base {
		if i < 0 {
			return schema{}, false
		}
	}
	return sch, true
}

// normalizeHeader lower-cases a header cell, drops the "($)" unit suffix,
// and collapses interior whitespace to underscores.
func normalizeHeader(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "($)", "")
	s = strings.TrimSpace(s)
	return strings.Join(strings.Fields(s), "_")
}

// trailerReached is the transition predicate from the trade section to the
// trailing disclaimer text. A row is past the table when it is too short to
// carry a Run Date, its Run Date cell is blank, or the cell does not have
// the three slash-separated parts of a date.
func trailerReached(row []string, sch schema) bool {
	if sch.runDate >= len(row) {
		return true
	}
	runDate := strings.TrimSpace(row[sch.runDate])
	if runDate == "" {
		return true
	}
	return len(strings.Split(runDate, "/")) != 3
}

// coerce builds a typed record from a row. Any failure means the row is not
// a trade row; the caller treats it as the trailer boundary.
func coerce(row []string, sch schema) (domain.TradeRecord, error) {
	cell := func(i int) (string, error) {
		if i < 0 || i >= len(row) {
			return "", errors.NewParsingError("column missing from row", nil)
		}
		return strings.TrimSpace(row[i]), nil
	}

	rawDate, err := cell(sch.runDate)
	if err != nil {
		return domain.TradeRecord{}, err
	}
	runDate, err := time.Parse(domain.DateLayout, rawDate)
	if err != nil {
		return domain.TradeRecord{}, errors.NewParsingError("invalid run date", err)
	}

	var rec domain.TradeRecord
	rec.RunDate = runDate
	rec.RunMonth = int(runDate.Month())
	rec.RunYear = runDate.Year()

	rawAction, err := cell(sch.action)
	if err != nil {
		return domain.TradeRecord{}, err
	}
	rec.Action = domain.NormalizeAction(rawAction)

	if rec.Symbol, err = cell(sch.symbol); err != nil {
		return domain.TradeRecord{}, err
	}
	if rec.Description, err = cell(sch.description); err != nil {
		return domain.TradeRecord{}, err
	}
	if rec.Type, err = cell(sch.typ); err != nil {
		return domain.TradeRecord{}, err
	}

	if rec.Quantity, err = optFloat(row, sch.quantity, true); err != nil {
		return domain.TradeRecord{}, err
	}
	if rec.Price, err = optFloat(row, sch.price, false); err != nil {
		return domain.TradeRecord{}, err
	}
	if rec.Amount, err = optFloat(row, sch.amount, true); err != nil {
		return domain.TradeRecord{}, err
	}

	// Extended-variant columns: bound when the header carries them,
	// nil otherwise.
	if rec.Commission, err = optFloatAt(row, sch.commission); err != nil {
		return domain.TradeRecord{}, err
	}
	if rec.Fees, err = optFloatAt(row, sch.fees); err != nil {
		return domain.TradeRecord{}, err
	}
	if rec.AccruedInterest, err = optFloatAt(row, sch.accruedInterest); err != nil {
		return domain.TradeRecord{}, err
	}

	rawSettle, err := cell(sch.settlementDate)
	if err != nil {
		return domain.TradeRecord{}, err
	}
	if rawSettle != "" {
		settle, err := time.Parse(domain.DateLayout, rawSettle)
		if err != nil {
			return domain.TradeRecord{}, errors.NewParsingError("invalid settlement date", err)
		}
		rec.SettlementDate = &settle
	}

	return rec, nil
}

// optFloat parses the float cell at index i. A blank cell yields nil, never
// zero. When absolute is set the sign is dropped; the export reports sells
// as negative quantities and buys as negative amounts, while downstream
// consumers want magnitudes.
func optFloat(row []string, i int, absolute bool) (*float64, error) {
	if i < 0 || i >= len(row) {
		return nil, errors.NewParsingError("column missing from row", nil)
	}
	raw := strings.TrimSpace(row[i])
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.NewParsingError("malformed number", err)
	}
	if absolute {
		v = math.Abs(v)
	}
	return &v, nil
}

// optFloatAt is optFloat for extended columns: an unbound index (-1) or a
// row too short to reach it yields nil rather than an error.
func optFloatAt(row []string, i int) (*float64, error) {
	if i < 0 || i >= len(row) {
		return nil, nil
	}
	return optFloat(row, i, false)
}
