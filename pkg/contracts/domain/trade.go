package domain

import (
	"strings"
	"time"
)

// DateLayout is the date format used by Fidelity history exports, both for
// the Run Date and Settlement Date columns and for normalized CSV output.
const DateLayout = "01/02/2006"

// TradeAction is the normalized trade action extracted from the free-text
// Action column of a history export. Unrecognized actions pass through as
// the upper-cased raw string.
type TradeAction string

const (
	ActionBought     TradeAction = "Bought"
	ActionSold       TradeAction = "Sold"
	ActionConversion TradeAction = "Conversion"
)

// NormalizeAction maps a raw action string to a TradeAction using a
// case-insensitive substring match, tested in fixed priority order:
// BOUGHT, SOLD, CONVERSION. An action containing several keywords resolves
// to the first match in that order.
func NormalizeAction(raw string) TradeAction {
	upper := strings.ToUpper(raw)
	switch {
	case strings.Contains(upper, "BOUGHT"):
		return ActionBought
	case strings.Contains(upper, "SOLD"):
		return ActionSold
	case strings.Contains(upper, "CONVERSION"):
		return ActionConversion
	default:
		return TradeAction(strings.TrimSpace(upper))
	}
}

// IsBuy reports whether the action represents a purchase.
func (a TradeAction) IsBuy() bool {
	return strings.Contains(strings.ToUpper(string(a)), "BOUGHT")
}

// IsSell reports whether the action represents a sale.
func (a TradeAction) IsSell() bool {
	return strings.Contains(strings.ToUpper(string(a)), "SOLD")
}

// TradeRecord is one settled row of a Fidelity trade-history export.
//
// Optional numeric and date fields are nil when the source cell was blank or
// whitespace-only; they are never zero-filled. Records are constructed once
// by the parser and not mutated afterwards.
type TradeRecord struct {
	RunDate         time.Time   `json:"run_date"`
	RunMonth        int         `json:"run_month"`
	RunYear         int         `json:"run_year"`
	Action          TradeAction `json:"action"`
	Symbol          string      `json:"symbol"`
	Description     string      `json:"description"`
	Type            string      `json:"type"`
	Quantity        *float64    `json:"quantity"`
	Price           *float64    `json:"price"`
	Commission      *float64    `json:"commission"`
	Fees            *float64    `json:"fees"`
	AccruedInterest *float64    `json:"accrued_interest"`
	Amount          *float64    `json:"amount"`
	SettlementDate  *time.Time  `json:"settlement_date"`
}
