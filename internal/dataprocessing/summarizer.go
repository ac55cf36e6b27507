package dataprocessing

import (
	"fidcli/pkg/contracts/domain"
)

// Summary holds aggregate statistics over a parsed trade list.
type Summary struct {
	TotalTrades     int     `json:"total_trades"`
	BuyTrades       int     `json:"buy_trades"`
	SellTrades      int     `json:"sell_trades"`
	UniqueSymbols   int     `json:"unique_symbols"`
	TotalCommission float64 `json:"total_commission"`
	TotalFees       float64 `json:"total_fees"`
}

// Summarize computes aggregate statistics over records. Absent commission
// and fee values are excluded from the sums, not counted as zero.
func Summarize(records []domain.TradeRecord) Summary {
	s := Summary{TotalTrades: len(records)}

	symbols := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.Action.IsBuy() {
			s.BuyTrades++
		}
		if rec.Action.IsSell() {
			s.SellTrades++
		}
		symbols[rec.Symbol] = struct{}{}

		if rec.Commission != nil {
			s.TotalCommission += *rec.Commission
		}
		if rec.Fees != nil {
			s.TotalFees += *rec.Fees
		}
	}
	s.UniqueSymbols = len(symbols)

	return s
}
