package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAction(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want TradeAction
	}{
		{
			name: "bought",
			raw:  "YOU BOUGHT SHARES",
			want: ActionBought,
		},
		{
			name: "sold",
			raw:  "YOU SOLD SHARES",
			want: ActionSold,
		},
		{
			name: "conversion",
			raw:  "CASH CONVERSION",
			want: ActionConversion,
		},
		{
			name: "lowercase bought",
			raw:  "you bought espp shares",
			want: ActionBought,
		},
		{
			name: "unrecognized passes through upper-cased",
			raw:  "Dividend Received",
			want: TradeAction("DIVIDEND RECEIVED"),
		},
		{
			name: "ambiguous resolves by priority order",
			raw:  "SOLD AFTER YOU BOUGHT",
			want: ActionBought,
		},
		{
			name: "empty string",
			raw:  "",
			want: TradeAction(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAction(tt.raw))
		})
	}
}

func TestTradeAction_Sides(t *testing.T) {
	assert.True(t, ActionBought.IsBuy())
	assert.False(t, ActionBought.IsSell())
	assert.True(t, ActionSold.IsSell())
	assert.False(t, ActionSold.IsBuy())

	// Passthrough actions still count when they carry the keyword.
	assert.True(t, TradeAction("YOU BOUGHT OPTIONS").IsBuy())
	assert.False(t, TradeAction("DIVIDEND RECEIVED").IsBuy())
	assert.False(t, TradeAction("DIVIDEND RECEIVED").IsSell())
}
