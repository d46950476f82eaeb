package backtest

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
)

// ExitReason records why a trade was closed
type ExitReason int

const (
	ExitNone ExitReason = iota // still open
	ExitStopLoss
	ExitTakeProfit
	ExitTime
	ExitEndOfData
)

func (r ExitReason) String() string {
	switch r {
	case ExitNone:
		return "OPEN"
	case ExitStopLoss:
		return "STOP_LOSS"
	case ExitTakeProfit:
		return "TAKE_PROFIT"
	case ExitTime:
		return "TIME_EXIT"
	case ExitEndOfData:
		return "END_OF_DATA"
	default:
		return "UNKNOWN"
	}
}

// MarshalText writes the reason name so JSON reports stay readable
func (r ExitReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a reason name written by MarshalText
func (r *ExitReason) UnmarshalText(text []byte) error {
	for _, candidate := range []ExitReason{ExitNone, ExitStopLoss, ExitTakeProfit, ExitTime, ExitEndOfData} {
		if candidate.String() == string(text) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown exit reason %q", text)
}

// Trade is one long round trip. EntryIndex and ExitIndex are candle indices.
type Trade struct {
	EntryIndex    int              `json:"entry_index"`
	EntryPrice    float64          `json:"entry_price"`
	EntryTime     time.Time        `json:"entry_time"`
	Signals       strategy.Signals `json:"signals"`
	ActiveSignals int              `json:"active_signals"`

	ExitIndex  int        `json:"exit_index"`
	ExitPrice  float64    `json:"exit_price"`
	ExitTime   time.Time  `json:"exit_time"`
	ExitReason ExitReason `json:"exit_reason"`
	ProfitPct  float64    `json:"profit_pct"`
	HoldBars   int        `json:"hold_bars"`
}

// IsOpen reports whether the trade has not been closed yet
func (t Trade) IsOpen() bool {
	return t.ExitReason == ExitNone
}

func (t *Trade) close(index int, bar exitBar, profitPct float64, reason ExitReason) {
	t.ExitIndex = index
	t.ExitPrice = bar.price
	t.ExitTime = bar.time
	t.ExitReason = reason
	t.ProfitPct = profitPct
	t.HoldBars = index - t.EntryIndex
}

type exitBar struct {
	price float64
	time  time.Time
}

func profitPct(entry, current float64) float64 {
	if entry == 0 {
		return 0
	}
	return (current - entry) / entry * 100
}
