package reporting

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
)

var tradeHeaders = []string{
	"Strategy",
	"Entry_Index",
	"Entry_Time",
	"Entry_Price",
	"Exit_Index",
	"Exit_Time",
	"Exit_Price",
	"Exit_Reason",
	"Profit_%",
	"Hold_Bars",
	"Signals",
}

// WriteTradesCSV writes every trade of every result, one row per trade
func WriteTradesCSV(results []backtest.Result, path string) error {
	if err := ensureParentDir(path); err != nil {
		return bterrors.NewReportError("csv", "write_trades", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return bterrors.NewReportError("csv", "write_trades", err).WithContext("file", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tradeHeaders); err != nil {
		return bterrors.NewReportError("csv", "write_trades", err)
	}
	for _, res := range results {
		for _, trade := range res.Trades {
			if err := w.Write(tradeRecord(res.Name, trade)); err != nil {
				return bterrors.NewReportError("csv", "write_trades", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return bterrors.NewReportError("csv", "write_trades", err).WithContext("file", path)
	}
	return nil
}

func tradeRecord(name string, t backtest.Trade) []string {
	return []string{
		name,
		strconv.Itoa(t.EntryIndex),
		t.EntryTime.UTC().Format(time.RFC3339),
		strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
		strconv.Itoa(t.ExitIndex),
		t.ExitTime.UTC().Format(time.RFC3339),
		strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
		t.ExitReason.String(),
		strconv.FormatFloat(t.ProfitPct, 'f', 4, 64),
		strconv.Itoa(t.HoldBars),
		strings.Join(t.Signals.ActiveNames(), "+"),
	}
}
