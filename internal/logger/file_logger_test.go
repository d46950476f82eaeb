package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
)

var _ backtest.RunLogger = (*Logger)(nil)

func sampleResult(name string) backtest.Result {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []backtest.Trade{{
		EntryIndex: 30,
		EntryPrice: 100,
		EntryTime:  start,
		Signals:    strategy.Signals{strategy.SignalRSI: true},
		ExitIndex:  33,
		ExitPrice:  105,
		ExitTime:   start.Add(3 * time.Hour),
		ExitReason: backtest.ExitTakeProfit,
		ProfitPct:  5,
		HoldBars:   3,
	}}
	return backtest.Result{
		ID:       "run-1",
		Strategy: strategy.Strategy{Name: name, Exit: strategy.DefaultExitRules(), RequiredSignals: 1},
		Name:     name,
		Trades:   trades,
		Report:   backtest.CalculateMetrics(trades, 100, backtest.DefaultMetricsConfig()),
		Bars:     100,
	}
}

// TestLogger_Session tests file naming, levels and the session frame
func TestLogger_Session(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, "btcusdt", "1h")
	require.NoError(t, err)

	expected := filepath.Join(dir, "BTCUSDT_1h_"+time.Now().Format("2006-01-02")+".log")
	assert.Equal(t, expected, l.GetLogPath())

	l.Info("loaded %d candles", 500)
	l.Warning("short series")
	l.LogError("fetch", errors.New("timeout"))
	l.LogRun(sampleResult("RSI < 30"))
	assert.Equal(t, 1, l.Runs())
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(expected)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "BACKTEST SESSION STARTED")
	assert.Contains(t, content, "[INFO] loaded 500 candles")
	assert.Contains(t, content, "[WARN] short series")
	assert.Contains(t, content, "[ERROR] fetch: timeout")
	assert.Contains(t, content, "[RUN] RSI < 30 [run-1]")
	assert.Contains(t, content, "win 100.00%")
	assert.Contains(t, content, "[TRADE] RSI < 30 | 2024-03-01 00:00 @ 100.0000 -> 2024-03-01 03:00 @ 105.0000 | TAKE_PROFIT | +5.00%")
	assert.Contains(t, content, "BACKTEST SESSION ENDED")
	assert.Contains(t, content, "Runs: 1")
}

// TestLogger_ConcurrentRuns tests that sweep workers can share the logger
func TestLogger_ConcurrentRuns(t *testing.T) {
	l, err := NewLogger(t.TempDir(), "ETHUSDT", "4h")
	require.NoError(t, err)
	defer l.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.LogRun(sampleResult("CCI Bounce"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, l.Runs())

	raw, err := os.ReadFile(l.GetLogPath())
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(string(raw), "[TRADE] CCI Bounce"))
}
