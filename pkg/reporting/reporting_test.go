package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func makeTrades(profits ...float64) []backtest.Trade {
	trades := make([]backtest.Trade, len(profits))
	for i, p := range profits {
		reason := backtest.ExitTakeProfit
		if p < 0 {
			reason = backtest.ExitStopLoss
		}
		trades[i] = backtest.Trade{
			EntryIndex:    i * 10,
			EntryPrice:    100 + float64(i)*10,
			EntryTime:     testStart.Add(time.Duration(i*10) * time.Hour),
			Signals:       strategy.Signals{strategy.SignalRSI: true, strategy.SignalCCI: false},
			ActiveSignals: 1,
			ExitIndex:     i*10 + 3,
			ExitPrice:     (100 + float64(i)*10) * (1 + p/100),
			ExitTime:      testStart.Add(time.Duration(i*10+3) * time.Hour),
			ExitReason:    reason,
			ProfitPct:     p,
			HoldBars:      3,
		}
	}
	return trades
}

func makeResults() []backtest.Result {
	suite := strategy.DefaultSuite(strategy.HTFIgnore)
	cfg := backtest.DefaultMetricsConfig()

	results := make([]backtest.Result, 0, 3)
	for i, profits := range [][]float64{
		{5, -3, 5},
		{5, 5, -3, 5, 5, 5, 5},
		nil,
	} {
		trades := makeTrades(profits...)
		results = append(results, backtest.Result{
			ID:       "run-" + suite[i].Name,
			Strategy: suite[i],
			Name:     suite[i].Name,
			Trades:   trades,
			Report:   backtest.CalculateMetrics(trades, 500, cfg),
			Bars:     500,
		})
	}
	return results
}

func TestDefaultOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "BTCUSDT_1h"), DefaultOutputDir(" btcusdt ", "1H"))
	assert.Equal(t, filepath.Join("results", "UNKNOWN_unknown"), DefaultOutputDir("", ""))
}

// TestConsoleReporter tests the rendered tables
func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)
	results := makeResults()

	r.PrintDataSummary("BTCUSDT", "1h", []types.OHLCV{
		{Timestamp: testStart, Close: 100},
		{Timestamp: testStart.Add(time.Hour), Close: 101},
	})
	r.PrintComparison(results)
	r.PrintSampleTrades(results[1])
	r.PrintSampleTrades(results[2])
	r.PrintSummary(results)

	out := buf.String()
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "2024-01-01 00:00")
	assert.Contains(t, out, strategy.NameAllSignals)
	assert.Contains(t, out, strategy.NameTwoOfThree)
	assert.Contains(t, out, "CCI Bounce")
	assert.Contains(t, out, "STOP_LOSS")
	assert.Contains(t, out, "no trades")
	assert.Contains(t, out, "140.0000", "fifth trade is shown")
	assert.NotContains(t, out, "150.0000", "sixth trade is not")
	assert.Contains(t, out, backtest.RecommendTwoSignals.String())
}

func TestRecommendationFor(t *testing.T) {
	results := makeResults()

	rec, ok := RecommendationFor(results)
	require.True(t, ok)
	assert.Equal(t, backtest.Recommend(results[0].Report, results[1].Report), rec)

	_, ok = RecommendationFor(results[1:])
	assert.False(t, ok)
}

func TestWriteTradesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", TradesCSVFile)
	require.NoError(t, WriteTradesCSV(makeResults(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+3+7)
	assert.Equal(t, tradeHeaders, records[0])
	assert.Equal(t, strategy.NameAllSignals, records[1][0])
	assert.Equal(t, "2024-01-01T00:00:00Z", records[1][2])
	assert.Equal(t, "TAKE_PROFIT", records[1][7])
	assert.Equal(t, "-3.0000", records[2][8])
	assert.Equal(t, "rsi", records[1][10])
}

func TestWriteResultsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), ResultsXLSXFile)
	results := makeResults()
	require.NoError(t, WriteResultsXLSX(results, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.Equal(t, []string{SummarySheet, TradesSheet}, fx.GetSheetList())

	summary, err := fx.GetRows(SummarySheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 1+len(results))
	assert.Equal(t, summaryHeaders, summary[0])
	assert.Equal(t, strategy.NameAllSignals, summary[1][0])
	assert.Equal(t, "3", summary[1][5])

	rec, err := fx.GetCellValue(SummarySheet, "A6")
	require.NoError(t, err)
	assert.Contains(t, rec, "Recommendation")

	trades, err := fx.GetRows(TradesSheet)
	require.NoError(t, err)
	assert.Len(t, trades, 1+3+7)
}

func TestWriteResultsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ResultsJSONFile)
	require.NoError(t, WriteResultsJSON("BTCUSDT", "1h", makeResults(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"exit_reason": "STOP_LOSS"`)

	var doc ResultsFile
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "BTCUSDT", doc.Symbol)
	assert.NotEmpty(t, doc.Recommendation)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, strategy.GroupCombination, doc.Results[0].Group)
	assert.Equal(t, "SL 3.00%, TP 5.00%, max hold 48 bars", doc.Results[0].Exit)
	assert.Equal(t, 3, doc.Results[0].Report.TotalTrades)
	assert.NotNil(t, doc.Results[2].Trades)
	assert.Empty(t, doc.Results[2].Trades)
	assert.Equal(t, backtest.ExitStopLoss, doc.Results[0].Trades[1].ExitReason)
}
