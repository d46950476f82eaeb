package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tradesWithProfits(profits ...float64) []Trade {
	trades := make([]Trade, len(profits))
	for i, p := range profits {
		trades[i] = Trade{
			EntryIndex: i * 10,
			ExitIndex:  i*10 + 4,
			HoldBars:   4,
			ProfitPct:  p,
			ExitReason: ExitTakeProfit,
		}
	}
	return trades
}

// TestCalculateMetrics_EmptyTrades tests the zero report
func TestCalculateMetrics_EmptyTrades(t *testing.T) {
	assert.Equal(t, Report{}, CalculateMetrics(nil, 1000, DefaultMetricsConfig()))
	assert.Equal(t, Report{}, CalculateMetrics([]Trade{}, 0, DefaultMetricsConfig()))
}

// TestCalculateMetrics_MixedTrades tests the [+5, -2, +3] reference list
func TestCalculateMetrics_MixedTrades(t *testing.T) {
	report := CalculateMetrics(tradesWithProfits(5, -2, 3), 720, DefaultMetricsConfig())

	assert.Equal(t, 3, report.TotalTrades)
	assert.Equal(t, 2, report.WinningTrades)
	assert.Equal(t, 1, report.LosingTrades)
	assert.InDelta(t, 66.6667, report.WinRate, 1e-3)
	assert.InDelta(t, 2.0, report.AvgProfit, 1e-9)
	assert.InDelta(t, 4.0, report.AvgWin, 1e-9)
	assert.InDelta(t, -2.0, report.AvgLoss, 1e-9)
	assert.InDelta(t, 4.0, report.ProfitFactor, 1e-9)

	// compounded, not summed
	assert.InDelta(t, 100*1.05*0.98*1.03-100, report.TotalReturn, 1e-9)
	assert.NotEqual(t, 6.0, report.TotalReturn)

	assert.InDelta(t, 2.0, report.MaxDrawdown, 1e-9)
	assert.InDelta(t, 4.0, report.AvgHoldBars, 1e-9)
	assert.InDelta(t, 3.0, report.TradesPerMonth, 1e-9)

	stdDev := math.Sqrt(((5-2.0)*(5-2.0) + (-2-2.0)*(-2-2.0) + (3-2.0)*(3-2.0)) / 3)
	assert.InDelta(t, 2.0/stdDev*math.Sqrt(252.0/20.0), report.SharpeRatio, 1e-9)
}

// TestCalculateMetrics_EdgeCases tests the division sentinels
func TestCalculateMetrics_EdgeCases(t *testing.T) {
	tests := []struct {
		name          string
		profits       []float64
		winRate       float64
		profitFactor  float64
		sharpe        float64
		winningTrades int
		losingTrades  int
	}{
		{
			name:          "Single profitable trade",
			profits:       []float64{10},
			winRate:       100,
			profitFactor:  10, // no losses -> sum of wins
			sharpe:        0,  // zero volatility
			winningTrades: 1,
		},
		{
			name:         "Single losing trade",
			profits:      []float64{-10},
			winRate:      0,
			profitFactor: 0,
			sharpe:       0,
			losingTrades: 1,
		},
		{
			name:         "Break-even trades count as losses",
			profits:      []float64{0, 0},
			winRate:      0,
			profitFactor: 0,
			sharpe:       0,
			losingTrades: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := CalculateMetrics(tradesWithProfits(tt.profits...), 100, DefaultMetricsConfig())

			assert.Equal(t, tt.winRate, report.WinRate)
			assert.Equal(t, tt.profitFactor, report.ProfitFactor)
			assert.Equal(t, tt.sharpe, report.SharpeRatio)
			assert.Equal(t, tt.winningTrades, report.WinningTrades)
			assert.Equal(t, tt.losingTrades, report.LosingTrades)
			assert.False(t, math.IsNaN(report.TotalReturn))
			assert.False(t, math.IsInf(report.ProfitFactor, 0))
		})
	}
}

// TestCalculateMetrics_Drawdown tests the running peak
func TestCalculateMetrics_Drawdown(t *testing.T) {
	// 100 -> 110 -> 99 -> 89.1 -> 98.01
	report := CalculateMetrics(tradesWithProfits(10, -10, -10, 10), 100, DefaultMetricsConfig())

	assert.InDelta(t, (110-89.1)/110*100, report.MaxDrawdown, 1e-9)
	assert.InDelta(t, 98.01-100, report.TotalReturn, 1e-9)
}

// TestCalculateMetrics_ZeroBars tests that trades per month stays finite
func TestCalculateMetrics_ZeroBars(t *testing.T) {
	report := CalculateMetrics(tradesWithProfits(1, 2), 0, DefaultMetricsConfig())
	assert.Equal(t, 0.0, report.TradesPerMonth)
}

// TestMetricsConfig_ForInterval tests bar-duration aware monthly frequency
func TestMetricsConfig_ForInterval(t *testing.T) {
	cfg := DefaultMetricsConfig()

	assert.Equal(t, 720.0, cfg.ForInterval("60").BarsPerMonth)
	assert.Equal(t, 180.0, cfg.ForInterval("4h").BarsPerMonth)
	assert.Equal(t, 30.0, cfg.ForInterval("D").BarsPerMonth)
	assert.Equal(t, 8640.0, cfg.ForInterval("5m").BarsPerMonth)
	assert.Equal(t, cfg, cfg.ForInterval("bogus"))

	assert.Equal(t, 0.0, BarsPerMonth(0))
	assert.Equal(t, 720.0, BarsPerMonth(time.Hour))
}

// Benchmark tests for performance
func BenchmarkCalculateMetrics(b *testing.B) {
	trades := generateBenchmarkTrades(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CalculateMetrics(trades, 10000, DefaultMetricsConfig())
	}
}

// Helper function for benchmark tests
func generateBenchmarkTrades(count int) []Trade {
	profits := make([]float64, count)
	for i := range profits {
		profits[i] = (float64(i%3) - 1) * 5.0
	}
	return tradesWithProfits(profits...)
}
