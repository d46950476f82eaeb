package backtest

import (
	"math"
	"time"

	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// StartingEquity is the base of the compounded equity curve
const StartingEquity = 100.0

// MetricsConfig holds the annualization and frequency constants
type MetricsConfig struct {
	// Sharpe is scaled by sqrt(PeriodsPerYear / TradesPerPeriod)
	PeriodsPerYear  float64
	TradesPerPeriod float64
	// BarsPerMonth converts trades per bar into trades per month
	BarsPerMonth float64
}

// DefaultMetricsConfig assumes hourly bars: 252/20 Sharpe scaling and 720 bars per month
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		PeriodsPerYear:  252,
		TradesPerPeriod: 20,
		BarsPerMonth:    720,
	}
}

// ForInterval returns a copy with BarsPerMonth derived from the bar interval.
// The config is returned unchanged when the interval cannot be parsed.
func (c MetricsConfig) ForInterval(interval string) MetricsConfig {
	d, err := types.IntervalDuration(interval)
	if err != nil {
		return c
	}
	c.BarsPerMonth = BarsPerMonth(d)
	return c
}

// BarsPerMonth returns how many bars of the given duration fit in 30 days
func BarsPerMonth(bar time.Duration) float64 {
	if bar <= 0 {
		return 0
	}
	return float64(30*24*time.Hour) / float64(bar)
}

// Report summarizes a trade list. All percentages are in percent units.
type Report struct {
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	LosingTrades   int     `json:"losing_trades"`
	WinRate        float64 `json:"win_rate"`
	AvgProfit      float64 `json:"avg_profit"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	TotalReturn    float64 `json:"total_return"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	ProfitFactor   float64 `json:"profit_factor"`
	AvgHoldBars    float64 `json:"avg_hold_bars"`
	TradesPerMonth float64 `json:"trades_per_month"`
}

// CalculateMetrics scores closed trades in chronological order. bars is the
// length of the candle series the trades came from. An empty trade list gives
// a zero Report.
func CalculateMetrics(trades []Trade, bars int, cfg MetricsConfig) Report {
	if len(trades) == 0 {
		return Report{}
	}

	var report Report
	var sumProfit, sumWins, sumLosses, sumHold float64
	equity, peak := StartingEquity, StartingEquity

	for _, t := range trades {
		sumProfit += t.ProfitPct
		sumHold += float64(t.HoldBars)

		if t.ProfitPct > 0 {
			report.WinningTrades++
			sumWins += t.ProfitPct
		} else {
			report.LosingTrades++
			sumLosses += t.ProfitPct
		}

		equity *= 1 + t.ProfitPct/100
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak * 100; dd > report.MaxDrawdown {
				report.MaxDrawdown = dd
			}
		}
	}

	n := float64(len(trades))
	report.TotalTrades = len(trades)
	report.WinRate = float64(report.WinningTrades) / n * 100
	report.AvgProfit = sumProfit / n
	report.AvgHoldBars = sumHold / n
	report.TotalReturn = equity - StartingEquity

	if report.WinningTrades > 0 {
		report.AvgWin = sumWins / float64(report.WinningTrades)
	}
	if report.LosingTrades > 0 {
		report.AvgLoss = sumLosses / float64(report.LosingTrades)
	}

	report.SharpeRatio = sharpeRatio(trades, report.AvgProfit, cfg)

	totalLoss := math.Abs(sumLosses)
	if totalLoss == 0 {
		report.ProfitFactor = sumWins
	} else {
		report.ProfitFactor = sumWins / totalLoss
	}

	if bars > 0 {
		report.TradesPerMonth = n / float64(bars) * cfg.BarsPerMonth
	}

	return report
}

func sharpeRatio(trades []Trade, mean float64, cfg MetricsConfig) float64 {
	variance := 0.0
	for _, t := range trades {
		variance += math.Pow(t.ProfitPct-mean, 2)
	}
	variance /= float64(len(trades))
	stdDev := math.Sqrt(variance)

	if stdDev == 0 || cfg.TradesPerPeriod <= 0 {
		return 0
	}

	return mean / stdDev * math.Sqrt(cfg.PeriodsPerYear/cfg.TradesPerPeriod)
}
