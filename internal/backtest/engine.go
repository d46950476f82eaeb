package backtest

import (
	"time"

	"github.com/google/uuid"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/indicators"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// SignalSource returns the entry signals at a candle index
type SignalSource interface {
	Evaluate(index int) strategy.Signals
}

// Simulate walks the candles once and returns the closed trades of a single
// long-only position. Entries fill at the next bar's open; exits are checked
// on each bar's close in the order stop loss, take profit, time exit. A trade
// still open after the scan is closed at the last bar with ExitEndOfData.
func Simulate(data []types.OHLCV, strat strategy.Strategy, signals SignalSource) []Trade {
	closed := make([]Trade, 0)
	n := len(data)
	if n < 2 {
		return closed
	}

	var open *Trade
	for i := strat.WarmUp() + 1; i < n-1; i++ {
		if open == nil {
			active := signals.Evaluate(i)
			if len(active) == 0 || active.Active() < strat.RequiredSignals {
				continue
			}
			next := data[i+1]
			open = &Trade{
				EntryIndex:    i + 1,
				EntryPrice:    next.Open,
				EntryTime:     next.Timestamp,
				Signals:       active,
				ActiveSignals: active.Active(),
			}
			continue
		}

		profit := profitPct(open.EntryPrice, data[i].Close)
		if reason := exitReason(strat.Exit, profit, i-open.EntryIndex); reason != ExitNone {
			open.close(i, exitBar{price: data[i].Close, time: data[i].Timestamp}, profit, reason)
			closed = append(closed, *open)
			open = nil
		}
	}

	if open != nil {
		last := n - 1
		profit := profitPct(open.EntryPrice, data[last].Close)
		open.close(last, exitBar{price: data[last].Close, time: data[last].Timestamp}, profit, ExitEndOfData)
		closed = append(closed, *open)
	}

	return closed
}

func exitReason(rules strategy.ExitRules, profit float64, held int) ExitReason {
	switch {
	case rules.StopLossPct != nil && profit <= -*rules.StopLossPct:
		return ExitStopLoss
	case rules.TakeProfitPct != nil && profit >= *rules.TakeProfitPct:
		return ExitTakeProfit
	case rules.MaxHoldBars != nil && held >= *rules.MaxHoldBars:
		return ExitTime
	default:
		return ExitNone
	}
}

// Result is the outcome of one strategy run over one candle series
type Result struct {
	ID       string            `json:"id"`
	Strategy strategy.Strategy `json:"-"`
	Name     string            `json:"name"`
	Trades   []Trade           `json:"trades"`
	Report   Report            `json:"report"`
	Bars     int               `json:"bars"`
	Duration time.Duration     `json:"duration_ns"`
}

// Engine runs strategies over candle series, sharing one indicator cache
type Engine struct {
	cache   *indicators.Cache
	metrics MetricsConfig
}

// NewEngine creates an engine. cache may be nil to disable memoization.
func NewEngine(cache *indicators.Cache, metrics MetricsConfig) *Engine {
	return &Engine{
		cache:   cache,
		metrics: metrics,
	}
}

// Cache returns the engine's indicator cache (may be nil)
func (e *Engine) Cache() *indicators.Cache {
	return e.cache
}

// Run evaluates one strategy against the candles identified by seriesID
func (e *Engine) Run(seriesID string, data []types.OHLCV, strat strategy.Strategy) Result {
	start := time.Now()

	set := strategy.BuildIndicatorSet(seriesID, data, strat, e.cache)
	evaluator := strategy.NewEvaluator(data, strat.Conditions, set)
	trades := Simulate(data, strat, evaluator)

	return Result{
		ID:       uuid.NewString(),
		Strategy: strat,
		Name:     strat.Name,
		Trades:   trades,
		Report:   CalculateMetrics(trades, len(data), e.metrics),
		Bars:     len(data),
		Duration: time.Since(start),
	}
}
