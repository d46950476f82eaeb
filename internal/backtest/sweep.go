package backtest

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// RunLogger receives every completed run. Implementations must be safe for
// concurrent use.
type RunLogger interface {
	LogRun(result Result)
}

// SweepConfig controls a parallel sweep
type SweepConfig struct {
	// Workers limits concurrent runs; <= 0 uses runtime.NumCPU()
	Workers  int
	Logger   RunLogger
	Progress *ProgressTracker
	// OnResult is called from worker goroutines as runs finish
	OnResult func(Result)
}

// Sweep runs every strategy over the same candles concurrently. The candle
// slice and cached indicators are shared read-only; each run owns its trade
// list. Results are returned in the order of strategies.
func (e *Engine) Sweep(ctx context.Context, seriesID string, data []types.OHLCV, strategies []strategy.Strategy, cfg SweepConfig) ([]Result, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(strategies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, strat := range strategies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := e.Run(seriesID, data, strat)
			results[i] = result

			if cfg.Progress != nil {
				cfg.Progress.Increment()
			}
			if cfg.Logger != nil {
				cfg.Logger.LogRun(result)
			}
			if cfg.OnResult != nil {
				cfg.OnResult(result)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
