package config

import (
	"fmt"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// Validation limits
const (
	MinIndicatorPeriod = 2
	MaxPercent         = 100.0
	MaxPages           = 100
)

// Validate checks settings and every strategy entry. A required signal
// count above the number of configured conditions is allowed; such a
// strategy simply never enters.
func (c *SuiteConfig) Validate() error {
	if err := c.Backtest.validate(); err != nil {
		return err
	}
	for i, sc := range c.Strategies {
		if err := sc.validate(); err != nil {
			return bterrors.NewValidationError("config", "validate", err.Error()).
				WithContext("strategy", i).
				WithContext("name", sc.Name)
		}
	}
	return nil
}

func (b BacktestSettings) validate() error {
	fail := func(format string, args ...interface{}) error {
		return bterrors.NewValidationError("config", "validate", fmt.Sprintf(format, args...))
	}

	if _, err := types.IntervalDuration(b.Interval); err != nil {
		return fail("interval: %v", err)
	}
	switch b.Source {
	case "csv", "bybit":
	default:
		return fail("source must be csv or bybit, got %q", b.Source)
	}
	if b.Pages < 1 || b.Pages > MaxPages {
		return fail("pages must be between 1 and %d, got %d", MaxPages, b.Pages)
	}
	if b.Workers < 0 {
		return fail("workers must be non-negative, got %d", b.Workers)
	}
	if _, err := strategy.ParseHTFMode(b.HTFMode); err != nil {
		return fail("%v", err)
	}
	if b.RankBy != "" {
		if _, err := backtest.ParseRankBy(b.RankBy); err != nil {
			return fail("%v", err)
		}
	}
	return nil
}

func (sc StrategyConfig) validate() error {
	if sc.RequiredSignals < 0 {
		return fmt.Errorf("required_signals must be non-negative, got %d", sc.RequiredSignals)
	}
	if sc.CCI == nil && sc.RSI == nil && sc.Bollinger == nil {
		return fmt.Errorf("at least one condition (cci, rsi, bollinger) is required")
	}

	if c := sc.CCI; c != nil {
		if _, err := strategy.ParseCCIMode(c.Mode); err != nil {
			return err
		}
		if err := validatePeriod("cci.period", c.Period); err != nil {
			return err
		}
	}
	if r := sc.RSI; r != nil {
		if err := validatePeriod("rsi.period", r.Period); err != nil {
			return err
		}
		if r.Threshold < 0 || r.Threshold > MaxPercent {
			return fmt.Errorf("rsi.threshold must be between 0 and 100, got %.2f", r.Threshold)
		}
	}
	if bb := sc.Bollinger; bb != nil {
		if err := validatePeriod("bollinger.period", bb.Period); err != nil {
			return err
		}
		if bb.Multiplier < 0 || bb.HTFMultiplier < 0 {
			return fmt.Errorf("bollinger multipliers must be non-negative")
		}
		if bb.HTFRatio < 0 {
			return fmt.Errorf("bollinger.htf_ratio must be non-negative, got %d", bb.HTFRatio)
		}
		if _, err := strategy.ParseHTFMode(bb.HTFMode); err != nil {
			return err
		}
	}
	if e := sc.Exit; e != nil {
		if e.StopLossPct != nil && (*e.StopLossPct < 0 || *e.StopLossPct > MaxPercent) {
			return fmt.Errorf("exit.stop_loss_pct must be between 0 and 100, got %.2f", *e.StopLossPct)
		}
		if e.TakeProfitPct != nil && *e.TakeProfitPct < 0 {
			return fmt.Errorf("exit.take_profit_pct must be non-negative, got %.2f", *e.TakeProfitPct)
		}
		if e.MaxHoldBars != nil && *e.MaxHoldBars < 0 {
			return fmt.Errorf("exit.max_hold_bars must be non-negative, got %d", *e.MaxHoldBars)
		}
	}
	return nil
}

// validatePeriod accepts 0 (use the default) or at least MinIndicatorPeriod
func validatePeriod(field string, period int) error {
	if period != 0 && period < MinIndicatorPeriod {
		return fmt.Errorf("%s must be at least %d, got %d", field, MinIndicatorPeriod, period)
	}
	return nil
}
