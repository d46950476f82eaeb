// Package config loads strategy-suite files for the backtester
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
)

// Common configuration constants
const (
	DefaultSymbol   = "BTCUSDT"
	DefaultInterval = "1h"
	DefaultSource   = "csv"
	DefaultDataRoot = "data"
	DefaultExchange = "bybit"
	DefaultPages    = 5
	DefaultWorkers  = 4
	ResultsDir      = "results"
	LogsDir         = "logs"
)

// SuiteConfig is the root of a suite file
type SuiteConfig struct {
	Backtest   BacktestSettings `yaml:"backtest"`
	Strategies []StrategyConfig `yaml:"strategies"`
}

// BacktestSettings describes the data set and run options
type BacktestSettings struct {
	Symbol    string `yaml:"symbol"`
	Interval  string `yaml:"interval"`
	Source    string `yaml:"source"` // csv or bybit
	DataFile  string `yaml:"data_file"`
	DataRoot  string `yaml:"data_root"`
	Exchange  string `yaml:"exchange"`
	Category  string `yaml:"category"`
	Pages     int    `yaml:"pages"`
	Period    string `yaml:"period"` // trailing window, e.g. 30d
	Workers   int    `yaml:"workers"`
	HTFMode   string `yaml:"htf_mode"`
	RankBy    string `yaml:"rank_by"`
	OutputDir string `yaml:"output_dir"`
}

// StrategyConfig is one strategy entry. Omitted conditions are disabled; an
// omitted exit block uses the default exits.
type StrategyConfig struct {
	Name            string           `yaml:"name"`
	Group           string           `yaml:"group"`
	RequiredSignals int              `yaml:"required_signals"`
	CCI             *CCIConfig       `yaml:"cci"`
	RSI             *RSIConfig       `yaml:"rsi"`
	Bollinger       *BollingerConfig `yaml:"bollinger"`
	Exit            *ExitConfig      `yaml:"exit"`
}

type CCIConfig struct {
	Mode      string  `yaml:"mode"`
	Threshold float64 `yaml:"threshold"`
	Period    int     `yaml:"period"`
}

type RSIConfig struct {
	Threshold float64 `yaml:"threshold"`
	Period    int     `yaml:"period"`
}

type BollingerConfig struct {
	Period             int     `yaml:"period"`
	Multiplier         float64 `yaml:"multiplier"`
	UseHigherTimeframe bool    `yaml:"use_higher_timeframe"`
	HTFMultiplier      float64 `yaml:"htf_multiplier"`
	HTFRatio           int     `yaml:"htf_ratio"`
	HTFMode            string  `yaml:"htf_mode"` // falls back to backtest.htf_mode
}

// ExitConfig rules left out never trigger
type ExitConfig struct {
	StopLossPct   *float64 `yaml:"stop_loss_pct"`
	TakeProfitPct *float64 `yaml:"take_profit_pct"`
	MaxHoldBars   *int     `yaml:"max_hold_bars"`
}

// NewDefaultSuiteConfig returns settings for the built-in comparison suite
func NewDefaultSuiteConfig() *SuiteConfig {
	cfg := &SuiteConfig{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML (or JSON) suite file, fills defaults and validates it
func Load(path string) (*SuiteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, bterrors.Wrap(err, bterrors.ErrorCategoryConfiguration, "config", "load").
			WithMessage("could not read config file").
			WithContext("file", path)
	}
	return Parse(raw)
}

// Parse decodes suite content, fills defaults and validates it
func Parse(raw []byte) (*SuiteConfig, error) {
	cfg := &SuiteConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, bterrors.Wrap(err, bterrors.ErrorCategoryConfiguration, "config", "parse").
			WithMessage("could not parse config file")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SuiteConfig) applyDefaults() {
	b := &c.Backtest
	if b.Symbol == "" {
		b.Symbol = DefaultSymbol
	}
	b.Symbol = strings.ToUpper(b.Symbol)
	if b.Interval == "" {
		b.Interval = DefaultInterval
	}
	if b.Source == "" {
		b.Source = DefaultSource
	}
	if b.DataRoot == "" {
		b.DataRoot = DefaultDataRoot
	}
	if b.Exchange == "" {
		b.Exchange = DefaultExchange
	}
	if b.Pages == 0 {
		b.Pages = DefaultPages
	}
	if b.Workers == 0 {
		b.Workers = DefaultWorkers
	}
}

// ToStrategies converts the entries into strategies. An empty list yields the
// built-in comparison suite. Call Validate first; parse errors are reported
// there.
func (c *SuiteConfig) ToStrategies() ([]strategy.Strategy, error) {
	htfMode, err := strategy.ParseHTFMode(c.Backtest.HTFMode)
	if err != nil {
		return nil, bterrors.NewConfigurationError("config", "to_strategies", err.Error())
	}
	if len(c.Strategies) == 0 {
		return strategy.DefaultSuite(htfMode), nil
	}

	out := make([]strategy.Strategy, 0, len(c.Strategies))
	for i, sc := range c.Strategies {
		s, err := sc.toStrategy(htfMode)
		if err != nil {
			return nil, bterrors.NewConfigurationError("config", "to_strategies", err.Error()).
				WithContext("strategy", i)
		}
		out = append(out, s)
	}
	return out, nil
}

func (sc StrategyConfig) toStrategy(htfMode strategy.HTFMode) (strategy.Strategy, error) {
	s := strategy.Strategy{
		Name:            sc.Name,
		Group:           sc.Group,
		RequiredSignals: sc.RequiredSignals,
		Exit:            strategy.DefaultExitRules(),
	}
	if s.Group == "" {
		s.Group = strategy.GroupCustom
	}

	if sc.CCI != nil {
		mode, err := strategy.ParseCCIMode(sc.CCI.Mode)
		if err != nil {
			return s, err
		}
		s.Conditions.CCI = &strategy.CCICondition{
			Mode:      mode,
			Threshold: sc.CCI.Threshold,
			Period:    sc.CCI.Period,
		}
		if mode == strategy.CCIThreshold && sc.CCI.Threshold == 0 {
			s.Conditions.CCI.Threshold = strategy.BounceEntryLevel
		}
	}
	if sc.RSI != nil {
		s.Conditions.RSI = &strategy.RSICondition{
			Threshold: sc.RSI.Threshold,
			Period:    sc.RSI.Period,
		}
		if sc.RSI.Threshold == 0 {
			s.Conditions.RSI.Threshold = strategy.DefaultRSIThreshold
		}
	}
	if sc.Bollinger != nil {
		mode := htfMode
		if sc.Bollinger.HTFMode != "" {
			m, err := strategy.ParseHTFMode(sc.Bollinger.HTFMode)
			if err != nil {
				return s, err
			}
			mode = m
		}
		s.Conditions.Bollinger = &strategy.BollingerCondition{
			Period:                    sc.Bollinger.Period,
			Multiplier:                sc.Bollinger.Multiplier,
			UseHigherTimeframe:        sc.Bollinger.UseHigherTimeframe,
			HigherTimeframeMultiplier: sc.Bollinger.HTFMultiplier,
			HigherTimeframeRatio:      sc.Bollinger.HTFRatio,
			HigherTimeframeMode:       mode,
		}
	}
	if sc.Exit != nil {
		s.Exit = strategy.ExitRules{
			StopLossPct:   sc.Exit.StopLossPct,
			TakeProfitPct: sc.Exit.TakeProfitPct,
			MaxHoldBars:   sc.Exit.MaxHoldBars,
		}
	}
	if s.RequiredSignals == 0 {
		s.RequiredSignals = s.Conditions.Count()
	}
	if s.Name == "" {
		s.Name = s.Describe()
	}
	return s, nil
}
