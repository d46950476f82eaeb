package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/config"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/data"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// Flags holds all command line flags for the backtest command
type Flags struct {
	// Configuration
	ConfigFile *string
	DataFile   *string
	DataRoot   *string
	Exchange   *string
	Symbol     *string
	Interval   *string

	// Data source
	Source *string
	Pages  *int
	Period *string

	// Run options
	Workers *int
	HTFMode *string
	RankBy  *string

	// Output options
	OutputDir   *string
	ConsoleOnly *bool
	EnvFile     *string
	LogDir      *string
	MetricsAddr *string

	ShowVersion *bool

	fs *flag.FlagSet
}

// NewFlags registers all flags on fs
func NewFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		ConfigFile: fs.String("config", "", "Path to a YAML or JSON strategy suite file"),
		DataFile:   fs.String("data", "", "Path to a candle CSV file (overrides -data-root lookup)"),
		DataRoot:   fs.String("data-root", config.DefaultDataRoot, "Data root directory"),
		Exchange:   fs.String("exchange", config.DefaultExchange, "Exchange directory under the data root"),
		Symbol:     fs.String("symbol", config.DefaultSymbol, "Trading symbol (BTC and ETH expand to USDT pairs)"),
		Interval:   fs.String("interval", config.DefaultInterval, "Candle interval (5m, 15m, 1h, 4h, 1d)"),

		Source: fs.String("source", config.DefaultSource, "Candle source: csv or bybit"),
		Pages:  fs.Int("pages", config.DefaultPages, "Pages of 1000 klines to download with -source bybit"),
		Period: fs.String("period", "", "Limit data to trailing period (7d, 30d, 180d)"),

		Workers: fs.Int("workers", config.DefaultWorkers, "Concurrent strategy runs"),
		HTFMode: fs.String("htf-mode", "ignore", "Higher-timeframe Bollinger mode: ignore, replace, confirm"),
		RankBy:  fs.String("rank-by", "win_rate", "Statistic used for sample trades: win_rate, sharpe, total_return"),

		OutputDir:   fs.String("out", "", "Output directory (default results/<SYMBOL>_<interval>)"),
		ConsoleOnly: fs.Bool("console-only", false, "Console output only (no files)"),
		EnvFile:     fs.String("env", ".env", "Environment file path"),
		LogDir:      fs.String("log-dir", config.LogsDir, "Session log directory"),
		MetricsAddr: fs.String("metrics-addr", "", "Serve /metrics and /status on this address (e.g. :9090)"),

		ShowVersion: fs.Bool("version", false, "Show version information"),

		fs: fs,
	}
}

// symbolAliases expands short names used on the command line
var symbolAliases = map[string]string{
	"BTC": "BTCUSDT",
	"ETH": "ETHUSDT",
}

// ResolveSymbol upper-cases a symbol and expands known aliases
func ResolveSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if full, ok := symbolAliases[s]; ok {
		return full
	}
	return s
}

// ValidateFlags performs validation on flag values before anything is loaded
func ValidateFlags(f *Flags) error {
	if _, err := types.IntervalDuration(*f.Interval); err != nil {
		return fmt.Errorf("invalid -interval: %w", err)
	}
	if *f.Source != "csv" && *f.Source != "bybit" {
		return fmt.Errorf("-source must be csv or bybit, got %q", *f.Source)
	}
	if *f.Pages <= 0 || *f.Pages > config.MaxPages {
		return fmt.Errorf("-pages must be between 1 and %d, got %d", config.MaxPages, *f.Pages)
	}
	if *f.Workers < 0 {
		return fmt.Errorf("-workers must be non-negative, got %d", *f.Workers)
	}
	if _, err := strategy.ParseHTFMode(*f.HTFMode); err != nil {
		return err
	}
	if _, err := backtest.ParseRankBy(*f.RankBy); err != nil {
		return err
	}
	if *f.Period != "" {
		if _, ok := data.ParseTrailingPeriod(*f.Period); !ok {
			return fmt.Errorf("invalid -period %q (use 7d, 30d, 180d, 365d)", *f.Period)
		}
	}
	return nil
}

// IsSet reports whether name was given on the command line
func (f *Flags) IsSet(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// ApplyTo overrides suite settings with flags given explicitly on the
// command line. Without a config file every flag applies.
func (f *Flags) ApplyTo(cfg *config.SuiteConfig, fromFile bool) {
	use := func(name string) bool { return !fromFile || f.IsSet(name) }

	b := &cfg.Backtest
	if use("symbol") {
		b.Symbol = ResolveSymbol(*f.Symbol)
	}
	if use("interval") {
		b.Interval = *f.Interval
	}
	if use("source") {
		b.Source = *f.Source
	}
	if use("data") && *f.DataFile != "" {
		b.DataFile = *f.DataFile
	}
	if use("data-root") {
		b.DataRoot = *f.DataRoot
	}
	if use("exchange") {
		b.Exchange = *f.Exchange
	}
	if use("pages") {
		b.Pages = *f.Pages
	}
	if use("period") && *f.Period != "" {
		b.Period = *f.Period
	}
	if use("workers") {
		b.Workers = *f.Workers
	}
	if use("htf-mode") {
		b.HTFMode = *f.HTFMode
	}
	if use("rank-by") {
		b.RankBy = *f.RankBy
	}
	if use("out") && *f.OutputDir != "" {
		b.OutputDir = *f.OutputDir
	}
}

// PrintUsageExamples prints usage examples
func PrintUsageExamples() {
	examples := []struct {
		command     string
		description string
	}{
		{"backtest -symbol BTC -interval 1h", "Run the built-in comparison suite on local BTCUSDT hourly candles"},
		{"backtest -symbol ETH -source bybit -pages 5", "Download 5000 hourly ETHUSDT klines from Bybit and compare"},
		{"backtest -config configs/suite.yaml", "Run the strategies defined in a suite file"},
		{"backtest -symbol BTCUSDT -htf-mode confirm -period 90d", "Require the 4x higher-timeframe band on the last 90 days"},
		{"backtest -symbol BTCUSDT -metrics-addr :9090", "Expose Prometheus metrics while the sweep runs"},
	}

	fmt.Printf("\n📚 USAGE EXAMPLES:\n")
	fmt.Printf("%s\n", strings.Repeat("-", 60))
	for _, example := range examples {
		fmt.Printf("\n• %s\n", example.description)
		fmt.Printf("  %s\n", example.command)
	}
}
