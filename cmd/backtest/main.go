package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/exchange/bybit"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/indicators"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/logger"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/monitoring"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/config"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/data"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/reporting"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

const (
	AppName    = "MTF Signal Backtest"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "%s v%s\n\nUSAGE:\n  %s [OPTIONS]\n\n", AppName, AppVersion, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		PrintUsageExamples()
	}
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if err := ValidateFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags); err != nil {
		btErr := bterrors.CategorizeError(err, "cli", "run")
		monitoring.RecordError(btErr)
		log.Printf("❌ %v", btErr)
		os.Exit(exitCode(btErr))
	}
}

// exitCode is 2 for configuration and validation errors, 1 otherwise
func exitCode(err *bterrors.BacktestError) int {
	if err.IsFatal() {
		return 2
	}
	return 1
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
}

// loadSuite reads the suite file when given and applies flag overrides
func loadSuite(flags *Flags) (*config.SuiteConfig, error) {
	cfg := config.NewDefaultSuiteConfig()
	fromFile := *flags.ConfigFile != ""
	if fromFile {
		loaded, err := config.Load(*flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags.ApplyTo(cfg, fromFile)
	if root := os.Getenv("BACKTEST_DATA_ROOT"); root != "" && !flags.IsSet("data-root") {
		cfg.Backtest.DataRoot = root
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCandles reads the series from a CSV file or downloads it from Bybit
func loadCandles(ctx context.Context, settings config.BacktestSettings) ([]types.OHLCV, error) {
	var period time.Duration
	if settings.Period != "" {
		d, ok := data.ParseTrailingPeriod(settings.Period)
		if !ok {
			return nil, bterrors.NewConfigurationError("cli", "load_candles", "invalid period").
				WithContext("period", settings.Period)
		}
		period = d
	}

	if settings.Source == "bybit" {
		client := bybit.NewClient(bybit.Config{
			APIKey:    os.Getenv("BYBIT_API_KEY"),
			APISecret: os.Getenv("BYBIT_API_SECRET"),
		})
		provider, err := data.NewBybitProvider(client, data.BybitProviderConfig{
			Category: settings.Category,
			Interval: settings.Interval,
			Pages:    settings.Pages,
		})
		if err != nil {
			return nil, err
		}
		candles, err := provider.Fetch(ctx, settings.Symbol)
		if err != nil {
			return nil, err
		}
		candles = data.NewDefaultDataFilter().FilterByPeriod(candles, period)
		if err := provider.ValidateData(candles); err != nil {
			return nil, err
		}
		return candles, nil
	}

	dm := data.NewDataManager()
	path := settings.DataFile
	if path == "" {
		found, err := dm.FindDataFile(settings.DataRoot, settings.Exchange, settings.Symbol, settings.Interval)
		if err != nil {
			return nil, err
		}
		path = found
	}
	return dm.Load(path, period)
}

func serveMetrics(addr string, status *monitoring.StatusTracker) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           monitoring.NewServeMux(status),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("⚠️ Metrics server stopped: %v", err)
		}
	}()
	log.Printf("📈 Serving metrics on %s/metrics", addr)
	return srv
}

func run(ctx context.Context, flags *Flags) error {
	cfg, err := loadSuite(flags)
	if err != nil {
		return err
	}
	settings := cfg.Backtest

	strategies, err := cfg.ToStrategies()
	if err != nil {
		return err
	}
	rankBy := backtest.ByWinRate
	if settings.RankBy != "" {
		if rankBy, err = backtest.ParseRankBy(settings.RankBy); err != nil {
			return bterrors.NewConfigurationError("cli", "rank_by", err.Error())
		}
	}

	status := monitoring.NewStatusTracker()
	if *flags.MetricsAddr != "" {
		srv := serveMetrics(*flags.MetricsAddr, status)
		defer srv.Close()
	}

	sessionLog, err := logger.NewLogger(*flags.LogDir, settings.Symbol, settings.Interval)
	if err != nil {
		return err
	}
	defer sessionLog.Close()

	candles, err := loadCandles(ctx, settings)
	if err != nil {
		sessionLog.LogError("load candles", err)
		status.RecordError(err)
		return err
	}
	sessionLog.Info("Loaded %d candles for %s %s", len(candles), settings.Symbol, settings.Interval)
	monitoring.SetCandlesLoaded(settings.Symbol, settings.Interval, len(candles))

	console := reporting.NewConsoleReporter(os.Stdout)
	console.PrintDataSummary(settings.Symbol, settings.Interval, candles)

	engine := backtest.NewEngine(indicators.NewCache(), backtest.DefaultMetricsConfig().ForInterval(settings.Interval))
	progress := backtest.NewProgressTracker(len(strategies))
	status.Start(len(strategies))

	log.Printf("🔄 Running %d strategies with %d workers", len(strategies), settings.Workers)
	seriesID := fmt.Sprintf("%s_%s", settings.Symbol, settings.Interval)
	results, err := engine.Sweep(ctx, seriesID, candles, strategies, backtest.SweepConfig{
		Workers:  settings.Workers,
		Logger:   sessionLog,
		Progress: progress,
		OnResult: func(r backtest.Result) {
			monitoring.RecordRun(r)
			status.RunCompleted(r.Name)
			completed, total, pct, _ := progress.GetProgress()
			log.Printf("📊 [%d/%d %.0f%%] %s: %d trades, win %.2f%%, ETA %v",
				completed, total, pct, r.Name, r.Report.TotalTrades, r.Report.WinRate,
				progress.EstimateTimeRemaining().Round(time.Millisecond))
		},
	})
	if err != nil {
		sessionLog.LogError("sweep", err)
		status.RecordError(err)
		return err
	}
	_, _, _, elapsed := progress.GetProgress()
	log.Printf("✅ Completed %d runs in %v", len(results), elapsed.Round(time.Millisecond))
	hits, misses := engine.Cache().Stats()
	log.Printf("🧮 Indicator cache: %d hits, %d misses", hits, misses)
	sessionLog.Info("Indicator cache: %d hits, %d misses", hits, misses)

	console.PrintComparison(results)
	candidates := backtest.FilterGroup(results, strategy.GroupCombination)
	if len(candidates) == 0 {
		candidates = results
	}
	if best, ok := backtest.Best(candidates, rankBy); ok {
		console.PrintSampleTrades(best)
	}
	console.PrintSummary(results)

	if *flags.ConsoleOnly {
		return nil
	}
	return writeReports(settings, results, sessionLog)
}

func writeReports(settings config.BacktestSettings, results []backtest.Result, sessionLog *logger.Logger) error {
	outDir := settings.OutputDir
	if outDir == "" {
		outDir = reporting.DefaultOutputDir(settings.Symbol, settings.Interval)
	}

	writers := []struct {
		file  string
		write func(path string) error
	}{
		{reporting.TradesCSVFile, func(p string) error { return reporting.WriteTradesCSV(results, p) }},
		{reporting.ResultsXLSXFile, func(p string) error { return reporting.WriteResultsXLSX(results, p) }},
		{reporting.ResultsJSONFile, func(p string) error {
			return reporting.WriteResultsJSON(settings.Symbol, settings.Interval, results, p)
		}},
	}
	// a failed report does not stop the others; the first failure is returned
	var firstErr error
	for _, w := range writers {
		path := filepath.Join(outDir, w.file)
		if err := w.write(path); err != nil {
			btErr := bterrors.CategorizeError(err, "cli", "write_reports")
			sessionLog.LogError("write "+w.file, btErr)
			if btErr.IsFatal() {
				return btErr
			}
			log.Printf("⚠️ Skipping %s: %v", w.file, btErr)
			if firstErr == nil {
				firstErr = btErr
			}
			continue
		}
		log.Printf("💾 Wrote %s", path)
		sessionLog.Info("Wrote %s", path)
	}
	return firstErr
}
