package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/logger"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/config"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/data"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/reporting"
)

func writeSineCSV(t *testing.T, path string, n int) {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var b strings.Builder
	b.WriteString("timestamp,open,high,low,close,volume\n")
	prev := 100.0
	for i := 0; i < n; i++ {
		price := 100 + 8*math.Sin(float64(i)/9) + 3*math.Sin(float64(i)/2.3)
		high := math.Max(prev, price) + 0.5
		low := math.Min(prev, price) - 0.5
		fmt.Fprintf(&b, "%s,%.4f,%.4f,%.4f,%.4f,%d\n",
			start.Add(time.Duration(i)*time.Hour).Format("2006-01-02 15:04:05"), prev, high, low, price, 1000+i)
		prev = price
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

// TestRun_CSVSuite tests the whole flow from a CSV file to report files
func TestRun_CSVSuite(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "candles.csv")
	writeSineCSV(t, dataPath, 400)
	outDir := filepath.Join(dir, "out")

	f := parseFlags(t, "-data", dataPath, "-log-dir", filepath.Join(dir, "logs"), "-out", outDir, "-workers", "3")
	require.NoError(t, run(context.Background(), f))

	for _, name := range []string{reporting.TradesCSVFile, reporting.ResultsXLSXFile, reporting.ResultsJSONFile} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	logs, err := filepath.Glob(filepath.Join(dir, "logs", "BTCUSDT_1h_*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	raw, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[RUN] All 3 Signals")
}

// TestRun_DataRootLookup tests the data-root layout and a missing file
func TestRun_DataRootLookup(t *testing.T) {
	root := t.TempDir()
	writeSineCSV(t, filepath.Join(root, "bybit", "spot", "ETHUSDT", "60", "candles.csv"), 200)

	f := parseFlags(t, "-symbol", "eth", "-data-root", root, "-log-dir", filepath.Join(root, "logs"), "-console-only")
	require.NoError(t, run(context.Background(), f))

	f = parseFlags(t, "-symbol", "DOGEUSDT", "-data-root", root, "-log-dir", filepath.Join(root, "logs"), "-console-only")
	err := run(context.Background(), f)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.ErrorCategoryData))
}

// TestWriteReports_ContinuesAfterFailure tests that one failing report does not block the rest
func TestWriteReports_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "candles.csv")
	writeSineCSV(t, dataPath, 200)
	candles, err := data.NewCSVProvider().LoadData(dataPath)
	require.NoError(t, err)

	engine := backtest.NewEngine(nil, backtest.DefaultMetricsConfig())
	results := []backtest.Result{engine.Run("sine", candles, strategy.DefaultSuite(strategy.HTFIgnore)[0])}

	sessionLog, err := logger.NewLogger(filepath.Join(dir, "logs"), "BTCUSDT", "1h")
	require.NoError(t, err)
	defer sessionLog.Close()

	outDir := filepath.Join(dir, "out")
	// a directory in place of the JSON file makes that write fail
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, reporting.ResultsJSONFile), 0o755))

	settings := config.NewDefaultSuiteConfig().Backtest
	settings.OutputDir = outDir
	err = writeReports(settings, results, sessionLog)

	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.ErrorCategoryReport), err.Error())
	for _, name := range []string{reporting.TradesCSVFile, reporting.ResultsXLSXFile} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, statErr, name)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(errors.NewValidationError("config", "validate", "bad pages")))
	assert.Equal(t, 2, exitCode(errors.CategorizeError(fmt.Errorf("yaml: line 2: bad indent"), "cli", "run")))
	assert.Equal(t, 1, exitCode(errors.NewDataError("csv", "open", os.ErrNotExist)))
	assert.Equal(t, 1, exitCode(errors.CategorizeError(fmt.Errorf("dial tcp: connection refused"), "cli", "run")))
}
