package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// CandlesFile is the file name of every stored series
const CandlesFile = "candles.csv"

// Market categories searched per exchange, in order
var exchangeCategories = map[string][]string{
	"bybit":   {"spot", "linear", "inverse"},
	"binance": {"spot", "futures"},
}

var fallbackCategories = []string{"spot", "futures", "linear", "inverse"}

// DefaultFileLocator implements FileLocator on the local file system
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// IntervalDir returns the directory name of an interval: its bar length in
// minutes, so "1h", "60" and "60m" share a directory and "D" maps to "1440".
// Intervals that do not parse are used verbatim.
func IntervalDir(interval string) string {
	d, err := types.IntervalDuration(interval)
	if err != nil || d%time.Minute != 0 {
		return strings.TrimSpace(interval)
	}
	return strconv.Itoa(int(d / time.Minute))
}

// DataFilePath returns where the series of one market category is stored
func (f *DefaultFileLocator) DataFilePath(dataRoot, exchange, category, symbol, interval string) string {
	return filepath.Join(dataRoot, strings.ToLower(exchange), strings.ToLower(category),
		strings.ToUpper(symbol), IntervalDir(interval), CandlesFile)
}

// FindDataFile returns the first existing candles file across the exchange's
// categories. The error wraps os.ErrNotExist and lists the paths tried.
func (f *DefaultFileLocator) FindDataFile(dataRoot, exchange, symbol, interval string) (string, error) {
	categories, ok := exchangeCategories[strings.ToLower(exchange)]
	if !ok {
		categories = fallbackCategories
	}

	attempted := make([]string, 0, len(categories))
	for _, category := range categories {
		path := f.DataFilePath(dataRoot, exchange, category, symbol, interval)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		attempted = append(attempted, path)
	}

	return "", bterrors.NewDataError("locator", "find",
		fmt.Errorf("no data for %s %s under %s: %w", strings.ToUpper(symbol), interval, dataRoot, os.ErrNotExist)).
		WithContext("tried", strings.Join(attempted, ", "))
}
