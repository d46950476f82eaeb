package data

import (
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// DataManager loads a stored series: locate, read, normalize, trim and
// validate
type DataManager struct {
	provider DataProvider
	filter   DataFilter
	locator  FileLocator
}

// NewDataManager creates a data manager reading CSV files
func NewDataManager() *DataManager {
	return NewDataManagerWithProvider(NewCSVProvider())
}

// NewDataManagerWithProvider creates a data manager with a custom provider
func NewDataManagerWithProvider(provider DataProvider) *DataManager {
	return &DataManager{
		provider: provider,
		filter:   NewDefaultDataFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// Load reads source through the provider, normalizes ordering, applies the
// trailing period if positive and validates the result.
func (dm *DataManager) Load(source string, period time.Duration) ([]types.OHLCV, error) {
	data, err := dm.provider.LoadData(source)
	if err != nil {
		return nil, err
	}
	data = dm.filter.Normalize(data)
	data = dm.filter.FilterByPeriod(data, period)
	if err := dm.provider.ValidateData(data); err != nil {
		return nil, err
	}
	return data, nil
}

// FindDataFile locates a stored series under dataRoot
func (dm *DataManager) FindDataFile(dataRoot, exchange, symbol, interval string) (string, error) {
	return dm.locator.FindDataFile(dataRoot, exchange, symbol, interval)
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "180d"
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	// allow raw durations too (e.g., 168h)
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	return 0, false
}
