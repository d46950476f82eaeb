package data

import (
	"time"

	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// DataProvider loads a candle series from a source. For file providers the
// source is a path; for exchange providers it is a symbol.
type DataProvider interface {
	LoadData(source string) ([]types.OHLCV, error)

	// ValidateData rejects series the simulator cannot use: empty or not
	// in chronological order
	ValidateData(data []types.OHLCV) error

	GetName() string
}

// DataFilter trims and orders a series before it is backtested
type DataFilter interface {
	// FilterByPeriod keeps the trailing period ending at the last candle
	FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV

	// FilterByDateRange keeps candles within [start, end]
	FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV

	// Normalize sorts by timestamp and drops duplicate bars
	Normalize(data []types.OHLCV) []types.OHLCV

	ValidateTimeSequence(data []types.OHLCV) error
}

// FileLocator maps a series to its candles file under a data root laid out
// as <root>/<exchange>/<category>/<SYMBOL>/<minutes>/candles.csv
type FileLocator interface {
	// DataFilePath is where a series for one market category is stored
	DataFilePath(dataRoot, exchange, category, symbol, interval string) string

	// FindDataFile searches the categories known for exchange and returns
	// the first existing file
	FindDataFile(dataRoot, exchange, symbol, interval string) (string, error)
}

// CSVFormat describes where candle fields sit in a CSV row
type CSVFormat struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	// DateFormat is tried first; RFC 3339 and unix seconds or milliseconds
	// are accepted as fallbacks
	DateFormat string
	HasHeader  bool
}

// MinColumns is the shortest row that holds every field
func (f CSVFormat) MinColumns() int {
	last := 0
	for _, col := range []int{f.TimestampCol, f.OpenCol, f.HighCol, f.LowCol, f.CloseCol, f.VolumeCol} {
		if col > last {
			last = col
		}
	}
	return last + 1
}

// DefaultCSVFormat matches the files written by SaveCSV:
// timestamp,open,high,low,close,volume
var DefaultCSVFormat = CSVFormat{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	DateFormat:   "2006-01-02 15:04:05",
	HasHeader:    true,
}
