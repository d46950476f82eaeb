package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// CSVProvider implements DataProvider for CSV files
type CSVProvider struct {
	format CSVFormat
}

// NewCSVProvider creates a new CSV data provider with default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV data provider with custom format
func NewCSVProviderWithFormat(format CSVFormat) *CSVProvider {
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical data from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, bterrors.NewDataError("csv", "open", err).WithContext("file", source)
	}
	defer file.Close()

	data, err := p.Read(file)
	if err != nil {
		return nil, bterrors.NewDataError("csv", "read", err).WithContext("file", source)
	}
	return data, nil
}

// Read parses candles from r. Malformed or inconsistent rows are skipped
// with a warning.
func (p *CSVProvider) Read(r io.Reader) ([]types.OHLCV, error) {
	format := p.format
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	lineNum := 0
	if format.HasHeader {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return []types.OHLCV{}, nil
			}
			return nil, err
		}
		lineNum++
	}

	data := make([]types.OHLCV, 0, 1024)
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum+1, err)
		}
		lineNum++

		candle, err := parseRecord(record, format)
		if err != nil {
			log.Printf("⚠️ %v at line %d, skipping", err, lineNum)
			continue
		}
		data = append(data, candle)
	}

	return data, nil
}

func parseRecord(record []string, format CSVFormat) (types.OHLCV, error) {
	if len(record) < format.MinColumns() {
		return types.OHLCV{}, fmt.Errorf("insufficient columns (expected %d, got %d)", format.MinColumns(), len(record))
	}

	timestamp, err := parseTimestamp(record[format.TimestampCol], format.DateFormat)
	if err != nil {
		return types.OHLCV{}, err
	}

	var values [5]float64
	cols := [5]int{format.OpenCol, format.HighCol, format.LowCol, format.CloseCol, format.VolumeCol}
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i, col := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("invalid %s '%s'", names[i], record[col])
		}
		values[i] = v
	}

	candle := types.OHLCV{
		Timestamp: timestamp,
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}
	if err := validateCandle(candle); err != nil {
		return types.OHLCV{}, err
	}
	return candle, nil
}

// parseTimestamp accepts the configured layout, RFC 3339, or unix
// milliseconds (13 digits) / seconds.
func parseTimestamp(raw, layout string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if layout != "" {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		if len(s) >= 13 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp '%s'", raw)
}

func validateCandle(c types.OHLCV) error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return fmt.Errorf("invalid price data (negative or zero)")
	}
	if c.High < c.Low {
		return fmt.Errorf("high (%.4f) cannot be less than low (%.4f)", c.High, c.Low)
	}
	if c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("high (%.4f) must be >= open (%.4f) and close (%.4f)", c.High, c.Open, c.Close)
	}
	if c.Low > c.Open || c.Low > c.Close {
		return fmt.Errorf("low (%.4f) must be <= open (%.4f) and close (%.4f)", c.Low, c.Open, c.Close)
	}
	return nil
}

// ValidateData validates the integrity of loaded data
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	return validateSeries(data)
}

func validateSeries(data []types.OHLCV) error {
	if len(data) == 0 {
		return bterrors.NewValidationError("data", "validate", "no data provided")
	}

	for i, candle := range data {
		if err := validateCandle(candle); err != nil {
			return bterrors.NewValidationError("data", "validate", err.Error()).WithContext("index", i)
		}
		if i > 0 && candle.Timestamp.Before(data[i-1].Timestamp) {
			return bterrors.NewValidationError("data", "validate", "timestamps must be in chronological order").
				WithContext("index", i)
		}
	}

	return nil
}
