package data

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

var candleHeaders = []string{"timestamp", "open", "high", "low", "close", "volume"}

// WriteCSV writes candles in DefaultCSVFormat so CSVProvider can read them back
func WriteCSV(w io.Writer, candles []types.OHLCV) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(candleHeaders); err != nil {
		return err
	}
	for _, c := range candles {
		record := []string{
			c.Timestamp.UTC().Format(DefaultCSVFormat.DateFormat),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes candles to path, creating parent directories
func SaveCSV(path string, candles []types.OHLCV) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return bterrors.NewDataError("csv", "save", err).WithContext("file", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return bterrors.NewDataError("csv", "save", err).WithContext("file", path)
	}
	defer file.Close()

	if err := WriteCSV(file, candles); err != nil {
		return bterrors.NewDataError("csv", "save", err).WithContext("file", path)
	}
	return nil
}
