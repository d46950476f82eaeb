package types

import "time"

// OHLCV is a single candle. Index 0 of a candle slice is the oldest bar.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Closes extracts the close prices of a candle series
func Closes(data []OHLCV) []float64 {
	out := make([]float64, len(data))
	for i, c := range data {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high prices of a candle series
func Highs(data []OHLCV) []float64 {
	out := make([]float64, len(data))
	for i, c := range data {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low prices of a candle series
func Lows(data []OHLCV) []float64 {
	out := make([]float64, len(data))
	for i, c := range data {
		out[i] = c.Low
	}
	return out
}
