package indicators

import (
	"math"

	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// Resample aggregates a candle series into a higher timeframe by grouping
// consecutive, non-overlapping blocks of ratio bars. The last block is shorter
// when len(data) is not a multiple of ratio. Each output bar carries the
// timestamp of the first bar in its block.
func Resample(data []types.OHLCV, ratio int) []types.OHLCV {
	if ratio <= 0 || len(data) == 0 {
		return nil
	}

	out := make([]types.OHLCV, 0, (len(data)+ratio-1)/ratio)
	for start := 0; start < len(data); start += ratio {
		end := start + ratio
		if end > len(data) {
			end = len(data)
		}
		block := data[start:end]

		bar := types.OHLCV{
			Open:      block[0].Open,
			High:      math.Inf(-1),
			Low:       math.Inf(1),
			Close:     block[len(block)-1].Close,
			Timestamp: block[0].Timestamp,
		}
		for _, c := range block {
			bar.High = math.Max(bar.High, c.High)
			bar.Low = math.Min(bar.Low, c.Low)
			bar.Volume += c.Volume
		}
		out = append(out, bar)
	}

	return out
}

// HigherTimeframeIndex maps a base-timeframe candle index to the index of the
// resampled block containing it.
//
// The block's close is the close of its last base bar, so reading it from an
// earlier bar of the same block peeks up to ratio-1 bars ahead. Callers accept
// this approximation; it is not realigned to base-bar granularity.
func HigherTimeframeIndex(candleIndex, ratio int) int {
	if ratio <= 0 || candleIndex < 0 {
		return -1
	}
	return candleIndex / ratio
}
