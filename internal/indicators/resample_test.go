package indicators

import (
	"testing"
	"time"

	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_Blocks(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	data := make([]types.OHLCV, 10)
	for i := range data {
		p := float64(i + 1)
		data[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      p,
			High:      p + 0.5,
			Low:       p - 0.5,
			Close:     p + 0.25,
			Volume:    10,
		}
	}

	htf := Resample(data, 4)
	require.Len(t, htf, 3)

	assert.Equal(t, 1.0, htf[0].Open)
	assert.Equal(t, 4.5, htf[0].High)
	assert.Equal(t, 0.5, htf[0].Low)
	assert.Equal(t, 4.25, htf[0].Close)
	assert.Equal(t, 40.0, htf[0].Volume)
	assert.Equal(t, start, htf[0].Timestamp)

	// tail block has only bars 9 and 10
	assert.Equal(t, 9.0, htf[2].Open)
	assert.Equal(t, 10.5, htf[2].High)
	assert.Equal(t, 8.5, htf[2].Low)
	assert.Equal(t, 10.25, htf[2].Close)
	assert.Equal(t, 20.0, htf[2].Volume)
}

func TestResample_RatioOneIsIdentity(t *testing.T) {
	data := generateRealisticData(12)
	assert.Equal(t, data, Resample(data, 1))
}

func TestResample_InvalidRatio(t *testing.T) {
	assert.Nil(t, Resample(generateRealisticData(12), 0))
}

func TestHigherTimeframeIndex(t *testing.T) {
	assert.Equal(t, 0, HigherTimeframeIndex(0, 4))
	assert.Equal(t, 0, HigherTimeframeIndex(3, 4))
	assert.Equal(t, 1, HigherTimeframeIndex(4, 4))
	assert.Equal(t, 2, HigherTimeframeIndex(9, 4))
	assert.Equal(t, -1, HigherTimeframeIndex(5, 0))
}
