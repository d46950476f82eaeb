package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1", time.Minute},
		{"60", time.Hour},
		{"240", 4 * time.Hour},
		{"D", 24 * time.Hour},
		{"w", 7 * 24 * time.Hour},
		{"5m", 5 * time.Minute},
		{"1h", time.Hour},
		{"4H", 4 * time.Hour},
		{"1d", 24 * time.Hour},
	}
	for _, tt := range tests {
		got, err := IntervalDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "0", "-5", "h", "1x", "abc"} {
		_, err := IntervalDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestBybitInterval(t *testing.T) {
	for in, want := range map[string]string{"1h": "60", "4h": "240", "60": "60", "1d": "D", "15m": "15", "W": "W"} {
		got, err := BybitInterval(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCandleAccessors(t *testing.T) {
	data := []OHLCV{
		{Open: 1, High: 3, Low: 0.5, Close: 2},
		{Open: 2, High: 4, Low: 1.5, Close: 3},
	}
	assert.Equal(t, []float64{2, 3}, Closes(data))
	assert.Equal(t, []float64{3, 4}, Highs(data))
	assert.Equal(t, []float64{0.5, 1.5}, Lows(data))
}
