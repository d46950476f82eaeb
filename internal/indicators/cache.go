package indicators

import (
	"fmt"
	"sync"

	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// Kind identifies an indicator family in the cache key
type Kind string

const (
	KindCCI          Kind = "cci"
	KindRSI          Kind = "rsi"
	KindBollinger    Kind = "bollinger"
	KindBollingerHTF Kind = "bollinger_htf"
)

// CacheKey identifies one computed indicator for one candle series.
// Ratio is only meaningful for higher-timeframe entries.
type CacheKey struct {
	SeriesID   string
	Kind       Kind
	Period     int
	Multiplier float64
	Ratio      int
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s/%s/%d/%.4f/%d", k.SeriesID, k.Kind, k.Period, k.Multiplier, k.Ratio)
}

// Cache memoizes indicator series across backtest runs over the same candles.
// Stored series are never mutated, so they can be shared by concurrent runs.
// A nil *Cache is valid and simply computes every request.
type Cache struct {
	mu     sync.RWMutex
	series map[CacheKey]Series
	bands  map[CacheKey]Bands
	hits   int
	misses int
}

// NewCache creates an empty indicator cache
func NewCache() *Cache {
	return &Cache{
		series: make(map[CacheKey]Series),
		bands:  make(map[CacheKey]Bands),
	}
}

// CCI returns the CCI series for the candles identified by seriesID
func (c *Cache) CCI(seriesID string, data []types.OHLCV, period int) Series {
	key := CacheKey{SeriesID: seriesID, Kind: KindCCI, Period: period}
	return c.loadSeries(key, func() Series {
		return CCI(types.Highs(data), types.Lows(data), types.Closes(data), period)
	})
}

// RSI returns the RSI series for the candles identified by seriesID
func (c *Cache) RSI(seriesID string, data []types.OHLCV, period int) Series {
	key := CacheKey{SeriesID: seriesID, Kind: KindRSI, Period: period}
	return c.loadSeries(key, func() Series {
		return RSI(types.Closes(data), period)
	})
}

// Bollinger returns base-timeframe Bollinger Bands
func (c *Cache) Bollinger(seriesID string, data []types.OHLCV, period int, multiplier float64) Bands {
	key := CacheKey{SeriesID: seriesID, Kind: KindBollinger, Period: period, Multiplier: multiplier}
	return c.loadBands(key, func() Bands {
		return Bollinger(types.Closes(data), period, multiplier)
	})
}

// HigherTimeframeBollinger resamples the candles by ratio and returns Bollinger
// Bands indexed by higher-timeframe block (see HigherTimeframeIndex).
func (c *Cache) HigherTimeframeBollinger(seriesID string, data []types.OHLCV, ratio, period int, multiplier float64) Bands {
	key := CacheKey{SeriesID: seriesID, Kind: KindBollingerHTF, Period: period, Multiplier: multiplier, Ratio: ratio}
	return c.loadBands(key, func() Bands {
		return Bollinger(types.Closes(Resample(data, ratio)), period, multiplier)
	})
}

// Stats returns cache hit and miss counts
func (c *Cache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Size returns the number of cached entries
func (c *Cache) Size() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.series) + len(c.bands)
}

func (c *Cache) loadSeries(key CacheKey, compute func() Series) Series {
	if c == nil {
		return compute()
	}

	c.mu.RLock()
	s, ok := c.series[key]
	c.mu.RUnlock()
	if ok {
		c.hit()
		return s
	}

	s = compute()
	c.mu.Lock()
	c.series[key] = s
	c.misses++
	c.mu.Unlock()
	return s
}

func (c *Cache) loadBands(key CacheKey, compute func() Bands) Bands {
	if c == nil {
		return compute()
	}

	c.mu.RLock()
	b, ok := c.bands[key]
	c.mu.RUnlock()
	if ok {
		c.hit()
		return b
	}

	b = compute()
	c.mu.Lock()
	c.bands[key] = b
	c.misses++
	c.mu.Unlock()
	return b
}

func (c *Cache) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}
