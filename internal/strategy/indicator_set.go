package strategy

import (
	"github.com/ducminhle1904/mtf-signal-backtest/internal/indicators"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// IndicatorSet holds the indicator series a strategy reads. Only configured
// conditions are computed; the rest stay empty.
type IndicatorSet struct {
	CCI   indicators.Series
	RSI   indicators.Series
	Bands indicators.Bands

	// HTFBands is indexed by higher-timeframe block, not by candle index
	HTFBands *indicators.Bands
	HTFRatio int
}

// BuildIndicatorSet computes (or loads from cache) every indicator the
// strategy's conditions need. seriesID identifies the candle series in the
// cache; cache may be nil.
func BuildIndicatorSet(seriesID string, data []types.OHLCV, s Strategy, cache *indicators.Cache) IndicatorSet {
	var set IndicatorSet

	if c := s.Conditions.CCI; c != nil {
		set.CCI = cache.CCI(seriesID, data, c.EffectivePeriod())
	}
	if c := s.Conditions.RSI; c != nil {
		set.RSI = cache.RSI(seriesID, data, c.EffectivePeriod())
	}
	if c := s.Conditions.Bollinger; c != nil {
		set.Bands = cache.Bollinger(seriesID, data, c.EffectivePeriod(), c.EffectiveMultiplier())
		if c.UseHigherTimeframe {
			ratio := c.EffectiveHTFRatio()
			htf := cache.HigherTimeframeBollinger(seriesID, data, ratio, c.EffectivePeriod(), c.EffectiveHTFMultiplier())
			set.HTFBands = &htf
			set.HTFRatio = ratio
		}
	}

	return set
}
