package strategy

import (
	"sort"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/indicators"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// Signal keys
const (
	SignalCCI       = "cci"
	SignalRSI       = "rsi"
	SignalBollinger = "bollinger"
)

// Signals maps an indicator name to whether its entry condition holds.
// A key is absent when the condition is not configured or the indicator has
// no value yet at the evaluated bar.
type Signals map[string]bool

// Active counts the signals that are true
func (s Signals) Active() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// Names returns the signal keys in sorted order
func (s Signals) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ActiveNames returns the keys of active signals in sorted order
func (s Signals) ActiveNames() []string {
	names := make([]string, 0, len(s))
	for k, v := range s {
		if v {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy
func (s Signals) Clone() Signals {
	out := make(Signals, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Evaluator maps a bar index to the entry signals of one strategy.
// It is stateless between calls.
type Evaluator struct {
	data       []types.OHLCV
	conditions Conditions
	set        IndicatorSet
}

// NewEvaluator creates an evaluator over a candle series and its indicators
func NewEvaluator(data []types.OHLCV, conditions Conditions, set IndicatorSet) *Evaluator {
	return &Evaluator{
		data:       data,
		conditions: conditions,
		set:        set,
	}
}

// Evaluate returns the signals at a candle index
func (e *Evaluator) Evaluate(index int) Signals {
	signals := make(Signals, 3)
	if index < 0 || index >= len(e.data) {
		return signals
	}

	if c := e.conditions.CCI; c != nil {
		if fired, ok := e.cciSignal(index, *c); ok {
			signals[SignalCCI] = fired
		}
	}

	if c := e.conditions.RSI; c != nil {
		if rsi, ok := e.set.RSI.At(index); ok {
			signals[SignalRSI] = rsi < c.Threshold
		}
	}

	if c := e.conditions.Bollinger; c != nil {
		if inside, ok := e.bollingerSignal(index, *c); ok {
			signals[SignalBollinger] = inside
		}
	}

	return signals
}

func (e *Evaluator) cciSignal(index int, c CCICondition) (fired, ok bool) {
	current, ok := e.set.CCI.At(index)
	if !ok {
		return false, false
	}

	if c.Mode == CCIThreshold {
		return current < c.Threshold, true
	}

	if current <= BounceEntryLevel {
		return false, true
	}
	prev, ok := e.set.CCI.At(index - 1)
	if !ok || prev > BounceEntryLevel {
		return false, true
	}

	return e.breachedSinceLastCross(index), true
}

// breachedSinceLastCross scans the bars before index for a CCI reading below
// the breach level. The scan stops at an earlier upward cross of the entry
// level, since that cross already consumed any breach before it.
func (e *Evaluator) breachedSinceLastCross(index int) bool {
	cci := e.set.CCI
	for k := index - 1; k >= 0 && k >= index-BounceLookback; k-- {
		v, ok := cci.At(k)
		if !ok {
			break
		}
		if v < BounceBreachLevel {
			return true
		}
		if prev, ok := cci.At(k - 1); ok && v > BounceEntryLevel && prev <= BounceEntryLevel {
			return false
		}
	}
	return false
}

func (e *Evaluator) bollingerSignal(index int, c BollingerCondition) (inside, ok bool) {
	price := e.data[index].Close
	base, baseOK := e.set.Bands.Inside(index, price)

	if e.set.HTFBands == nil || c.HigherTimeframeMode == HTFIgnore {
		return base, baseOK
	}

	htfIndex := indicators.HigherTimeframeIndex(index, e.set.HTFRatio)
	htf, htfOK := e.set.HTFBands.Inside(htfIndex, price)

	switch c.HigherTimeframeMode {
	case HTFReplace:
		return htf, htfOK
	case HTFConfirm:
		if !baseOK || !htfOK {
			return false, false
		}
		return base && htf, true
	default:
		return base, baseOK
	}
}
