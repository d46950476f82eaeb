package indicators

import "math"

// Bands holds the three Bollinger envelopes. All three share one offset.
type Bands struct {
	Upper  Series
	Middle Series
	Lower  Series
}

// At returns lower, middle and upper at a candle index
func (b Bands) At(candleIndex int) (lower, middle, upper float64, ok bool) {
	if lower, ok = b.Lower.At(candleIndex); !ok {
		return 0, 0, 0, false
	}
	middle, _ = b.Middle.At(candleIndex)
	upper, _ = b.Upper.At(candleIndex)
	return lower, middle, upper, true
}

// Inside reports whether price lies strictly between the lower and upper band.
// ok is false when the bands have no value at the index.
func (b Bands) Inside(candleIndex int, price float64) (inside, ok bool) {
	lower, _, upper, ok := b.At(candleIndex)
	if !ok {
		return false, false
	}
	return price > lower && price < upper, true
}

// Bollinger calculates Bollinger Bands using a simple moving average and the
// population standard deviation (divide by period) of each trailing window.
func Bollinger(close []float64, period int, multiplier float64) Bands {
	if period <= 0 || len(close) < period {
		empty := emptySeries(period - 1)
		return Bands{Upper: empty, Middle: empty, Lower: empty}
	}

	size := len(close) - period + 1
	upper := make([]float64, 0, size)
	middle := make([]float64, 0, size)
	lower := make([]float64, 0, size)

	for i := period - 1; i < len(close); i++ {
		window := close[i-period+1 : i+1]
		sma := average(window)

		variance := 0.0
		for _, v := range window {
			diff := v - sma
			variance += diff * diff
		}
		stdDev := math.Sqrt(variance / float64(period))

		middle = append(middle, sma)
		upper = append(upper, sma+multiplier*stdDev)
		lower = append(lower, sma-multiplier*stdDev)
	}

	offset := period - 1
	return Bands{
		Upper:  Series{Offset: offset, Values: upper},
		Middle: Series{Offset: offset, Values: middle},
		Lower:  Series{Offset: offset, Values: lower},
	}
}
