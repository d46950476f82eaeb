package indicators

import "math"

// cciConstant is Lambert's scaling factor so that ~70-80% of values fall in [-100, 100]
const cciConstant = 0.015

// CCI calculates the Commodity Channel Index over typical price (H+L+C)/3.
// The first value belongs to candle index period-1. A flat window (zero mean
// absolute deviation) yields 0.
func CCI(high, low, close []float64, period int) Series {
	n := minLen(high, low, close)
	if period <= 0 || n < period {
		return emptySeries(period - 1)
	}

	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}

	values := make([]float64, 0, n-period+1)
	for i := period - 1; i < n; i++ {
		window := tp[i-period+1 : i+1]
		mean := average(window)

		meanDev := 0.0
		for _, v := range window {
			meanDev += math.Abs(v - mean)
		}
		meanDev /= float64(period)

		if meanDev == 0 {
			values = append(values, 0)
			continue
		}
		values = append(values, (tp[i]-mean)/(cciConstant*meanDev))
	}

	return Series{Offset: period - 1, Values: values}
}

func minLen(series ...[]float64) int {
	n := -1
	for _, s := range series {
		if n < 0 || len(s) < n {
			n = len(s)
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
