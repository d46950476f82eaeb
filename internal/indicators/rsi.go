package indicators

import "math"

// rsMaxSentinel replaces an infinite relative strength when there are no losses
const rsMaxSentinel = 100.0

// RSI calculates the Relative Strength Index with Wilder's smoothing.
//
// The averages are seeded with simple means of the first period deltas
// (closes 0..period), so the first value belongs to candle index period.
// With no losses RS is capped at 100 instead of +Inf; a completely flat
// window (no gains, no losses) reads exactly 50.
func RSI(close []float64, period int) Series {
	if period <= 0 || len(close) < period+1 {
		return emptySeries(period)
	}

	gains, losses := 0.0, 0.0
	for i := 1; i <= period; i++ {
		change := close[i] - close[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	values := make([]float64, 0, len(close)-period)
	values = append(values, rsiValue(avgGain, avgLoss))

	p := float64(period)
	for i := period + 1; i < len(close); i++ {
		change := close[i] - close[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		values = append(values, rsiValue(avgGain, avgLoss))
	}

	return Series{Offset: period, Values: values}
}

func rsiValue(avgGain, avgLoss float64) float64 {
	var rs float64
	switch {
	case avgLoss == 0 && avgGain == 0:
		rs = 1
	case avgLoss == 0:
		rs = rsMaxSentinel
	default:
		rs = avgGain / avgLoss
	}
	return 100 - (100 / (1 + rs))
}
