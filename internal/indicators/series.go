package indicators

// Series is an indicator output aligned to a suffix of a candle series.
// Values[k] belongs to candle index Offset+k; indices before Offset are warm-up
// bars and have no value.
type Series struct {
	Offset int
	Values []float64
}

// At returns the value at the given candle index and whether one exists
func (s Series) At(candleIndex int) (float64, bool) {
	k := candleIndex - s.Offset
	if k < 0 || k >= len(s.Values) {
		return 0, false
	}
	return s.Values[k], true
}

// Has reports whether the series has a value at the given candle index
func (s Series) Has(candleIndex int) bool {
	_, ok := s.At(candleIndex)
	return ok
}

// Len returns the number of computed values
func (s Series) Len() int {
	return len(s.Values)
}

// FirstIndex returns the candle index of the first value, or -1 for an empty series
func (s Series) FirstIndex() int {
	if len(s.Values) == 0 {
		return -1
	}
	return s.Offset
}

func emptySeries(offset int) Series {
	if offset < 0 {
		offset = 0
	}
	return Series{Offset: offset}
}
