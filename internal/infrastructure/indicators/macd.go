package indicators

// MACDResult holds the MACD line, its signal line and the histogram,
// all aligned to the input index. FirstValid is the first index where
// the histogram is meaningful.
type MACDResult struct {
	MACDLine   []float64
	SignalLine []float64
	Histogram  []float64
	FirstValid int
}

// CalculateMACD computes MACD (fast/slow EMA difference) with an EMA
// signal line over the MACD values.
func CalculateMACD(closes []float64, fast, slow, signalPeriod int) MACDResult {
	length := len(closes)
	res := MACDResult{
		MACDLine:   make([]float64, length),
		SignalLine: make([]float64, length),
		Histogram:  make([]float64, length),
		FirstValid: length, // nothing valid yet
	}
	if length < slow+signalPeriod {
		return res
	}

	emaFast := CalculateEMA(closes, fast)
	emaSlow := CalculateEMA(closes, slow)

	macdStart := slow - 1
	for i := macdStart; i < length; i++ {
		res.MACDLine[i] = emaFast[i] - emaSlow[i]
	}

	// Signal line is an EMA over the valid MACD segment, mapped back to
	// the input index space.
	segment := res.MACDLine[macdStart:]
	signalSeg := CalculateEMA(segment, signalPeriod)
	for i, v := range signalSeg {
		res.SignalLine[macdStart+i] = v
	}

	res.FirstValid = macdStart + signalPeriod - 1
	for i := res.FirstValid; i < length; i++ {
		res.Histogram[i] = res.MACDLine[i] - res.SignalLine[i]
	}

	return res
}
