package indicators

// CalculateSMA computes the Simple Moving Average.
// The result has the same length as the input; indices before
// period-1 are zero.
func CalculateSMA(data []float64, period int) []float64 {
	sma := make([]float64, len(data))
	if len(data) < period || period <= 0 {
		return sma
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	sma[period-1] = sum / float64(period)

	for i := period; i < len(data); i++ {
		sum += data[i] - data[i-period]
		sma[i] = sum / float64(period)
	}

	return sma
}

// CalculateEMA computes the Exponential Moving Average, seeded with a
// simple average of the first period values.
func CalculateEMA(data []float64, period int) []float64 {
	ema := make([]float64, len(data))
	if len(data) < period || period <= 0 {
		return ema
	}

	k := 2.0 / (float64(period) + 1.0)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	ema[period-1] = sum / float64(period)

	for i := period; i < len(data); i++ {
		prev := ema[i-1]
		ema[i] = (data[i] * k) + (prev * (1 - k))
	}

	return ema
}
