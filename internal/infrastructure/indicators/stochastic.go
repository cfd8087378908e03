package indicators

// StochasticResult holds smoothed %K and %D aligned to the input
// index. KFirst/DFirst are the first meaningful indices.
type StochasticResult struct {
	K      []float64
	D      []float64
	KFirst int
	DFirst int
}

// CalculateStochastic computes the stochastic oscillator: raw %K over
// kPeriod, smoothed by an SMA of smooth bars, with %D as an SMA of %K
// over dPeriod. A flat high/low window yields 50.
func CalculateStochastic(highs, lows, closes []float64, kPeriod, dPeriod, smooth int) StochasticResult {
	length := len(closes)
	res := StochasticResult{
		K:      make([]float64, length),
		D:      make([]float64, length),
		KFirst: length,
		DFirst: length,
	}
	if length < kPeriod+dPeriod+smooth {
		return res
	}

	rawK := make([]float64, length)
	for i := kPeriod - 1; i < length; i++ {
		hh := highs[i-kPeriod+1]
		ll := lows[i-kPeriod+1]
		for j := i - kPeriod + 2; j <= i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			rawK[i] = 50
		} else {
			rawK[i] = (closes[i] - ll) / (hh - ll) * 100
		}
	}

	res.KFirst = kPeriod - 1 + smooth - 1
	for i := res.KFirst; i < length; i++ {
		sum := 0.0
		for j := i - smooth + 1; j <= i; j++ {
			sum += rawK[j]
		}
		res.K[i] = sum / float64(smooth)
	}

	res.DFirst = res.KFirst + dPeriod - 1
	for i := res.DFirst; i < length; i++ {
		sum := 0.0
		for j := i - dPeriod + 1; j <= i; j++ {
			sum += res.K[j]
		}
		res.D[i] = sum / float64(dPeriod)
	}

	return res
}
