package indicators

import "math"

// BollingerBands holds the three band series, aligned with the input.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// CalculateBollingerBands computes SMA-centered bands at multiplier
// standard deviations. Indices before period-1 are zero.
func CalculateBollingerBands(closes []float64, period int, multiplier float64) BollingerBands {
	n := len(closes)
	bands := BollingerBands{
		Upper:  make([]float64, n),
		Middle: make([]float64, n),
		Lower:  make([]float64, n),
	}
	if n < period || period <= 0 {
		return bands
	}

	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]

		mean := 0.0
		for _, c := range window {
			mean += c
		}
		mean /= float64(period)

		variance := 0.0
		for _, c := range window {
			d := c - mean
			variance += d * d
		}
		dev := math.Sqrt(variance / float64(period))

		bands.Middle[i] = mean
		bands.Upper[i] = mean + multiplier*dev
		bands.Lower[i] = mean - multiplier*dev
	}
	return bands
}
