package usecase

import (
	"math"

	"advisor-backend/internal/domain"
)

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

func round1(v float64) float64 { return roundTo(v, 1) }
func round2(v float64) float64 { return roundTo(v, 2) }
func round4(v float64) float64 { return roundTo(v, 4) }
func round8(v float64) float64 { return roundTo(v, 8) }

// roundPrice rounds to a tick size sensible for the magnitude: crypto
// keeps more decimals for small-cap prices, stocks round toward whole
// currency units.
func roundPrice(v float64, class domain.AssetClass) float64 {
	if class == domain.AssetCrypto {
		switch {
		case v >= 1000:
			return roundTo(v, 2)
		case v >= 1:
			return roundTo(v, 4)
		default:
			return roundTo(v, 8)
		}
	}
	switch {
	case v >= 1000:
		return math.Round(v)
	case v >= 100:
		return roundTo(v, 1)
	default:
		return roundTo(v, 2)
	}
}
