package usecase

import (
	"math"
	"time"

	"advisor-backend/internal/domain"
)

// candlesFromCloses builds bars with a fixed half-point range around
// each close.
func candlesFromCloses(closes []float64) []domain.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     c,
			High:     c + 0.5,
			Low:      c - 0.5,
			Close:    c,
			Volume:   100,
		}
	}
	return candles
}

// growthCloses is a steady exponential uptrend. Every trend indicator
// reads bullish on it.
func growthCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.01, float64(i))
	}
	return closes
}

func linearCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return closes
}

func flatCloses(n int, value float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = value
	}
	return closes
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
