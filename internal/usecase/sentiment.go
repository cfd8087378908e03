package usecase

import (
	"fmt"
	"math"
	"strings"

	"advisor-backend/internal/domain"
	"advisor-backend/internal/infrastructure/indicators"
)

// AnalyzeSentiment reads the benchmark series (market index for
// equities, BTC for crypto) and scores the broad market mood. The
// symbol is used to flag self-referential crypto analysis, where the
// benchmark barely counts.
func AnalyzeSentiment(symbol string, benchmarkCloses []float64, policy domain.Policy) domain.SentimentReport {
	if policy.Class == domain.AssetEquity {
		return analyzeIndexSentiment(benchmarkCloses, policy)
	}
	return analyzeBTCSentiment(symbol, benchmarkCloses, policy)
}

func analyzeIndexSentiment(closes []float64, policy domain.Policy) domain.SentimentReport {
	if len(closes) < 50 {
		return domain.SentimentReport{Trend: "NEUTRAL", Details: []string{"Insufficient benchmark data"}}
	}

	n := len(closes)
	curr := closes[n-1]
	ema20 := last(indicators.CalculateEMA(closes, 20))
	ema50 := last(indicators.CalculateEMA(closes, 50))

	signal := 0.0
	var details []string

	if ema20 > ema50 {
		signal += 30
		details = append(details, "Index EMA20 > EMA50")
	} else {
		signal -= 30
		details = append(details, "Index EMA20 < EMA50")
	}

	longRef := curr
	if n >= 200 {
		longRef = last(indicators.CalculateSMA(closes, 200))
	}
	if curr > longRef {
		signal += 25
		details = append(details, "Index above SMA200")
	} else {
		signal -= 25
		details = append(details, "Index below SMA200")
	}

	change1d := percentChange(closes[n-2], curr)
	change5d := 0.0
	if n >= 6 {
		change5d = percentChange(closes[n-6], curr)
	}

	isCrash := change1d < policy.CrashThreshold
	if isCrash {
		signal -= 50
		details = append(details, fmt.Sprintf("Index crash: %.2f%% in 1d", change1d))
	}
	if change5d > 1 {
		signal += 20
		details = append(details, fmt.Sprintf("Index up %.2f%% in 5d", change5d))
	} else if change5d < -1 {
		signal -= 20
		details = append(details, fmt.Sprintf("Index down %.2f%% in 5d", change5d))
	}

	rsi := last(indicators.CalculateRSI(closes, rsiPeriod))
	if rsi > 50 {
		signal += 15
		details = append(details, fmt.Sprintf("Index RSI %.1f bullish", rsi))
	} else {
		signal -= 15
		details = append(details, fmt.Sprintf("Index RSI %.1f bearish", rsi))
	}

	signal = clampSignal(signal)
	trend := "NEUTRAL"
	if signal >= 40 {
		trend = "BULLISH"
	} else if signal <= -40 {
		trend = "BEARISH"
	}

	return domain.SentimentReport{
		Signal:   signal,
		Trend:    trend,
		Strength: math.Abs(signal),
		Change1d: change1d,
		ChangeNd: change5d,
		IsCrash:  isCrash,
		Details:  details,
	}
}

func analyzeBTCSentiment(symbol string, closes []float64, policy domain.Policy) domain.SentimentReport {
	isSelf := strings.HasPrefix(strings.ToUpper(symbol), "BTC")
	if len(closes) < 30 {
		return domain.SentimentReport{
			Trend:   "NEUTRAL",
			IsSelf:  isSelf,
			Details: []string{"Insufficient benchmark data"},
		}
	}

	n := len(closes)
	curr := closes[n-1]
	ema20 := last(indicators.CalculateEMA(closes, 20))
	ema50 := last(indicators.CalculateEMA(closes, 50))

	signal := 0.0
	var details []string

	if ema20 > ema50 {
		signal += 30
		details = append(details, "BTC EMA20 > EMA50")
	} else {
		signal -= 30
		details = append(details, "BTC EMA20 < EMA50")
	}

	if curr > ema20 {
		signal += 15
		details = append(details, "BTC above EMA20")
	} else {
		signal -= 15
		details = append(details, "BTC below EMA20")
	}

	rsi := last(indicators.CalculateRSI(closes, rsiPeriod))
	if rsi > 50 {
		signal += 15
		details = append(details, fmt.Sprintf("BTC RSI %.1f bullish", rsi))
	} else {
		signal -= 15
		details = append(details, fmt.Sprintf("BTC RSI %.1f bearish", rsi))
	}

	change1d := percentChange(closes[n-2], curr)
	change7d := 0.0
	if n >= 8 {
		change7d = percentChange(closes[n-8], curr)
	}

	isCrash := change1d < policy.CrashThreshold
	switch {
	case isCrash:
		signal -= 50
		details = append(details, fmt.Sprintf("BTC crash: %.2f%% in 1d", change1d))
	case change1d > 3:
		signal += 20
		details = append(details, fmt.Sprintf("BTC up %.2f%% in 1d", change1d))
	case change1d < -2:
		signal -= 20
		details = append(details, fmt.Sprintf("BTC down %.2f%% in 1d", change1d))
	}

	if change7d > 5 {
		signal += 15
		details = append(details, fmt.Sprintf("BTC up %.2f%% in 7d", change7d))
	} else if change7d < -5 {
		signal -= 15
		details = append(details, fmt.Sprintf("BTC down %.2f%% in 7d", change7d))
	}

	signal = clampSignal(signal)
	trend := "NEUTRAL"
	if signal >= 30 {
		trend = "BULLISH"
	} else if signal <= -30 {
		trend = "BEARISH"
	}

	return domain.SentimentReport{
		Signal:   signal,
		Trend:    trend,
		Strength: math.Abs(signal),
		Change1d: change1d,
		ChangeNd: change7d,
		IsCrash:  isCrash,
		IsSelf:   isSelf,
		Details:  details,
	}
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
