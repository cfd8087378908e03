package usecase

import (
	"fmt"
	"math"

	"advisor-backend/internal/domain"
	"advisor-backend/internal/infrastructure/indicators"
)

// patternLookback is how many recent bars are scanned for candle
// patterns on each timeframe.
const patternLookback = 5

// DecisionInput bundles everything the scoring engine reads.
type DecisionInput struct {
	Symbol          string
	Candles         map[string][]domain.Candle // keyed by timeframe
	BenchmarkCloses []float64
}

// MakeDecision runs the weighted composite scoring over the primary
// timeframe, the multi-timeframe aggregate and the benchmark
// sentiment, then maps the score to an action.
func MakeDecision(in DecisionInput, policy domain.Policy) domain.Decision {
	primary := in.Candles[policy.PrimaryTimeframe]
	if len(primary) < policy.MinCandles {
		return domain.Decision{
			Action:   domain.ActionWait,
			Strength: domain.StrengthNeutral,
			Breakdown: []domain.BreakdownEntry{{
				Indicator: "DATA",
				Details:   []string{fmt.Sprintf("Insufficient candles on %s", policy.PrimaryTimeframe)},
			}},
		}
	}

	closes := domain.Closes(primary)
	set := domain.IndicatorSet{
		MA:         AnalyzeMA(closes),
		RSI:        AnalyzeRSI(closes),
		MACD:       AnalyzeMACD(closes),
		Bollinger:  AnalyzeBollinger(closes),
		Stochastic: AnalyzeStochastic(primary),
		Volume:     AnalyzeVolume(primary),
	}
	mtf := AnalyzeTimeframes(in.Candles, policy)
	sentiment := AnalyzeSentiment(in.Symbol, in.BenchmarkCloses, policy)

	breakdown := []domain.BreakdownEntry{
		entry("MA", set.MA.Signal, policy.Weights.MA, set.MA.Details),
		entry("RSI", set.RSI.Signal, policy.Weights.RSI, set.RSI.Details),
		entry("MACD", set.MACD.Signal, policy.Weights.MACD, set.MACD.Details),
		entry("Bollinger", set.Bollinger.Signal, policy.Weights.Bollinger, set.Bollinger.Details),
		entry("Stochastic", set.Stochastic.Signal, policy.Weights.Stochastic, set.Stochastic.Details),
		entry("Volume", set.Volume.Signal, policy.Weights.Volume, set.Volume.Details),
		entry("MultiTimeframe", mtf.Aggregated, policy.Weights.MultiTF, mtf.Details),
		entry("Sentiment", sentiment.Signal, policy.SentimentWeight(sentiment), sentiment.Details),
	}

	patterns := detectPatterns(in.Candles)
	if hits := latestPatterns(patterns[policy.PrimaryTimeframe], primary); len(hits) > 0 {
		score := 0.0
		for _, name := range hits {
			score += policy.PatternScores[name]
		}
		breakdown = append(breakdown, domain.BreakdownEntry{
			Indicator:    "Patterns",
			RawSignal:    score,
			Weight:       1,
			Contribution: score,
			Details:      hits,
		})
	}

	// Trending regimes override mean-reversion reads: the stochastic
	// contribution against the trend is dropped and a bonus is added.
	if set.MA.Signal > 0 && set.MACD.Signal > 0 {
		breakdown = append(breakdown, domain.BreakdownEntry{
			Indicator:    "Trend Bonus",
			Contribution: policy.TrendBonus,
			Details:      []string{"Strong Uptrend (MA+MACD aligned)"},
		})
		neutralizeStochastic(breakdown, true)
	} else if set.MA.Signal < 0 && set.MACD.Signal < 0 {
		breakdown = append(breakdown, domain.BreakdownEntry{
			Indicator:    "Trend Bonus",
			Contribution: -policy.TrendBonus,
			Details:      []string{"Strong Downtrend (MA+MACD aligned)"},
		})
		neutralizeStochastic(breakdown, false)
	}

	score := 0.0
	for _, e := range breakdown {
		score += e.Contribution
	}

	action, strength := classifyScore(score, policy)

	// A benchmark crash overrides everything: no new entries, whatever
	// the indicators say.
	if sentiment.IsCrash && !sentiment.IsSelf {
		if policy.CrashCapped {
			if score > policy.CrashScore {
				score = policy.CrashScore
			}
		} else {
			score = policy.CrashScore
		}
		action, strength = domain.ActionWait, domain.StrengthWeak
		breakdown = append(breakdown, domain.BreakdownEntry{
			Indicator: "CRASH_PROTECTION",
			Details: []string{fmt.Sprintf(
				"Benchmark down %.2f%% in 1d, score forced to %.0f", sentiment.Change1d, score,
			)},
		})
	}

	return domain.Decision{
		Action:         action,
		Strength:       strength,
		Score:          score,
		Confidence:     math.Min(100, math.Abs(score)),
		Breakdown:      breakdown,
		Indicators:     set,
		MultiTimeframe: mtf,
		Sentiment:      sentiment,
		Patterns:       patterns,
	}
}

func entry(name string, raw, weight float64, details []string) domain.BreakdownEntry {
	return domain.BreakdownEntry{
		Indicator:    name,
		RawSignal:    raw,
		Weight:       weight,
		Contribution: raw * weight,
		Details:      details,
	}
}

// neutralizeStochastic zeroes the stochastic contribution when it
// fights an established trend.
func neutralizeStochastic(breakdown []domain.BreakdownEntry, uptrend bool) {
	for i := range breakdown {
		if breakdown[i].Indicator != "Stochastic" {
			continue
		}
		if uptrend && breakdown[i].Contribution < 0 {
			breakdown[i].Contribution = 0
			breakdown[i].Details = append(breakdown[i].Details, "Overbought Ignored (Trend)")
		} else if !uptrend && breakdown[i].Contribution > 0 {
			breakdown[i].Contribution = 0
			breakdown[i].Details = append(breakdown[i].Details, "Oversold Ignored (Trend)")
		}
		return
	}
}

// detectPatterns scans the last patternLookback bars of every
// timeframe for candle patterns.
func detectPatterns(candles map[string][]domain.Candle) map[string][]domain.PatternHit {
	result := make(map[string][]domain.PatternHit)
	for tf, series := range candles {
		n := len(series)
		start := n - patternLookback
		if start < patternLookback {
			start = patternLookback
		}
		var hits []domain.PatternHit
		for i := start; i < n; i++ {
			window := series[:i+1]
			found := indicators.DetectCandlePatterns(
				domain.Opens(window), domain.Highs(window), domain.Lows(window), domain.Closes(window),
			)
			if len(found) > 0 {
				hits = append(hits, domain.PatternHit{Time: series[i].OpenTime, Patterns: found})
			}
		}
		if len(hits) > 0 {
			result[tf] = hits
		}
	}
	return result
}

// latestPatterns returns patterns detected on the newest bar only.
func latestPatterns(hits []domain.PatternHit, series []domain.Candle) []string {
	if len(hits) == 0 || len(series) == 0 {
		return nil
	}
	lastHit := hits[len(hits)-1]
	if !lastHit.Time.Equal(series[len(series)-1].OpenTime) {
		return nil
	}
	return lastHit.Patterns
}

func classifyScore(score float64, policy domain.Policy) (domain.Action, domain.Strength) {
	switch {
	case score >= policy.StrongBuy:
		return domain.ActionBuy, domain.StrengthStrong
	case score >= policy.Buy:
		return domain.ActionBuy, domain.StrengthModerate
	case score <= policy.StrongSell:
		return domain.ActionSell, domain.StrengthStrong
	case score <= policy.Sell:
		return domain.ActionSell, domain.StrengthModerate
	}
	return domain.ActionWait, domain.StrengthNeutral
}
