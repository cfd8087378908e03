package usecase

import (
	"fmt"

	"advisor-backend/internal/domain"
)

// timeframeOrder fixes iteration order for deterministic output.
var timeframeOrder = []string{"15m", "1h", "4h", "1D"}

// AnalyzeTimeframe blends the MA, RSI and MACD reads of one timeframe
// into a single trend signal using the policy blend weights.
func AnalyzeTimeframe(timeframe string, closes []float64, policy domain.Policy) domain.TimeframeReport {
	report := domain.TimeframeReport{Timeframe: timeframe, Trend: "NEUTRAL"}
	if len(closes) < policy.BlendMinCandles {
		report.Details = []string{"Insufficient data"}
		return report
	}

	ma := AnalyzeMA(closes)
	rsi := AnalyzeRSI(closes)
	macd := AnalyzeMACD(closes)

	signal := ma.Signal*policy.Blend.MA +
		rsi.Signal*policy.Blend.RSI +
		macd.Signal*policy.Blend.MACD

	if signal >= policy.BlendThreshold {
		report.Trend = "BULLISH"
	} else if signal <= -policy.BlendThreshold {
		report.Trend = "BEARISH"
	}

	rsiLabel := "N/A"
	if len(closes) >= rsiPeriod+5 {
		rsiLabel = fmt.Sprintf("%.0f", rsi.Value)
	}
	macdLabel := "-"
	if macd.Histogram > 0 {
		macdLabel = "+"
	}

	report.Signal = signal
	report.Details = []string{
		"MA:" + ma.Trend,
		"RSI:" + rsiLabel,
		"MACD:" + macdLabel,
	}
	return report
}

// AnalyzeTimeframes aggregates per-timeframe trend reads into a
// weighted composite with an alignment label.
func AnalyzeTimeframes(candles map[string][]domain.Candle, policy domain.Policy) domain.MultiTimeframeReport {
	report := domain.MultiTimeframeReport{
		Timeframes: make(map[string]domain.TimeframeReport),
		Alignment:  domain.AlignmentMixed,
	}

	weighted := 0.0
	totalWeight := 0.0
	bullish := 0
	bearish := 0

	for _, tf := range timeframeOrder {
		series, ok := candles[tf]
		if !ok {
			continue
		}
		weight := policy.TimeframeWeights[tf]
		tfReport := AnalyzeTimeframe(tf, domain.Closes(series), policy)
		report.Timeframes[tf] = tfReport

		weighted += tfReport.Signal * weight
		totalWeight += weight

		switch tfReport.Trend {
		case "BULLISH":
			bullish++
		case "BEARISH":
			bearish++
		}
		report.Details = append(report.Details, tf+": "+tfReport.Trend)
	}

	if totalWeight > 0 {
		report.Aggregated = weighted / totalWeight
	}

	switch {
	case bullish >= 3:
		report.Alignment = domain.AlignmentBullish
	case bearish >= 3:
		report.Alignment = domain.AlignmentBearish
	case bullish >= 2 && bearish == 0:
		report.Alignment = domain.AlignmentMostlyBullish
	case bearish >= 2 && bullish == 0:
		report.Alignment = domain.AlignmentMostlyBearish
	}

	return report
}
