package usecase

import (
	"testing"

	"advisor-backend/internal/domain"
)

func TestAnalyzeTimeframeInsufficientData(t *testing.T) {
	policy := domain.EquityPolicy()
	report := AnalyzeTimeframe("1D", linearCloses(20, 100, 1), policy)

	if report.Trend != "NEUTRAL" || report.Signal != 0 {
		t.Errorf("got trend %s signal %v, want neutral under the candle floor", report.Trend, report.Signal)
	}
	if len(report.Details) != 1 || report.Details[0] != "Insufficient data" {
		t.Errorf("details = %v", report.Details)
	}
}

func TestAnalyzeTimeframeUptrendBlend(t *testing.T) {
	policy := domain.EquityPolicy()
	report := AnalyzeTimeframe("1D", growthCloses(260), policy)

	if report.Trend != "BULLISH" {
		t.Errorf("trend = %s, want BULLISH", report.Trend)
	}
	// MA 100, RSI overbought -30, MACD +50 under the 0.4/0.3/0.3 blend.
	if !almostEqual(report.Signal, 46) {
		t.Errorf("signal = %v, want 46", report.Signal)
	}
	if len(report.Details) != 3 {
		t.Errorf("details = %v, want the MA/RSI/MACD triple", report.Details)
	}
}

func TestAnalyzeTimeframesAligned(t *testing.T) {
	policy := domain.EquityPolicy()
	series := candlesFromCloses(growthCloses(260))
	candles := map[string][]domain.Candle{
		"15m": series, "1h": series, "4h": series, "1D": series,
	}

	report := AnalyzeTimeframes(candles, policy)
	if report.Alignment != domain.AlignmentBullish {
		t.Errorf("alignment = %s, want %s", report.Alignment, domain.AlignmentBullish)
	}
	if !almostEqual(report.Aggregated, 46) {
		t.Errorf("aggregated = %v, want 46 when all timeframes agree", report.Aggregated)
	}
	if len(report.Timeframes) != 4 {
		t.Errorf("timeframes = %d, want 4", len(report.Timeframes))
	}
}

func TestAnalyzeTimeframesSingleBullishIsMixed(t *testing.T) {
	policy := domain.CryptoPolicy()
	candles := map[string][]domain.Candle{
		"1h": candlesFromCloses(growthCloses(260)),
	}

	report := AnalyzeTimeframes(candles, policy)
	if report.Alignment != domain.AlignmentMixed {
		t.Errorf("alignment = %s, want MIXED with one bullish timeframe", report.Alignment)
	}
	if report.Aggregated <= 0 {
		t.Errorf("aggregated = %v, want positive", report.Aggregated)
	}
}

func TestAnalyzeTimeframesEmpty(t *testing.T) {
	report := AnalyzeTimeframes(map[string][]domain.Candle{}, domain.CryptoPolicy())
	if report.Aggregated != 0 || report.Alignment != domain.AlignmentMixed {
		t.Errorf("got %v/%s, want zero aggregate and MIXED", report.Aggregated, report.Alignment)
	}
}
