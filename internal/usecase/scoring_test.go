package usecase

import (
	"testing"
)

func TestAnalyzeMAInsufficientData(t *testing.T) {
	report := AnalyzeMA(linearCloses(150, 100, 1))
	if report.Trend != "NEUTRAL" || report.Signal != 0 {
		t.Errorf("got trend %s signal %v, want neutral under 200 closes", report.Trend, report.Signal)
	}
}

func TestAnalyzeMAUptrend(t *testing.T) {
	report := AnalyzeMA(linearCloses(200, 100, 1))
	if report.Trend != "BULLISH" {
		t.Errorf("trend = %s, want BULLISH", report.Trend)
	}
	if !almostEqual(report.Signal, 100) {
		t.Errorf("signal = %v, want 100 with every check bullish", report.Signal)
	}
	if report.SMA20 <= report.SMA50 || report.SMA50 <= report.SMA200 {
		t.Errorf("SMA stack not ascending: %v %v %v", report.SMA20, report.SMA50, report.SMA200)
	}
}

func TestAnalyzeMADowntrend(t *testing.T) {
	report := AnalyzeMA(linearCloses(200, 400, -1))
	if report.Trend != "BEARISH" {
		t.Errorf("trend = %s, want BEARISH", report.Trend)
	}
	if !almostEqual(report.Signal, -100) {
		t.Errorf("signal = %v, want -100", report.Signal)
	}
}

func TestAnalyzeRSIOversold(t *testing.T) {
	report := AnalyzeRSI(linearCloses(20, 100, -1))
	if report.Zone != "OVERSOLD" {
		t.Errorf("zone = %s, want OVERSOLD", report.Zone)
	}
	if !almostEqual(report.Signal, 30) {
		t.Errorf("signal = %v, want +30", report.Signal)
	}
	if !almostEqual(report.Value, 0) {
		t.Errorf("value = %v, want 0 for monotonic losses", report.Value)
	}
}

func TestAnalyzeRSIOverbought(t *testing.T) {
	report := AnalyzeRSI(linearCloses(20, 100, 1))
	if report.Zone != "OVERBOUGHT" {
		t.Errorf("zone = %s, want OVERBOUGHT", report.Zone)
	}
	if !almostEqual(report.Signal, -30) {
		t.Errorf("signal = %v, want -30", report.Signal)
	}
}

func TestAnalyzeRSIInsufficientData(t *testing.T) {
	report := AnalyzeRSI(linearCloses(10, 100, 1))
	if report.Zone != "NEUTRAL" || report.Signal != 0 {
		t.Errorf("got zone %s signal %v, want neutral", report.Zone, report.Signal)
	}
}

func TestAnalyzeMACDUptrend(t *testing.T) {
	report := AnalyzeMACD(growthCloses(60))
	if report.Signal <= 0 {
		t.Errorf("signal = %v, want positive in exponential growth", report.Signal)
	}
	if report.MACD <= 0 {
		t.Errorf("macd = %v, want above zero", report.MACD)
	}
}

func TestAnalyzeMACDInsufficientData(t *testing.T) {
	report := AnalyzeMACD(linearCloses(30, 100, 1))
	if report.Signal != 0 || len(report.Details) != 1 {
		t.Errorf("got signal %v details %v, want neutral", report.Signal, report.Details)
	}
}

func TestAnalyzeBollingerUpperHalf(t *testing.T) {
	closes := make([]float64, 26)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 98
		} else {
			closes[i] = 102
		}
	}

	report := AnalyzeBollinger(closes)
	if report.Position != "UPPER_HALF" {
		t.Errorf("position = %s, want UPPER_HALF", report.Position)
	}
	if !almostEqual(report.Signal, 15) {
		t.Errorf("signal = %v, want 15", report.Signal)
	}
	if !almostEqual(report.PercentB, 0.75) {
		t.Errorf("percentB = %v, want 0.75", report.PercentB)
	}
}

func TestAnalyzeStochasticUptrendElevated(t *testing.T) {
	report := AnalyzeStochastic(candlesFromCloses(linearCloses(40, 100, 1)))
	if report.Zone != "OVERBOUGHT" {
		t.Errorf("zone = %s, want OVERBOUGHT near the top of the range", report.Zone)
	}
	if report.K < 80 {
		t.Errorf("K = %v, want >= 80", report.K)
	}
}

func TestAnalyzeVolumeSpikeConfirms(t *testing.T) {
	candles := candlesFromCloses(linearCloses(30, 100, 0.1))
	candles[len(candles)-1].Volume = 250

	report := AnalyzeVolume(candles)
	if !report.Confirmation {
		t.Error("confirmation = false, want true on a 2x volume spike")
	}
	if !almostEqual(report.Signal, 40) {
		t.Errorf("signal = %v, want +40 on very high volume up", report.Signal)
	}
}

func TestAnalyzeVolumeLow(t *testing.T) {
	candles := candlesFromCloses(linearCloses(30, 100, 0.1))
	candles[len(candles)-1].Volume = 10

	report := AnalyzeVolume(candles)
	if report.Confirmation || report.Signal != 0 {
		t.Errorf("got confirmation %v signal %v, want unconfirmed zero", report.Confirmation, report.Signal)
	}
}

func TestAnalyzeATRFlatRange(t *testing.T) {
	candles := candlesFromCloses(flatCloses(40, 100))

	report := AnalyzeATR(candles)
	if report.Volatility != "NORMAL" {
		t.Errorf("volatility = %s, want NORMAL", report.Volatility)
	}
	if !almostEqual(report.Value, 1) {
		t.Errorf("atr = %v, want 1 for a constant one-point range", report.Value)
	}
	if !almostEqual(report.Ratio, 1) {
		t.Errorf("ratio = %v, want 1", report.Ratio)
	}
}

func TestAnalyzeATRInsufficientData(t *testing.T) {
	report := AnalyzeATR(candlesFromCloses(flatCloses(20, 100)))
	if report.Volatility != "UNKNOWN" {
		t.Errorf("volatility = %s, want UNKNOWN", report.Volatility)
	}
}

func TestClampSignal(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{150, 100},
		{-150, -100},
		{42, 42},
	}
	for _, c := range cases {
		if got := clampSignal(c.in); got != c.want {
			t.Errorf("clampSignal(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
