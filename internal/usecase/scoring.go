package usecase

import (
	"fmt"

	"advisor-backend/internal/domain"
	"advisor-backend/internal/infrastructure/indicators"
)

// Shared indicator settings, used by both asset classes.
const (
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerStdDev = 2.0
	stochKPeriod    = 14
	stochDPeriod    = 3
	stochSmooth     = 3
	atrPeriod       = 14
	volumeMAPeriod  = 20
)

func clampSignal(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return v
}

// AnalyzeMA scores the moving-average stack. Needs 200 closes for the
// SMA200; anything less is neutral.
func AnalyzeMA(closes []float64) domain.MAReport {
	if len(closes) < 200 {
		return domain.MAReport{Trend: "NEUTRAL", Details: []string{"Insufficient data"}}
	}

	curr := closes[len(closes)-1]
	sma20 := last(indicators.CalculateSMA(closes, 20))
	sma50 := last(indicators.CalculateSMA(closes, 50))
	sma200 := last(indicators.CalculateSMA(closes, 200))
	ema12 := last(indicators.CalculateEMA(closes, 12))
	ema26 := last(indicators.CalculateEMA(closes, 26))

	signal := 0.0
	var details []string

	if ema12 > ema26 {
		signal += 25
		details = append(details, "EMA12 > EMA26")
	} else {
		signal -= 25
		details = append(details, "EMA12 < EMA26")
	}

	if sma20 > sma50 && sma50 > sma200 {
		signal += 35
		details = append(details, "SMA stack bullish")
	} else if sma20 < sma50 && sma50 < sma200 {
		signal -= 35
		details = append(details, "SMA stack bearish")
	}

	if curr > sma200 {
		signal += 20
		details = append(details, "Above SMA200")
	} else {
		signal -= 20
		details = append(details, "Below SMA200")
	}

	if curr > sma20 {
		signal += 20
		details = append(details, "Above SMA20")
	} else {
		signal -= 20
		details = append(details, "Below SMA20")
	}

	trend := "NEUTRAL"
	if signal >= 50 {
		trend = "BULLISH"
	} else if signal <= -50 {
		trend = "BEARISH"
	}

	return domain.MAReport{
		Signal:  clampSignal(signal),
		Trend:   trend,
		SMA20:   sma20,
		SMA50:   sma50,
		SMA200:  sma200,
		Details: details,
	}
}

// AnalyzeRSI scores the 14-period RSI zone plus a midline cross.
func AnalyzeRSI(closes []float64) domain.RSIReport {
	if len(closes) < rsiPeriod+5 {
		return domain.RSIReport{Zone: "NEUTRAL", Details: []string{"Insufficient data"}}
	}

	rsi := indicators.CalculateRSI(closes, rsiPeriod)
	current := rsi[len(rsi)-1]
	prev := rsi[len(rsi)-2]

	signal := 0.0
	var details []string
	var zone string

	switch {
	case current >= 70:
		zone = "OVERBOUGHT"
		signal -= 30
		details = append(details, fmt.Sprintf("RSI %.1f overbought", current))
	case current <= 30:
		zone = "OVERSOLD"
		signal += 30
		details = append(details, fmt.Sprintf("RSI %.1f oversold", current))
	case current > 50:
		zone = "BULLISH"
		signal += 20
		details = append(details, fmt.Sprintf("RSI %.1f bullish", current))
	default:
		zone = "BEARISH"
		signal -= 20
		details = append(details, fmt.Sprintf("RSI %.1f bearish", current))
	}

	if prev < 50 && current >= 50 {
		signal += 20
		details = append(details, "RSI crossed above 50")
	} else if prev > 50 && current <= 50 {
		signal -= 20
		details = append(details, "RSI crossed below 50")
	}

	return domain.RSIReport{
		Signal:  clampSignal(signal),
		Value:   current,
		Zone:    zone,
		Details: details,
	}
}

// AnalyzeMACD scores signal-line crossovers, zero-line position and
// histogram direction.
func AnalyzeMACD(closes []float64) domain.MACDReport {
	if len(closes) < macdSlow+macdSignal+1 {
		return domain.MACDReport{Details: []string{"Insufficient data"}}
	}

	macd := indicators.CalculateMACD(closes, macdFast, macdSlow, macdSignal)
	n := len(closes)
	currMACD, currSig := macd.MACDLine[n-1], macd.SignalLine[n-1]
	prevMACD, prevSig := macd.MACDLine[n-2], macd.SignalLine[n-2]
	currHist, prevHist := macd.Histogram[n-1], macd.Histogram[n-2]

	signal := 0.0
	var details []string

	switch {
	case prevMACD <= prevSig && currMACD > currSig:
		signal += 40
		details = append(details, "Bullish crossover")
	case prevMACD >= prevSig && currMACD < currSig:
		signal -= 40
		details = append(details, "Bearish crossover")
	case currMACD > currSig:
		signal += 20
		details = append(details, "MACD above signal line")
	default:
		signal -= 20
		details = append(details, "MACD below signal line")
	}

	if currMACD > 0 {
		signal += 15
		details = append(details, "MACD above zero")
	} else {
		signal -= 15
		details = append(details, "MACD below zero")
	}

	if currHist > prevHist {
		signal += 15
		details = append(details, "Histogram rising")
	} else {
		signal -= 15
		details = append(details, "Histogram falling")
	}

	return domain.MACDReport{
		Signal:     clampSignal(signal),
		MACD:       currMACD,
		SignalLine: currSig,
		Histogram:  currHist,
		Details:    details,
	}
}

// AnalyzeBollinger scores band position plus a bounce or rejection
// against the previous bar's band.
func AnalyzeBollinger(closes []float64) domain.BollingerReport {
	if len(closes) < bollingerPeriod+4 {
		return domain.BollingerReport{Position: "NEUTRAL", Details: []string{"Insufficient data"}}
	}

	bb := indicators.CalculateBollingerBands(closes, bollingerPeriod, bollingerStdDev)
	n := len(closes)
	price, prev := closes[n-1], closes[n-2]
	upper, middle, lower := bb.Upper[n-1], bb.Middle[n-1], bb.Lower[n-1]

	percentB := 0.0
	if upper != lower {
		percentB = (price - lower) / (upper - lower)
	}

	signal := 0.0
	var details []string
	var position string

	switch {
	case price >= upper:
		position = "ABOVE_UPPER"
		signal -= 25
		details = append(details, "At/above upper band")
	case price <= lower:
		position = "BELOW_LOWER"
		signal += 25
		details = append(details, "At/below lower band")
	case price > middle:
		position = "UPPER_HALF"
		signal += 15
		details = append(details, "Upper half")
	default:
		position = "LOWER_HALF"
		signal -= 15
		details = append(details, "Lower half")
	}

	if prev <= bb.Lower[n-2] && price > lower {
		signal += 30
		details = append(details, "Bounce off lower band")
	} else if prev >= bb.Upper[n-2] && price < upper {
		signal -= 30
		details = append(details, "Rejected at upper band")
	}

	return domain.BollingerReport{
		Signal:   clampSignal(signal),
		Position: position,
		PercentB: percentB,
		Upper:    upper,
		Middle:   middle,
		Lower:    lower,
		Details:  details,
	}
}

// AnalyzeStochastic scores the %K zone plus %K/%D crossovers.
func AnalyzeStochastic(candles []domain.Candle) domain.StochasticReport {
	if len(candles) < stochKPeriod+stochDPeriod+stochSmooth+1 {
		return domain.StochasticReport{Zone: "NEUTRAL", Details: []string{"Insufficient data"}}
	}

	stoch := indicators.CalculateStochastic(
		domain.Highs(candles), domain.Lows(candles), domain.Closes(candles),
		stochKPeriod, stochDPeriod, stochSmooth,
	)
	n := len(candles)
	currK, currD := stoch.K[n-1], stoch.D[n-1]
	prevK, prevD := stoch.K[n-2], stoch.D[n-2]

	signal := 0.0
	var details []string
	var zone string

	switch {
	case currK >= 80:
		zone = "OVERBOUGHT"
		signal -= 20
		details = append(details, fmt.Sprintf("%%K %.1f overbought", currK))
	case currK <= 20:
		zone = "OVERSOLD"
		signal += 20
		details = append(details, fmt.Sprintf("%%K %.1f oversold", currK))
	default:
		zone = "NEUTRAL"
		details = append(details, fmt.Sprintf("%%K %.1f", currK))
	}

	switch {
	case prevK <= prevD && currK > currD:
		signal += 35
		details = append(details, "%K crossed above %D")
	case prevK >= prevD && currK < currD:
		signal -= 35
		details = append(details, "%K crossed below %D")
	case currK > currD:
		signal += 15
		details = append(details, "%K above %D")
	default:
		signal -= 15
		details = append(details, "%K below %D")
	}

	return domain.StochasticReport{
		Signal:  clampSignal(signal),
		Zone:    zone,
		K:       currK,
		D:       currD,
		Details: details,
	}
}

// AnalyzeVolume scores the last bar's volume against its 20-bar
// average, signed by close direction. Ratios of 1.5x and above count
// as confirmation.
func AnalyzeVolume(candles []domain.Candle) domain.VolumeReport {
	if len(candles) < volumeMAPeriod+5 {
		return domain.VolumeReport{Details: []string{"Insufficient data"}}
	}

	volumes := domain.Volumes(candles)
	closes := domain.Closes(candles)
	n := len(candles)
	curr := volumes[n-1]
	avg := last(indicators.CalculateSMA(volumes, volumeMAPeriod))
	ratio := 0.0
	if avg > 0 {
		ratio = curr / avg
	}
	up := closes[n-1] > closes[n-2]

	signal := 0.0
	var details []string
	confirmation := false

	switch {
	case ratio >= 2.0:
		confirmation = true
		if up {
			signal += 40
			details = append(details, "Very high volume on up move")
		} else {
			signal -= 40
			details = append(details, "Very high volume on down move")
		}
	case ratio >= 1.5:
		confirmation = true
		if up {
			signal += 25
			details = append(details, "High volume on up move")
		} else {
			signal -= 25
			details = append(details, "High volume on down move")
		}
	case ratio >= 1.0:
		if up {
			signal += 10
		} else {
			signal -= 10
		}
		details = append(details, "Normal volume")
	default:
		details = append(details, "Low volume")
	}

	return domain.VolumeReport{
		Signal:       clampSignal(signal),
		Confirmation: confirmation,
		Ratio:        ratio,
		Details:      details,
	}
}

// AnalyzeATR classifies current volatility against the 20-bar ATR
// average.
func AnalyzeATR(candles []domain.Candle) domain.ATRReport {
	if len(candles) < atrPeriod+20 {
		return domain.ATRReport{Volatility: "UNKNOWN", Details: []string{"Insufficient data"}}
	}

	atr := indicators.CalculateATR(
		domain.Highs(candles), domain.Lows(candles), domain.Closes(candles), atrPeriod,
	)
	n := len(candles)
	current := atr[n-1]
	price := candles[n-1].Close
	percent := 0.0
	if price > 0 {
		percent = current / price * 100
	}

	sum := 0.0
	for _, v := range atr[n-20:] {
		sum += v
	}
	avg := sum / 20
	ratio := 0.0
	if avg > 0 {
		ratio = current / avg
	}

	var volatility string
	var details []string
	switch {
	case ratio >= 1.5:
		volatility = "HIGH"
		details = append(details, fmt.Sprintf("ATR %.2f%% elevated", percent))
	case ratio <= 0.7:
		volatility = "LOW"
		details = append(details, fmt.Sprintf("ATR %.2f%% compressed", percent))
	default:
		volatility = "NORMAL"
		details = append(details, fmt.Sprintf("ATR %.2f%%", percent))
	}

	return domain.ATRReport{
		Value:      current,
		Percent:    percent,
		Ratio:      ratio,
		Volatility: volatility,
		Details:    details,
	}
}

func last(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return vals[len(vals)-1]
}
