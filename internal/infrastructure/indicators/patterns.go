package indicators

import "math"

type candle struct {
	open, high, low, close float64
}

func (c candle) green() bool    { return c.close > c.open }
func (c candle) red() bool      { return c.close < c.open }
func (c candle) body() float64  { return math.Abs(c.close - c.open) }
func (c candle) rng() float64   { return c.high - c.low }
func (c candle) upperWick() float64 {
	return c.high - math.Max(c.open, c.close)
}
func (c candle) lowerWick() float64 {
	return math.Min(c.open, c.close) - c.low
}

func isBullishEngulfing(prev, curr candle) bool {
	return prev.red() && curr.green() &&
		curr.open <= prev.close && curr.close >= prev.open
}

func isBearishEngulfing(prev, curr candle) bool {
	return prev.green() && curr.red() &&
		curr.open >= prev.close && curr.close <= prev.open
}

// Small body at top, long lower wick. The upper wick tolerance is a
// full body to also catch imperfect hammers.
func isHammer(curr candle) bool {
	return curr.lowerWick() >= 2*curr.body() && curr.upperWick() <= curr.body()
}

func isShootingStar(curr candle) bool {
	return curr.upperWick() >= 2*curr.body() && curr.lowerWick() <= curr.body()*0.5
}

// Long red, small middle body, strong green closing above the first
// candle's midpoint.
func isMorningStar(c1, c2, c3 candle) bool {
	midpoint := (c1.open + c1.close) / 2
	return c1.red() &&
		c1.body() > c1.rng()*0.5 &&
		c2.body() < c1.body()*0.3 &&
		c3.green() &&
		c3.close > midpoint
}

func isEveningStar(c1, c2, c3 candle) bool {
	midpoint := (c1.open + c1.close) / 2
	return c1.green() &&
		c1.body() > c1.rng()*0.5 &&
		c2.body() < c1.body()*0.3 &&
		c3.red() &&
		c3.close < midpoint
}

// Gap-down open that recovers above the midpoint of the prior red body.
func isPiercingLine(prev, curr candle) bool {
	midpoint := (prev.open + prev.close) / 2
	return prev.red() &&
		curr.open < prev.low &&
		curr.green() &&
		curr.close > midpoint &&
		curr.close < prev.open
}

func isDarkCloudCover(prev, curr candle) bool {
	midpoint := (prev.open + prev.close) / 2
	return prev.green() &&
		curr.open > prev.high &&
		curr.red() &&
		curr.close < midpoint &&
		curr.close > prev.open
}

func isMarubozu(curr candle) bool {
	return curr.rng() > 0 && curr.body()/curr.rng() > 0.85
}

func isDoji(curr candle) bool {
	return curr.body() <= curr.rng()*0.1
}

// DetectCandlePatterns inspects the latest bar (and its two
// predecessors for the three-candle formations) and returns the names
// of all matching patterns. Needs at least 5 bars; a flat latest bar
// (high == low) yields nothing.
func DetectCandlePatterns(opens, highs, lows, closes []float64) []string {
	if len(closes) < 5 {
		return nil
	}

	at := func(i int) candle {
		return candle{open: opens[i], high: highs[i], low: lows[i], close: closes[i]}
	}

	n := len(closes)
	curr := at(n - 1)
	prev1 := at(n - 2)
	prev2 := at(n - 3)

	if curr.rng() == 0 {
		return nil
	}

	var patterns []string

	if isBullishEngulfing(prev1, curr) {
		patterns = append(patterns, "Bullish Engulfing")
	}
	if isHammer(curr) {
		patterns = append(patterns, "Hammer")
	}
	if isMorningStar(prev2, prev1, curr) {
		patterns = append(patterns, "Morning Star")
	}
	if isPiercingLine(prev1, curr) {
		patterns = append(patterns, "Piercing Line")
	}

	if isBearishEngulfing(prev1, curr) {
		patterns = append(patterns, "Bearish Engulfing")
	}
	if isShootingStar(curr) {
		patterns = append(patterns, "Shooting Star")
	}
	if isEveningStar(prev2, prev1, curr) {
		patterns = append(patterns, "Evening Star")
	}
	if isDarkCloudCover(prev1, curr) {
		patterns = append(patterns, "Dark Cloud Cover")
	}

	if isDoji(curr) {
		patterns = append(patterns, "Doji")
	}
	if isMarubozu(curr) {
		if curr.green() {
			patterns = append(patterns, "Bullish Marubozu")
		} else {
			patterns = append(patterns, "Bearish Marubozu")
		}
	}

	return patterns
}
