package domain

// Candle pattern names as emitted by the pattern detector.
const (
	PatternBullishEngulfing = "Bullish Engulfing"
	PatternBearishEngulfing = "Bearish Engulfing"
	PatternHammer           = "Hammer"
	PatternShootingStar     = "Shooting Star"
	PatternMorningStar      = "Morning Star"
	PatternEveningStar      = "Evening Star"
	PatternPiercingLine     = "Piercing Line"
	PatternDarkCloudCover   = "Dark Cloud Cover"
	PatternBullishMarubozu  = "Bullish Marubozu"
	PatternBearishMarubozu  = "Bearish Marubozu"
	PatternDoji             = "Doji"
)
