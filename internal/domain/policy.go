package domain

import "time"

// Weights are the indicator contributions to the composite score.
type Weights struct {
	MA         float64
	RSI        float64
	MACD       float64
	Bollinger  float64
	Stochastic float64
	Volume     float64
	MultiTF    float64
	Sentiment  float64
}

// BlendWeights mix MA/RSI/MACD into a single per-timeframe signal.
type BlendWeights struct {
	MA   float64
	RSI  float64
	MACD float64
}

// Policy parameterizes the shared decision pipeline per asset class.
// One engine, two policies: the equity and crypto variants differ only
// in these numbers.
type Policy struct {
	Class          AssetClass
	Weights        Weights
	StrongBuy      float64
	Buy            float64
	Sell           float64
	StrongSell     float64
	TrendBonus     float64
	PatternScores  map[string]float64
	MinCandles     int

	// Multi-timeframe aggregation.
	TimeframeWeights map[string]float64
	PrimaryTimeframe string
	Blend            BlendWeights
	BlendThreshold   float64
	BlendMinCandles  int

	// Benchmark sentiment.
	BenchmarkSymbol      string
	SentimentLabel       string
	SentimentCrashWeight float64 // replaces Weights.Sentiment while the benchmark is crashing; 0 = unused
	SelfSentimentWeight  float64 // replaces Weights.Sentiment when the symbol is the benchmark; 0 = unused
	CrashThreshold       float64 // 1-day benchmark change (%) below which the market counts as crashing

	// Crash override. CrashCapped caps the score at CrashScore; otherwise
	// the score is assigned outright.
	CrashScore  float64
	CrashCapped bool

	// Trade plan and sizing.
	MaxStopLossPct  float64 // widest allowed stop distance, fraction of entry
	MaxRiskPerTrade float64 // fraction of capital risked per trade
	MaxPositionPct  float64 // position value cap, fraction of capital
	LotSize         float64 // 0 = fractional units
	AllowShort      bool

	// Lifecycle.
	MaxSignalAge time.Duration
}

// EquityPolicy is tuned for daily-bar stock analysis against a market
// index benchmark. Long only, 100-share lots.
func EquityPolicy() Policy {
	return Policy{
		Class: AssetEquity,
		Weights: Weights{
			MA:         0.12,
			RSI:        0.12,
			MACD:       0.18,
			Bollinger:  0.12,
			Stochastic: 0.08,
			Volume:     0.08,
			MultiTF:    0.15,
			Sentiment:  0.15,
		},
		StrongBuy:  70,
		Buy:        50,
		Sell:       -50,
		StrongSell: -70,
		TrendBonus: 25,
		PatternScores: map[string]float64{
			PatternBullishEngulfing: 15,
			PatternMorningStar:      20,
			PatternHammer:           10,
			PatternPiercingLine:     10,
			PatternBullishMarubozu:  15,
			PatternBearishEngulfing: -15,
			PatternEveningStar:      -20,
			PatternShootingStar:     -10,
			PatternDarkCloudCover:   -10,
			PatternBearishMarubozu:  -15,
		},
		MinCandles: 50,

		TimeframeWeights: map[string]float64{
			"15m": 0.15,
			"1h":  0.25,
			"4h":  0.30,
			"1D":  0.30,
		},
		PrimaryTimeframe: "1D",
		Blend:            BlendWeights{MA: 0.4, RSI: 0.3, MACD: 0.3},
		BlendThreshold:   30,
		BlendMinCandles:  50,

		BenchmarkSymbol:      "^JKSE",
		SentimentLabel:       "IHSG",
		SentimentCrashWeight: 0.5,
		CrashThreshold:       -1.5,
		CrashScore:           -50,
		CrashCapped:          false,

		MaxStopLossPct:  0.06,
		MaxRiskPerTrade: 0.02,
		MaxPositionPct:  0.10,
		LotSize:         100,
		AllowShort:      false,

		MaxSignalAge: 240 * time.Hour,
	}
}

// CryptoPolicy is tuned for 1H crypto trading with a BTC market
// benchmark. Shorts allowed, fractional units.
func CryptoPolicy() Policy {
	return Policy{
		Class: AssetCrypto,
		Weights: Weights{
			MA:         0.12,
			RSI:        0.15,
			MACD:       0.20,
			Bollinger:  0.12,
			Stochastic: 0.08,
			Volume:     0.10,
			MultiTF:    0.18,
			Sentiment:  0.05,
		},
		StrongBuy:  70,
		Buy:        45,
		Sell:       -45,
		StrongSell: -70,
		TrendBonus: 20,
		PatternScores: map[string]float64{
			PatternBullishEngulfing: 12,
			PatternMorningStar:      15,
			PatternHammer:           8,
			PatternPiercingLine:     8,
			PatternBullishMarubozu:  12,
			PatternBearishEngulfing: -12,
			PatternEveningStar:      -15,
			PatternShootingStar:     -8,
			PatternDarkCloudCover:   -8,
			PatternBearishMarubozu:  -12,
		},
		MinCandles: 30,

		TimeframeWeights: map[string]float64{
			"15m": 0.10,
			"1h":  0.35,
			"4h":  0.30,
			"1D":  0.25,
		},
		PrimaryTimeframe: "1h",
		Blend:            BlendWeights{MA: 0.35, RSI: 0.3, MACD: 0.35},
		BlendThreshold:   25,
		BlendMinCandles:  30,

		BenchmarkSymbol:     "BTCUSDT",
		SentimentLabel:      "BTC Market",
		SelfSentimentWeight: 0.01,
		CrashThreshold:      -5,
		CrashScore:          -30,
		CrashCapped:         true,

		MaxStopLossPct:  0.08,
		MaxRiskPerTrade: 0.02,
		MaxPositionPct:  0.15,
		LotSize:         0,
		AllowShort:      true,

		MaxSignalAge: 48 * time.Hour,
	}
}

// SentimentWeight resolves the effective sentiment weight for a
// report: the crash override while the benchmark is crashing, the self
// override when the symbol is its own benchmark, the configured weight
// otherwise.
func (p Policy) SentimentWeight(s SentimentReport) float64 {
	if s.IsCrash && p.SentimentCrashWeight > 0 {
		return p.SentimentCrashWeight
	}
	if s.IsSelf && p.SelfSentimentWeight > 0 {
		return p.SelfSentimentWeight
	}
	return p.Weights.Sentiment
}

// PolicyFor returns the policy matching an asset class.
func PolicyFor(class AssetClass) Policy {
	if class == AssetEquity {
		return EquityPolicy()
	}
	return CryptoPolicy()
}
