package domain

import "time"

// AssetClass separates the two market policies.
type AssetClass string

const (
	AssetCrypto AssetClass = "CRYPTO"
	AssetEquity AssetClass = "EQUITY"
)

// Action is the directional call of the decision engine.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionWait Action = "WAIT"
)

// Strength qualifies how far past the thresholds the score landed.
type Strength string

const (
	StrengthStrong   Strength = "STRONG"
	StrengthModerate Strength = "MODERATE"
	StrengthWeak     Strength = "WEAK"
	StrengthNeutral  Strength = "NEUTRAL"
)

// Timeframe alignment labels.
const (
	AlignmentBullish       = "BULLISH_ALIGNED"
	AlignmentBearish       = "BEARISH_ALIGNED"
	AlignmentMostlyBullish = "MOSTLY_BULLISH"
	AlignmentMostlyBearish = "MOSTLY_BEARISH"
	AlignmentMixed         = "MIXED"
)

// MAReport is the moving-average trend scoring result.
type MAReport struct {
	Signal  float64  `json:"signal"`
	Trend   string   `json:"trend"`
	SMA20   float64  `json:"sma20,omitempty"`
	SMA50   float64  `json:"sma50,omitempty"`
	SMA200  float64  `json:"sma200,omitempty"`
	Details []string `json:"details"`
}

type RSIReport struct {
	Signal  float64  `json:"signal"`
	Value   float64  `json:"value"`
	Zone    string   `json:"zone"`
	Details []string `json:"details"`
}

type MACDReport struct {
	Signal     float64  `json:"signal"`
	MACD       float64  `json:"macd"`
	SignalLine float64  `json:"signalLine"`
	Histogram  float64  `json:"histogram"`
	Details    []string `json:"details"`
}

type BollingerReport struct {
	Signal   float64  `json:"signal"`
	Position string   `json:"position"`
	PercentB float64  `json:"percentB"`
	Upper    float64  `json:"upper"`
	Middle   float64  `json:"middle"`
	Lower    float64  `json:"lower"`
	Details  []string `json:"details"`
}

type StochasticReport struct {
	Signal  float64  `json:"signal"`
	Zone    string   `json:"zone"`
	K       float64  `json:"k"`
	D       float64  `json:"d"`
	Details []string `json:"details"`
}

type VolumeReport struct {
	Signal       float64  `json:"signal"`
	Confirmation bool     `json:"confirmation"`
	Ratio        float64  `json:"ratio"`
	Details      []string `json:"details"`
}

type ATRReport struct {
	Value      float64  `json:"atr"`
	Percent    float64  `json:"atrPercent"`
	Ratio      float64  `json:"atrRatio"`
	Volatility string   `json:"volatility"`
	Details    []string `json:"details"`
}

// IndicatorSet bundles the primary-timeframe reports feeding the score.
type IndicatorSet struct {
	MA         MAReport         `json:"ma"`
	RSI        RSIReport        `json:"rsi"`
	MACD       MACDReport       `json:"macd"`
	Bollinger  BollingerReport  `json:"bb"`
	Stochastic StochasticReport `json:"stoch"`
	Volume     VolumeReport     `json:"volume"`
}

// SentimentReport is the benchmark (market index / BTC proxy) read.
type SentimentReport struct {
	Signal   float64  `json:"signal"`
	Trend    string   `json:"trend"`
	Strength float64  `json:"strength"`
	Change1d float64  `json:"change1d"`
	ChangeNd float64  `json:"changeNd"`
	IsCrash  bool     `json:"isCrash"`
	IsSelf   bool     `json:"isSelf"`
	Details  []string `json:"details"`
}

// TimeframeReport is a single timeframe's blended trend read.
type TimeframeReport struct {
	Timeframe string   `json:"timeframe"`
	Trend     string   `json:"trend"`
	Signal    float64  `json:"signal"`
	Details   []string `json:"details"`
}

type MultiTimeframeReport struct {
	Timeframes map[string]TimeframeReport `json:"timeframes"`
	Aggregated float64                    `json:"aggregatedSignal"`
	Alignment  string                     `json:"alignment"`
	Details    []string                   `json:"details"`
}

// BreakdownEntry is one additive term of the decision score.
type BreakdownEntry struct {
	Indicator    string   `json:"indicator"`
	RawSignal    float64  `json:"rawSignal,omitempty"`
	Weight       float64  `json:"weight,omitempty"`
	Contribution float64  `json:"contribution"`
	Details      []string `json:"details"`
}

// PatternHit records candle patterns detected at one bar.
type PatternHit struct {
	Time     time.Time `json:"time"`
	Patterns []string  `json:"patterns"`
}

// Decision is the scored output of the decision engine.
type Decision struct {
	Action         Action                  `json:"signal"`
	Strength       Strength                `json:"strength"`
	Score          float64                 `json:"score"`
	Confidence     float64                 `json:"confidence"`
	Breakdown      []BreakdownEntry        `json:"breakdown"`
	Indicators     IndicatorSet            `json:"indicators"`
	MultiTimeframe MultiTimeframeReport    `json:"multiTimeframe"`
	Sentiment      SentimentReport         `json:"sentiment"`
	Patterns       map[string][]PatternHit `json:"patterns"`
}

// Level is a support or resistance price.
type Level struct {
	Price float64 `json:"level"`
	Kind  string  `json:"type"` // "PIVOT", "ATH/MAX", "ATL/MIN"
}

// PriceTarget is a stop or take-profit level with its rationale.
type PriceTarget struct {
	Price   float64 `json:"price"`
	Percent float64 `json:"percent"`
	Reason  string  `json:"reason"`
}

type RiskReward struct {
	TP1 float64 `json:"tp1"`
	TP2 float64 `json:"tp2"`
	TP3 float64 `json:"tp3"`
}

// TradePlan carries entry, stop and the laddered targets.
type TradePlan struct {
	Direction   Action      `json:"direction"`
	Entry       float64     `json:"entry"`
	StopLoss    PriceTarget `json:"sl"`
	TP1         PriceTarget `json:"tp1"`
	TP2         PriceTarget `json:"tp2"`
	TP3         PriceTarget `json:"tp3"`
	RiskReward  RiskReward  `json:"riskReward"`
	ATR         float64     `json:"atr"`
	Supports    []Level     `json:"supports"`
	Resistances []Level     `json:"resistances"`
}

// PositionPlan is the sized recommendation for a spot/stock trade.
type PositionPlan struct {
	Valid           bool     `json:"isValid"`
	Reason          string   `json:"reason,omitempty"`
	Lots            float64  `json:"lots"`
	Units           float64  `json:"units"`
	PositionValue   float64  `json:"positionValue"`
	RiskAmount      float64  `json:"riskAmount"`
	RiskPercent     float64  `json:"riskPercent"`
	TPPercent       float64  `json:"tpPercent"`
	SLPercent       float64  `json:"slPercent"`
	RiskRewardRatio float64  `json:"riskRewardRatio"`
	PotentialProfit float64  `json:"potentialProfit"`
	Multiplier      float64  `json:"multiplier"`
	Warnings        []string `json:"warnings"`
}

// FuturesTarget is a leveraged TP outcome.
type FuturesTarget struct {
	Price float64 `json:"price"`
	PnL   float64 `json:"pnl"`
	ROE   float64 `json:"roe"`
}

// FuturesPlan is the leveraged rendition of a crypto trade plan.
type FuturesPlan struct {
	Side                string         `json:"side"` // "LONG" or "SHORT"
	Leverage            float64        `json:"leverage"`
	Margin              float64        `json:"margin"`
	MaintenanceRate     float64        `json:"maintenanceRate"`
	NotionalValue       float64        `json:"notionalValue"`
	Quantity            float64        `json:"quantity"`
	EntryPrice          float64        `json:"entryPrice"`
	LiquidationPrice    float64        `json:"liquidationPrice"`
	LiquidationDistance float64        `json:"liquidationDistancePercent"`
	SLBeyondLiquidation bool           `json:"slBeyondLiquidation"`
	SLPrice             float64        `json:"slPrice"`
	SLPercent           float64        `json:"slPercent"`
	SLLoss              float64        `json:"slLoss"`
	SLLossOfCapital     float64        `json:"slLossOfCapital"`
	EffectiveRiskROE    float64        `json:"effectiveRiskRoe"`
	Target              *FuturesTarget `json:"target,omitempty"`
	OpenFee             float64        `json:"openFee"`
	CloseFee            float64        `json:"closeFee"`
	TotalFees           float64        `json:"totalFees"`
	FundingPerInterval  float64        `json:"fundingPerInterval"`
	Warnings            []string       `json:"warnings"`
}

// EntryZone is the suggested entry band around the reference price.
type EntryZone struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Analysis is the full orchestrated result for one symbol.
// TrackingStatus reports what the signal log did with an analysis:
// a fresh record, a duplicate of an already-open one, or a close of
// the opposite position.
type TrackingStatus struct {
	Logged   bool   `json:"logged"`
	SignalID string `json:"signalId,omitempty"`
	Status   string `json:"status"`
}

type Analysis struct {
	Symbol     string          `json:"symbol"`
	AssetClass AssetClass      `json:"assetClass"`
	Quote      Quote           `json:"quote"`
	Decision   Decision        `json:"decision"`
	TradePlan  TradePlan       `json:"tradePlan"`
	Position   PositionPlan    `json:"moneyManagement"`
	Futures    *FuturesPlan    `json:"futures,omitempty"`
	Capital    CapitalStatus   `json:"capitalStatus"`
	EntryZone  EntryZone       `json:"entryZone"`
	Reasoning  []string        `json:"reasoning"`
	Warnings   []string        `json:"warnings"`
	Tracking   *TrackingStatus `json:"tracking,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
