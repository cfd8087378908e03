package domain

import "time"

// Outcome is the lifecycle state of a logged signal.
type Outcome string

const (
	OutcomePending  Outcome = "PENDING"
	OutcomeTPHit    Outcome = "TP_HIT"
	OutcomeSLHit    Outcome = "SL_HIT"
	OutcomeReversed Outcome = "SIGNAL_REVERSED"
	OutcomeExpired  Outcome = "EXPIRED"
)

// SignalRecord is one tracked signal from entry to resolution.
// HighestPrice/LowestPrice are watermarks updated on every poll.
type SignalRecord struct {
	ID           string     `json:"id"`
	Symbol       string     `json:"symbol"`
	AssetClass   AssetClass `json:"assetType"`
	Direction    Action     `json:"signal"`
	EntryPrice   float64    `json:"entryPrice"`
	StopLoss     *float64   `json:"sl,omitempty"`
	TakeProfit   *float64   `json:"tp,omitempty"`
	RiskReward   *float64   `json:"riskReward,omitempty"`
	Score        float64    `json:"score"`
	Confidence   float64    `json:"confidence"`
	Strength     Strength   `json:"strength"`
	Alignment    string     `json:"timeframeAlignment,omitempty"`
	MarketTrend  string     `json:"marketTrend,omitempty"`
	Allocated    float64    `json:"allocatedAmount"`
	CreatedAt    time.Time  `json:"timestamp"`
	Outcome      Outcome    `json:"outcome"`
	HighestPrice float64    `json:"highestPrice"`
	LowestPrice  float64    `json:"lowestPrice"`
	ExitPrice    *float64   `json:"exitPrice,omitempty"`
	ExitTime     *time.Time `json:"exitTime,omitempty"`
	PnLPercent   *float64   `json:"pnlPercent,omitempty"`
	PnLAmount    *float64   `json:"pnlDollar,omitempty"`
	HoldHours    *float64   `json:"holdHours,omitempty"`
}

// SignalRepository stores signal records. FindPending returns nil
// without error when no pending record exists for the key.
type SignalRepository interface {
	Create(rec *SignalRecord) error
	Update(rec *SignalRecord) error
	FindPending(symbol string, class AssetClass) (*SignalRecord, error)
	ListPending(class AssetClass) ([]*SignalRecord, error)
	History(class AssetClass, symbol string, limit int) ([]*SignalRecord, error)
	Closed(class AssetClass) ([]*SignalRecord, error)
}

// CapitalStatus is the derived capital ledger for one asset class.
type CapitalStatus struct {
	Initial       float64 `json:"initialCapital"`
	Allocated     float64 `json:"allocated"`
	RealizedPnL   float64 `json:"realizedPnl"`
	Available     float64 `json:"available"`
	OpenPositions int     `json:"openPositions"`
}

// TradeSummary aggregates realized performance per asset class.
// Reversed trades count as wins or losses by their PnL sign.
type TradeSummary struct {
	TotalSignals    int           `json:"totalSignals"`
	Pending         int           `json:"pending"`
	Completed       int           `json:"completed"`
	Wins            int           `json:"wins"`
	Losses          int           `json:"losses"`
	Reversed        int           `json:"reversed"`
	Expired         int           `json:"expired"`
	WinRate         float64       `json:"winRate"`
	TotalPnLPercent float64       `json:"totalPnlPercent"`
	TotalPnLAmount  float64       `json:"totalPnlDollar"`
	AvgWinPercent   float64       `json:"avgWinPercent"`
	AvgWinAmount    float64       `json:"avgWinDollar"`
	AvgLossPercent  float64       `json:"avgLossPercent"`
	AvgLossAmount   float64       `json:"avgLossDollar"`
	ProfitFactor    float64       `json:"profitFactor"`
	BestTrade       *SignalRecord `json:"bestTrade,omitempty"`
	WorstTrade      *SignalRecord `json:"worstTrade,omitempty"`
}
