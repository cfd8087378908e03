package domain

import "context"

// Quote is the latest price with day statistics.
type Quote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	DayHigh       float64 `json:"dayHigh"`
	DayLow        float64 `json:"dayLow"`
}

// MarketDataProvider fetches candles and quotes for one asset class.
type MarketDataProvider interface {
	Candles(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error)
	Quote(ctx context.Context, symbol string) (*Quote, error)
}
