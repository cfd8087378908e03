package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"advisor-backend/internal/domain"
)

const SpotBaseURL = "https://api.binance.com"

// intervals maps the app timeframes to Binance kline intervals.
var intervals = map[string]string{
	"15m": "15m",
	"1h":  "1h",
	"4h":  "4h",
	"1D":  "1d",
}

// Client fetches spot market data from the public Binance API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    SpotBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type ticker24h struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
	Volume             string `json:"volume"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
}

// Candles returns OHLCV bars for a symbol. Binance klines arrive as
// mixed arrays: [openTime, open, high, low, close, volume, ...] with
// prices as strings.
func (c *Client) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	interval, ok := intervals[timeframe]
	if !ok {
		return nil, fmt.Errorf("unsupported timeframe %q", timeframe)
	}

	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d", c.baseURL, symbol, interval, limit)
	var raw [][]interface{}
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			continue
		}
		openTime, ok := k[0].(float64)
		if !ok {
			continue
		}
		candles = append(candles, domain.Candle{
			OpenTime: time.UnixMilli(int64(openTime)),
			Open:     parseKlineField(k[1]),
			High:     parseKlineField(k[2]),
			Low:      parseKlineField(k[3]),
			Close:    parseKlineField(k[4]),
			Volume:   parseKlineField(k[5]),
		})
	}
	return candles, nil
}

// Quote returns the rolling 24h ticker for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", c.baseURL, symbol)
	var t ticker24h
	if err := c.getJSON(ctx, url, &t); err != nil {
		return nil, err
	}

	price, err := strconv.ParseFloat(t.LastPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("bad last price %q for %s", t.LastPrice, symbol)
	}
	change, _ := strconv.ParseFloat(t.PriceChange, 64)
	changePct, _ := strconv.ParseFloat(t.PriceChangePercent, 64)
	volume, _ := strconv.ParseFloat(t.Volume, 64)
	high, _ := strconv.ParseFloat(t.HighPrice, 64)
	low, _ := strconv.ParseFloat(t.LowPrice, 64)

	return &domain.Quote{
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        volume,
		DayHigh:       high,
		DayLow:        low,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("binance API error: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseKlineField(v interface{}) float64 {
	switch t := v.(type) {
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case float64:
		return t
	}
	return 0
}

// compile-time check
var _ domain.MarketDataProvider = (*Client)(nil)
