package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"advisor-backend/internal/domain"
)

const BaseURL = "https://query1.finance.yahoo.com"

// chartParams maps app timeframes to Yahoo chart API parameters.
// Yahoo has no native 4h interval, so 4h bars are aggregated from
// hourly data.
var chartParams = map[string]struct {
	interval string
	dataRange string
}{
	"15m": {"15m", "5d"},
	"1h":  {"60m", "1mo"},
	"4h":  {"60m", "3mo"},
	"1D":  {"1d", "2y"},
}

// Client fetches candles and quotes from the Yahoo Finance chart API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  float64 `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Candles returns OHLCV bars for a symbol. Bars with missing fields
// (market holidays, partial sessions) are dropped.
func (c *Client) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	params, ok := chartParams[timeframe]
	if !ok {
		return nil, fmt.Errorf("unsupported timeframe %q", timeframe)
	}

	resp, err := c.fetchChart(ctx, symbol, params.interval, params.dataRange)
	if err != nil {
		return nil, err
	}
	candles := extractCandles(resp)

	if timeframe == "4h" {
		candles = aggregate(candles, 4*time.Hour)
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// Quote returns the latest regular-market quote from the daily chart
// metadata.
func (c *Client) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	resp, err := c.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("no market price for %s", symbol)
	}

	change := 0.0
	changePct := 0.0
	if meta.ChartPreviousClose > 0 {
		change = meta.RegularMarketPrice - meta.ChartPreviousClose
		changePct = change / meta.ChartPreviousClose * 100
	}

	return &domain.Quote{
		Price:         meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: changePct,
		Volume:        meta.RegularMarketVolume,
		DayHigh:       meta.RegularMarketDayHigh,
		DayLow:        meta.RegularMarketDayLow,
	}, nil
}

func (c *Client) fetchChart(ctx context.Context, symbol, interval, dataRange string) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), interval, dataRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; advisor-backend/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo API error: %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo API error: %s", chart.Chart.Error.Description)
	}
	return &chart, nil
}

func extractCandles(resp *chartResponse) []domain.Candle {
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil
	}
	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]domain.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) ||
			quote.Open[i] == nil || quote.High[i] == nil ||
			quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		volume := 0.0
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		candles = append(candles, domain.Candle{
			OpenTime: time.Unix(ts, 0),
			Open:     *quote.Open[i],
			High:     *quote.High[i],
			Low:      *quote.Low[i],
			Close:    *quote.Close[i],
			Volume:   volume,
		})
	}
	return candles
}

// aggregate rolls finer bars up into fixed buckets.
func aggregate(candles []domain.Candle, bucket time.Duration) []domain.Candle {
	if len(candles) == 0 {
		return nil
	}

	var out []domain.Candle
	var current domain.Candle
	var currentBucket time.Time

	for _, c := range candles {
		b := c.OpenTime.Truncate(bucket)
		if currentBucket.IsZero() || !b.Equal(currentBucket) {
			if !currentBucket.IsZero() {
				out = append(out, current)
			}
			currentBucket = b
			current = c
			current.OpenTime = b
			continue
		}
		if c.High > current.High {
			current.High = c.High
		}
		if c.Low < current.Low {
			current.Low = c.Low
		}
		current.Close = c.Close
		current.Volume += c.Volume
	}
	out = append(out, current)
	return out
}

// compile-time check
var _ domain.MarketDataProvider = (*Client)(nil)
