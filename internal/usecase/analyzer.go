package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"advisor-backend/internal/domain"
)

const (
	candleFetchLimit    = 300
	benchmarkFetchLimit = 100
	entryZoneSpread     = 0.005
)

// AnalyzeOptions tweak a single analysis run.
type AnalyzeOptions struct {
	Capital  float64 // 0 = use tracked available capital
	Leverage float64 // futures projection only, 0 = default
	Track    bool    // log actionable outcomes with the tracker
}

// Analyzer wires market data, the scoring engine, planning, sizing and
// the tracker into the one-call analysis pipeline.
type Analyzer struct {
	providers map[domain.AssetClass]domain.MarketDataProvider
	tracker   *Tracker
	logger    zerolog.Logger
}

func NewAnalyzer(providers map[domain.AssetClass]domain.MarketDataProvider, tracker *Tracker, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		providers: providers,
		tracker:   tracker,
		logger:    logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze runs the full pipeline for one symbol. It only touches the
// signal log when opts.Track is set; a plain analysis is a pure read.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, class domain.AssetClass, opts AnalyzeOptions) (*domain.Analysis, error) {
	provider, ok := a.providers[class]
	if !ok {
		return nil, fmt.Errorf("no market data provider for asset class %s", class)
	}
	policy := domain.PolicyFor(class)

	candles, err := a.fetchTimeframes(ctx, provider, symbol, policy)
	if err != nil {
		return nil, err
	}

	quote, err := provider.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	benchmark := a.fetchBenchmark(ctx, provider, policy)

	decision := MakeDecision(DecisionInput{
		Symbol:          symbol,
		Candles:         candles,
		BenchmarkCloses: benchmark,
	}, policy)
	decision.Score = round2(decision.Score)

	capital := a.capitalStatus(class, opts.Capital)

	primary := candles[policy.PrimaryTimeframe]
	atr := AnalyzeATR(primary).Value

	direction := decision.Action
	if direction == domain.ActionWait {
		direction = domain.ActionBuy
	}
	plan := BuildTradePlan(direction, quote.Price, primary, atr, policy)
	position := SizePosition(plan, decision.Score, capital.Available, policy)

	var futures *domain.FuturesPlan
	if class == domain.AssetCrypto && decision.Action != domain.ActionWait {
		futures = BuildFuturesPlan(plan, capital.Available, opts.Leverage)
	}

	analysis := &domain.Analysis{
		Symbol:     symbol,
		AssetClass: class,
		Quote:      *quote,
		Decision:   decision,
		TradePlan:  plan,
		Position:   position,
		Futures:    futures,
		Capital:    capital,
		EntryZone: domain.EntryZone{
			Low:  roundPrice(quote.Price*(1-entryZoneSpread), policy.Class),
			High: roundPrice(quote.Price*(1+entryZoneSpread), policy.Class),
		},
		Reasoning: buildReasoning(decision),
		Warnings:  buildWarnings(decision, policy),
		Timestamp: time.Now(),
	}

	if opts.Track {
		analysis.Tracking = a.trackDecision(analysis, plan, position)
	}
	return analysis, nil
}

func (a *Analyzer) fetchTimeframes(ctx context.Context, provider domain.MarketDataProvider, symbol string, policy domain.Policy) (map[string][]domain.Candle, error) {
	candles := make(map[string][]domain.Candle, len(policy.TimeframeWeights))
	for _, tf := range timeframeOrder {
		if _, ok := policy.TimeframeWeights[tf]; !ok {
			continue
		}
		series, err := provider.Candles(ctx, symbol, tf, candleFetchLimit)
		if err != nil {
			if tf == policy.PrimaryTimeframe {
				return nil, fmt.Errorf("candles %s %s: %w", symbol, tf, err)
			}
			a.logger.Warn().Err(err).Str("symbol", symbol).Str("timeframe", tf).
				Msg("Timeframe fetch failed, continuing without it")
			continue
		}
		candles[tf] = series
	}
	return candles, nil
}

// fetchBenchmark pulls the daily benchmark series. Failures degrade to
// neutral sentiment rather than failing the analysis.
func (a *Analyzer) fetchBenchmark(ctx context.Context, provider domain.MarketDataProvider, policy domain.Policy) []float64 {
	series, err := provider.Candles(ctx, policy.BenchmarkSymbol, "1D", benchmarkFetchLimit)
	if err != nil {
		a.logger.Warn().Err(err).Str("benchmark", policy.BenchmarkSymbol).
			Msg("Benchmark fetch failed, sentiment degraded to neutral")
		return nil
	}
	return domain.Closes(series)
}

func (a *Analyzer) capitalStatus(class domain.AssetClass, override float64) domain.CapitalStatus {
	if override > 0 {
		return domain.CapitalStatus{Initial: override, Available: override}
	}
	if a.tracker == nil {
		return domain.CapitalStatus{}
	}
	status, err := a.tracker.Capital(class)
	if err != nil {
		a.logger.Error().Err(err).Str("class", string(class)).Msg("Capital lookup failed")
		return domain.CapitalStatus{}
	}
	return status
}

func (a *Analyzer) trackDecision(analysis *domain.Analysis, plan domain.TradePlan, position domain.PositionPlan) *domain.TrackingStatus {
	if a.tracker == nil || analysis.Decision.Action == domain.ActionWait {
		return nil
	}

	sl := plan.StopLoss.Price
	tp := plan.TP1.Price
	rr := plan.RiskReward.TP1
	rec, created, err := a.tracker.Track(TrackRequest{
		Symbol:      analysis.Symbol,
		AssetClass:  analysis.AssetClass,
		Direction:   analysis.Decision.Action,
		EntryPrice:  plan.Entry,
		StopLoss:    &sl,
		TakeProfit:  &tp,
		RiskReward:  &rr,
		Score:       analysis.Decision.Score,
		Confidence:  analysis.Decision.Confidence,
		Strength:    analysis.Decision.Strength,
		Alignment:   analysis.Decision.MultiTimeframe.Alignment,
		MarketTrend: analysis.Decision.Sentiment.Trend,
		Allocated:   position.PositionValue,
	})
	if err != nil {
		a.logger.Error().Err(err).Str("symbol", analysis.Symbol).Msg("Signal tracking failed")
		return nil
	}

	switch {
	case created:
		return &domain.TrackingStatus{Logged: true, SignalID: rec.ID, Status: "logged"}
	case rec == nil:
		return &domain.TrackingStatus{Status: "not_logged"}
	case rec.Outcome == domain.OutcomePending:
		return &domain.TrackingStatus{SignalID: rec.ID, Status: "already_tracking"}
	default:
		return &domain.TrackingStatus{SignalID: rec.ID, Status: "closed"}
	}
}

// buildReasoning renders the breakdown sorted by impact, strongest
// first.
func buildReasoning(decision domain.Decision) []string {
	entries := make([]domain.BreakdownEntry, len(decision.Breakdown))
	copy(entries, decision.Breakdown)
	sort.SliceStable(entries, func(i, j int) bool {
		return abs(entries[i].Contribution) > abs(entries[j].Contribution)
	})

	reasoning := make([]string, 0, len(entries))
	for _, e := range entries {
		mark := "✓"
		if e.Contribution < 0 {
			mark = "✗"
		}
		detail := ""
		if len(e.Details) > 0 {
			detail = ": " + e.Details[0]
		}
		reasoning = append(reasoning, fmt.Sprintf("%s %s%s", mark, e.Indicator, detail))
	}
	return reasoning
}

func buildWarnings(decision domain.Decision, policy domain.Policy) []string {
	var warnings []string
	if !decision.Indicators.Volume.Confirmation {
		warnings = append(warnings, "Low volume, move not confirmed")
	}
	if decision.MultiTimeframe.Alignment == domain.AlignmentMixed {
		warnings = append(warnings, "Mixed timeframes, trend not aligned")
	}
	if decision.Action == domain.ActionBuy && decision.Sentiment.Trend == "BEARISH" {
		warnings = append(warnings, policy.SentimentLabel+" is bearish, buying against the market")
	}
	if decision.Action == domain.ActionSell && decision.Sentiment.Trend == "BULLISH" {
		warnings = append(warnings, policy.SentimentLabel+" is bullish, selling against the market")
	}
	return warnings
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
