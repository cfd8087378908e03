package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"advisor-backend/internal/domain"
)

// TrackRequest is a scored signal handed to the tracker for logging.
type TrackRequest struct {
	Symbol      string
	AssetClass  domain.AssetClass
	Direction   domain.Action
	EntryPrice  float64
	StopLoss    *float64
	TakeProfit  *float64
	RiskReward  *float64
	Score       float64
	Confidence  float64
	Strength    domain.Strength
	Alignment   string
	MarketTrend string
	Allocated   float64
}

// outcomeNotifier pushes lifecycle events to registered devices.
type outcomeNotifier interface {
	NotifySignal(rec *domain.SignalRecord)
	NotifyOutcome(rec *domain.SignalRecord)
}

// Tracker logs actionable signals, dedupes repeats, closes positions
// on reversal and resolves pending signals against live prices.
type Tracker struct {
	repo      domain.SignalRepository
	providers map[domain.AssetClass]domain.MarketDataProvider
	capital   map[domain.AssetClass]float64
	notifier  outcomeNotifier
	logger    zerolog.Logger
	interval  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTracker(
	repo domain.SignalRepository,
	providers map[domain.AssetClass]domain.MarketDataProvider,
	capital map[domain.AssetClass]float64,
	notifier outcomeNotifier,
	interval time.Duration,
	logger zerolog.Logger,
) *Tracker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Tracker{
		repo:      repo,
		providers: providers,
		capital:   capital,
		notifier:  notifier,
		logger:    logger.With().Str("component", "tracker").Logger(),
		interval:  interval,
		locks:     make(map[string]*sync.Mutex),
	}
}

// symbolLock serializes tracking per symbol+class so a concurrent
// analyze cannot double-log the same signal.
func (t *Tracker) symbolLock(symbol string, class domain.AssetClass) *sync.Mutex {
	key := string(class) + ":" + symbol
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	t.locks[key] = l
	return l
}

// Track records an actionable signal. A same-direction pending signal
// is left untouched; an opposite-direction one is closed as reversed
// at the new entry price before the new record is created. On
// long-only asset classes a SELL only ever closes, it never opens a
// short. The bool reports whether a new record was created.
func (t *Tracker) Track(req TrackRequest) (*domain.SignalRecord, bool, error) {
	if req.Direction != domain.ActionBuy && req.Direction != domain.ActionSell {
		return nil, false, nil
	}
	policy := domain.PolicyFor(req.AssetClass)
	closeOnly := req.Direction == domain.ActionSell && !policy.AllowShort

	lock := t.symbolLock(req.Symbol, req.AssetClass)
	lock.Lock()
	defer lock.Unlock()

	pending, err := t.repo.FindPending(req.Symbol, req.AssetClass)
	if err != nil {
		return nil, false, err
	}
	if pending != nil {
		if pending.Direction == req.Direction {
			t.logger.Debug().
				Str("symbol", req.Symbol).
				Str("direction", string(req.Direction)).
				Msg("Already tracking, skipping duplicate signal")
			return pending, false, nil
		}
		if err := t.closeReversed(pending, req.EntryPrice); err != nil {
			return nil, false, err
		}
		if closeOnly {
			return pending, false, nil
		}
	} else if closeOnly {
		t.logger.Debug().
			Str("symbol", req.Symbol).
			Str("class", string(req.AssetClass)).
			Msg("Short not permitted and nothing to close, signal not logged")
		return nil, false, nil
	}

	rec := &domain.SignalRecord{
		ID:           uuid.NewString(),
		Symbol:       req.Symbol,
		AssetClass:   req.AssetClass,
		Direction:    req.Direction,
		EntryPrice:   req.EntryPrice,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
		RiskReward:   req.RiskReward,
		Score:        req.Score,
		Confidence:   req.Confidence,
		Strength:     req.Strength,
		Alignment:    req.Alignment,
		MarketTrend:  req.MarketTrend,
		Allocated:    round4(req.Allocated),
		CreatedAt:    time.Now(),
		Outcome:      domain.OutcomePending,
		HighestPrice: req.EntryPrice,
		LowestPrice:  req.EntryPrice,
	}
	if err := t.repo.Create(rec); err != nil {
		return nil, false, err
	}

	t.logger.Info().
		Str("symbol", rec.Symbol).
		Str("direction", string(rec.Direction)).
		Float64("entry", rec.EntryPrice).
		Float64("score", rec.Score).
		Msg("Signal tracked")

	if t.notifier != nil {
		t.notifier.NotifySignal(rec)
	}
	return rec, true, nil
}

// closeReversed resolves a pending signal at the opposing signal's
// entry price.
func (t *Tracker) closeReversed(rec *domain.SignalRecord, exitPrice float64) error {
	t.finalize(rec, domain.OutcomeReversed, exitPrice)
	if err := t.repo.Update(rec); err != nil {
		return err
	}
	t.logger.Info().
		Str("symbol", rec.Symbol).
		Str("direction", string(rec.Direction)).
		Float64("pnlPercent", *rec.PnLPercent).
		Msg("Signal reversed")
	if t.notifier != nil {
		t.notifier.NotifyOutcome(rec)
	}
	return nil
}

// finalize fills the exit fields of a closing record.
func (t *Tracker) finalize(rec *domain.SignalRecord, outcome domain.Outcome, exitPrice float64) {
	now := time.Now()

	pnl := 0.0
	if rec.EntryPrice > 0 && outcome != domain.OutcomeExpired {
		pnl = (exitPrice - rec.EntryPrice) / rec.EntryPrice * 100
		if rec.Direction == domain.ActionSell {
			pnl = -pnl
		}
	}
	pnlAmount := round2(rec.Allocated * pnl / 100)
	pnlRounded := round2(pnl)
	hold := round1(now.Sub(rec.CreatedAt).Hours())

	rec.Outcome = outcome
	if outcome != domain.OutcomeExpired {
		rec.ExitPrice = &exitPrice
	}
	rec.ExitTime = &now
	rec.PnLPercent = &pnlRounded
	rec.PnLAmount = &pnlAmount
	rec.HoldHours = &hold
}

// Run polls pending signals until the context is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("Tracker started")
	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("Tracker stopped")
			return
		case <-ticker.C:
			t.ResolveAll(ctx)
		}
	}
}

// ResolveAll walks every pending signal of every tracked asset class.
func (t *Tracker) ResolveAll(ctx context.Context) {
	for class := range t.providers {
		if err := t.resolveClass(ctx, class); err != nil {
			t.logger.Error().Err(err).Str("class", string(class)).Msg("Resolve pass failed")
		}
	}
}

func (t *Tracker) resolveClass(ctx context.Context, class domain.AssetClass) error {
	pending, err := t.repo.ListPending(class)
	if err != nil {
		return err
	}
	policy := domain.PolicyFor(class)
	provider := t.providers[class]

	for _, rec := range pending {
		// Expiry wins before any price lookup.
		if time.Since(rec.CreatedAt) > policy.MaxSignalAge {
			t.finalize(rec, domain.OutcomeExpired, 0)
			if err := t.repo.Update(rec); err != nil {
				t.logger.Error().Err(err).Str("symbol", rec.Symbol).Msg("Failed to expire signal")
				continue
			}
			t.logger.Info().Str("symbol", rec.Symbol).Msg("Signal expired")
			if t.notifier != nil {
				t.notifier.NotifyOutcome(rec)
			}
			continue
		}

		quote, err := provider.Quote(ctx, rec.Symbol)
		if err != nil {
			t.logger.Warn().Err(err).Str("symbol", rec.Symbol).Msg("Price fetch failed, skipping")
			continue
		}
		t.resolveOne(rec, quote.Price)
	}
	return nil
}

// resolveOne updates the watermarks and closes the record when the
// stop or target level is crossed. The stop takes precedence when both
// are crossed in one poll.
func (t *Tracker) resolveOne(rec *domain.SignalRecord, price float64) {
	if price > rec.HighestPrice {
		rec.HighestPrice = price
	}
	if price < rec.LowestPrice || rec.LowestPrice == 0 {
		rec.LowestPrice = price
	}

	outcome := domain.OutcomePending
	exit := price
	if rec.Direction == domain.ActionBuy {
		if rec.StopLoss != nil && price <= *rec.StopLoss {
			outcome, exit = domain.OutcomeSLHit, *rec.StopLoss
		} else if rec.TakeProfit != nil && price >= *rec.TakeProfit {
			outcome, exit = domain.OutcomeTPHit, *rec.TakeProfit
		}
	} else {
		if rec.StopLoss != nil && price >= *rec.StopLoss {
			outcome, exit = domain.OutcomeSLHit, *rec.StopLoss
		} else if rec.TakeProfit != nil && price <= *rec.TakeProfit {
			outcome, exit = domain.OutcomeTPHit, *rec.TakeProfit
		}
	}

	if outcome == domain.OutcomePending {
		if err := t.repo.Update(rec); err != nil {
			t.logger.Error().Err(err).Str("symbol", rec.Symbol).Msg("Failed to update watermarks")
		}
		return
	}

	t.finalize(rec, outcome, exit)
	if err := t.repo.Update(rec); err != nil {
		t.logger.Error().Err(err).Str("symbol", rec.Symbol).Msg("Failed to close signal")
		return
	}
	t.logger.Info().
		Str("symbol", rec.Symbol).
		Str("outcome", string(outcome)).
		Float64("pnlPercent", *rec.PnLPercent).
		Msg("Signal resolved")
	if t.notifier != nil {
		t.notifier.NotifyOutcome(rec)
	}
}

// Capital derives the capital ledger for one asset class from the
// signal history.
func (t *Tracker) Capital(class domain.AssetClass) (domain.CapitalStatus, error) {
	status := domain.CapitalStatus{Initial: t.capital[class]}

	pending, err := t.repo.ListPending(class)
	if err != nil {
		return status, err
	}
	for _, rec := range pending {
		status.Allocated += rec.Allocated
	}
	status.OpenPositions = len(pending)

	closed, err := t.repo.Closed(class)
	if err != nil {
		return status, err
	}
	for _, rec := range closed {
		if rec.PnLAmount != nil {
			status.RealizedPnL += *rec.PnLAmount
		}
	}

	status.Allocated = round4(status.Allocated)
	status.RealizedPnL = round2(status.RealizedPnL)
	status.Available = round2(status.Initial - status.Allocated + status.RealizedPnL)
	return status, nil
}

// Summary aggregates realized performance for one asset class.
func (t *Tracker) Summary(class domain.AssetClass) (domain.TradeSummary, error) {
	var summary domain.TradeSummary

	pending, err := t.repo.ListPending(class)
	if err != nil {
		return summary, err
	}
	closed, err := t.repo.Closed(class)
	if err != nil {
		return summary, err
	}

	summary.Pending = len(pending)
	summary.Completed = len(closed)
	summary.TotalSignals = len(pending) + len(closed)

	grossWinPct, grossLossPct := 0.0, 0.0
	grossWinAmt, grossLossAmt := 0.0, 0.0
	bestPct, worstPct := 0.0, 0.0

	for _, rec := range closed {
		pnlPct, pnlAmt := 0.0, 0.0
		if rec.PnLPercent != nil {
			pnlPct = *rec.PnLPercent
		}
		if rec.PnLAmount != nil {
			pnlAmt = *rec.PnLAmount
		}

		switch rec.Outcome {
		case domain.OutcomeExpired:
			summary.Expired++
			continue
		case domain.OutcomeReversed:
			summary.Reversed++
		}

		win := rec.Outcome == domain.OutcomeTPHit ||
			(rec.Outcome == domain.OutcomeReversed && pnlPct > 0)
		if win {
			summary.Wins++
			grossWinPct += pnlPct
			grossWinAmt += pnlAmt
		} else {
			summary.Losses++
			grossLossPct += pnlPct
			grossLossAmt += pnlAmt
		}

		summary.TotalPnLPercent += pnlPct
		summary.TotalPnLAmount += pnlAmt

		if summary.BestTrade == nil || pnlPct > bestPct {
			summary.BestTrade = rec
			bestPct = pnlPct
		}
		if summary.WorstTrade == nil || pnlPct < worstPct {
			summary.WorstTrade = rec
			worstPct = pnlPct
		}
	}

	if decided := summary.Wins + summary.Losses; decided > 0 {
		summary.WinRate = round2(float64(summary.Wins) / float64(decided) * 100)
	}
	if summary.Wins > 0 {
		summary.AvgWinPercent = round2(grossWinPct / float64(summary.Wins))
		summary.AvgWinAmount = round2(grossWinAmt / float64(summary.Wins))
	}
	if summary.Losses > 0 {
		summary.AvgLossPercent = round2(grossLossPct / float64(summary.Losses))
		summary.AvgLossAmount = round2(grossLossAmt / float64(summary.Losses))
	}
	if loss := math.Abs(grossLossAmt); loss > 0 {
		summary.ProfitFactor = round2(grossWinAmt / loss)
	}
	summary.TotalPnLPercent = round2(summary.TotalPnLPercent)
	summary.TotalPnLAmount = round2(summary.TotalPnLAmount)
	return summary, nil
}

// History exposes recent records for the API layer.
func (t *Tracker) History(class domain.AssetClass, symbol string, limit int) ([]*domain.SignalRecord, error) {
	return t.repo.History(class, symbol, limit)
}

// Pending exposes open records for the API and websocket layers.
func (t *Tracker) Pending(class domain.AssetClass) ([]*domain.SignalRecord, error) {
	return t.repo.ListPending(class)
}
