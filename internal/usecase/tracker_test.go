package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"advisor-backend/internal/domain"
	"advisor-backend/internal/repository"
)

// fakeProvider serves one fixed price, or an error.
type fakeProvider struct {
	price float64
	err   error
}

func (f *fakeProvider) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	return nil, nil
}

func (f *fakeProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Quote{Price: f.price}, nil
}

func newTestTracker(repo domain.SignalRepository, provider *fakeProvider, capital float64) *Tracker {
	return NewTracker(
		repo,
		map[domain.AssetClass]domain.MarketDataProvider{domain.AssetCrypto: provider},
		map[domain.AssetClass]float64{domain.AssetCrypto: capital},
		nil,
		time.Minute,
		zerolog.Nop(),
	)
}

func buyRequest(symbol string, entry, sl, tp, allocated float64) TrackRequest {
	return TrackRequest{
		Symbol:     symbol,
		AssetClass: domain.AssetCrypto,
		Direction:  domain.ActionBuy,
		EntryPrice: entry,
		StopLoss:   &sl,
		TakeProfit: &tp,
		Score:      70,
		Confidence: 70,
		Strength:   domain.StrengthStrong,
		Allocated:  allocated,
	}
}

func TestTrackIgnoresNonActionable(t *testing.T) {
	tracker := newTestTracker(repository.NewInMemorySignalRepository(), &fakeProvider{}, 1000)

	rec, created, err := tracker.Track(TrackRequest{Symbol: "ETHUSDT", AssetClass: domain.AssetCrypto, Direction: domain.ActionWait})
	if rec != nil || created || err != nil {
		t.Errorf("got %v/%v/%v, want WAIT dropped silently", rec, created, err)
	}
}

func TestTrackDeduplicatesSameDirection(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	tracker := newTestTracker(repo, &fakeProvider{}, 1000)

	first, created, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500))
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first track did not create a record")
	}
	second, created, err := tracker.Track(buyRequest("ETHUSDT", 68500, 66500, 70500, 500))
	if err != nil {
		t.Fatal(err)
	}
	if created || second.ID != first.ID {
		t.Errorf("second track created a new record %s, want the pending %s returned", second.ID, first.ID)
	}
	if !almostEqual(second.EntryPrice, 68000) {
		t.Errorf("entry = %v, want the original 68000 kept", second.EntryPrice)
	}
}

func TestTrackReversalClosesPending(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	tracker := newTestTracker(repo, &fakeProvider{}, 1000)

	first, _, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500))
	if err != nil {
		t.Fatal(err)
	}

	sell := buyRequest("ETHUSDT", 67000, 69000, 65000, 500)
	sell.Direction = domain.ActionSell
	second, created, err := tracker.Track(sell)
	if err != nil {
		t.Fatal(err)
	}
	if !created || second.ID == first.ID || second.Direction != domain.ActionSell {
		t.Fatalf("reversal did not open a fresh record: %+v", second)
	}

	closed, err := repo.Closed(domain.AssetCrypto)
	if err != nil {
		t.Fatal(err)
	}
	if len(closed) != 1 || closed[0].Outcome != domain.OutcomeReversed {
		t.Fatalf("closed = %+v, want one reversed record", closed)
	}
	if !almostEqual(*closed[0].PnLPercent, -1.47) {
		t.Errorf("pnl = %v, want -1.47 exiting 68000 at 67000", *closed[0].PnLPercent)
	}
	if !almostEqual(*closed[0].PnLAmount, -7.35) {
		t.Errorf("pnl amount = %v, want -7.35 on a 500 allocation", *closed[0].PnLAmount)
	}
}

func TestTrackEquitySellClosesOnly(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	provider := &fakeProvider{}
	tracker := NewTracker(
		repo,
		map[domain.AssetClass]domain.MarketDataProvider{domain.AssetEquity: provider},
		map[domain.AssetClass]float64{domain.AssetEquity: 10000000},
		nil,
		time.Minute,
		zerolog.Nop(),
	)

	sell := buyRequest("BBCA.JK", 1000, 1060, 940, 100000)
	sell.AssetClass = domain.AssetEquity
	sell.Direction = domain.ActionSell

	// Nothing open: a SELL on a long-only class must not open a short.
	rec, created, err := tracker.Track(sell)
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil || created {
		t.Fatalf("got %+v, want no record for an equity SELL with nothing to close", rec)
	}
	if pending, _ := repo.ListPending(domain.AssetEquity); len(pending) != 0 {
		t.Fatalf("pending = %d, want 0", len(pending))
	}

	buy := buyRequest("BBCA.JK", 1000, 940, 1090, 100000)
	buy.AssetClass = domain.AssetEquity
	if _, _, err := tracker.Track(buy); err != nil {
		t.Fatal(err)
	}

	// With a long open, the SELL closes it and stops there.
	sell.EntryPrice = 950
	rec, created, err = tracker.Track(sell)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("equity SELL opened a new record after the close")
	}
	if rec == nil || rec.Outcome != domain.OutcomeReversed {
		t.Fatalf("got %+v, want the closed long back", rec)
	}
	if !almostEqual(*rec.PnLPercent, -5) {
		t.Errorf("pnl = %v, want -5 exiting 1000 at 950", *rec.PnLPercent)
	}
	if pending, _ := repo.ListPending(domain.AssetEquity); len(pending) != 0 {
		t.Errorf("pending = %d, want no short left open", len(pending))
	}
}

func TestResolveTakeProfit(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	provider := &fakeProvider{price: 70500}
	tracker := newTestTracker(repo, provider, 1000)

	if _, _, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500)); err != nil {
		t.Fatal(err)
	}
	tracker.ResolveAll(context.Background())

	closed, _ := repo.Closed(domain.AssetCrypto)
	if len(closed) != 1 || closed[0].Outcome != domain.OutcomeTPHit {
		t.Fatalf("closed = %+v, want one TP_HIT record", closed)
	}
	rec := closed[0]
	if rec.ExitPrice == nil || !almostEqual(*rec.ExitPrice, 70000) {
		t.Errorf("exit = %v, want filled at the 70000 target, not the poll price", rec.ExitPrice)
	}
	if !almostEqual(*rec.PnLPercent, 2.94) || !almostEqual(*rec.PnLAmount, 14.71) {
		t.Errorf("pnl = %v%% / %v, want 2.94 / 14.71", *rec.PnLPercent, *rec.PnLAmount)
	}
	if !almostEqual(rec.HighestPrice, 70500) {
		t.Errorf("highest = %v, want the poll watermark 70500", rec.HighestPrice)
	}
}

func TestResolveStopTakesPrecedence(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	provider := &fakeProvider{price: 65000}
	tracker := newTestTracker(repo, provider, 1000)

	if _, _, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500)); err != nil {
		t.Fatal(err)
	}
	tracker.ResolveAll(context.Background())

	closed, _ := repo.Closed(domain.AssetCrypto)
	if len(closed) != 1 || closed[0].Outcome != domain.OutcomeSLHit {
		t.Fatalf("closed = %+v, want SL_HIT", closed)
	}
	if !almostEqual(*closed[0].ExitPrice, 66000) || !almostEqual(*closed[0].PnLPercent, -2.94) {
		t.Errorf("exit/pnl = %v/%v, want 66000/-2.94", *closed[0].ExitPrice, *closed[0].PnLPercent)
	}
	if !almostEqual(closed[0].LowestPrice, 65000) {
		t.Errorf("lowest = %v, want the poll watermark 65000", closed[0].LowestPrice)
	}
}

func TestResolveExpiresStaleSignals(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	provider := &fakeProvider{price: 68000}
	tracker := newTestTracker(repo, provider, 1000)

	if _, _, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500)); err != nil {
		t.Fatal(err)
	}
	pending, _ := repo.ListPending(domain.AssetCrypto)
	pending[0].CreatedAt = time.Now().Add(-49 * time.Hour)
	if err := repo.Update(pending[0]); err != nil {
		t.Fatal(err)
	}

	tracker.ResolveAll(context.Background())

	closed, _ := repo.Closed(domain.AssetCrypto)
	if len(closed) != 1 || closed[0].Outcome != domain.OutcomeExpired {
		t.Fatalf("closed = %+v, want EXPIRED past the 48h age limit", closed)
	}
	if closed[0].ExitPrice != nil {
		t.Errorf("exit price = %v, want none for an expiry", *closed[0].ExitPrice)
	}
	if !almostEqual(*closed[0].PnLPercent, 0) {
		t.Errorf("pnl = %v, want 0", *closed[0].PnLPercent)
	}
}

func TestResolveSkipsOnQuoteError(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	provider := &fakeProvider{err: errors.New("rate limited")}
	tracker := newTestTracker(repo, provider, 1000)

	if _, _, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500)); err != nil {
		t.Fatal(err)
	}
	tracker.ResolveAll(context.Background())

	pending, _ := repo.ListPending(domain.AssetCrypto)
	if len(pending) != 1 {
		t.Errorf("pending = %d, want the signal left open when prices fail", len(pending))
	}
}

func TestCapitalLedger(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	provider := &fakeProvider{price: 70500}
	tracker := newTestTracker(repo, provider, 1000)

	if _, _, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500)); err != nil {
		t.Fatal(err)
	}

	status, err := tracker.Capital(domain.AssetCrypto)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(status.Allocated, 500) || !almostEqual(status.Available, 500) {
		t.Errorf("allocated/available = %v/%v, want 500/500 while open", status.Allocated, status.Available)
	}
	if status.OpenPositions != 1 {
		t.Errorf("open positions = %d, want 1", status.OpenPositions)
	}

	tracker.ResolveAll(context.Background())

	status, err = tracker.Capital(domain.AssetCrypto)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(status.RealizedPnL, 14.71) || !almostEqual(status.Available, 1014.71) {
		t.Errorf("realized/available = %v/%v, want 14.71/1014.71 after the win", status.RealizedPnL, status.Available)
	}
}

func TestSummaryAggregates(t *testing.T) {
	repo := repository.NewInMemorySignalRepository()
	provider := &fakeProvider{price: 70500}
	tracker := newTestTracker(repo, provider, 1000)

	if _, _, err := tracker.Track(buyRequest("ETHUSDT", 68000, 66000, 70000, 500)); err != nil {
		t.Fatal(err)
	}
	tracker.ResolveAll(context.Background()) // TP at 70000: +2.94%, +14.71

	if _, _, err := tracker.Track(buyRequest("SOLUSDT", 100, 96, 110, 480)); err != nil {
		t.Fatal(err)
	}
	provider.price = 95
	tracker.ResolveAll(context.Background()) // SL at 96: -4%, -19.2

	summary, err := tracker.Summary(domain.AssetCrypto)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Wins != 1 || summary.Losses != 1 || summary.Completed != 2 {
		t.Fatalf("wins/losses/completed = %d/%d/%d", summary.Wins, summary.Losses, summary.Completed)
	}
	if !almostEqual(summary.WinRate, 50) {
		t.Errorf("win rate = %v, want 50", summary.WinRate)
	}
	if !almostEqual(summary.TotalPnLPercent, -1.06) {
		t.Errorf("total pnl = %v, want -1.06", summary.TotalPnLPercent)
	}
	if !almostEqual(summary.ProfitFactor, 0.77) {
		t.Errorf("profit factor = %v, want 0.77", summary.ProfitFactor)
	}
	if summary.BestTrade == nil || summary.BestTrade.Symbol != "ETHUSDT" {
		t.Errorf("best trade = %+v, want the ETH win", summary.BestTrade)
	}
	if summary.WorstTrade == nil || summary.WorstTrade.Symbol != "SOLUSDT" {
		t.Errorf("worst trade = %+v, want the SOL loss", summary.WorstTrade)
	}
}
