package repository

import (
	"testing"
	"time"

	"advisor-backend/internal/domain"
)

func record(id, symbol string, outcome domain.Outcome, createdAt time.Time) *domain.SignalRecord {
	return &domain.SignalRecord{
		ID:         id,
		Symbol:     symbol,
		AssetClass: domain.AssetCrypto,
		Direction:  domain.ActionBuy,
		EntryPrice: 100,
		Outcome:    outcome,
		CreatedAt:  createdAt,
	}
}

func TestInMemoryCreateRejectsDuplicatePending(t *testing.T) {
	repo := NewInMemorySignalRepository()
	now := time.Now()

	if err := repo.Create(record("a", "ETHUSDT", domain.OutcomePending, now)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(record("b", "ETHUSDT", domain.OutcomePending, now)); err == nil {
		t.Error("second pending signal for the same symbol accepted")
	}
	// A closed record for the same symbol is fine.
	if err := repo.Create(record("c", "ETHUSDT", domain.OutcomeTPHit, now)); err != nil {
		t.Errorf("closed record rejected: %v", err)
	}
}

func TestInMemoryFindPendingMissIsNil(t *testing.T) {
	repo := NewInMemorySignalRepository()

	rec, err := repo.FindPending("ETHUSDT", domain.AssetCrypto)
	if err != nil || rec != nil {
		t.Errorf("got %v/%v, want nil record and nil error on a miss", rec, err)
	}
}

func TestInMemoryFindPendingReturnsCopy(t *testing.T) {
	repo := NewInMemorySignalRepository()
	if err := repo.Create(record("a", "ETHUSDT", domain.OutcomePending, time.Now())); err != nil {
		t.Fatal(err)
	}

	rec, err := repo.FindPending("ETHUSDT", domain.AssetCrypto)
	if err != nil || rec == nil {
		t.Fatalf("got %v/%v", rec, err)
	}
	rec.EntryPrice = 999

	again, _ := repo.FindPending("ETHUSDT", domain.AssetCrypto)
	if again.EntryPrice != 100 {
		t.Errorf("entry = %v, stored record mutated through the returned pointer", again.EntryPrice)
	}
}

func TestInMemoryUpdateUnknownID(t *testing.T) {
	repo := NewInMemorySignalRepository()
	if err := repo.Update(record("ghost", "ETHUSDT", domain.OutcomePending, time.Now())); err == nil {
		t.Error("update of an unknown id succeeded")
	}
}

func TestInMemoryHistoryOrderAndLimit(t *testing.T) {
	repo := NewInMemorySignalRepository()
	base := time.Now()

	for i, sym := range []string{"AAAUSDT", "BBBUSDT", "CCCUSDT"} {
		rec := record(sym, sym, domain.OutcomeTPHit, base.Add(time.Duration(i)*time.Hour))
		if err := repo.Create(rec); err != nil {
			t.Fatal(err)
		}
	}

	history, err := repo.History(domain.AssetCrypto, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("len = %d, want the limit applied", len(history))
	}
	if history[0].Symbol != "CCCUSDT" || history[1].Symbol != "BBBUSDT" {
		t.Errorf("order = %s, %s, want newest first", history[0].Symbol, history[1].Symbol)
	}

	bySymbol, err := repo.History(domain.AssetCrypto, "AAAUSDT", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(bySymbol) != 1 || bySymbol[0].Symbol != "AAAUSDT" {
		t.Errorf("filtered = %+v, want only AAAUSDT", bySymbol)
	}
}

func TestInMemoryClosedExcludesPending(t *testing.T) {
	repo := NewInMemorySignalRepository()
	now := time.Now()

	if err := repo.Create(record("a", "ETHUSDT", domain.OutcomePending, now)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(record("b", "SOLUSDT", domain.OutcomeSLHit, now)); err != nil {
		t.Fatal(err)
	}

	closed, err := repo.Closed(domain.AssetCrypto)
	if err != nil {
		t.Fatal(err)
	}
	if len(closed) != 1 || closed[0].ID != "b" {
		t.Errorf("closed = %+v, want only the resolved record", closed)
	}
}
