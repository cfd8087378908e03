package repository

import (
	"errors"
	"sort"
	"sync"

	"advisor-backend/internal/domain"
)

// InMemorySignalRepository keeps signal records in memory. It is the
// fallback store when no database is configured; history is lost on
// restart.
type InMemorySignalRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.SignalRecord
}

func NewInMemorySignalRepository() *InMemorySignalRepository {
	return &InMemorySignalRepository{
		records: make(map[string]*domain.SignalRecord),
	}
}

func (r *InMemorySignalRepository) Create(rec *domain.SignalRecord) error {
	if rec == nil {
		return errors.New("nil signal record")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.Outcome == domain.OutcomePending {
		for _, existing := range r.records {
			if existing.Symbol == rec.Symbol &&
				existing.AssetClass == rec.AssetClass &&
				existing.Outcome == domain.OutcomePending {
				return errors.New("pending signal already exists for " + rec.Symbol)
			}
		}
	}

	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *InMemorySignalRepository) Update(rec *domain.SignalRecord) error {
	if rec == nil {
		return errors.New("nil signal record")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.ID]; !ok {
		return errors.New("signal record not found: " + rec.ID)
	}
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *InMemorySignalRepository) FindPending(symbol string, class domain.AssetClass) (*domain.SignalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.Symbol == symbol && rec.AssetClass == class && rec.Outcome == domain.OutcomePending {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InMemorySignalRepository) ListPending(class domain.AssetClass) ([]*domain.SignalRecord, error) {
	return r.filter(func(rec *domain.SignalRecord) bool {
		return rec.AssetClass == class && rec.Outcome == domain.OutcomePending
	}, 0), nil
}

func (r *InMemorySignalRepository) History(class domain.AssetClass, symbol string, limit int) ([]*domain.SignalRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.filter(func(rec *domain.SignalRecord) bool {
		if rec.AssetClass != class {
			return false
		}
		return symbol == "" || rec.Symbol == symbol
	}, limit), nil
}

func (r *InMemorySignalRepository) Closed(class domain.AssetClass) ([]*domain.SignalRecord, error) {
	return r.filter(func(rec *domain.SignalRecord) bool {
		return rec.AssetClass == class && rec.Outcome != domain.OutcomePending
	}, 0), nil
}

// filter returns copies, newest first.
func (r *InMemorySignalRepository) filter(keep func(*domain.SignalRecord) bool, limit int) []*domain.SignalRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.SignalRecord, 0)
	for _, rec := range r.records {
		if keep(rec) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// compile-time check
var _ domain.SignalRepository = (*InMemorySignalRepository)(nil)
