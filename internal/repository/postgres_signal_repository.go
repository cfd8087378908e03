package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"advisor-backend/internal/domain"
)

const signalColumns = `
	id, symbol, asset_class, direction, entry_price, stop_loss, take_profit,
	risk_reward, score, confidence, strength, alignment, market_trend,
	allocated, created_at, outcome, highest_price, lowest_price,
	exit_price, exit_time, pnl_percent, pnl_amount, hold_hours`

// PostgresSignalRepository stores signal records in Postgres. A
// partial unique index on (symbol, asset_class) where outcome =
// 'PENDING' enforces one open signal per symbol.
type PostgresSignalRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSignalRepository(pool *pgxpool.Pool) *PostgresSignalRepository {
	return &PostgresSignalRepository{pool: pool}
}

func (r *PostgresSignalRepository) Create(rec *domain.SignalRecord) error {
	if rec == nil {
		return errors.New("nil signal record")
	}

	_, err := r.pool.Exec(context.Background(), `
		insert into signals(`+signalColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`,
		rec.ID,
		rec.Symbol,
		string(rec.AssetClass),
		string(rec.Direction),
		rec.EntryPrice,
		nullableFloat(rec.StopLoss),
		nullableFloat(rec.TakeProfit),
		nullableFloat(rec.RiskReward),
		rec.Score,
		rec.Confidence,
		string(rec.Strength),
		rec.Alignment,
		rec.MarketTrend,
		rec.Allocated,
		rec.CreatedAt,
		string(rec.Outcome),
		rec.HighestPrice,
		rec.LowestPrice,
		nullableFloat(rec.ExitPrice),
		nullableTime(rec.ExitTime),
		nullableFloat(rec.PnLPercent),
		nullableFloat(rec.PnLAmount),
		nullableFloat(rec.HoldHours),
	)
	return err
}

func (r *PostgresSignalRepository) Update(rec *domain.SignalRecord) error {
	if rec == nil {
		return errors.New("nil signal record")
	}

	_, err := r.pool.Exec(context.Background(), `
		update signals set
			outcome=$2,
			highest_price=$3,
			lowest_price=$4,
			exit_price=$5,
			exit_time=$6,
			pnl_percent=$7,
			pnl_amount=$8,
			hold_hours=$9
		where id=$1
	`,
		rec.ID,
		string(rec.Outcome),
		rec.HighestPrice,
		rec.LowestPrice,
		nullableFloat(rec.ExitPrice),
		nullableTime(rec.ExitTime),
		nullableFloat(rec.PnLPercent),
		nullableFloat(rec.PnLAmount),
		nullableFloat(rec.HoldHours),
	)
	return err
}

func (r *PostgresSignalRepository) FindPending(symbol string, class domain.AssetClass) (*domain.SignalRecord, error) {
	row := r.pool.QueryRow(context.Background(), `
		select `+signalColumns+`
		from signals
		where symbol=$1 and asset_class=$2 and outcome='PENDING'
	`, symbol, string(class))

	rec, err := scanSignalRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *PostgresSignalRepository) ListPending(class domain.AssetClass) ([]*domain.SignalRecord, error) {
	return r.queryRecords(`
		select `+signalColumns+`
		from signals
		where asset_class=$1 and outcome='PENDING'
		order by created_at desc
	`, string(class))
}

func (r *PostgresSignalRepository) History(class domain.AssetClass, symbol string, limit int) ([]*domain.SignalRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if symbol != "" {
		return r.queryRecords(`
			select `+signalColumns+`
			from signals
			where asset_class=$1 and symbol=$2
			order by created_at desc
			limit $3
		`, string(class), symbol, limit)
	}
	return r.queryRecords(`
		select `+signalColumns+`
		from signals
		where asset_class=$1
		order by created_at desc
		limit $2
	`, string(class), limit)
}

func (r *PostgresSignalRepository) Closed(class domain.AssetClass) ([]*domain.SignalRecord, error) {
	return r.queryRecords(`
		select `+signalColumns+`
		from signals
		where asset_class=$1 and outcome <> 'PENDING'
		order by exit_time desc nulls last
	`, string(class))
}

func (r *PostgresSignalRepository) queryRecords(query string, args ...any) ([]*domain.SignalRecord, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.SignalRecord, 0)
	for rows.Next() {
		rec, scanErr := scanSignalRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanSignalRecord(s scanner) (*domain.SignalRecord, error) {
	var rec domain.SignalRecord
	var class, direction, strength, outcome string
	var stopLoss, takeProfit, riskReward pgtype.Float8
	var exitPrice, pnlPercent, pnlAmount, holdHours pgtype.Float8
	var exitTime pgtype.Timestamptz

	if err := s.Scan(
		&rec.ID,
		&rec.Symbol,
		&class,
		&direction,
		&rec.EntryPrice,
		&stopLoss,
		&takeProfit,
		&riskReward,
		&rec.Score,
		&rec.Confidence,
		&strength,
		&rec.Alignment,
		&rec.MarketTrend,
		&rec.Allocated,
		&rec.CreatedAt,
		&outcome,
		&rec.HighestPrice,
		&rec.LowestPrice,
		&exitPrice,
		&exitTime,
		&pnlPercent,
		&pnlAmount,
		&holdHours,
	); err != nil {
		return nil, err
	}

	rec.AssetClass = domain.AssetClass(class)
	rec.Direction = domain.Action(direction)
	rec.Strength = domain.Strength(strength)
	rec.Outcome = domain.Outcome(outcome)

	rec.StopLoss = floatPtr(stopLoss)
	rec.TakeProfit = floatPtr(takeProfit)
	rec.RiskReward = floatPtr(riskReward)
	rec.ExitPrice = floatPtr(exitPrice)
	rec.PnLPercent = floatPtr(pnlPercent)
	rec.PnLAmount = floatPtr(pnlAmount)
	rec.HoldHours = floatPtr(holdHours)
	if exitTime.Valid {
		v := exitTime.Time
		rec.ExitTime = &v
	}

	return &rec, nil
}

func floatPtr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableFloat(v *float64) any {
	if v == nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Valid: true, Float64: *v}
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Valid: true, Time: *v}
}

// compile-time check
var _ domain.SignalRepository = (*PostgresSignalRepository)(nil)
