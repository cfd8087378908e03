package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables needed by this app.
// This keeps setup simple (no external migration tool), but still gives persistence.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists signals (
			id text primary key,
			symbol text not null,
			asset_class text not null,
			direction text not null,
			entry_price double precision not null,
			stop_loss double precision null,
			take_profit double precision null,
			risk_reward double precision null,
			score double precision not null default 0,
			confidence double precision not null default 0,
			strength text not null default '',
			alignment text not null default '',
			market_trend text not null default '',
			allocated double precision not null default 0,
			created_at timestamptz not null,
			outcome text not null default 'PENDING',
			highest_price double precision not null default 0,
			lowest_price double precision not null default 0,
			exit_price double precision null,
			exit_time timestamptz null,
			pnl_percent double precision null,
			pnl_amount double precision null,
			hold_hours double precision null
		);`,
		// One open signal per symbol and asset class.
		`create unique index if not exists signals_pending_symbol_idx
			on signals(symbol, asset_class) where outcome = 'PENDING';`,
		`create index if not exists signals_class_outcome_idx on signals(asset_class, outcome);`,
		`create index if not exists signals_class_created_idx on signals(asset_class, created_at desc);`,
		`create index if not exists signals_symbol_created_idx on signals(symbol, created_at desc);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
