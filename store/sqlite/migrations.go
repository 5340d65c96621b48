package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the marketplace store (SQLite).
var Migrations = migrate.NewGroup("marketplace")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_market_items",
			Version: "20250301000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS market_items (
    id             INTEGER PRIMARY KEY,
    asset_uri      TEXT NOT NULL,
    price_amount   INTEGER NOT NULL CHECK (price_amount > 0),
    price_currency TEXT NOT NULL,
    seller         TEXT NOT NULL,
    holder         TEXT NOT NULL,
    sold           INTEGER NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_market_items_sold ON market_items (sold, id);
CREATE INDEX IF NOT EXISTS idx_market_items_holder ON market_items (holder, id);
CREATE INDEX IF NOT EXISTS idx_market_items_seller ON market_items (seller, id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS market_items`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_market_events",
			Version: "20250301000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS market_events (
    id        TEXT PRIMARY KEY,
    operation TEXT NOT NULL,
    item_id   INTEGER NOT NULL DEFAULT 0,
    actor     TEXT NOT NULL,
    amount    INTEGER NOT NULL DEFAULT 0,
    currency  TEXT NOT NULL DEFAULT '',
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_market_events_item ON market_events (item_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_market_events_actor ON market_events (actor, timestamp);
CREATE INDEX IF NOT EXISTS idx_market_events_time ON market_events (timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS market_events`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_market_transfers",
			Version: "20250301000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS market_transfers (
    id           TEXT PRIMARY KEY,
    event_id     TEXT NOT NULL DEFAULT '',
    item_id      INTEGER NOT NULL DEFAULT 0,
    kind         TEXT NOT NULL,
    from_account TEXT NOT NULL,
    to_account   TEXT NOT NULL,
    amount       INTEGER NOT NULL,
    currency     TEXT NOT NULL,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_market_transfers_from ON market_transfers (from_account, currency);
CREATE INDEX IF NOT EXISTS idx_market_transfers_to ON market_transfers (to_account, currency);
CREATE INDEX IF NOT EXISTS idx_market_transfers_event ON market_transfers (event_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS market_transfers`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_market_settings",
			Version: "20250301000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS market_settings (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS market_settings`)
				return err
			},
		},
	)
}
