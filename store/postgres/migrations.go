package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the mintledger store.
var Migrations = migrate.NewGroup("mintledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_mintledger_transitions",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintledger_transitions (
    id          TEXT PRIMARY KEY,
    seq         BIGINT NOT NULL,
    kind        TEXT NOT NULL,
    ledger_id   TEXT NOT NULL,
    ref_id      TEXT NOT NULL DEFAULT '',
    caller      TEXT NOT NULL,
    occurred_at BIGINT NOT NULL,
    value       TEXT NOT NULL DEFAULT '0',
    amount      TEXT NOT NULL DEFAULT '0',
    flag        BOOLEAN NOT NULL DEFAULT FALSE,
    config      JSONB,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_mintledger_transitions_seq ON mintledger_transitions (seq);
CREATE INDEX IF NOT EXISTS idx_mintledger_transitions_ledger ON mintledger_transitions (ledger_id, seq);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintledger_transitions`)
				return err
			},
		},
	)
}
