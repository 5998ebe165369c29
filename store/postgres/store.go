// Package postgres stores the transition journal in PostgreSQL via Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate" // registers the pg migration executor
	"github.com/xraph/grove/migrate"

	"github.com/xraph/mintledger"
	"github.com/xraph/mintledger/journal"
	mintstore "github.com/xraph/mintledger/store"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("mintledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("mintledger/postgres: %w: %w", mintledger.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Journal Store ====================

func (s *Store) Append(ctx context.Context, t *journal.Transition) error {
	m := toTransitionModel(t)
	res, err := s.pg.NewInsert(m).
		OnConflict("(seq) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mintledger/postgres: append seq %d: %w", t.Seq, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("mintledger/postgres: append seq %d: %w", t.Seq, mintledger.ErrSequenceConflict)
	}
	return nil
}

func (s *Store) List(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	var models []transitionModel
	q := s.pg.NewSelect(&models).
		Where("seq > $1", int64(opts.AfterSeq)) //nolint:gosec // seq never exceeds int64

	if opts.Ledger != "" {
		q = q.Where("ledger_id = $2", opts.Ledger)
	}
	q = q.OrderExpr("seq ASC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mintledger/postgres: list transitions: %w", err)
	}

	result := make([]*journal.Transition, 0, len(models))
	for i := range models {
		t, err := fromTransitionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

func (s *Store) LastSeq(ctx context.Context) (uint64, error) {
	var last int64
	err := s.pg.NewRaw(`SELECT COALESCE(MAX(seq), 0) FROM mintledger_transitions`).Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("mintledger/postgres: last seq: %w", err)
	}
	return uint64(last), nil //nolint:gosec // seq column is never negative
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
