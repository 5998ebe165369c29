// Package mongo stores the transition journal in MongoDB via Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/mintledger"
	"github.com/xraph/mintledger/journal"
	mintstore "github.com/xraph/mintledger/store"
)

// Collection name constants.
const (
	colTransitions = "mintledger_transitions"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all mintledger collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		if _, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mintledger/mongo: migrate %s indexes: %w: %w", col, mintledger.ErrMigrationFailed, err)
		}
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

// Append inserts a transition. The unique seq index turns a duplicate into
// ErrSequenceConflict.
func (s *Store) Append(ctx context.Context, t *journal.Transition) error {
	m := toTransitionModel(t)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("mintledger/mongo: append seq %d: %w", t.Seq, mintledger.ErrSequenceConflict)
		}
		return fmt.Errorf("mintledger/mongo: append seq %d: %w", t.Seq, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	filter := bson.M{"seq": bson.M{"$gt": int64(opts.AfterSeq)}} //nolint:gosec // seq never exceeds int64
	if opts.Ledger != "" {
		filter["ledger_id"] = opts.Ledger
	}

	var models []transitionModel
	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "seq", Value: 1}})
	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if err := q.Scan(ctx); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mintledger/mongo: list transitions: %w", err)
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
	var models []transitionModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "seq", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("mintledger/mongo: last seq: %w", err)
	}
	if len(models) == 0 {
		return 0, nil
	}
	return uint64(models[0].Seq), nil //nolint:gosec // seq is never negative
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all mintledger collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colTransitions: {
			{
				Keys:    bson.D{{Key: "seq", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "ledger_id", Value: 1}, {Key: "seq", Value: 1}}},
		},
	}
}
