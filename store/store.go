package store

import (
	"context"

	"github.com/xraph/mintledger/journal"
)

// Store is the unified storage interface for mintledger backends.
type Store interface {
	journal.Store

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
