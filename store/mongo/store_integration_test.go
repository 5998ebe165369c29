//go:build integration

package mongo_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/mintledger/store"
	mongostore "github.com/xraph/mintledger/store/mongo"
	"github.com/xraph/mintledger/store/storetest"
)

// Run with MINTLEDGER_TEST_MONGO_URI naming a scratch database, for example
// mongodb://localhost:27017/mintledger_test:
//
//	go test -tags integration ./store/mongo/...
func TestJournalContract(t *testing.T) {
	uri := os.Getenv("MINTLEDGER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MINTLEDGER_TEST_MONGO_URI not set")
	}

	storetest.Run(t, func(t *testing.T) func() store.Store {
		open := func() store.Store {
			drv := mongodriver.New()
			require.NoError(t, drv.Open(context.Background(), uri))

			db, err := grove.Open(drv)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			return mongostore.New(db)
		}

		// Dropping the collection also drops its indexes; Migrate puts them back.
		s := open()
		mdb := mongodriver.Unwrap(s.(*mongostore.Store).DB())
		require.NoError(t, mdb.Collection("mintledger_transitions").Drop(context.Background()))
		require.NoError(t, s.Close())

		return open
	})
}
