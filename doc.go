// Package mintledger hosts allow-lists, capped item collections and
// fungible entitlement ledgers as deterministic, synchronously invoked
// state machines.
//
// Three ledger kinds interlock:
//
//   - An allow-list admits identities up to a fixed quota.
//   - A collection mints densely numbered items. During a timed presale only
//     identities admitted to its allow-list may mint; afterwards anyone may.
//     The admin can pause minting and withdraw the collected payment.
//   - An entitlement ledger sells fungible tokens up to a supply cap and lets
//     holders of the linked collection claim a one-time reward per item.
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/mintledger"
//	    "github.com/xraph/mintledger/store/memory"
//	)
//
//	l := mintledger.New(memory.New())
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	admin := mintledger.WithCaller(ctx, adminAddr)
//	list, _ := l.CreateAllowList(admin, allowlist.DefaultConfig())
//	coll, _ := l.CreateCollection(admin, list, item.DefaultConfig())
//	_ = l.StartPresale(admin, coll)
//
//	buyer := mintledger.WithCaller(ctx, buyerAddr)
//	_ = l.Admit(buyer, list)
//	tid, err := l.PresaleMint(buyer, coll, item.DefaultConfig().UnitPrice)
//
// # Callers and payment
//
// The identity invoking an operation is read from the context (WithCaller).
// Payment is an explicit argument and must match the required amount
// exactly. Signature checks and the movement of the payment medium happen
// outside this package.
//
// # Rejections
//
// A rejected operation returns a *reason.Error and leaves every ledger
// unchanged. Use errors.Is against the values in package reason, or
// reason.CodeOf, to branch on the cause.
//
// # Durability
//
// Every committed operation is appended to a journal (see package journal)
// before it becomes visible. Start replays the journal, so an engine
// restarted on the same store exposes identical state. Stores are provided
// for memory, SQLite, PostgreSQL and MongoDB.
//
// # TypeID
//
// Ledgers and transitions use TypeIDs:
//
//	alst_01h2xcejqtf2nbrexx3vqjhp41  // allow-list
//	coll_01h2xcejqtf2nbrexx3vqjhp41  // collection
//	ent_01h455vb4pex5vsknk084sn02q   // entitlement ledger
//	txn_01h455vb4pex5vsknk084sn02q   // journaled transition
package mintledger
