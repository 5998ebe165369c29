// Package memory provides an in-process journal store. It is the default
// for tests and for engines that do not need to survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/mintledger"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Transitions in ascending seq order
	transitions []journal.Transition
	seqs        map[uint64]struct{}

	closed bool
}

func New() *Store {
	return &Store{
		transitions: make([]journal.Transition, 0),
		seqs:        make(map[uint64]struct{}),
	}
}

// Journal Store implementation
func (s *Store) Append(_ context.Context, t *journal.Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mintledger.ErrStoreClosed
	}
	if _, exists := s.seqs[t.Seq]; exists {
		return fmt.Errorf("mintledger/memory: append seq %d: %w", t.Seq, mintledger.ErrSequenceConflict)
	}

	cp := *t
	cp.Config = append([]byte(nil), t.Config...)
	s.seqs[t.Seq] = struct{}{}
	s.transitions = append(s.transitions, cp)

	// Appends normally arrive in order; keep the slice sorted if not.
	if n := len(s.transitions); n > 1 && s.transitions[n-2].Seq > cp.Seq {
		sort.Slice(s.transitions, func(i, j int) bool {
			return s.transitions[i].Seq < s.transitions[j].Seq
		})
	}
	return nil
}

func (s *Store) List(_ context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, mintledger.ErrStoreClosed
	}

	start := sort.Search(len(s.transitions), func(i int) bool {
		return s.transitions[i].Seq > opts.AfterSeq
	})

	var result []*journal.Transition
	for i := start; i < len(s.transitions); i++ {
		t := s.transitions[i]
		if opts.Ledger != "" && t.Ledger.String() != opts.Ledger {
			continue
		}
		t.Config = append([]byte(nil), t.Config...)
		result = append(result, &t)
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) LastSeq(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, mintledger.ErrStoreClosed
	}
	if len(s.transitions) == 0 {
		return 0, nil
	}
	return s.transitions[len(s.transitions)-1].Seq, nil
}

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return mintledger.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed. Its contents are kept so a test can reopen
// an engine on the same journal with Reopen.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Reopen clears the closed flag.
func (s *Store) Reopen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = false
}
