package journal

import "context"

// Store persists transitions. Append must reject a transition whose Seq is
// already taken.
type Store interface {
	Append(ctx context.Context, t *Transition) error
	List(ctx context.Context, opts ListOpts) ([]*Transition, error)
	LastSeq(ctx context.Context) (uint64, error)
}

// ListOpts selects transitions in ascending Seq order.
type ListOpts struct {
	AfterSeq uint64
	Limit    int
	Ledger   string
}
