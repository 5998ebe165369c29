package mintledger

import (
	"context"

	"github.com/xraph/mintledger/types"
)

type callerKey struct{}

// WithCaller returns a context carrying the identity that invokes ledger
// operations. Signature verification happens before this point.
func WithCaller(ctx context.Context, who types.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, who)
}

// CallerFrom returns the caller identity stored by WithCaller.
func CallerFrom(ctx context.Context) (types.Identity, bool) {
	who, ok := ctx.Value(callerKey{}).(types.Identity)
	if !ok || who == types.NoIdentity {
		return types.NoIdentity, false
	}
	return who, true
}
