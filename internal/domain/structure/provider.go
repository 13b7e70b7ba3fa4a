package structure

import "context"

// Provider resolves a structure identifier to its representative-atom array.
// Implementations live in internal/infrastructure/structcache; the domain
// depends only on this interface.
//
// Resolve returns the atom array for id, or an error carrying one of the
// STR_* codes from pkg/errors.  Resolution may block on I/O, so the caller's
// context is honored.  A failed resolution leaves no partial state behind;
// calling Resolve again with the same id is always safe.
type Provider interface {
	Resolve(ctx context.Context, id StructureID) (AtomArray, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, id StructureID) (AtomArray, error)

func (f ProviderFunc) Resolve(ctx context.Context, id StructureID) (AtomArray, error) {
	return f(ctx, id)
}
