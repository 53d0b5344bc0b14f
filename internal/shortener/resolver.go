package shortener

import (
	"context"

	"go.uber.org/zap"
)

// Resolver looks up short codes for the redirect path.
type Resolver struct {
	store  Store
	logger *zap.Logger
}

// NewResolver creates a resolver over the given store. In production
// the store is the read-through cache decorator, so repeated
// resolutions of immutable mappings stay off the database.
func NewResolver(store Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{store: store, logger: logger}
}

// Resolve returns the link for a code. Empty and unknown codes both
// return ErrNotFound; the HTTP layer turns that into the home-page
// fallback rather than an error page.
func (r *Resolver) Resolve(ctx context.Context, code string) (*Link, error) {
	if code == "" {
		return nil, ErrNotFound
	}

	link, err := r.store.FindByCode(ctx, Code(code))
	if err != nil {
		return nil, err
	}

	return link, nil
}
