// Package revocation tracks refresh tokens that were explicitly invalidated
// before their natural expiry. The list is a plain set capability with two
// interchangeable backends: an in-process map for single-node deployments
// and Redis for shared deployments. The backend is chosen once at startup
// and injected into the services that need it.
package revocation

import (
	"context"
	"time"
)

// List is the revocation capability. Add is idempotent: revoking the same
// token twice must succeed both times. Entries are stored by fingerprint,
// never by raw token value.
type List interface {
	// Add marks a token revoked. expiresAt is the token's own expiry so
	// backends can drop the entry once the token would fail verification
	// anyway.
	Add(ctx context.Context, token string, expiresAt time.Time) error

	// Contains reports whether the token has been revoked.
	Contains(ctx context.Context, token string) (bool, error)
}

// Pruner is implemented by backends that need an external sweep to drop
// entries for tokens that have since expired. Backends with native TTLs,
// like Redis, don't implement it.
type Pruner interface {
	Prune(now time.Time) int
}
