package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers deduplication keys of mutating requests
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL.
	// Returns true if the key was newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so the request can be retried after a failed attempt
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
