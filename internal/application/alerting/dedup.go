package alerting

import (
	"context"
	"time"
)

// DedupStore rate-limits repeated notifications for the same alert key.
// Implementations live in the infrastructure layer (in-memory, Redis).
type DedupStore interface {
	// ShouldNotify reports whether a notification for the key may be
	// sent now, and if so starts a new suppression interval.
	ShouldNotify(ctx context.Context, key string, interval time.Duration) (bool, error)
}
