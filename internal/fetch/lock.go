package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

var lockRetryDelay = 100 * time.Millisecond

// lockCache takes the advisory lock guarding one template's cache pair so
// concurrent runs for the same template do not interleave writes.
func lockCache(ctx context.Context, path string) (func(), error) {
	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking template cache %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("locking template cache %s: lock not acquired", path)
	}
	return func() { _ = fl.Unlock() }, nil
}
