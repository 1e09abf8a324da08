package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes writers of one session across processes that
// share a session store.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done. The lock
	// expires after ttl if its holder dies. The returned UnlockFunc only
	// releases the lock while this holder still owns it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
