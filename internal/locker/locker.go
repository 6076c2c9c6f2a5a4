package locker

import (
	"context"
	"errors"
	"time"
)

// ErrBusy means another holder owns the lease right now.
var ErrBusy = errors.New("locker: lease busy")

// Locker serializes settlement attempts per key. WithLease runs fn while
// holding the lease and releases it on every exit path, panics included.
// The two ingress paths may run on different instances, so production uses
// the redis implementation; Memory exists for tests and single-node dev.
type Locker interface {
	WithLease(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}
