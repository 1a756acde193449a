package scheduling

import (
	"context"
	"sync"
)

// Locker guards the multi-store critical sections of the assignment and
// completion workflows. Each workflow touches three stores; without a lock a
// concurrent call could observe a resource as available and double-book it.
type Locker interface {
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error
}

type mutexLocker struct {
	mu sync.Mutex
}

// NewMutexLocker returns a Locker backed by a single in-process mutex. The
// system is single-process by design, so a process-wide mutex is the whole
// story; running more than one instance is unsupported.
func NewMutexLocker() Locker {
	return &mutexLocker{}
}

func (l *mutexLocker) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
