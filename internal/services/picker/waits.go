package picker

import (
	"context"
	"sync"
	"time"
)

// DefaultAwaitTimeout bounds how long a long-poll waits for a change.
const DefaultAwaitTimeout = 60 * time.Second

// WaitRegistry lets callers block until a game changes. Each game id maps
// to a channel that is closed on change, waking every waiter at once.
// Notifications carry no payload and are not buffered: a change with no
// waiters is dropped, and waiters that arrive later see only changes
// after their call.
type WaitRegistry struct {
	timeout time.Duration

	mu      sync.Mutex
	signals map[string]chan struct{}
}

// NewWaitRegistry returns a registry with the given per-wait timeout.
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = DefaultAwaitTimeout
	}
	return &WaitRegistry{
		timeout: timeout,
		signals: make(map[string]chan struct{}),
	}
}

func (r *WaitRegistry) subscribe(id string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.signals[id]
	if !ok {
		ch = make(chan struct{})
		r.signals[id] = ch
	}
	return ch
}

// AwaitChange blocks until the game changes, the registry timeout
// elapses, or ctx is canceled. It reports whether a change was seen.
func (r *WaitRegistry) AwaitChange(ctx context.Context, id string) (bool, error) {
	ch := r.subscribe(id)
	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// NotifyChange wakes every waiter on id. When terminal is true the entry
// is dropped so decided games do not pin registry memory; a later wait
// re-creates it. Without waiters and without an entry this is a no-op.
func (r *WaitRegistry) NotifyChange(id string, terminal bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.signals[id]
	if !ok {
		return
	}
	close(ch)
	if terminal {
		delete(r.signals, id)
		return
	}
	r.signals[id] = make(chan struct{})
}
