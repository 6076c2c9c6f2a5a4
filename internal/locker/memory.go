package locker

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Locker for tests and single-node development.
type Memory struct {
	mu     sync.Mutex
	leases map[string]time.Time // key -> expiry
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{leases: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) WithLease(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	if err := m.acquire(key, ttl); err != nil {
		return err
	}
	defer m.release(key)
	return fn(ctx)
}

func (m *Memory) acquire(key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if exp, held := m.leases[key]; held && m.now().Before(exp) {
		return ErrBusy
	}
	m.leases[key] = m.now().Add(ttl)
	return nil
}

func (m *Memory) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leases, key)
}
