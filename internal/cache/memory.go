package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Cache used when no Redis is configured.
// State is lost on restart and is not shared between instances.
type Memory struct {
	mu    sync.Mutex
	items map[string]time.Time // key -> expiry
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (m *Memory) SetNX(_ context.Context, key, _ string, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.items[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.items[key] = now.Add(expiration)

	// opportunistic sweep so abandoned keys do not pile up
	for k, exp := range m.items {
		if !now.Before(exp) {
			delete(m.items, k)
		}
	}
	return true, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}
