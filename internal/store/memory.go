package store

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Store. A zero TTL keeps records forever.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]entry),
	}
}

func (m *Memory) Load(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(e, m.now()) {
		delete(m.records, id)
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

func (m *Memory) Save(_ context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := entry{data: make([]byte, len(data))}
	copy(e.data, data)
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.records[id] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// Sweep drops every record that expired before now and returns how many went.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.records {
		if m.expired(e, now) {
			delete(m.records, id)
			n++
		}
	}
	return n
}

// Janitor sweeps expired records every interval until ctx is done.
func (m *Memory) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			m.Sweep(t)
		}
	}
}

// Len returns the number of records held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *Memory) expired(e entry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}
