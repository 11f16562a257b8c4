package results

import (
	"context"
	"errors"
	"sync"
)

var ErrPersistence = errors.New("results: persistence failure")

// Store is the injected durable key-value port behind result records.
// Tests substitute the in-memory implementation; production wires the
// SQL one. Writers own distinct keys, so last-write-wins per key is
// the only consistency guarantee.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, key string) (Record, bool, error)
	List(ctx context.Context) ([]Record, error)
}

type memoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

func NewMemoryStore() Store {
	return &memoryStore{recs: map[string]Record{}}
}

func (m *memoryStore) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.Key()] = rec
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[key]
	return rec, ok, nil
}

func (m *memoryStore) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.recs))
	for _, rec := range m.recs {
		out = append(out, rec)
	}
	return out, nil
}
