package cache

import (
	"context"
	"sync"
	"time"
)

// RunMarker guards once-per-day jobs. TryAcquire returns true for the
// first caller of a given date key and false for everyone after it.
type RunMarker interface {
	TryAcquire(ctx context.Context, key string) (bool, error)
	LastRun(ctx context.Context, key string) (string, bool, error)
}

// MemoryRunMarker is the in-process fallback used when Redis is not
// configured. The guard does not survive a restart.
type MemoryRunMarker struct {
	mu   sync.Mutex
	runs map[string]string
}

func NewMemoryRunMarker() *MemoryRunMarker {
	return &MemoryRunMarker{runs: make(map[string]string)}
}

func (m *MemoryRunMarker) TryAcquire(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[key]; exists {
		return false, nil
	}
	m.runs[key] = time.Now().UTC().Format(time.RFC3339)
	return true, nil
}

func (m *MemoryRunMarker) LastRun(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	val, exists := m.runs[key]
	return val, exists, nil
}
