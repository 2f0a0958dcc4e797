package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/availwatch/internal/domain"
	"github.com/hamed0406/availwatch/internal/repo"
)

// Store keeps the snapshot in process memory. Used by tests and by the API
// service when no durable backend is configured.
type Store struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

func New() *Store {
	return &Store{}
}

func (m *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil, nil
	}
	cp := &domain.Snapshot{
		Results: append(domain.ResultSet{}, m.snap.Results...),
		SavedAt: m.snap.SavedAt,
	}
	return cp, nil
}

func (m *Store) Save(ctx context.Context, rs domain.ResultSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &domain.Snapshot{
		Results: append(domain.ResultSet{}, repo.Normalize(rs)...),
		SavedAt: time.Now().UTC(),
	}
	return nil
}
