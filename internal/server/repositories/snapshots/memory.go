package snapshots

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// InMemoryRepository holds the snapshot in process memory. Callers never
// share memory with the stored value.
type InMemoryRepository struct {
	mu    sync.Mutex
	state *models.Snapshot
	saves int
}

// NewInMemoryRepository returns an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{state: models.NewSnapshot()}
}

func (r *InMemoryRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, s *models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s.Clone()
	r.saves++
	return nil
}

// Saves reports how many times Save was called.
func (r *InMemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
