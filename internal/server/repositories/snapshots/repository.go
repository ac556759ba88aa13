package snapshots

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// Repository is the only I/O boundary of the task store: it reads and
// replaces the whole snapshot.
type Repository interface {
	// Load returns the full persisted state. Absent state is the empty
	// snapshot, not an error.
	Load(ctx context.Context) (*models.Snapshot, error)

	// Save atomically replaces the persisted state with s.
	Save(ctx context.Context, s *models.Snapshot) error
}

// Locker is implemented by repositories whose state can be shared with
// other processes. The store holds the lock across a whole
// load-mutate-save sequence.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done.
	Lock(ctx context.Context) (unlock func() error, err error)
}
