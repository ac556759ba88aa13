package snapshots

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 10 * time.Millisecond

// FileLock is an advisory lock on a sidecar file, held with flock(2).
type FileLock struct {
	path string
}

// NewFileLock returns a lock on path. The file is created on first use.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Path reports the lock file.
func (l *FileLock) Path() string {
	return l.path
}

func (l *FileLock) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("lock %s: %w", l.path, err)
	}

	fl := flock.New(l.path)
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", l.path, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: not acquired", l.path)
	}
	return fl.Unlock, nil
}

// lockedRepository adds a FileLock to a repository that has none.
type lockedRepository struct {
	Repository
	*FileLock
}

// WithFileLock returns repo guarded by a lock file at lockPath.
func WithFileLock(repo Repository, lockPath string) Repository {
	return &lockedRepository{Repository: repo, FileLock: NewFileLock(lockPath)}
}
