// Package repomanager builds the snapshots.Repository selected by the
// configuration. It opens database handles, runs goose migrations for the
// SQL backends, builds the S3 client and owns the cleanup of all of them.
package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/snapshots"
)

// ErrUnknownBackend is returned for a StorageBackend value New does not know.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Manager holds the configured repository and the resources behind it.
type Manager struct {
	backend string
	repo    snapshots.Repository
	closers []func() error
}

// New opens the backend named by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Manager, error) {
	logger = logger.With("module", "repomanager")
	m := &Manager{backend: cfg.StorageBackend}

	switch cfg.StorageBackend {
	case config.BackendFile:
		m.repo = snapshots.NewFileRepository(cfg.DataFile)
		logger.Info(ctx, "using file storage", "path", cfg.DataFile)

	case config.BackendMemory:
		m.repo = snapshots.NewInMemoryRepository()
		logger.Warn(ctx, "using in-memory storage, data is lost on exit")

	case config.BackendSQLite:
		db, err := openSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, db.Close)
		m.repo = snapshots.WithFileLock(snapshots.NewSQLiteRepository(db), cfg.SQLitePath+".lock")
		logger.Info(ctx, "using sqlite storage", "path", cfg.SQLitePath)

	case config.BackendPostgres:
		db, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, db.Close)
		m.repo = snapshots.NewPostgresRepository(db)
		logger.Info(ctx, "using postgres storage")

	case config.BackendS3:
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		m.repo = snapshots.NewS3Repository(client, cfg.S3Bucket, cfg.S3Key)
		logger.Info(ctx, "using s3 storage", "bucket", cfg.S3Bucket, "key", cfg.S3Key)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StorageBackend)
	}

	return m, nil
}

// Backend returns the configured backend name.
func (m *Manager) Backend() string {
	return m.backend
}

// Repository returns the snapshot repository.
func (m *Manager) Repository() snapshots.Repository {
	return m.repo
}

// Close releases database handles. It is safe to call more than once.
func (m *Manager) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}
