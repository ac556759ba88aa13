package snapshots

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskboard/internal/filex"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// FileRepository keeps the snapshot as a JSON document at path. Writers in
// other processes are serialized through a lock file at path + ".lock".
type FileRepository struct {
	path string
	perm os.FileMode
	lock *FileLock
}

// NewFileRepository returns a FileRepository for path. The file and its
// parent directories are created on the first Save.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path, perm: 0o644, lock: NewFileLock(path + ".lock")}
}

// Path reports the backing file.
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Lock(ctx context.Context) (func() error, error) {
	return r.lock.Lock(ctx)
}

func (r *FileRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	data, ok, err := filex.ReadFileIfExists(r.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if !ok {
		return models.NewSnapshot(), nil
	}

	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return s, nil
}

func (r *FileRepository) Save(ctx context.Context, s *models.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(r.path, data, r.perm); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}
