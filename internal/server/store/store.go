// Package store implements the task store: every operation loads the full
// snapshot from a snapshots.Repository, mutates it in memory and, when it
// changes state, saves the full snapshot back.
//
// One RWMutex guards the whole load-mutate-save sequence. Per-user locking
// would not help since every save rewrites the entire snapshot. When the
// repository implements snapshots.Locker, writers also hold its lock, so a
// server and a console sharing one data file do not lose each other's updates.
// Readers skip it: every Save replaces the state atomically.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/snapshots"
)

// Lookup failures. Both match common.ErrorNotFound.
var (
	ErrUserNotFound = fmt.Errorf("user %w", common.ErrorNotFound)
	ErrTaskNotFound = fmt.Errorf("task %w", common.ErrorNotFound)
)

// Store owns all user and task operations.
type Store struct {
	mu     sync.RWMutex
	repo   snapshots.Repository
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage failures.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l.With("module", "store") }
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces NewID for task ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New returns a Store persisting through repo.
func New(repo snapshots.Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: logging.Discard(),
		now:    time.Now,
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListUsers returns all users in creation order.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Users, nil
}

// CreateUser registers username and gives it an empty task list. A second
// user with the same (case-sensitive) name fails with ErrorAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, username string) (*models.User, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.FindUser(username) >= 0 {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrorAlreadyExists)
	}

	user := models.User{UserName: username, CreatedAt: s.timestamp()}
	snap.Users = append(snap.Users, user)
	if _, ok := snap.Bucket(username); !ok {
		snap.Tasks[username] = []models.Task{}
	}

	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser returns the user with the exact username or ErrUserNotFound.
func (s *Store) GetUser(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := snap.FindUser(username)
	if i < 0 {
		return nil, fmt.Errorf("%q: %w", username, ErrUserNotFound)
	}
	user := snap.Users[i]
	return &user, nil
}

// ListTasks returns the user's tasks in stored order. An unknown username
// yields an empty list, not an error.
func (s *Store) ListTasks(ctx context.Context, username string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	tasks, ok := snap.Bucket(username)
	if !ok {
		return []models.Task{}, nil
	}
	return tasks, nil
}

// AddTask appends a new incomplete task. The bucket is created when missing;
// the user record is not checked.
func (s *Store) AddTask(ctx context.Context, username, title string) (*models.Task, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:        s.newID(),
		Title:     title,
		Completed: false,
		CreatedAt: s.timestamp(),
	}
	snap.Tasks[username] = append(snap.Tasks[username], task)

	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes the task with taskID. It reports false only when the
// user has no bucket; a missing id under an existing bucket still succeeds.
func (s *Store) DeleteTask(ctx context.Context, username, taskID string) (bool, error) {
	return s.deleteIDs(ctx, username, []string{taskID})
}

// DeleteAllTasks empties the user's bucket.
func (s *Store) DeleteAllTasks(ctx context.Context, username string) (bool, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := snap.Bucket(username); !ok {
		return false, nil
	}

	snap.Tasks[username] = []models.Task{}
	if err := s.save(ctx, snap); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteMultiple removes every listed id in one load-save cycle and returns
// the number of ids processed, found or not.
func (s *Store) DeleteMultiple(ctx context.Context, username string, taskIDs []string) (int, error) {
	if _, err := s.deleteIDs(ctx, username, taskIDs); err != nil {
		return 0, err
	}
	return len(taskIDs), nil
}

// SetCompletion sets the completed flag of one task. It reports false when
// the bucket or the task is missing.
func (s *Store) SetCompletion(ctx context.Context, username, taskID string, completed bool) (bool, error) {
	matched, err := s.updateTasks(ctx, username, []string{taskID}, func(t *models.Task) {
		t.Completed = completed
	})
	return matched > 0, err
}

// CompleteMultiple sets the completed flag of every listed task in one
// load-save cycle and returns the number of ids processed.
func (s *Store) CompleteMultiple(ctx context.Context, username string, taskIDs []string, completed bool) (int, error) {
	if _, err := s.updateTasks(ctx, username, taskIDs, func(t *models.Task) {
		t.Completed = completed
	}); err != nil {
		return 0, err
	}
	return len(taskIDs), nil
}

// RenameTask replaces the title of one task. Empty titles are allowed.
func (s *Store) RenameTask(ctx context.Context, username, taskID, title string) (bool, error) {
	matched, err := s.updateTasks(ctx, username, []string{taskID}, func(t *models.Task) {
		t.Title = title
	})
	return matched > 0, err
}

// ToggleTask flips the completed flag and returns its new value. A missing
// bucket is ErrUserNotFound, a missing task ErrTaskNotFound.
func (s *Store) ToggleTask(ctx context.Context, username, taskID string) (bool, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	tasks, ok := snap.Bucket(username)
	if !ok {
		return false, fmt.Errorf("%q: %w", username, ErrUserNotFound)
	}

	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].Completed = !tasks[i].Completed
			if err := s.save(ctx, snap); err != nil {
				return false, err
			}
			return tasks[i].Completed, nil
		}
	}
	return false, fmt.Errorf("%q: %w", taskID, ErrTaskNotFound)
}

// Reorder rebuilds the bucket from taskIDs. Unknown ids are skipped and tasks
// whose id is not listed are dropped. It reports false when the bucket is
// missing.
//
// A repeated id keeps only its first position. Copying the task once per
// occurrence would break id uniqueness within a bucket, so this deliberately
// differs from a plain per-id lookup.
func (s *Store) Reorder(ctx context.Context, username string, taskIDs []string) (bool, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	tasks, ok := snap.Bucket(username)
	if !ok {
		return false, nil
	}

	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	reordered := make([]models.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		t, ok := byID[id]
		if !ok {
			continue
		}
		reordered = append(reordered, t)
		delete(byID, id)
	}
	snap.Tasks[username] = reordered

	if err := s.save(ctx, snap); err != nil {
		return false, err
	}
	return true, nil
}

// deleteIDs drops the listed ids from the bucket. No save happens when the
// bucket is missing or the list is empty.
func (s *Store) deleteIDs(ctx context.Context, username string, taskIDs []string) (bool, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	tasks, ok := snap.Bucket(username)
	if !ok {
		return false, nil
	}
	if len(taskIDs) == 0 {
		return true, nil
	}

	drop := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		drop[id] = struct{}{}
	}
	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := drop[t.ID]; !ok {
			kept = append(kept, t)
		}
	}
	snap.Tasks[username] = kept

	if err := s.save(ctx, snap); err != nil {
		return false, err
	}
	return true, nil
}

// updateTasks applies fn to each listed task present in the bucket and
// saves once if anything matched. It returns the number of matched ids.
func (s *Store) updateTasks(ctx context.Context, username string, taskIDs []string, fn func(*models.Task)) (int, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	tasks, ok := snap.Bucket(username)
	if !ok {
		return 0, nil
	}

	matched := 0
	for _, id := range taskIDs {
		for i := range tasks {
			if tasks[i].ID == id {
				fn(&tasks[i])
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0, nil
	}

	if err := s.save(ctx, snap); err != nil {
		return 0, err
	}
	return matched, nil
}

// lock takes the store mutex and, for repositories shared with other
// processes, the repository lock. Both are held until the returned func runs.
func (s *Store) lock(ctx context.Context) (func(), error) {
	s.mu.Lock()
	locker, ok := s.repo.(snapshots.Locker)
	if !ok {
		return s.mu.Unlock, nil
	}

	release, err := locker.Lock(ctx)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error(ctx, "lock storage failed", "error", err)
		return nil, fmt.Errorf("lock storage: %w: %w", common.ErrorStorage, err)
	}
	return func() {
		if err := release(); err != nil {
			s.logger.Error(ctx, "unlock storage failed", "error", err)
		}
		s.mu.Unlock()
	}, nil
}

func (s *Store) load(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "load snapshot failed", "error", err)
		return nil, fmt.Errorf("load snapshot: %w: %w", common.ErrorStorage, err)
	}
	return snap, nil
}

func (s *Store) save(ctx context.Context, snap *models.Snapshot) error {
	if err := s.repo.Save(ctx, snap); err != nil {
		s.logger.Error(ctx, "save snapshot failed", "error", err)
		return fmt.Errorf("save snapshot: %w: %w", common.ErrorStorage, err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return FormatTimestamp(s.now())
}
