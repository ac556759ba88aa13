package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/snapshots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func fixedClock() func() time.Time {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var n int
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func newTestStore(t *testing.T) (*Store, *snapshots.InMemoryRepository) {
	t.Helper()
	repo := snapshots.NewInMemoryRepository()
	return New(repo, WithIDGenerator(sequentialIDs()), WithClock(fixedClock())), repo
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func seed(t *testing.T, s *Store, username string, taskTitles ...string) []string {
	t.Helper()
	ctx := context.Background()
	_, err := s.CreateUser(ctx, username)
	require.NoError(t, err)
	var out []string
	for _, title := range taskTitles {
		task, err := s.AddTask(ctx, username, title)
		require.NoError(t, err)
		out = append(out, task.ID)
	}
	return out
}

type failingRepo struct {
	loadErr error
	saveErr error
	inner   snapshots.Repository
}

func (f *failingRepo) Load(ctx context.Context) (*models.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.inner.Load(ctx)
}

func (f *failingRepo) Save(ctx context.Context, s *models.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.inner.Save(ctx, s)
}

type lockingRepo struct {
	snapshots.Repository
	lockErr  error
	locks    int
	unlocks  int
	unlockFn func() error
}

func (l *lockingRepo) Lock(ctx context.Context) (func() error, error) {
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	l.locks++
	return func() error {
		l.unlocks++
		if l.unlockFn != nil {
			return l.unlockFn()
		}
		return nil
	}, nil
}

// --- users ---

func TestCreateUser_Success(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, "2025-03-01T12:00:01.000000Z", u.CreatedAt)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	ok, err := s.DeleteAllTasks(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok, "a new user gets a bucket")
}

func TestCreateUser_Duplicate(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)
	saves := repo.Saves()

	_, err = s.CreateUser(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, saves, repo.Saves(), "failed create must not persist")

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateUser_CaseSensitive(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "Alice")
	require.NoError(t, err)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].UserName)
	assert.Equal(t, "Alice", users[1].UserName)
}

func TestCreateUser_KeepsExistingBucket(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddTask(ctx, "bob", "early task")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "bob")
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"early task"}, titles(tasks))
}

func TestGetUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seed(t, s, "alice")

	u, err := s.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)

	_, err = s.GetUser(ctx, "ALICE")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListUsers_CreationOrderAndEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, name := range []string{"zed", "amy", "kim"} {
		_, err := s.CreateUser(ctx, name)
		require.NoError(t, err)
	}
	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.User{
		{UserName: "zed", CreatedAt: "2025-03-01T12:00:01.000000Z"},
		{UserName: "amy", CreatedAt: "2025-03-01T12:00:02.000000Z"},
		{UserName: "kim", CreatedAt: "2025-03-01T12:00:03.000000Z"},
	}, users)
}

// --- tasks ---

func TestAddTask_ThenList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seed(t, s, "alice")

	created, err := s.AddTask(ctx, "alice", "Buy milk")
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.False(t, tasks[0].Completed)
	assert.NotEmpty(t, tasks[0].ID)
	assert.Equal(t, *created, tasks[0])
}

func TestAddTask_UnknownUserCreatesBucketOnly(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddTask(ctx, "ghost", "boo")
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{"boo"}, titles(tasks))

	_, err = s.GetUser(ctx, "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound, "no user record is invented")
}

func TestAddTask_DefaultIDsAreUnique(t *testing.T) {
	s := New(snapshots.NewInMemoryRepository())
	ctx := context.Background()

	a, err := s.AddTask(ctx, "alice", "a")
	require.NoError(t, err)
	b, err := s.AddTask(ctx, "alice", "b")
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
	assert.LessOrEqual(t, a.CreatedAt, b.CreatedAt)
}

func TestListTasks_UnknownUserIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	tasks, err := s.ListTasks(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestSetCompletion(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one", "two")

	ok, err := s.SetCompletion(ctx, "alice", taskIDs[0], true)
	require.NoError(t, err)
	assert.True(t, ok)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[1].Completed, "unrelated task unaffected")

	saves := repo.Saves()
	ok, err = s.SetCompletion(ctx, "alice", "missing", true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.SetCompletion(ctx, "nobody", taskIDs[0], true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, saves, repo.Saves(), "misses must not persist")
}

func TestRenameTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one")

	ok, err := s.RenameTask(ctx, "alice", taskIDs[0], "")
	require.NoError(t, err)
	assert.True(t, ok, "empty titles are accepted")

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "", tasks[0].Title)

	ok, err = s.RenameTask(ctx, "alice", "missing", "x")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.RenameTask(ctx, "nobody", taskIDs[0], "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggleTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one")

	completed, err := s.ToggleTask(ctx, "alice", taskIDs[0])
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = s.ToggleTask(ctx, "alice", taskIDs[0])
	require.NoError(t, err)
	assert.False(t, completed)

	_, err = s.ToggleTask(ctx, "alice", "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = s.ToggleTask(ctx, "nobody", taskIDs[0])
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteTask(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one", "two", "three")

	ok, err := s.DeleteTask(ctx, "alice", taskIDs[1])
	require.NoError(t, err)
	assert.True(t, ok)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three"}, titles(tasks))

	saves := repo.Saves()
	ok, err = s.DeleteTask(ctx, "alice", taskIDs[1])
	require.NoError(t, err)
	assert.True(t, ok, "deleting again still reports success")
	assert.Equal(t, saves+1, repo.Saves(), "idempotent delete still rewrites the snapshot")

	tasks, err = s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three"}, titles(tasks))

	ok, err = s.DeleteTask(ctx, "nobody", taskIDs[0])
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, saves+1, repo.Saves())
}

func TestDeleteAllTasks(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seed(t, s, "alice", "one", "two")
	seed(t, s, "bob", "keep")

	ok, err := s.DeleteAllTasks(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	tasks, err = s.ListTasks(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, titles(tasks))

	ok, err = s.DeleteAllTasks(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteMultiple(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one", "two", "three", "four")

	saves := repo.Saves()
	n, err := s.DeleteMultiple(ctx, "alice", []string{taskIDs[0], "missing", taskIDs[2]})
	require.NoError(t, err)
	assert.Equal(t, 3, n, "count is ids processed, not ids found")
	assert.Equal(t, saves+1, repo.Saves(), "one save for the whole batch")

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "four"}, titles(tasks))

	n, err = s.DeleteMultiple(ctx, "nobody", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.DeleteMultiple(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, saves+1, repo.Saves(), "no-op batches do not persist")
}

func TestCompleteMultiple(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one", "two", "three")

	saves := repo.Saves()
	n, err := s.CompleteMultiple(ctx, "alice", []string{taskIDs[0], "missing", taskIDs[2]}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, saves+1, repo.Saves())

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[1].Completed)
	assert.True(t, tasks[2].Completed)

	n, err = s.CompleteMultiple(ctx, "alice", []string{taskIDs[0]}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	tasks, err = s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, tasks[0].Completed)

	saves = repo.Saves()
	n, err = s.CompleteMultiple(ctx, "alice", []string{"nope"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.CompleteMultiple(ctx, "nobody", []string{"nope", "nope2"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, saves, repo.Saves(), "nothing matched, nothing saved")
}

func TestReorder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one", "two", "three")

	ok, err := s.Reorder(ctx, "alice", []string{taskIDs[1], taskIDs[0]})
	require.NoError(t, err)
	assert.True(t, ok)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{taskIDs[1], taskIDs[0]}, ids(tasks), "unlisted task is dropped")
}

func TestReorder_UnknownAndRepeatedIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	taskIDs := seed(t, s, "alice", "one", "two")

	ok, err := s.Reorder(ctx, "alice", []string{"ghost", taskIDs[1], taskIDs[1], taskIDs[0]})
	require.NoError(t, err)
	assert.True(t, ok)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{taskIDs[1], taskIDs[0]}, ids(tasks))
}

func TestReorder_EmptyAndMissingBucket(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seed(t, s, "alice", "one", "two")

	ok, err := s.Reorder(ctx, "alice", []string{})
	require.NoError(t, err)
	assert.True(t, ok)
	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	ok, err = s.Reorder(ctx, "nobody", []string{"x"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScenario_AliceShoppingList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)
	milk, err := s.AddTask(ctx, "alice", "Buy milk")
	require.NoError(t, err)
	dog, err := s.AddTask(ctx, "alice", "Walk dog")
	require.NoError(t, err)

	_, err = s.ToggleTask(ctx, "alice", milk.ID)
	require.NoError(t, err)
	ok, err := s.RenameTask(ctx, "alice", dog.ID, "Walk the dog")
	require.NoError(t, err)
	require.True(t, ok)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, "Walk the dog", tasks[1].Title)
	assert.False(t, tasks[1].Completed)
}

// --- persistence ---

func TestStore_FileBackendSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	first := New(snapshots.NewFileRepository(path))
	_, err := first.CreateUser(ctx, "alice")
	require.NoError(t, err)
	task, err := first.AddTask(ctx, "alice", "persist me")
	require.NoError(t, err)

	second := New(snapshots.NewFileRepository(path))
	tasks, err := second.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, *task, tasks[0])
}

func TestStore_StorageFailures(t *testing.T) {
	ctx := context.Background()

	loadFail := New(&failingRepo{loadErr: errors.New("disk on fire")})
	_, err := loadFail.ListUsers(ctx)
	require.ErrorIs(t, err, common.ErrorStorage)
	require.ErrorContains(t, err, "disk on fire")
	_, err = loadFail.ListTasks(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorStorage)
	_, err = loadFail.GetUser(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorStorage)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	saveFail := New(&failingRepo{saveErr: errors.New("read-only fs"), inner: snapshots.NewInMemoryRepository()})
	_, err = saveFail.CreateUser(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorStorage)
	_, err = saveFail.AddTask(ctx, "alice", "x")
	require.ErrorIs(t, err, common.ErrorStorage)

	users, err := saveFail.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users, "failed saves leave no trace")
}

func TestStore_ConcurrentWritersLoseNothing(t *testing.T) {
	s := New(snapshots.NewInMemoryRepository())
	ctx := context.Background()

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			username := fmt.Sprintf("user%d", w%2)
			for i := 0; i < perWorker; i++ {
				_, err := s.AddTask(ctx, username, fmt.Sprintf("w%d-%d", w, i))
				assert.NoError(t, err)
				_, err = s.ListTasks(ctx, username)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	a, err := s.ListTasks(ctx, "user0")
	require.NoError(t, err)
	b, err := s.ListTasks(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, len(a)+len(b))
}

func TestStore_SharedFileWritersLoseNothing(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	// Two stores over one file stand in for the server and the console.
	stores := []*Store{
		New(snapshots.NewFileRepository(path)),
		New(snapshots.NewFileRepository(path)),
	}

	const perStore = 100
	var wg sync.WaitGroup
	for n, s := range stores {
		wg.Add(1)
		go func(n int, s *Store) {
			defer wg.Done()
			for i := 0; i < perStore; i++ {
				_, err := s.AddTask(ctx, "alice", fmt.Sprintf("s%d-%d", n, i))
				assert.NoError(t, err)
			}
		}(n, s)
	}
	wg.Wait()

	tasks, err := New(snapshots.NewFileRepository(path)).ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, tasks, len(stores)*perStore)
}

func TestStore_RepositoryLock(t *testing.T) {
	ctx := context.Background()
	repo := &lockingRepo{Repository: snapshots.NewInMemoryRepository()}
	s := New(repo)

	_, err := s.AddTask(ctx, "alice", "Buy milk")
	require.NoError(t, err)
	_, err = s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	_, err = s.ListUsers(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.locks, "only writers take the repository lock")
	assert.Equal(t, 1, repo.unlocks)

	repo.unlockFn = func() error { return errors.New("lock file gone") }
	_, err = s.AddTask(ctx, "alice", "Walk the dog")
	require.NoError(t, err, "an unlock failure does not undo a saved change")

	repo.lockErr = errors.New("lock timeout")
	_, err = s.AddTask(ctx, "alice", "never saved")
	require.ErrorIs(t, err, common.ErrorStorage)
	require.ErrorContains(t, err, "lock timeout")
	_, err = s.CreateUser(ctx, "bob")
	require.ErrorIs(t, err, common.ErrorStorage)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "Walk the dog"}, titles(tasks))
}

func TestFormatTimestamp_SortsLexically(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3*3600))
	a := FormatTimestamp(base)
	b := FormatTimestamp(base.Add(time.Microsecond))
	c := FormatTimestamp(base.Add(10 * time.Hour))

	assert.Equal(t, "2024-12-31T21:00:00.000000Z", a)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.Len(t, a, len(c))
}
