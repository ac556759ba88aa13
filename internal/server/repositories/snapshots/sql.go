package snapshots

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// sqlQueries is the statement set of one SQL dialect. The schema is the same
// everywhere: users and tasks carry an explicit sort_order column, and
// task_lists records which buckets exist (a bucket may be empty, or belong
// to a username without a user row).
type sqlQueries struct {
	selectUsers string
	selectLists string
	selectTasks string

	deleteTasks string
	deleteLists string
	deleteUsers string

	insertUser string
	insertList string
	insertTask string
}

// sqlRepository implements Repository on top of database/sql.
type sqlRepository struct {
	db *sql.DB
	q  sqlQueries
}

func (r *sqlRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	s := models.NewSnapshot()

	rows, err := r.db.QueryContext(ctx, r.q.selectUsers)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UserName, &u.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		s.Users = append(s.Users, u)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, r.q.selectLists)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan task list: %w", err)
		}
		s.Tasks[username] = []models.Task{}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, r.q.selectTasks)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	for rows.Next() {
		var (
			username string
			t        models.Task
		)
		if err := rows.Scan(&username, &t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan task: %w", err)
		}
		s.Tasks[username] = append(s.Tasks[username], t)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return s, nil
}

func (r *sqlRepository) Save(ctx context.Context, s *models.Snapshot) error {
	users := make([][]any, 0, len(s.Users))
	for i, u := range s.Users {
		users = append(users, []any{u.UserName, u.CreatedAt, i})
	}

	// Map order is random; sorted keys keep the statement order stable.
	names := slices.Sorted(maps.Keys(s.Tasks))
	lists := make([][]any, 0, len(names))
	var tasks [][]any
	for _, name := range names {
		lists = append(lists, []any{name})
		for i, t := range s.Tasks[name] {
			tasks = append(tasks, []any{name, t.ID, t.Title, t.Completed, t.CreatedAt, i})
		}
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, q := range []string{r.q.deleteTasks, r.q.deleteLists, r.q.deleteUsers} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
		}
		if err := dbx.ExecBatch(ctx, tx, r.q.insertUser, users); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		if err := dbx.ExecBatch(ctx, tx, r.q.insertList, lists); err != nil {
			return fmt.Errorf("task lists: %w", err)
		}
		if err := dbx.ExecBatch(ctx, tx, r.q.insertTask, tasks); err != nil {
			return fmt.Errorf("tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("db error: %w", err)
	}
	return rows.Close()
}
