package snapshots

import (
	"context"
	"database/sql"
	"fmt"
)

// advisoryLockKey identifies the snapshot lock among pg_advisory_lock users.
const advisoryLockKey int64 = 0x7461736b626f6172

// PostgresRepository stores the snapshot in PostgreSQL through the pgx
// stdlib driver. Tables are created by the goose migrations in
// internal/server/migrations/postgres.
type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{sqlRepository{db: db, q: sqlQueries{
		selectUsers: `SELECT username, created_at FROM users ORDER BY sort_order`,
		selectLists: `SELECT username FROM task_lists`,
		selectTasks: `SELECT username, id, title, completed, created_at FROM tasks ORDER BY username, sort_order`,

		deleteTasks: `DELETE FROM tasks`,
		deleteLists: `DELETE FROM task_lists`,
		deleteUsers: `DELETE FROM users`,

		insertUser: `INSERT INTO users (username, created_at, sort_order) VALUES ($1, $2, $3)`,
		insertList: `INSERT INTO task_lists (username) VALUES ($1)`,
		insertTask: `INSERT INTO tasks (username, id, title, completed, created_at, sort_order) VALUES ($1, $2, $3, $4, $5, $6)`,
	}}}
}

// Lock takes a session-level advisory lock on a dedicated connection. The
// connection goes back to the pool on unlock.
func (r *PostgresRepository) Lock(ctx context.Context) (func() error, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey); err != nil {
		conn.Close()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	return func() error {
		defer conn.Close()
		if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("advisory unlock: %w", err)
		}
		return nil
	}, nil
}
