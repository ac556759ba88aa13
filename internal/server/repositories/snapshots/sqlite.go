package snapshots

import "database/sql"

// SQLiteRepository stores the snapshot in SQLite (modernc.org/sqlite).
// Tables are created by the goose migrations in
// internal/server/migrations/sqlite.
type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{db: db, q: sqlQueries{
		selectUsers: `SELECT username, created_at FROM users ORDER BY sort_order`,
		selectLists: `SELECT username FROM task_lists`,
		selectTasks: `SELECT username, id, title, completed, created_at FROM tasks ORDER BY username, sort_order`,

		deleteTasks: `DELETE FROM tasks`,
		deleteLists: `DELETE FROM task_lists`,
		deleteUsers: `DELETE FROM users`,

		insertUser: `INSERT INTO users (username, created_at, sort_order) VALUES (?, ?, ?)`,
		insertList: `INSERT INTO task_lists (username) VALUES (?)`,
		insertTask: `INSERT INTO tasks (username, id, title, completed, created_at, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
	}}}
}
