// Package snapshots provides the persistence backends of the task store.
//
// # Overview
//
// Every backend implements Repository: Load returns the complete state (all
// users and every task bucket) and Save replaces it as a whole. There are no
// incremental updates; the store computes the next snapshot in memory and
// hands it back.
//
// Implementations:
//
//   - FileRepository: JSON document on local disk, atomic rename, lock file
//   - InMemoryRepository: process memory, deep copies on both sides
//   - SQLiteRepository: modernc.org/sqlite tables, one transaction per Save
//   - PostgresRepository: pgx tables, one transaction per Save, advisory lock
//   - S3Repository: JSON document stored as a single S3 object
//
// The JSON layout shared by the file and S3 backends is
//
//	{"users": [{"username": ..., "created_at": ...}],
//	 "tasks": {"<username>": [{"id": ..., "title": ..., "completed": ..., "created_at": ...}]}}
//
// # Concurrency
//
// Backends do not serialize callers themselves; the store holds a lock across
// each load-mutate-save cycle. Backends that other processes can reach also
// implement Locker, which the store takes inside its own lock. WithFileLock
// adds a lock file to a backend that has none, such as SQLite. S3 has no
// lock and must have a single writer process.
package snapshots
