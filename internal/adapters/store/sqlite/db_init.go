// Package sqlitestore implements the collaborator ports on SQLite.
package sqlitestore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens the database at path and ensures the schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A :memory: database lives on a single connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB ensures the SQLite schema exists.
func InitDB(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_summary (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            domain TEXT NOT NULL DEFAULT '',
            skills TEXT NOT NULL DEFAULT '[]',
            rating REAL NOT NULL DEFAULT 0,
            total_interviews INTEGER NOT NULL DEFAULT 0,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS room_snapshot (
            id TEXT PRIMARY KEY,
            status TEXT NOT NULL,
            domain TEXT NOT NULL DEFAULT '',
            created_by TEXT NOT NULL,
            started_at TEXT,
            ended_at TEXT,
            payload TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_room_snapshot_created_by ON room_snapshot(created_by)`,
		`CREATE TABLE IF NOT EXISTS question (
            id TEXT PRIMARY KEY,
            domain TEXT NOT NULL,
            title TEXT NOT NULL,
            difficulty TEXT NOT NULL DEFAULT '',
            position INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_question_domain ON question(domain COLLATE NOCASE, position)`,
		`CREATE TABLE IF NOT EXISTS rating (
            id INTEGER PRIMARY KEY,
            user_id TEXT NOT NULL,
            room_id TEXT NOT NULL,
            rating INTEGER NOT NULL,
            created_at TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_rating_user ON rating(user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Store adapts a *sql.DB to the collaborator interfaces.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}
