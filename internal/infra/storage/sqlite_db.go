package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the schemas
// for persisting game summaries, rosters, and the event ledger.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			num_agents INTEGER NOT NULL,
			phase TEXT NOT NULL,
			day_count INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			finished_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS participants (
			game_id TEXT NOT NULL,
			id INTEGER NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			PRIMARY KEY (game_id, id),
			FOREIGN KEY (game_id) REFERENCES games(game_id)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			game_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			day INTEGER NOT NULL,
			phase TEXT NOT NULL,
			message TEXT NOT NULL,
			PRIMARY KEY (game_id, seq),
			FOREIGN KEY (game_id) REFERENCES games(game_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_game_day ON events(game_id, day);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
