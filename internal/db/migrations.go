package db

import (
	"database/sql"
	"fmt"
)

// Ids are snowflakes assigned by the repository (no AUTOINCREMENT).
const baseSchema = `
CREATE TABLE IF NOT EXISTS apod_entries (
  id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  explanation TEXT NOT NULL,
  url TEXT NOT NULL,
  media_type TEXT NOT NULL,
  date TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_apod_entries_date ON apod_entries(date);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: local_file_path for downloaded images
	if err := addColumnIfMissing(db, "apod_entries", "local_file_path", "TEXT"); err != nil {
		return err
	}

	return nil
}

func addColumnIfMissing(db *sql.DB, table, column, decl string) error {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check %s column: %w", column, err)
	}
	if count > 0 {
		return nil
	}

	stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl)
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("add %s column: %w", column, err)
	}
	return nil
}
