package basestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the sqlite file backing the BASE dataset.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS base_records (
	id           TEXT PRIMARY KEY,
	code         TEXT NOT NULL DEFAULT '',
	product      TEXT NOT NULL DEFAULT '',
	ingredient   TEXT NOT NULL DEFAULT '',
	registry_id  TEXT NOT NULL DEFAULT '',
	lab          TEXT NOT NULL DEFAULT '',
	lab_abbrev   TEXT NOT NULL DEFAULT '',
	price_lab    TEXT NOT NULL DEFAULT '',
	presentation TEXT NOT NULL DEFAULT '',
	price        TEXT NOT NULL DEFAULT '',
	source       TEXT NOT NULL DEFAULT '',
	link         TEXT NOT NULL DEFAULT '',
	grp          TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Migrate creates the schema when absent.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate basestore: %w", err)
	}
	return nil
}
