// Package index records export manifests in a SQLite database: which notes
// were exported, in which wave, and how they link to each other.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exports (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	seed       TEXT NOT NULL,
	depth      INTEGER NOT NULL,
	input_dir  TEXT NOT NULL DEFAULT '',
	output_dir TEXT NOT NULL DEFAULT '',
	web_prefix TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notes (
	export_id INTEGER NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
	path      TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	checksum  TEXT NOT NULL DEFAULT '',
	wave      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (export_id, path)
);

CREATE TABLE IF NOT EXISTS links (
	export_id INTEGER NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
	source    TEXT NOT NULL,
	target    TEXT NOT NULL,
	UNIQUE(export_id, source, target)
);

CREATE TABLE IF NOT EXISTS warnings (
	export_id INTEGER NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
	message   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_links_target ON links(export_id, target);
`

// DB wraps a sql.DB with manifest-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
