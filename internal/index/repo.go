package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/roamshare/internal/apperr"
	"github.com/starford/roamshare/internal/models"
)

// ExportRow represents a row in the exports table.
type ExportRow struct {
	ID        int64
	Seed      string
	Depth     int
	InputDir  string
	OutputDir string
	WebPrefix *string
	CreatedAt time.Time
}

// NoteRow represents one exported note.
type NoteRow struct {
	Path     string
	Title    string
	Checksum string
	Wave     int
}

// SaveExport stores an export with its notes, links and warnings in one
// transaction and returns the new export id.
func (db *DB) SaveExport(e ExportRow, notes []NoteRow, links []models.Link, warnings []string) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := tx.Exec(`
		INSERT INTO exports (seed, depth, input_dir, output_dir, web_prefix, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Seed, e.Depth, e.InputDir, e.OutputDir, e.WebPrefix, e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("index: insert export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("index: export id: %w", err)
	}

	if len(notes) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO notes (export_id, path, title, checksum, wave) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("index: prepare note insert: %w", err)
		}
		defer stmt.Close()
		for _, n := range notes {
			if _, err := stmt.Exec(id, n.Path, n.Title, n.Checksum, n.Wave); err != nil {
				return 0, fmt.Errorf("index: insert note: %w", err)
			}
		}
	}

	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (export_id, source, target) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range links {
			if _, err := stmt.Exec(id, l.Source, l.Target); err != nil {
				return 0, fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	for _, w := range warnings {
		if _, err := tx.Exec(`INSERT INTO warnings (export_id, message) VALUES (?, ?)`, id, w); err != nil {
			return 0, fmt.Errorf("index: insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("index: commit: %w", err)
	}
	return id, nil
}

// LatestExport returns the most recently saved export.
func (db *DB) LatestExport() (*ExportRow, error) {
	var (
		e      ExportRow
		prefix sql.NullString
	)
	err := db.conn.QueryRow(`
		SELECT id, seed, depth, input_dir, output_dir, web_prefix, created_at
		FROM exports
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&e.ID, &e.Seed, &e.Depth, &e.InputDir, &e.OutputDir, &prefix, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: latest export: %w", err)
	}
	if prefix.Valid {
		e.WebPrefix = &prefix.String
	}
	return &e, nil
}

// Notes returns the notes of an export ordered by wave, then path.
func (db *DB) Notes(exportID int64) ([]NoteRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, title, checksum, wave
		FROM notes
		WHERE export_id = ?
		ORDER BY wave, path
	`, exportID)
	if err != nil {
		return nil, fmt.Errorf("index: notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var n NoteRow
		if err := rows.Scan(&n.Path, &n.Title, &n.Checksum, &n.Wave); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Backlinks returns the exported notes that link to target.
func (db *DB) Backlinks(exportID int64, target string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT source FROM links
		WHERE export_id = ? AND target = ?
		ORDER BY source
	`, exportID, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Warnings returns the warnings recorded for an export.
func (db *DB) Warnings(exportID int64) ([]string, error) {
	rows, err := db.conn.Query(`SELECT message FROM warnings WHERE export_id = ? ORDER BY rowid`, exportID)
	if err != nil {
		return nil, fmt.Errorf("index: warnings: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
