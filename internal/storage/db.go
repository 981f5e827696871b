// Package storage journals uploads and generated reports. The pipeline data
// itself is never persisted; this is history for the web UI only.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/MichalRonowski/APApp/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS uploads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fileName TEXT NOT NULL,
  storedPath TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  docNo TEXT NOT NULL,
  sourceNo TEXT NOT NULL,
  fileName TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reports_docNo ON reports(docNo);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertUpload(fileName, storedPath string, rowCount int) error {
	_, err := d.conn.Exec(`
INSERT INTO uploads (fileName, storedPath, rowCount) VALUES (?, ?, ?)
`, fileName, storedPath, rowCount)
	return err
}

func (d *DB) InsertReport(docNo, sourceNo, fileName string, rowCount int) error {
	_, err := d.conn.Exec(`
INSERT INTO reports (docNo, sourceNo, fileName, rowCount) VALUES (?, ?, ?, ?)
`, docNo, sourceNo, fileName, rowCount)
	return err
}

func (d *DB) ListRecentReports(limit int) ([]internal.ReportEntry, error) {
	rows, err := d.conn.Query(`
SELECT id, docNo, sourceNo, fileName, rowCount, createdAt
FROM reports ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ReportEntry
	for rows.Next() {
		var entry internal.ReportEntry
		if err := rows.Scan(&entry.ID, &entry.DocNo, &entry.SourceNo, &entry.FileName, &entry.RowCount, &entry.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (d *DB) ListUploads(limit int) ([]internal.UploadEntry, error) {
	rows, err := d.conn.Query(`
SELECT id, fileName, storedPath, rowCount, createdAt
FROM uploads ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.UploadEntry
	for rows.Next() {
		var entry internal.UploadEntry
		if err := rows.Scan(&entry.ID, &entry.FileName, &entry.StoredPath, &entry.RowCount, &entry.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
