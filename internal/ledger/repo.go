package ledger

import (
	"fmt"
	"time"
)

// Operation kinds.
const (
	KindAppend  = "append"
	KindArchive = "archive"
)

// Entry represents one recorded operation.
type Entry struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	SourcePath  string    `json:"source_path,omitempty"`
	ArchivePath string    `json:"archive_path,omitempty"`
	Title       string    `json:"title,omitempty"`
	Bytes       int       `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats summarises the recorded history.
type Stats struct {
	Appends       int `json:"appends"`
	Archives      int `json:"archives"`
	BytesAppended int `json:"bytes_appended"`
}

// RecordAppend stores one append operation. sourcePath is empty for direct
// captures and names the note a relocation cut from otherwise.
func (db *DB) RecordAppend(sourcePath string, bytes int) error {
	_, err := db.conn.Exec(`
		INSERT INTO operations (kind, source_path, bytes, created_at)
		VALUES (?, ?, ?, ?)
	`, KindAppend, sourcePath, bytes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ledger: record append: %w", err)
	}
	return nil
}

// RecordArchive stores one archive operation.
func (db *DB) RecordArchive(archivePath, title string, bytes int) error {
	_, err := db.conn.Exec(`
		INSERT INTO operations (kind, archive_path, title, bytes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, KindArchive, archivePath, title, bytes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ledger: record archive: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first. A limit of zero or
// less means 50.
func (db *DB) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT id, kind, source_path, archive_path, title, bytes, created_at
		FROM operations
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.SourcePath, &e.ArchivePath, &e.Title, &e.Bytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ledger: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates counts and appended bytes across the whole history.
func (db *DB) Stats() (Stats, error) {
	rows, err := db.conn.Query(`
		SELECT kind, COUNT(*), COALESCE(SUM(bytes), 0)
		FROM operations
		GROUP BY kind
	`)
	if err != nil {
		return Stats{}, fmt.Errorf("ledger: stats: %w", err)
	}
	defer rows.Close()

	var s Stats
	for rows.Next() {
		var kind string
		var count, bytes int
		if err := rows.Scan(&kind, &count, &bytes); err != nil {
			return Stats{}, fmt.Errorf("ledger: scan stats: %w", err)
		}
		switch kind {
		case KindAppend:
			s.Appends = count
			s.BytesAppended = bytes
		case KindArchive:
			s.Archives = count
		}
	}
	return s, rows.Err()
}
