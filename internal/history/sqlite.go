package history

import (
	"database/sql"
	"fmt"
	"time"

	"dedup-go/internal/history/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the history database at
// path and migrates it to the latest schema. path can be a file path
// or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the
// appropriate PRAGMAs. Exported for tools and tests that need a
// properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite ships with foreign keys OFF for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) StartScan(rec *ScanRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO scans (id, root, started_at, status)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Root, rec.StartedAt, rec.Status)
	if err != nil {
		return fmt.Errorf("inserting scan: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FinishScan(rec *ScanRecord) error {
	_, err := s.db.Exec(`
		UPDATE scans
		SET finished_at = ?, files_scanned = ?, files_hashed = ?,
		    bytes_scanned = ?, groups_found = ?, wasted_space = ?,
		    status = ?
		WHERE id = ?`,
		rec.FinishedAt, rec.FilesScanned, rec.FilesHashed,
		rec.BytesScanned, rec.GroupsFound, rec.WastedSpace,
		rec.Status, rec.ID)
	if err != nil {
		return fmt.Errorf("finishing scan: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecordActions(scanID string, recs []ActionRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO actions (scan_id, path, action, ok, dry_run, dest, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := stmt.Exec(scanID, rec.Path, rec.Action, rec.OK, rec.DryRun, rec.Dest, rec.Reason, createdAt); err != nil {
			return fmt.Errorf("inserting action for %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListScans(limit int) ([]*ScanRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, root, started_at, finished_at, files_scanned,
		       files_hashed, bytes_scanned, groups_found, wasted_space, status
		FROM scans
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var scans []*ScanRecord
	for rows.Next() {
		rec := &ScanRecord{}
		if err := rows.Scan(&rec.ID, &rec.Root, &rec.StartedAt, &rec.FinishedAt,
			&rec.FilesScanned, &rec.FilesHashed, &rec.BytesScanned,
			&rec.GroupsFound, &rec.WastedSpace, &rec.Status); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		scans = append(scans, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scans: %w", err)
	}
	return scans, nil
}

func (s *SQLiteStore) ListActions(scanID string) ([]*ActionRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, scan_id, path, action, ok, dry_run, dest, reason, created_at
		FROM actions
		WHERE scan_id = ?
		ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	defer rows.Close()

	var actions []*ActionRecord
	for rows.Next() {
		rec := &ActionRecord{}
		if err := rows.Scan(&rec.ID, &rec.ScanID, &rec.Path, &rec.Action,
			&rec.OK, &rec.DryRun, &rec.Dest, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		actions = append(actions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actions: %w", err)
	}
	return actions, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements the Store interface
var _ Store = (*SQLiteStore)(nil)
