package history

import (
	"database/sql"
	"time"
)

// ScanRecord is one row of scan history.
type ScanRecord struct {
	ID           string // UUID, matches the scan ID in logs
	Root         string
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	FilesScanned int64
	FilesHashed  int64
	BytesScanned int64
	GroupsFound  int64
	WastedSpace  int64
	Status       string // "running", "success" or "error"
}

// ActionRecord is one audit-log row: the outcome of acting on a
// single duplicate candidate.
type ActionRecord struct {
	ID        int64
	ScanID    string
	Path      string
	Action    string
	OK        bool
	DryRun    bool
	Dest      string
	Reason    string
	CreatedAt time.Time
}

// Store persists scan history and the per-file action audit log.
// History is strictly outside the detection core: a Store failure is
// reported but never fails a scan.
type Store interface {
	// StartScan inserts a new scan row with status "running".
	StartScan(rec *ScanRecord) error

	// FinishScan updates the counters, finish time and status of a
	// previously started scan.
	FinishScan(rec *ScanRecord) error

	// RecordActions appends audit rows for a scan.
	RecordActions(scanID string, recs []ActionRecord) error

	// ListScans returns the most recent scans, newest first.
	ListScans(limit int) ([]*ScanRecord, error)

	// ListActions returns the audit rows of one scan in insertion
	// order.
	ListActions(scanID string) ([]*ActionRecord, error)

	// Close closes the store.
	Close() error
}
