package history

import (
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store, useful for
// tests and for running with history disabled on disk. Safe for
// concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	scans   []*ScanRecord
	actions map[string][]*ActionRecord
	nextID  int64
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{actions: make(map[string][]*ActionRecord)}
}

func (m *MemoryStore) StartScan(rec *ScanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.scans {
		if existing.ID == rec.ID {
			return fmt.Errorf("scan already recorded: %s", rec.ID)
		}
	}
	stored := *rec
	m.scans = append(m.scans, &stored)
	return nil
}

func (m *MemoryStore) FinishScan(rec *ScanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.scans {
		if existing.ID == rec.ID {
			updated := *rec
			*existing = updated
			return nil
		}
	}
	return fmt.Errorf("scan not found: %s", rec.ID)
}

func (m *MemoryStore) RecordActions(scanID string, recs []ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range recs {
		stored := rec
		m.nextID++
		stored.ID = m.nextID
		stored.ScanID = scanID
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now()
		}
		m.actions[scanID] = append(m.actions[scanID], &stored)
	}
	return nil
}

func (m *MemoryStore) ListScans(limit int) ([]*ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Newest first.
	out := make([]*ScanRecord, 0, limit)
	for i := len(m.scans) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *m.scans[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MemoryStore) ListActions(scanID string) ([]*ActionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := m.actions[scanID]
	out := make([]*ActionRecord, len(recs))
	for i, rec := range recs {
		copied := *rec
		out[i] = &copied
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// Compile-time check that MemoryStore implements the Store interface
var _ Store = (*MemoryStore)(nil)
