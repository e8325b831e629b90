package quarantine

import (
	"path/filepath"
	"sync"

	"dedup-go/internal/dedup"
)

// Move records one Store call on a Memory quarantine.
type Move struct {
	Src  string
	Dest string
}

// Memory is an in-memory quarantine that records moves without
// touching any filesystem. Useful for executor tests. Safe for
// concurrent use.
type Memory struct {
	mu    sync.Mutex
	dir   string
	moves []Move
	// Err, when set, is returned by every Store call.
	Err error
}

// NewMemory creates an in-memory quarantine pretending to live at dir.
func NewMemory(dir string) *Memory {
	return &Memory{dir: dir}
}

// Store records the move and returns the pretend destination.
func (m *Memory) Store(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	dest := filepath.Join(m.dir, filepath.Base(path))
	m.moves = append(m.moves, Move{Src: path, Dest: dest})
	return dest, nil
}

// Moves returns a copy of the recorded moves.
func (m *Memory) Moves() []Move {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Move, len(m.moves))
	copy(out, m.moves)
	return out
}

// Compile-time check that Memory implements dedup.Quarantine
var _ dedup.Quarantine = (*Memory)(nil)
