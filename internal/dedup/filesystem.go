package dedup

import (
	"io"
	"io/fs"
)

// Filesystem is the capability surface the engine needs from the host
// filesystem. The OS implementation lives in internal/fs; tests use
// the in-memory implementation from internal/testutil.
type Filesystem interface {
	// Walk traverses root and calls visit for every regular file.
	// When recursive is false only root's immediate entries are
	// visited. Directories for which pruneDir returns true are
	// skipped entirely, subtree included. Entries that cannot be
	// read are reported through softErr and the walk continues; Walk
	// returns an error only when root itself cannot be enumerated.
	Walk(root string, recursive bool, pruneDir func(name string) bool, visit func(path string, info fs.FileInfo), softErr func(path string, err error)) error

	// Open opens a file for reading. Seeking is required by the
	// quick-hash tail read.
	Open(path string) (io.ReadSeekCloser, error)

	// Stat returns fresh file info for path.
	Stat(path string) (fs.FileInfo, error)

	// Remove deletes a file.
	Remove(path string) error

	// Rename moves a file to a new path.
	Rename(oldPath, newPath string) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error
}
