package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"dedup-go/internal/dedup"
)

// OSFilesystem is the real filesystem implementation of
// dedup.Filesystem, backed by the os package.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem that operates on the real
// filesystem.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// Walk traverses root depth-first. Directories for which pruneDir
// returns true are skipped along with their entire subtree, so
// exclusion reduces traversal cost, not just output. Unreadable
// entries go to softErr and the walk continues; only a root that
// cannot be enumerated fails the walk.
func (m *OSFilesystem) Walk(root string, recursive bool, pruneDir func(name string) bool, visit func(path string, info fs.FileInfo), softErr func(path string, err error)) error {
	rootInfo, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			softErr(p, err)
			return nil
		}
		if d.IsDir() {
			if p == root {
				return nil
			}
			if pruneDir(d.Name()) || !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// Raced with deletion or lost permission mid-walk.
			softErr(p, err)
			return nil
		}
		visit(p, info)
		return nil
	})
}

// Open opens a file for reading.
func (m *OSFilesystem) Open(path string) (io.ReadSeekCloser, error) {
	return os.Open(path)
}

// Stat returns fresh file info for a path.
func (m *OSFilesystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Remove deletes a file.
func (m *OSFilesystem) Remove(path string) error {
	return os.Remove(path)
}

// Rename moves a file to a new path.
func (m *OSFilesystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// MkdirAll creates a directory and any missing parents.
func (m *OSFilesystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// ResolveRoot validates a raw scan root and returns its absolute
// path. The root must exist and be a directory.
func (m *OSFilesystem) ResolveRoot(rawPath string) (string, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", absPath)
	}
	return absPath, nil
}

// Compile-time check that OSFilesystem implements dedup.Filesystem
var _ dedup.Filesystem = (*OSFilesystem)(nil)
