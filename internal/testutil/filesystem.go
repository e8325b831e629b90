package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"dedup-go/internal/dedup"
)

// MockFile is one file in a MockFilesystem.
type MockFile struct {
	Content []byte
	ModTime time.Time
}

// MockFilesystem is an in-memory dedup.Filesystem for tests. Paths
// use forward slashes. Errors can be injected per path and per
// operation to exercise soft-failure handling.
type MockFilesystem struct {
	Files map[string]*MockFile
	Dirs  map[string]bool

	// Error injection, keyed by path.
	OpenErrors   map[string]error
	StatErrors   map[string]error
	RemoveErrors map[string]error
	RenameErrors map[string]error
	WalkErrors   map[string]error

	// Operation log for assertions.
	Removed []string
	Renamed map[string]string
}

// NewMockFilesystem creates an empty mock filesystem containing only
// the root directory "/".
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{
		Files:        make(map[string]*MockFile),
		Dirs:         map[string]bool{"/": true},
		OpenErrors:   make(map[string]error),
		StatErrors:   make(map[string]error),
		RemoveErrors: make(map[string]error),
		RenameErrors: make(map[string]error),
		WalkErrors:   make(map[string]error),
		Renamed:      make(map[string]string),
	}
}

// AddFile registers a file and creates its parent directories.
func (m *MockFilesystem) AddFile(p string, content []byte, modTime time.Time) {
	m.Files[p] = &MockFile{Content: content, ModTime: modTime}
	m.addParents(p)
}

// AddDirectory registers an empty directory and its parents.
func (m *MockFilesystem) AddDirectory(p string) {
	m.Dirs[p] = true
	m.addParents(p)
}

func (m *MockFilesystem) addParents(p string) {
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		m.Dirs[dir] = true
	}
	m.Dirs["/"] = true
}

// Walk visits the registered files under root in sorted path order.
// Directories whose name matches pruneDir are skipped with their
// subtrees; with recursive false only direct children of root are
// visited. Injected walk errors go to softErr.
func (m *MockFilesystem) Walk(root string, recursive bool, pruneDir func(name string) bool, visit func(p string, info fs.FileInfo), softErr func(p string, err error)) error {
	if !m.Dirs[root] {
		return fmt.Errorf("not a directory: %s", root)
	}

	paths := make([]string, 0, len(m.Files))
	for p := range m.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	prefix := root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	for _, p := range paths {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rel := strings.TrimPrefix(p, prefix)
		segments := strings.Split(rel, "/")

		if len(segments) > 1 {
			if !recursive {
				continue
			}
			pruned := false
			for _, dir := range segments[:len(segments)-1] {
				if pruneDir(dir) {
					pruned = true
					break
				}
			}
			if pruned {
				continue
			}
		}

		if err := m.WalkErrors[p]; err != nil {
			softErr(p, err)
			continue
		}
		visit(p, m.fileInfo(p, m.Files[p]))
	}
	return nil
}

// Open returns a reader over the file's content.
func (m *MockFilesystem) Open(p string) (io.ReadSeekCloser, error) {
	if err := m.OpenErrors[p]; err != nil {
		return nil, err
	}
	f, ok := m.Files[p]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", p, fs.ErrNotExist)
	}
	return &mockReader{Reader: bytes.NewReader(f.Content)}, nil
}

// Stat returns info for a file or directory.
func (m *MockFilesystem) Stat(p string) (fs.FileInfo, error) {
	if err := m.StatErrors[p]; err != nil {
		return nil, err
	}
	if f, ok := m.Files[p]; ok {
		return m.fileInfo(p, f), nil
	}
	if m.Dirs[p] {
		return &mockFileInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, fmt.Errorf("stat %s: %w", p, fs.ErrNotExist)
}

// Remove deletes a file and records the deletion.
func (m *MockFilesystem) Remove(p string) error {
	if err := m.RemoveErrors[p]; err != nil {
		return err
	}
	if _, ok := m.Files[p]; !ok {
		return fmt.Errorf("remove %s: %w", p, fs.ErrNotExist)
	}
	delete(m.Files, p)
	m.Removed = append(m.Removed, p)
	return nil
}

// Rename moves a file and records the move.
func (m *MockFilesystem) Rename(oldPath, newPath string) error {
	if err := m.RenameErrors[oldPath]; err != nil {
		return err
	}
	f, ok := m.Files[oldPath]
	if !ok {
		return fmt.Errorf("rename %s: %w", oldPath, fs.ErrNotExist)
	}
	delete(m.Files, oldPath)
	m.Files[newPath] = f
	m.addParents(newPath)
	m.Renamed[oldPath] = newPath
	return nil
}

// MkdirAll registers a directory.
func (m *MockFilesystem) MkdirAll(p string) error {
	m.AddDirectory(p)
	return nil
}

func (m *MockFilesystem) fileInfo(p string, f *MockFile) fs.FileInfo {
	return &mockFileInfo{
		name:    path.Base(p),
		size:    int64(len(f.Content)),
		modTime: f.ModTime,
	}
}

type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return i.size }
func (i *mockFileInfo) Mode() fs.FileMode  { return 0644 }
func (i *mockFileInfo) ModTime() time.Time { return i.modTime }
func (i *mockFileInfo) IsDir() bool        { return i.dir }
func (i *mockFileInfo) Sys() any           { return nil }

type mockReader struct {
	*bytes.Reader
}

func (r *mockReader) Close() error { return nil }

// Compile-time check that MockFilesystem implements dedup.Filesystem
var _ dedup.Filesystem = (*MockFilesystem)(nil)
