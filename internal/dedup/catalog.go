package dedup

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanFilter is the immutable inclusion configuration for a catalog
// walk. The zero value includes every regular file, recursively.
type ScanFilter struct {
	Recursive   bool
	MinSize     int64
	MaxSize     int64    // 0 means unlimited
	Extensions  []string // allow-list, lowercase, without leading dot; empty allows all
	ExcludeDirs []string // directory base names pruned from traversal
}

// DefaultExcludeDirs are the directory names pruned when the caller
// supplies no exclusion set of its own.
var DefaultExcludeDirs = []string{".git", "__pycache__", "node_modules", ".venv", "venv"}

// Validate reports the first invalid filter value, if any.
func (f ScanFilter) Validate() error {
	if f.MinSize < 0 {
		return &ConfigError{Field: "min-size", Msg: "must not be negative"}
	}
	if f.MaxSize < 0 {
		return &ConfigError{Field: "max-size", Msg: "must not be negative"}
	}
	if f.MaxSize > 0 && f.MinSize > f.MaxSize {
		return &ConfigError{Field: "min-size", Msg: "exceeds max-size"}
	}
	return nil
}

func (f ScanFilter) excludeSet() map[string]bool {
	set := make(map[string]bool, len(f.ExcludeDirs))
	for _, name := range f.ExcludeDirs {
		set[name] = true
	}
	return set
}

func (f ScanFilter) extensionSet() map[string]bool {
	if len(f.Extensions) == 0 {
		return nil
	}
	set := make(map[string]bool, len(f.Extensions))
	for _, ext := range f.Extensions {
		set[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return set
}

// FileCatalog walks a directory tree and emits FileRecords for files
// passing the filter. Each Walk call restarts the traversal from
// scratch and re-assigns discovery indices from zero.
type FileCatalog struct {
	fsys   Filesystem
	root   string
	filter ScanFilter
	logger Logger
}

// NewFileCatalog creates a catalog over root with the given filter.
func NewFileCatalog(fsys Filesystem, root string, filter ScanFilter, logger Logger) *FileCatalog {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &FileCatalog{fsys: fsys, root: root, filter: filter, logger: logger}
}

// Walk traverses the tree, calling visit for each included file in
// discovery order. Unreadable entries are collected as soft
// TraversalErrors. The returned error is non-nil only when the root
// itself cannot be enumerated, which is fatal to the scan.
func (c *FileCatalog) Walk(visit func(FileRecord)) ([]TraversalError, error) {
	exclude := c.filter.excludeSet()
	extensions := c.filter.extensionSet()

	var soft []TraversalError
	index := 0

	err := c.fsys.Walk(c.root, c.filter.Recursive,
		func(name string) bool { return exclude[name] },
		func(path string, info fs.FileInfo) {
			if !c.include(info, extensions) {
				return
			}
			visit(FileRecord{
				Path:    path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
				Index:   index,
			})
			index++
		},
		func(path string, err error) {
			c.logger.Warn("skipping unreadable entry", "path", path, "error", err)
			soft = append(soft, TraversalError{Path: path, Err: err})
		},
	)
	if err != nil {
		return soft, err
	}
	return soft, nil
}

// Collect runs Walk and materializes the records.
func (c *FileCatalog) Collect() ([]FileRecord, []TraversalError, error) {
	var records []FileRecord
	soft, err := c.Walk(func(rec FileRecord) {
		records = append(records, rec)
	})
	return records, soft, err
}

func (c *FileCatalog) include(info fs.FileInfo, extensions map[string]bool) bool {
	if !info.Mode().IsRegular() {
		return false
	}
	size := info.Size()
	if size < c.filter.MinSize {
		return false
	}
	if c.filter.MaxSize > 0 && size > c.filter.MaxSize {
		return false
	}
	if extensions != nil {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(info.Name()), "."))
		if !extensions[ext] {
			return false
		}
	}
	return true
}
