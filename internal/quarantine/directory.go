package quarantine

import (
	"fmt"
	"path/filepath"
	"strings"

	"dedup-go/internal/dedup"
)

// Directory is a filesystem-backed quarantine: moved duplicates land
// in a single folder, created on first use. Name collisions are
// disambiguated with a numeric suffix (report.txt → report_1.txt),
// so a moved file never overwrites an earlier one.
type Directory struct {
	fsys    dedup.Filesystem
	dir     string
	created bool
}

// NewDirectory creates a quarantine rooted at dir. The directory is
// not created until the first Store call.
func NewDirectory(fsys dedup.Filesystem, dir string) *Directory {
	return &Directory{fsys: fsys, dir: dir}
}

// Dir returns the quarantine folder path.
func (q *Directory) Dir() string { return q.dir }

// Store moves the file at path into the quarantine folder and
// returns the destination path.
func (q *Directory) Store(path string) (string, error) {
	if !q.created {
		if err := q.fsys.MkdirAll(q.dir); err != nil {
			return "", fmt.Errorf("creating quarantine directory: %w", err)
		}
		q.created = true
	}

	dest := filepath.Join(q.dir, filepath.Base(path))
	dest = q.disambiguate(dest)

	if err := q.fsys.Rename(path, dest); err != nil {
		return "", fmt.Errorf("moving to quarantine: %w", err)
	}
	return dest, nil
}

// disambiguate returns dest or, if dest already exists, the first
// free name of the form stem_N.ext.
func (q *Directory) disambiguate(dest string) string {
	if !q.exists(dest) {
		return dest
	}
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !q.exists(candidate) {
			return candidate
		}
	}
}

func (q *Directory) exists(path string) bool {
	_, err := q.fsys.Stat(path)
	return err == nil
}

// Compile-time check that Directory implements dedup.Quarantine
var _ dedup.Quarantine = (*Directory)(nil)
