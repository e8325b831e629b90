package dedup

import "fmt"

// ConfigError reports an invalid configuration value. It is the only
// error class that aborts a run before scanning starts.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// TraversalError records a directory entry that could not be read
// during the catalog walk. The walk continues past it.
type TraversalError struct {
	Path string
	Err  error
}

func (e TraversalError) Error() string {
	return fmt.Sprintf("traversing %s: %v", e.Path, e.Err)
}

func (e TraversalError) Unwrap() error { return e.Err }

// HashError records a file that failed to hash. The file is excluded
// from the candidate set; sibling work is unaffected.
type HashError struct {
	Path  string
	Stage string // "quick" or "full"
	Err   error
}

func (e HashError) Error() string {
	return fmt.Sprintf("%s hash of %s: %v", e.Stage, e.Path, e.Err)
}

func (e HashError) Unwrap() error { return e.Err }

// ScanErrors collects the non-fatal errors of one scan. A scan with a
// non-empty ScanErrors still produces a complete, correct report for
// the files that were processed.
type ScanErrors struct {
	Traversal []TraversalError
	Hash      []HashError
}

// Total returns the number of collected errors.
func (e *ScanErrors) Total() int {
	return len(e.Traversal) + len(e.Hash)
}
