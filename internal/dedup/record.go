package dedup

import (
	"fmt"
	"time"
)

// FileRecord describes one regular file discovered by the catalog.
// Records are immutable values; downstream stages copy them but never
// modify them. Index is the discovery order within a single walk and
// restarts at zero when the walk restarts.
type FileRecord struct {
	Path    string
	Size    int64
	ModTime time.Time
	Index   int
}

// KeepStrategy selects which member of a duplicate group survives
// when duplicates are acted on.
type KeepStrategy string

const (
	// KeepOldest retains the member with the earliest modification
	// time, ties broken by discovery order.
	KeepOldest KeepStrategy = "oldest"
	// KeepNewest retains the member with the latest modification
	// time, ties broken by discovery order.
	KeepNewest KeepStrategy = "newest"
	// KeepFirst retains the member discovered first, ignoring
	// timestamps entirely.
	KeepFirst KeepStrategy = "first"
)

// ParseKeepStrategy validates a raw strategy name.
func ParseKeepStrategy(raw string) (KeepStrategy, error) {
	switch KeepStrategy(raw) {
	case KeepOldest, KeepNewest, KeepFirst:
		return KeepStrategy(raw), nil
	default:
		return "", &ConfigError{Field: "keep", Msg: fmt.Sprintf("unknown keep strategy %q (want oldest, newest or first)", raw)}
	}
}

// ActionMode says what happens to non-kept members of a group.
type ActionMode string

const (
	ActionNone   ActionMode = "none"
	ActionDelete ActionMode = "delete"
	ActionMove   ActionMode = "move"
)
