package history

import (
	"fmt"
	"os"
	"path/filepath"

	"dedup-go/internal/config"
)

// NewStoreFromConfig creates the history store described by the
// config. An empty type defaults to sqlite.
func NewStoreFromConfig(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("history data_dir is required for sqlite store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating history data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "dedup.db"))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown history store type: %s", cfg.Type)
	}
}
