package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"dedup-go/internal/dedup"
)

// Config represents the main configuration for dedup.
type Config struct {
	LogDir     string           `toml:"log_dir"`
	Scan       ScanConfig       `toml:"scan"`
	History    HistoryConfig    `toml:"history"`
	Quarantine QuarantineConfig `toml:"quarantine"`
}

// ScanConfig holds the defaults applied to every scan unless
// overridden on the command line.
type ScanConfig struct {
	Workers     int      `toml:"workers"`
	MinSize     int64    `toml:"min_size"`
	ExcludeDirs []string `toml:"exclude_dirs"`
}

// HistoryConfig represents configuration for the scan history store.
// This uses a tagged union pattern - the Type field determines which
// other fields are relevant.
type HistoryConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// QuarantineConfig holds the default destination for moved
// duplicates when --move is given without a folder.
type QuarantineConfig struct {
	Dir string `toml:"dir"`
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		LogDir: filepath.Join(baseDir, "log"),
		Scan: ScanConfig{
			Workers:     dedup.DefaultWorkers,
			MinSize:     1,
			ExcludeDirs: dedup.DefaultExcludeDirs,
		},
		History: HistoryConfig{
			Type:    "sqlite",
			DataDir: baseDir,
		},
		Quarantine: QuarantineConfig{
			Dir: filepath.Join(baseDir, "quarantine"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the
// provided Config. Fails if one already exists.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
