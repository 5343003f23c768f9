// Package telemetry manages opt-in, anonymous usage telemetry for zhice.
//
// Nothing is sent until the user runs `zhice telemetry enable`. Events carry
// counts and enums only: never goals, task text or API keys.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ConfigFileName is the name of the telemetry configuration file.
const ConfigFileName = "telemetry.json"

// EnvDoNotTrack disables telemetry regardless of the stored choice.
const EnvDoNotTrack = "DO_NOT_TRACK"

// Config holds the telemetry state and user preferences.
// Stored at ~/.zhice/telemetry.json (separate from main config).
type Config struct {
	// Enabled indicates whether telemetry is currently enabled.
	Enabled bool `json:"enabled"`

	// AnonymousID is a random UUID generated once, not tied to any personal data.
	AnonymousID string `json:"anonymous_id"`
}

// Store reads and writes the telemetry config file.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a config store rooted at dir (normally ~/.zhice).
func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Path returns the full path to the telemetry config file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, ConfigFileName)
}

// Load reads the telemetry configuration. A missing file yields a disabled
// config with a fresh anonymous ID.
func (s *Store) Load() (*Config, error) {
	cfg := &Config{}
	data, err := afero.ReadFile(s.fs, s.Path())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read telemetry config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry config: %w", err)
		}
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Save writes the configuration with owner-only permissions.
func (s *Store) Save(cfg *Config) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}

// IsEnabled returns true if telemetry is enabled and not vetoed by DO_NOT_TRACK.
func (c *Config) IsEnabled() bool {
	if c == nil || !c.Enabled {
		return false
	}
	v := strings.TrimSpace(os.Getenv(EnvDoNotTrack))
	return v == "" || v == "0" || strings.EqualFold(v, "false")
}
