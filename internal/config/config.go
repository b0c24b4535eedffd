// Package config persists w3forms settings and session state as JSON files
// under the config directory (~/.w3forms unless overridden).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Mohsinsiddi/w3forms/internal/chain"
)

// Load reads config from dir (or creates defaults). An empty dir falls back
// to $W3FORMS_CONFIG_DIR, then ~/.w3forms.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = os.Getenv(EnvConfigDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".w3forms")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.DefaultEcosystem == "" {
		cfg.DefaultEcosystem = defaultEcosystem
	}
	if cfg.AutosaveDebounce <= 0 {
		cfg.AutosaveDebounce = defaultDebounce
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// StoreFile returns the records database path: the configured override, or
// records.db under the config directory.
func (c *Config) StoreFile() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return filepath.Join(c.configDir, storeFile)
}

// DebounceDuration returns the autosave debounce as a duration.
func (c *Config) DebounceDuration() time.Duration {
	return time.Duration(c.AutosaveDebounce) * time.Millisecond
}

// LoadNetworks reads networks.json.
func (c *Config) LoadNetworks() (*NetworksFile, error) {
	return loadJSON[NetworksFile](filepath.Join(c.configDir, networksFile))
}

// SaveNetworks writes networks.json.
func (c *Config) SaveNetworks(nf *NetworksFile) error {
	return saveJSON(filepath.Join(c.configDir, networksFile), nf)
}

// LoadSync reads sync.json.
func (c *Config) LoadSync() (*SyncState, error) {
	return loadJSON[SyncState](filepath.Join(c.configDir, syncFile))
}

// SaveSync writes sync.json.
func (c *Config) SaveSync(ss *SyncState) error {
	return saveJSON(filepath.Join(c.configDir, syncFile), ss)
}

// LoadSession reads session.json.
func (c *Config) LoadSession() (*SessionState, error) {
	return loadJSON[SessionState](filepath.Join(c.configDir, sessionFile))
}

// SaveSession writes session.json.
func (c *Config) SaveSession(ss *SessionState) error {
	return saveJSON(filepath.Join(c.configDir, sessionFile), ss)
}

// RememberRecord stores id as the session's last opened record so a bare
// `w3forms open` can resume it.
func (c *Config) RememberRecord(id string) error {
	return c.SaveSession(&SessionState{
		LastRecordID: id,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// Upsert replaces the entry with the same id or appends a new one. Reports
// whether an existing entry was replaced.
func (nf *NetworksFile) Upsert(n chain.Network) bool {
	idx := slices.IndexFunc(nf.Networks, func(e chain.Network) bool { return e.ID == n.ID })
	if idx >= 0 {
		nf.Networks[idx] = n
		return true
	}
	nf.Networks = append(nf.Networks, n)
	return false
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultEcosystem: defaultEcosystem,
		AutosaveDebounce: defaultDebounce,
		configDir:        dir,
	}
}

func loadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
