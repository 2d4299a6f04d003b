package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/justyntemme/sidetree/internal/debug"
)

// Delete behaviors
const (
	DeleteAlwaysAsk  = "alwaysAsk"
	DeleteRecycleBin = "recycleBin"
	DeletePermanent  = "permanent"
)

// Root sort orders
const (
	RootSortDefault      = "default"
	RootSortFilesFirst   = "filesFirst"
	RootSortFoldersFirst = "foldersFirst"
)

// Config holds all user-configurable settings loaded from the settings file
type Config struct {
	Paths                  []RootConfig `json:"paths" yaml:"paths"`
	DeleteBehavior         string       `json:"deleteBehavior" yaml:"deleteBehavior"` // "alwaysAsk" | "recycleBin" | "permanent"
	ViewAsList             bool         `json:"viewAsList" yaml:"viewAsList"`
	ShowEmptyDirectories   bool         `json:"showEmptyDirectories" yaml:"showEmptyDirectories"`
	RootPathSortOrder      string       `json:"rootPathSortOrder" yaml:"rootPathSortOrder"` // "default" | "filesFirst" | "foldersFirst"
	ItemsSortOrderPattern  []string     `json:"itemsSortOrderPattern" yaml:"itemsSortOrderPattern"`
	CheckIllegalCharacters *bool        `json:"checkIllegalCharacters,omitempty" yaml:"checkIllegalCharacters,omitempty"`
	ShowSingleRootFolder   bool         `json:"showSingleRootFolder" yaml:"showSingleRootFolder"`
	WatchDebounce          string       `json:"watchDebounce" yaml:"watchDebounce"`
	CacheListings          bool         `json:"cacheListings" yaml:"cacheListings"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Paths:                 []RootConfig{},
		DeleteBehavior:        DeleteRecycleBin,
		ViewAsList:            false,
		ShowEmptyDirectories:  true,
		RootPathSortOrder:     RootSortDefault,
		ItemsSortOrderPattern: []string{},
		WatchDebounce:         "200ms",
		CacheListings:         true,
	}
}

// IllegalCharacterCheck reports whether names are checked for characters
// the host OS rejects. Defaults to on for Windows.
func (c Config) IllegalCharacterCheck() bool {
	if c.CheckIllegalCharacters == nil {
		return runtime.GOOS == "windows"
	}
	return *c.CheckIllegalCharacters
}

// Debounce parses WatchDebounce, falling back to 200ms.
func (c Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.WatchDebounce)
	if err != nil || d < 0 {
		return 200 * time.Millisecond
	}
	return d
}

func (c Config) clone() Config {
	out := c
	out.Paths = make([]RootConfig, len(c.Paths))
	for i, p := range c.Paths {
		out.Paths[i] = p.clone()
	}
	out.ItemsSortOrderPattern = append([]string{}, c.ItemsSortOrderPattern...)
	if c.CheckIllegalCharacters != nil {
		v := *c.CheckIllegalCharacters
		out.CheckIllegalCharacters = &v
	}
	return out
}

// ConfigPath returns the settings file path: ~/.config/sidetree/config.json
// SIDETREE_CONFIG overrides it.
func ConfigPath() string {
	if p := os.Getenv("SIDETREE_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sidetree", "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func encode(path string, cfg *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load

	subMu sync.Mutex
	subs  []func(Config)
}

// NewManager creates a configuration manager for the file at path. An
// empty path uses ConfigPath().
func NewManager(path string) *Manager {
	if path == "" {
		path = ConfigPath()
	}
	return &Manager{
		config: DefaultConfig(),
		path:   path,
	}
}

// Path returns the settings file the manager reads and writes.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the configuration from the settings file.
// If the file doesn't exist, creates it with defaults.
// If parsing fails, stores the error and keeps the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadUnlocked()
}

func (m *Manager) loadUnlocked() error {
	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Printf("Config: failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		debug.Log(debug.CONFIG, "creating default config at %s", m.path)
		m.config = DefaultConfig()
		if saveErr := m.saveUnlocked(); saveErr != nil {
			log.Printf("Config: failed to save default config: %v", saveErr)
			return saveErr
		}
		return nil
	}
	if err != nil {
		log.Printf("Config: failed to read %s: %v", m.path, err)
		return err
	}

	cfg := DefaultConfig()
	if err := decode(m.path, data, cfg); err != nil {
		log.Printf("Config: parse error in %s: %v", m.path, err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	if cfg.Paths == nil {
		cfg.Paths = []RootConfig{}
	}

	debug.Log(debug.CONFIG, "loaded %d path entries from %s", len(cfg.Paths), m.path)
	m.config = cfg
	return nil
}

// saveUnlocked writes config without acquiring lock (caller must hold lock).
// The file is replaced atomically so readers never see a partial write.
func (m *Manager) saveUnlocked() error {
	data, err := encode(m.path, m.config)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return m.config.clone()
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// Subscribe registers fn to receive the configuration after every edit.
// It returns a function that removes the subscription.
func (m *Manager) Subscribe(fn func(Config)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subs = append(m.subs, fn)
	idx := len(m.subs) - 1
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if idx < len(m.subs) {
			m.subs[idx] = nil
		}
	}
}

func (m *Manager) notify(cfg Config) {
	m.subMu.Lock()
	subs := append([]func(Config){}, m.subs...)
	m.subMu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(cfg.clone())
		}
	}
}

// Update performs a read-modify-write edit. The settings file is re-read
// under an exclusive file lock so concurrent processes do not lose edits,
// fn mutates the fresh copy, and the result is saved then broadcast.
// Returning an error from fn aborts the edit without saving.
func (m *Manager) Update(fn func(*Config) error) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	lock := flock.New(m.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	defer lock.Unlock()

	m.mu.Lock()
	if err := m.loadUnlocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.parseErr != nil {
		err := m.parseErr
		m.mu.Unlock()
		return fmt.Errorf("refusing to overwrite unreadable settings: %w", err)
	}
	next := m.config.clone()
	if err := fn(&next); err != nil {
		m.mu.Unlock()
		return err
	}
	m.config = &next
	if err := m.saveUnlocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	snapshot := m.config.clone()
	m.mu.Unlock()

	debug.Log(debug.CONFIG, "settings updated (%d path entries)", len(snapshot.Paths))
	m.notify(snapshot)
	return nil
}

// AddPaths appends paths that are not yet configured.
func (m *Manager) AddPaths(paths ...string) error {
	return m.Update(func(c *Config) error {
		seen := make(map[string]bool, len(c.Paths))
		for _, p := range c.Paths {
			seen[p.Template()] = true
		}
		for _, p := range paths {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			c.Paths = append(c.Paths, PathString(p))
		}
		return nil
	})
}

// RemovePath deletes the entry at index from the paths setting.
func (m *Manager) RemovePath(index int) error {
	return m.Update(func(c *Config) error {
		if index < 0 || index >= len(c.Paths) {
			return fmt.Errorf("no path entry at index %d", index)
		}
		c.Paths = append(c.Paths[:index], c.Paths[index+1:]...)
		return nil
	})
}

// HidePath replaces the entry at index with a hidden structured record.
// snapshot carries the effective settings of the root being hidden so they
// survive an unhide.
func (m *Manager) HidePath(index int, snapshot RootConfig) error {
	return m.Update(func(c *Config) error {
		if index < 0 || index >= len(c.Paths) {
			return fmt.Errorf("no path entry at index %d", index)
		}
		rec := c.Paths[index].Structured()
		if snapshot.Name != "" {
			rec.Name = snapshot.Name
		}
		if snapshot.Include != nil {
			rec.Include = clonePatterns(snapshot.Include)
		}
		if snapshot.Exclude != nil {
			rec.Exclude = clonePatterns(snapshot.Exclude)
		}
		if snapshot.ShowEmptyDirectories != nil {
			v := *snapshot.ShowEmptyDirectories
			rec.ShowEmptyDirectories = &v
		}
		if snapshot.ViewAsList != nil {
			v := *snapshot.ViewAsList
			rec.ViewAsList = &v
		}
		rec.Hidden = true
		c.Paths[index] = rec
		return nil
	})
}

// UnhidePath clears the hidden flag on every entry whose name or path
// template equals nameOrPath. It reports whether anything changed.
func (m *Manager) UnhidePath(nameOrPath string) (bool, error) {
	changed := false
	err := m.Update(func(c *Config) error {
		for i, p := range c.Paths {
			if p.Hidden && (p.Name == nameOrPath || p.Template() == nameOrPath) {
				c.Paths[i].Hidden = false
				changed = true
			}
		}
		return nil
	})
	return changed, err
}

// ToggleViewAsList flips list mode for the entry at index, or the global
// default when index is negative.
func (m *Manager) ToggleViewAsList(index int) error {
	return m.Update(func(c *Config) error {
		if index < 0 {
			c.ViewAsList = !c.ViewAsList
			return nil
		}
		if index >= len(c.Paths) {
			return fmt.Errorf("no path entry at index %d", index)
		}
		rec := c.Paths[index].Structured()
		v := !boolOr(rec.ViewAsList, c.ViewAsList)
		rec.ViewAsList = &v
		c.Paths[index] = rec
		return nil
	})
}

// ToggleShowEmptyDirectories flips empty-directory display for the entry at
// index, or the global default when index is negative.
func (m *Manager) ToggleShowEmptyDirectories(index int) error {
	return m.Update(func(c *Config) error {
		if index < 0 {
			c.ShowEmptyDirectories = !c.ShowEmptyDirectories
			return nil
		}
		if index >= len(c.Paths) {
			return fmt.Errorf("no path entry at index %d", index)
		}
		rec := c.Paths[index].Structured()
		v := !boolOr(rec.ShowEmptyDirectories, c.ShowEmptyDirectories)
		rec.ShowEmptyDirectories = &v
		c.Paths[index] = rec
		return nil
	})
}

// SetDeleteBehavior updates the delete behavior setting
func (m *Manager) SetDeleteBehavior(behavior string) error {
	switch behavior {
	case DeleteAlwaysAsk, DeleteRecycleBin, DeletePermanent:
	default:
		return fmt.Errorf("unknown delete behavior %q", behavior)
	}
	return m.Update(func(c *Config) error {
		c.DeleteBehavior = behavior
		return nil
	})
}

// SetRootPathSortOrder updates the root ordering policy
func (m *Manager) SetRootPathSortOrder(order string) error {
	switch order {
	case RootSortDefault, RootSortFilesFirst, RootSortFoldersFirst:
	default:
		return fmt.Errorf("unknown root sort order %q", order)
	}
	return m.Update(func(c *Config) error {
		c.RootPathSortOrder = order
		return nil
	})
}

// GenerateConfig backs up an existing settings file and writes fresh
// defaults. Returns the backup path, or "" when there was nothing to back up.
func GenerateConfig(configPath string) (backupPath string, err error) {
	if _, err := os.Stat(configPath); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		ext := filepath.Ext(configPath)
		backupPath = strings.TrimSuffix(configPath, ext) + ".backup." + timestamp + ext

		data, err := os.ReadFile(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := encode(configPath, DefaultConfig())
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
