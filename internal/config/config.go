// ABOUTME: Nutrition tool configuration with default daily targets.
// ABOUTME: Handles settings, data directory, and storage factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/nutrition/internal/storage"
)

// Default macro targets applied to newly created daily logs when the
// config does not override them.
const (
	DefaultCalorieTarget = 2000.0
	DefaultProteinTarget = 120.0
	DefaultCarbTarget    = 250.0
	DefaultFatTarget     = 70.0
)

// Config stores nutrition tool configuration.
type Config struct {
	// DataDir is the root directory for data storage (nutrition.db
	// lives here). Supports ~ expansion for home directory.
	// Defaults to ~/.local/share/nutrition.
	DataDir string `json:"data_dir,omitempty"`

	// Default daily macro targets for new daily logs. Zero means
	// use the built-in default.
	CalorieTarget float64 `json:"calorie_target,omitempty"`
	ProteinTarget float64 `json:"protein_target,omitempty"`
	CarbTarget    float64 `json:"carb_target,omitempty"`
	FatTarget     float64 `json:"fat_target,omitempty"`

	// AutoSync pushes a backup to Charm Cloud after each write
	// command when the device is linked.
	AutoSync bool `json:"auto_sync,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// Targets returns the default daily targets, falling back per field.
func (c *Config) Targets() storage.Targets {
	t := storage.Targets{
		Calories: c.CalorieTarget,
		Protein:  c.ProteinTarget,
		Carbs:    c.CarbTarget,
		Fat:      c.FatTarget,
	}
	if t.Calories == 0 {
		t.Calories = DefaultCalorieTarget
	}
	if t.Protein == 0 {
		t.Protein = DefaultProteinTarget
	}
	if t.Carbs == 0 {
		t.Carbs = DefaultCarbTarget
	}
	if t.Fat == 0 {
		t.Fat = DefaultFatTarget
	}
	return t
}

// OpenStorage opens the SQLite repository in the configured data dir.
func (c *Config) OpenStorage() (*storage.DB, error) {
	dbPath := filepath.Join(c.GetDataDir(), "nutrition.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nutrition", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
