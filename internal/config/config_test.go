// ABOUTME: Tests for config loading, saving, and target fallbacks.
// ABOUTME: Uses XDG_CONFIG_HOME to isolate config files per test.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTargetsFallbacks(t *testing.T) {
	cfg := &Config{}
	targets := cfg.Targets()

	if targets.Calories != DefaultCalorieTarget {
		t.Errorf("calories = %f, want %f", targets.Calories, DefaultCalorieTarget)
	}
	if targets.Protein != DefaultProteinTarget {
		t.Errorf("protein = %f, want %f", targets.Protein, DefaultProteinTarget)
	}

	// Per-field override keeps other defaults.
	cfg = &Config{CalorieTarget: 1800}
	targets = cfg.Targets()
	if targets.Calories != 1800 {
		t.Errorf("calories = %f, want 1800", targets.Calories)
	}
	if targets.Fat != DefaultFatTarget {
		t.Errorf("fat = %f, want %f", targets.Fat, DefaultFatTarget)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := ExpandPath("~/data"); got != filepath.Join(home, "data") {
		t.Errorf("ExpandPath(~/data) = %s", got)
	}
	if got := ExpandPath("~"); got != home {
		t.Errorf("ExpandPath(~) = %s", got)
	}
	if got := ExpandPath("/absolute/path"); got != "/absolute/path" {
		t.Errorf("ExpandPath(/absolute/path) = %s", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath() = %s", got)
	}
}

func TestLoadMissingConfigReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "" || cfg.CalorieTarget != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		DataDir:       "/tmp/nutrition-test",
		CalorieTarget: 2200,
		AutoSync:      true,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DataDir != cfg.DataDir {
		t.Errorf("DataDir = %s, want %s", loaded.DataDir, cfg.DataDir)
	}
	if loaded.CalorieTarget != 2200 {
		t.Errorf("CalorieTarget = %f, want 2200", loaded.CalorieTarget)
	}
	if !loaded.AutoSync {
		t.Error("AutoSync not persisted")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()
	cfg := &Config{DataDir: "~/nutrition-data"}

	if got := cfg.GetDataDir(); got != filepath.Join(home, "nutrition-data") {
		t.Errorf("GetDataDir = %s", got)
	}
}

func TestOpenStorage(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}

	db, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(cfg.DataDir, "nutrition.db")); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}
