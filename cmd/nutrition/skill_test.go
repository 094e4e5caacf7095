// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, directory creation, and file content.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestSkillInstallCreatesDirectory verifies that the skill directory is created
// when it doesn't exist.
func TestSkillInstallCreatesDirectory(t *testing.T) {
	tmpHome := t.TempDir()

	skillDir := filepath.Join(tmpHome, ".claude", "skills", "nutrition")
	skillPath := filepath.Join(skillDir, "SKILL.md")

	// Read embedded skill content for verification
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	// Create directory and write skill file (simulating what installSkill does)
	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatalf("Failed to create skill directory: %v", err)
	}

	if err := os.WriteFile(skillPath, content, 0644); err != nil {
		t.Fatalf("Failed to write skill file: %v", err)
	}

	// Verify directory was created
	info, err := os.Stat(skillDir)
	if err != nil {
		t.Fatalf("Skill directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected skill path to be a directory")
	}

	// Verify file exists
	if _, err := os.Stat(skillPath); err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
}

// TestSkillInstallWritesCorrectContent verifies the installed SKILL.md has
// expected content markers.
func TestSkillInstallWritesCorrectContent(t *testing.T) {
	tmpHome := t.TempDir()

	skillDir := filepath.Join(tmpHome, ".claude", "skills", "nutrition")
	skillPath := filepath.Join(skillDir, "SKILL.md")

	// Read embedded skill content
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatalf("Failed to create skill directory: %v", err)
	}
	if err := os.WriteFile(skillPath, content, 0644); err != nil {
		t.Fatalf("Failed to write skill file: %v", err)
	}

	installed, err := os.ReadFile(skillPath)
	if err != nil {
		t.Fatalf("Failed to read installed skill: %v", err)
	}

	text := string(installed)
	if !strings.Contains(text, "name: nutrition") {
		t.Error("Installed skill missing frontmatter name")
	}
	if !strings.Contains(text, "log_food_estimate") {
		t.Error("Installed skill missing tool documentation")
	}
}
