// ABOUTME: Integration tests for nutrition CLI.
// ABOUTME: Tests full workflow from CLI commands.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	nutritionBinary := filepath.Join(projectRoot, "nutrition")

	buildCmd := exec.Command("go", "build", "-o", nutritionBinary, "./cmd/nutrition")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(nutritionBinary)

	// Isolate config and data under a temp home
	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(nutritionBinary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Add a product
	output, err := run("product", "add", "Oats",
		"--calories", "370", "--protein", "13", "--carbs", "60", "--fat", "7",
		"--brand", "Quaker", "--nutrient", "iron=4.2")
	if err != nil {
		t.Fatalf("Failed to add product: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added product Oats") {
		t.Errorf("Expected 'Added product Oats' in output, got: %s", output)
	}

	// List products
	output, err = run("product", "list")
	if err != nil {
		t.Fatalf("Failed to list products: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Oats") {
		t.Errorf("Expected 'Oats' in list output, got: %s", output)
	}

	// Log 80 g of it
	output, err = run("log", "oats", "80")
	if err != nil {
		t.Fatalf("Failed to log: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Logged Oats") {
		t.Errorf("Expected 'Logged Oats' in output, got: %s", output)
	}
	if !strings.Contains(output, "296") {
		t.Errorf("Expected scaled calories 296 in output, got: %s", output)
	}

	// Add and log a supplement
	output, err = run("supplement", "add", "Vitamin D3",
		"--servings", "90", "--nutrient", "vitaminD=2250")
	if err != nil {
		t.Fatalf("Failed to add supplement: %v\n%s", err, output)
	}
	output, err = run("supplement", "log", "Vitamin D3")
	if err != nil {
		t.Fatalf("Failed to log supplement: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Vitamin D3") {
		t.Errorf("Expected 'Vitamin D3' in output, got: %s", output)
	}

	// Day view shows the entry against targets
	output, err = run("day")
	if err != nil {
		t.Fatalf("Failed to show day: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Oats") {
		t.Errorf("Expected 'Oats' in day output, got: %s", output)
	}
	if !strings.Contains(output, "Vitamin D3") {
		t.Errorf("Expected 'Vitamin D3' in day output, got: %s", output)
	}

	// Export to a file
	backupPath := filepath.Join(tmpDir, "backup.json")
	output, err = run("export", "json", "-o", backupPath)
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("Backup file not written: %v", err)
	}

	// Re-importing our own backup skips everything
	output, err = run("import", backupPath)
	if err != nil {
		t.Fatalf("Failed to import: %v\n%s", err, output)
	}
	if !strings.Contains(output, "0 imported") {
		t.Errorf("Expected '0 imported' for self-import, got: %s", output)
	}
}

func TestImportIntoFreshStore(t *testing.T) {
	projectRoot, _ := filepath.Abs("..")
	nutritionBinary := filepath.Join(projectRoot, "nutrition")

	buildCmd := exec.Command("go", "build", "-o", nutritionBinary, "./cmd/nutrition")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(nutritionBinary)

	runIn := func(home string, args ...string) (string, error) {
		cmd := exec.Command(nutritionBinary, args...)
		cmd.Env = append(os.Environ(),
			"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
			"XDG_DATA_HOME="+filepath.Join(home, "data"),
		)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	source := t.TempDir()
	target := t.TempDir()

	if output, err := runIn(source, "product", "add", "Rice",
		"--calories", "130", "--protein", "2.7", "--carbs", "28", "--fat", "0.3"); err != nil {
		t.Fatalf("Failed to add product: %v\n%s", err, output)
	}
	if output, err := runIn(source, "log", "rice", "150"); err != nil {
		t.Fatalf("Failed to log: %v\n%s", err, output)
	}

	backupPath := filepath.Join(source, "backup.json")
	if output, err := runIn(source, "export", "json", "-o", backupPath); err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}

	output, err := runIn(target, "import", backupPath)
	if err != nil {
		t.Fatalf("Failed to import: %v\n%s", err, output)
	}
	if strings.Contains(output, "0 imported") {
		t.Errorf("Expected imports into a fresh store, got: %s", output)
	}

	output, err = runIn(target, "product", "list")
	if err != nil {
		t.Fatalf("Failed to list products: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Rice") {
		t.Errorf("Expected imported 'Rice' in list output, got: %s", output)
	}
}
