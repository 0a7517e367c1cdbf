// ABOUTME: Integration test for the healthopt binary.
// ABOUTME: Builds the CLI and runs a full logging and analysis workflow in a subprocess.
package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	binary := filepath.Join(t.TempDir(), "healthopt")
	buildCmd := exec.Command("go", "build", "-o", binary, ".")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	env := append(os.Environ(),
		"XDG_DATA_HOME="+t.TempDir(),
		"XDG_CONFIG_HOME="+t.TempDir(),
	)
	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	output, err := run("log", "--weight", "82.5", "--calories", "2100", "--carbs", "180")
	if err != nil {
		t.Fatalf("Failed to log: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Logged") {
		t.Errorf("Expected 'Logged' in output, got: %s", output)
	}

	output, err = run("bp", "120", "80")
	if err != nil {
		t.Fatalf("Failed to add bp: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added blood pressure") {
		t.Errorf("Expected 'Added blood pressure' in output, got: %s", output)
	}

	output, err = run("list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "120/80") {
		t.Errorf("Expected '120/80' in list output, got: %s", output)
	}

	output, err = run("workout", "log", "squat", "5x100")
	if err != nil {
		t.Fatalf("Failed to log workout: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Logged 1 sets of squat") {
		t.Errorf("Expected 'Logged 1 sets of squat' in output, got: %s", output)
	}

	output, err = run("workout", "list")
	if err != nil {
		t.Fatalf("Failed to list workouts: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Strength") {
		t.Errorf("Expected 'Strength' in workout list, got: %s", output)
	}

	output, err = run("analyze", "report")
	if err != nil {
		t.Fatalf("Failed to analyze: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Health Report") {
		t.Errorf("Expected 'Health Report' in output, got: %s", output)
	}
}
