// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation handling, and file content.
package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestEmbeddedSkillContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	for _, marker := range []string{"name: healthopt", "healthopt log", "healthopt analyze report"} {
		if !strings.Contains(string(content), marker) {
			t.Errorf("Embedded skill missing %q", marker)
		}
	}
}

func TestInstallSkillWithYes(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = true
	t.Cleanup(func() { skillSkipConfirm = false })

	var out bytes.Buffer
	if err := installSkill(home, strings.NewReader(""), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	installed, err := os.ReadFile(skillPath(home))
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(installed, embedded) {
		t.Error("Installed skill differs from embedded skill")
	}
	if !strings.Contains(out.String(), "Installed healthopt skill") {
		t.Errorf("Expected success message, got:\n%s", out.String())
	}
}

func TestInstallSkillConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		installed bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
		{"no newline", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			skillSkipConfirm = false

			var out bytes.Buffer
			if err := installSkill(home, strings.NewReader(tt.answer), &out); err != nil {
				t.Fatalf("installSkill failed: %v", err)
			}

			_, err := os.Stat(skillPath(home))
			if tt.installed && err != nil {
				t.Errorf("Expected skill installed: %v", err)
			}
			if !tt.installed && err == nil {
				t.Error("Expected no skill file after declining")
			}
		})
	}
}

func TestInstallSkillOverwrites(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = true
	t.Cleanup(func() { skillSkipConfirm = false })

	var out bytes.Buffer
	if err := installSkill(home, strings.NewReader(""), &out); err != nil {
		t.Fatalf("first install failed: %v", err)
	}
	out.Reset()
	if err := installSkill(home, strings.NewReader(""), &out); err != nil {
		t.Fatalf("second install failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("Expected overwrite note, got:\n%s", out.String())
	}
}
