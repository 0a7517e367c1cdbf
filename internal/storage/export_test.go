// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON and YAML round trips across backends and the Markdown report.
package storage

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthopt/internal/models"
)

// seedRepo stores one record of every kind plus a logged exercise.
func seedRepo(t *testing.T, repo Repository) {
	t.Helper()

	if err := repo.UpsertDailyLog(models.NewDailyLog(day(0)).WithWeight(182.5).WithMacros(2300, 160, 220, 75).WithSteps(9500).WithNotes("long walk")); err != nil {
		t.Fatalf("UpsertDailyLog failed: %v", err)
	}
	if err := repo.UpsertDailyLog(models.NewDailyLog(day(1)).WithWeight(182.1).WithSleep(8)); err != nil {
		t.Fatalf("UpsertDailyLog failed: %v", err)
	}
	if err := repo.CreateBloodPressure(models.NewBloodPressureReading(120, 80).WithRecordedAt(day(0).Add(7 * time.Hour)).WithPulse(58)); err != nil {
		t.Fatalf("CreateBloodPressure failed: %v", err)
	}
	m := models.NewBodyMeasurement(day(0))
	m.Waist = models.Float(34.25)
	if err := repo.UpsertBodyMeasurement(m); err != nil {
		t.Fatalf("UpsertBodyMeasurement failed: %v", err)
	}
	if _, err := LogExercise(repo, LogExerciseRequest{
		Date:     day(1),
		Exercise: "Overhead Press",
		Sets:     []SetInput{{Reps: 5, Weight: 115}, {Reps: 5, Weight: 120}},
	}); err != nil {
		t.Fatalf("LogExercise failed: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		seedRepo(t, repo)

		raw, err := ExportJSON(repo)
		if err != nil {
			t.Fatalf("ExportJSON failed: %v", err)
		}

		var export ExportData
		if err := json.Unmarshal(raw, &export); err != nil {
			t.Fatalf("Failed to parse JSON: %v", err)
		}
		if export.Version != ExportVersion {
			t.Errorf("Version = %q, want %q", export.Version, ExportVersion)
		}
		if export.Tool != "healthopt" {
			t.Errorf("Tool = %q, want healthopt", export.Tool)
		}
		if len(export.DailyLogs) != 2 || len(export.BloodPressure) != 1 || len(export.Measurements) != 1 {
			t.Errorf("unexpected record counts: %d logs, %d bp, %d measurements",
				len(export.DailyLogs), len(export.BloodPressure), len(export.Measurements))
		}
		if len(export.Sessions) != 1 || len(export.Exercises) != 1 || len(export.Sets) != 2 {
			t.Errorf("unexpected workout counts: %d sessions, %d exercises, %d sets",
				len(export.Sessions), len(export.Exercises), len(export.Sets))
		}
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			src := setupTestDB(t)
			seedRepo(t, src)

			var raw []byte
			var err error
			if format == "json" {
				raw, err = ExportJSON(src)
			} else {
				raw, err = ExportYAML(src)
			}
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}

			data, err := ParseExport(raw, "")
			if err != nil {
				t.Fatalf("ParseExport failed: %v", err)
			}

			dst := setupTestKV(t)
			summary, err := ImportData(dst, data)
			if err != nil {
				t.Fatalf("ImportData failed: %v", err)
			}
			if summary.Total() != 8 {
				t.Errorf("Total = %d, want 8 (%+v)", summary.Total(), summary)
			}

			logs, err := dst.ListDailyLogs(AllTime())
			if err != nil {
				t.Fatalf("ListDailyLogs failed: %v", err)
			}
			if len(logs) != 2 || logs[0].Weight != 182.5 || logs[0].Notes != "long walk" {
				t.Errorf("daily logs not preserved: %+v", logs)
			}
			if logs[1].SleepHours == nil || *logs[1].SleepHours != 8 {
				t.Error("expected sleep hours preserved")
			}

			readings, err := dst.ListBloodPressure(AllTime())
			if err != nil {
				t.Fatalf("ListBloodPressure failed: %v", err)
			}
			if len(readings) != 1 || readings[0].Pulse == nil || *readings[0].Pulse != 58 {
				t.Errorf("blood pressure not preserved: %+v", readings)
			}

			snap, err := LoadSnapshot(dst, AllTime())
			if err != nil {
				t.Fatalf("LoadSnapshot failed: %v", err)
			}
			if err := snap.Validate(); err != nil {
				t.Errorf("imported data failed validation: %v", err)
			}
			if len(snap.Sets) != 2 {
				t.Errorf("Sets = %d, want 2", len(snap.Sets))
			}
		})
	}
}

func TestImportReusesExistingExercise(t *testing.T) {
	src := setupTestKV(t)
	seedRepo(t, src)
	data, err := GetAllData(src)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}

	dst := setupTestDB(t)
	existing := models.NewExercise("overhead press")
	if err := dst.CreateExercise(existing); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}

	summary, err := ImportData(dst, data)
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if summary.Exercises != 0 {
		t.Errorf("Exercises = %d, want 0 (reused)", summary.Exercises)
	}

	sets, err := dst.ListSets(nil)
	if err != nil {
		t.Fatalf("ListSets failed: %v", err)
	}
	for _, s := range sets {
		if s.ExerciseID != existing.ID {
			t.Errorf("set %s not remapped to existing exercise", s.ID)
		}
	}
}

func TestExportDataValidate(t *testing.T) {
	raw := []byte(`{"version":"2.0","daily_logs":[
		{"date":"2025-06-01T00:00:00Z","steps":-5},
		{"date":"2025-06-02T00:00:00Z","sleep_hours":30}
	],"blood_pressure":[{"systolic":120,"diastolic":80}]}`)
	data, err := ParseExport(raw, "json")
	if err != nil {
		t.Fatalf("ParseExport failed: %v", err)
	}
	err = data.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "steps") || !strings.Contains(err.Error(), "sleep hours") {
		t.Errorf("expected both failures reported, got %v", err)
	}

	data.DailyLogs = data.DailyLogs[:0]
	if err := data.Validate(); err != nil {
		t.Errorf("unexpected error after removing bad logs: %v", err)
	}
}

func TestParseExportErrors(t *testing.T) {
	if _, err := ParseExport([]byte(`{"version":`), "json"); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := ParseExport([]byte("a: b"), "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExportMarkdown(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		seedRepo(t, repo)

		md, err := ExportMarkdown(repo, AllTime())
		if err != nil {
			t.Fatalf("ExportMarkdown failed: %v", err)
		}

		for _, want := range []string{
			"# Health Export",
			"## Daily Logs",
			"| 2025-03-01 | 182.5 | 2300 | 160g | 220g | 75g | 9500 | long walk |",
			"## Blood Pressure",
			"120/80",
			"## Body Measurements",
			"34.25",
			"## Workouts",
			"| 2025-03-02 | Strength | 2 |",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}
	})
}

func TestExportMarkdownEmpty(t *testing.T) {
	md, err := ExportMarkdown(setupTestKV(t), AllTime())
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if strings.Contains(md, "## Daily Logs") {
		t.Error("expected no sections for an empty store")
	}
}
