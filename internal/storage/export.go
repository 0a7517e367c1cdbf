// ABOUTME: Export and import functionality for health records.
// ABOUTME: Supports JSON and YAML round trips and a Markdown report.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/healthopt/internal/models"
)

// ExportVersion is the current export format version.
const ExportVersion = "2.0"

// ExportData represents the full export format for health records.
type ExportData struct {
	Version       string                         `json:"version" yaml:"version"`
	ExportedAt    time.Time                      `json:"exported_at" yaml:"exported_at"`
	Tool          string                         `json:"tool" yaml:"tool"`
	DailyLogs     []*models.DailyLog             `json:"daily_logs" yaml:"daily_logs"`
	BloodPressure []*models.BloodPressureReading `json:"blood_pressure" yaml:"blood_pressure"`
	Measurements  []*models.BodyMeasurement      `json:"measurements" yaml:"measurements"`
	Exercises     []*models.Exercise             `json:"exercises" yaml:"exercises"`
	Sessions      []*models.WorkoutSession       `json:"sessions" yaml:"sessions"`
	Sets          []*models.WorkoutSet           `json:"sets" yaml:"sets"`
}

// ImportSummary holds counts of imported records.
type ImportSummary struct {
	DailyLogs     int `json:"daily_logs"`
	BloodPressure int `json:"blood_pressure"`
	Measurements  int `json:"measurements"`
	Exercises     int `json:"exercises"`
	Sessions      int `json:"sessions"`
	Sets          int `json:"sets"`
}

// Total is the number of records imported.
func (s ImportSummary) Total() int {
	return s.DailyLogs + s.BloodPressure + s.Measurements + s.Exercises + s.Sessions + s.Sets
}

// GetAllData retrieves every record for export.
func GetAllData(repo Repository) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "healthopt",
	}

	var err error
	if data.DailyLogs, err = repo.ListDailyLogs(AllTime()); err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	if data.BloodPressure, err = repo.ListBloodPressure(AllTime()); err != nil {
		return nil, fmt.Errorf("list blood pressure: %w", err)
	}
	if data.Measurements, err = repo.ListBodyMeasurements(AllTime()); err != nil {
		return nil, fmt.Errorf("list body measurements: %w", err)
	}
	if data.Exercises, err = repo.ListExercises(); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if data.Sessions, err = repo.ListSessions(AllTime()); err != nil {
		return nil, fmt.Errorf("list workout sessions: %w", err)
	}
	if data.Sets, err = repo.ListSets(nil); err != nil {
		return nil, fmt.Errorf("list workout sets: %w", err)
	}
	return data, nil
}

// Validate checks every record against its model invariants so a bad file is
// rejected before anything is written.
func (d *ExportData) Validate() error {
	var errs error
	for _, l := range d.DailyLogs {
		if err := l.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("daily log %s: %w", models.DateKey(l.Date), err))
		}
	}
	for _, b := range d.BloodPressure {
		if err := b.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("blood pressure %s: %w", b.ID, err))
		}
	}
	for _, m := range d.Measurements {
		if err := m.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("measurement %s: %w", models.DateKey(m.Date), err))
		}
	}
	for _, s := range d.Sets {
		if err := s.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("workout set %s: %w", s.ID, err))
		}
	}
	return errs
}

// ImportData writes data into repo. Daily logs and measurements upsert by date;
// exercises that already exist by name are reused and their sets remapped.
func ImportData(repo Repository, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	exerciseIDs := make(map[uuid.UUID]uuid.UUID, len(data.Exercises))
	for _, e := range data.Exercises {
		existing, err := repo.GetExerciseByName(e.Name)
		switch {
		case err == nil:
			exerciseIDs[e.ID] = existing.ID
			continue
		case !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("import exercise %q: %w", e.Name, err)
		}
		if err := repo.CreateExercise(e); err != nil {
			return nil, fmt.Errorf("import exercise %q: %w", e.Name, err)
		}
		exerciseIDs[e.ID] = e.ID
		summary.Exercises++
	}

	for _, s := range data.Sessions {
		if err := repo.CreateSession(s); err != nil {
			return nil, fmt.Errorf("import workout session %s: %w", s.ID, err)
		}
		summary.Sessions++
	}

	for _, s := range data.Sets {
		if mapped, ok := exerciseIDs[s.ExerciseID]; ok {
			s.ExerciseID = mapped
		}
		if err := repo.AddSet(s); err != nil {
			return nil, fmt.Errorf("import workout set %s: %w", s.ID, err)
		}
		summary.Sets++
	}

	for _, l := range data.DailyLogs {
		if err := repo.UpsertDailyLog(l); err != nil {
			return nil, fmt.Errorf("import daily log %s: %w", models.DateKey(l.Date), err)
		}
		summary.DailyLogs++
	}

	for _, b := range data.BloodPressure {
		if err := repo.CreateBloodPressure(b); err != nil {
			return nil, fmt.Errorf("import blood pressure reading %s: %w", b.ID, err)
		}
		summary.BloodPressure++
	}

	for _, m := range data.Measurements {
		if err := repo.UpsertBodyMeasurement(m); err != nil {
			return nil, fmt.Errorf("import body measurement %s: %w", models.DateKey(m.Date), err)
		}
		summary.Measurements++
	}

	return summary, nil
}

// ExportJSON exports all records as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all records as YAML.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ParseExport decodes an export produced by ExportJSON or ExportYAML.
// format is "json" or "yaml"; an empty format sniffs the first byte.
func ParseExport(raw []byte, format string) (*ExportData, error) {
	if format == "" {
		format = "yaml"
		if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "{") {
			format = "json"
		}
	}

	var data ExportData
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}
	return &data, nil
}

// ExportMarkdown renders records in r as Markdown tables.
func ExportMarkdown(repo Repository, r DateRange) (string, error) {
	logs, err := repo.ListDailyLogs(r)
	if err != nil {
		return "", err
	}
	readings, err := repo.ListBloodPressure(r)
	if err != nil {
		return "", err
	}
	measurements, err := repo.ListBodyMeasurements(r)
	if err != nil {
		return "", err
	}
	sessions, err := repo.ListSessions(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()
	fmt.Fprintf(&sb, "# Health Export - %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format(time.RFC3339))

	if len(logs) > 0 {
		sb.WriteString("## Daily Logs\n\n")
		sb.WriteString("| Date | Weight | Calories | Protein | Carbs | Fat | Steps | Notes |\n")
		sb.WriteString("|------|--------|----------|---------|-------|-----|-------|-------|\n")
		for _, l := range logs {
			fmt.Fprintf(&sb, "| %s | %.1f | %d | %.0fg | %.0fg | %.0fg | %d | %s |\n",
				models.DateKey(l.Date), l.Weight, l.Calories, l.ProteinGrams, l.CarbsGrams, l.FatGrams, l.Steps, l.Notes)
		}
		sb.WriteString("\n")
	}

	if len(readings) > 0 {
		sb.WriteString("## Blood Pressure\n\n")
		sb.WriteString("| Time | Reading | Pulse | Notes |\n")
		sb.WriteString("|------|---------|-------|-------|\n")
		for _, b := range readings {
			pulse := ""
			if b.Pulse != nil {
				pulse = fmt.Sprintf("%d", *b.Pulse)
			}
			fmt.Fprintf(&sb, "| %s | %d/%d | %s | %s |\n",
				b.RecordedAt.Format("2006-01-02 15:04"), b.Systolic, b.Diastolic, pulse, b.Notes)
		}
		sb.WriteString("\n")
	}

	if len(measurements) > 0 {
		sb.WriteString("## Body Measurements\n\n")
		sb.WriteString("| Date | Waist | Chest | Arms (L/R) | Thighs (L/R) |\n")
		sb.WriteString("|------|-------|-------|------------|--------------|\n")
		for _, m := range measurements {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s/%s | %s/%s |\n", models.DateKey(m.Date),
				cell(m.Waist), cell(m.Chest), cell(m.LeftArm), cell(m.RightArm), cell(m.LeftThigh), cell(m.RightThigh))
		}
		sb.WriteString("\n")
	}

	if len(sessions) > 0 {
		sb.WriteString("## Workouts\n\n")
		sb.WriteString("| Date | Type | Sets | Notes |\n")
		sb.WriteString("|------|------|------|-------|\n")
		for _, s := range sessions {
			sets, err := repo.ListSets(&s.ID)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n", models.DateKey(s.Date), s.WorkoutType, len(sets), s.Notes)
		}
	}

	return sb.String(), nil
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
