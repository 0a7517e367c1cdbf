// ABOUTME: MCP tool implementations for health logging and analysis.
// ABOUTME: Provides data entry, listing, correlation, progress, trend and dashboard tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/models"
	"github.com/harperreed/healthopt/internal/storage"
)

func (s *Server) registerTools() {
	// log_daily
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_daily",
		Description: "Record or replace the daily log (weight, calories, macros, steps, energy, sleep) for a date",
	}, s.handleLogDaily)

	// log_blood_pressure
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_blood_pressure",
		Description: "Record a blood pressure reading",
	}, s.handleLogBloodPressure)

	// log_measurement
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_measurement",
		Description: "Record body measurements for a date, merging with any already logged that day",
	}, s.handleLogMeasurement)

	// log_sets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_sets",
		Description: "Log sets of one exercise on a date, creating the workout session and exercise if needed",
	}, s.handleLogSets)

	// list_daily
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_daily",
		Description: "List daily logs for recent days",
	}, s.handleListDaily)

	// list_blood_pressure
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_blood_pressure",
		Description: "List blood pressure readings for recent days",
	}, s.handleListBloodPressure)

	// analyze_report
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_report",
		Description: "Run every analysis and return the full report with recommendations",
	}, s.handleAnalyzeReport)

	// analyze_correlation
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_correlation",
		Description: "Correlate a daily predictor with systolic blood pressure and find its optimal range",
	}, s.handleAnalyzeCorrelation)

	// exercise_progress
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_progress",
		Description: "Show estimated 1RM progression for one exercise",
	}, s.handleExerciseProgress)

	// get_trend
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_trend",
		Description: "Classify body recomposition from recent strength, weight and waist trends",
	}, s.handleGetTrend)

	// dashboard
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dashboard",
		Description: "Summary averages, blood pressure and body measurement changes",
	}, s.handleDashboard)
}

// Tool input/output types

type logDailyInput struct {
	Date       string   `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Weight     float64  `json:"weight,omitempty" jsonschema:"Body weight"`
	Calories   int      `json:"calories,omitempty" jsonschema:"Calories eaten"`
	Protein    float64  `json:"protein,omitempty" jsonschema:"Protein in grams"`
	Carbs      float64  `json:"carbs,omitempty" jsonschema:"Carbohydrates in grams"`
	Fat        float64  `json:"fat,omitempty" jsonschema:"Fat in grams"`
	Steps      int      `json:"steps,omitempty" jsonschema:"Step count"`
	Energy     *int     `json:"energy,omitempty" jsonschema:"Energy level from 1 to 10"`
	SleepHours *float64 `json:"sleep_hours,omitempty" jsonschema:"Hours slept"`
	Notes      string   `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type recordOutput struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type logBloodPressureInput struct {
	Systolic   int    `json:"systolic" jsonschema:"Systolic pressure in mmHg"`
	Diastolic  int    `json:"diastolic" jsonschema:"Diastolic pressure in mmHg"`
	Pulse      *int   `json:"pulse,omitempty" jsonschema:"Pulse in beats per minute"`
	RecordedAt string `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601 or YYYY-MM-DD HH:MM), defaults to now"`
	Notes      string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type logMeasurementInput struct {
	Date       string  `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Waist      float64 `json:"waist,omitempty" jsonschema:"Waist circumference"`
	Chest      float64 `json:"chest,omitempty" jsonschema:"Chest circumference"`
	LeftArm    float64 `json:"left_arm,omitempty" jsonschema:"Left arm circumference"`
	RightArm   float64 `json:"right_arm,omitempty" jsonschema:"Right arm circumference"`
	LeftThigh  float64 `json:"left_thigh,omitempty" jsonschema:"Left thigh circumference"`
	RightThigh float64 `json:"right_thigh,omitempty" jsonschema:"Right thigh circumference"`
	Neck       float64 `json:"neck,omitempty" jsonschema:"Neck circumference"`
	Hips       float64 `json:"hips,omitempty" jsonschema:"Hip circumference"`
	Notes      string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type setInput struct {
	Reps   int     `json:"reps" jsonschema:"Repetitions performed"`
	Weight float64 `json:"weight" jsonschema:"Weight lifted"`
	RPE    *int    `json:"rpe,omitempty" jsonschema:"Rate of perceived exertion from 1 to 10"`
}

type logSetsInput struct {
	Date        string     `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Exercise    string     `json:"exercise" jsonschema:"Exercise name"`
	WorkoutType string     `json:"workout_type,omitempty" jsonschema:"Workout type for a new session, defaults to Strength"`
	Sets        []setInput `json:"sets" jsonschema:"Sets to log in order"`
	Notes       string     `json:"notes,omitempty" jsonschema:"Notes for a new session"`
}

type logSetsOutput struct {
	SessionID string   `json:"session_id"`
	Exercise  string   `json:"exercise"`
	SetIDs    []string `json:"set_ids"`
	BestE1RM  float64  `json:"best_e1rm"`
	Message   string   `json:"message"`
}

type daysInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days to include (default 30)"`
}

type analyzeInput struct {
	Days int `json:"days,omitempty" jsonschema:"Only analyze the last N days; all history when omitted"`
}

type correlationInput struct {
	Predictor string `json:"predictor,omitempty" jsonschema:"Daily predictor: carbs, protein, calories, fat, steps or sleep (default carbs)"`
	Days      int    `json:"days,omitempty" jsonschema:"Only analyze the last N days; all history when omitted"`
}

type progressInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name"`
}

// Tool handlers

func (s *Server) handleLogDaily(ctx context.Context, req *mcp.CallToolRequest, input logDailyInput) (*mcp.CallToolResult, recordOutput, error) {
	date, err := parseDate(input.Date, s.now())
	if err != nil {
		return nil, recordOutput{}, err
	}
	l := models.NewDailyLog(date).
		WithWeight(input.Weight).
		WithMacros(input.Calories, input.Protein, input.Carbs, input.Fat).
		WithSteps(input.Steps).
		WithNotes(input.Notes)
	if input.Energy != nil {
		l.WithEnergy(*input.Energy)
	}
	if input.SleepHours != nil {
		l.WithSleep(*input.SleepHours)
	}
	if err := l.Validate(); err != nil {
		return nil, recordOutput{}, fmt.Errorf("invalid daily log: %w", err)
	}

	if err := s.repo.UpsertDailyLog(l); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to save daily log: %w", err)
	}
	log.Debug("mcp log_daily", "date", models.DateKey(l.Date))

	return nil, recordOutput{
		ID:      l.ID.String()[:8],
		Date:    models.DateKey(l.Date),
		Message: fmt.Sprintf("Logged %s: %.1f weight, %d kcal, %.0fg carbs (ID: %s)", models.DateKey(l.Date), l.Weight, l.Calories, l.CarbsGrams, l.ID.String()[:8]),
	}, nil
}

func (s *Server) handleLogBloodPressure(ctx context.Context, req *mcp.CallToolRequest, input logBloodPressureInput) (*mcp.CallToolResult, recordOutput, error) {
	b := models.NewBloodPressureReading(input.Systolic, input.Diastolic).WithNotes(input.Notes)
	if input.RecordedAt != "" {
		t, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, recordOutput{}, err
		}
		b.WithRecordedAt(t)
	}
	if input.Pulse != nil {
		b.WithPulse(*input.Pulse)
	}
	if err := b.Validate(); err != nil {
		return nil, recordOutput{}, fmt.Errorf("invalid blood pressure: %w", err)
	}

	if err := s.repo.CreateBloodPressure(b); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to save blood pressure: %w", err)
	}

	return nil, recordOutput{
		ID:      b.ID.String()[:8],
		Date:    models.DateKey(b.RecordedAt),
		Message: fmt.Sprintf("Logged blood pressure %d/%d (ID: %s)", b.Systolic, b.Diastolic, b.ID.String()[:8]),
	}, nil
}

func (s *Server) handleLogMeasurement(ctx context.Context, req *mcp.CallToolRequest, input logMeasurementInput) (*mcp.CallToolResult, recordOutput, error) {
	date, err := parseDate(input.Date, s.now())
	if err != nil {
		return nil, recordOutput{}, err
	}

	m := models.NewBodyMeasurement(date)
	m.Waist = models.Float(input.Waist)
	m.Chest = models.Float(input.Chest)
	m.LeftArm = models.Float(input.LeftArm)
	m.RightArm = models.Float(input.RightArm)
	m.LeftThigh = models.Float(input.LeftThigh)
	m.RightThigh = models.Float(input.RightThigh)
	m.Neck = models.Float(input.Neck)
	m.Hips = models.Float(input.Hips)
	m.Notes = input.Notes
	if err := m.Validate(); err != nil {
		return nil, recordOutput{}, fmt.Errorf("invalid measurement: %w", err)
	}

	if err := s.repo.UpsertBodyMeasurement(m); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to save measurement: %w", err)
	}

	return nil, recordOutput{
		ID:      m.ID.String()[:8],
		Date:    models.DateKey(m.Date),
		Message: fmt.Sprintf("Saved measurements for %s (ID: %s)", models.DateKey(m.Date), m.ID.String()[:8]),
	}, nil
}

func (s *Server) handleLogSets(ctx context.Context, req *mcp.CallToolRequest, input logSetsInput) (*mcp.CallToolResult, logSetsOutput, error) {
	date, err := parseDate(input.Date, s.now())
	if err != nil {
		return nil, logSetsOutput{}, err
	}

	sets := make([]storage.SetInput, len(input.Sets))
	for i, in := range input.Sets {
		sets[i] = storage.SetInput{Reps: in.Reps, Weight: in.Weight, RPE: in.RPE}
	}

	res, err := storage.LogExercise(s.repo, storage.LogExerciseRequest{
		Date:        date,
		WorkoutType: input.WorkoutType,
		Exercise:    input.Exercise,
		Sets:        sets,
		Notes:       input.Notes,
	})
	if err != nil {
		return nil, logSetsOutput{}, err
	}

	out := logSetsOutput{
		SessionID: res.Session.ID.String()[:8],
		Exercise:  res.Exercise.Name,
	}
	for _, set := range res.Sets {
		out.SetIDs = append(out.SetIDs, set.ID.String()[:8])
		if e, err := analysis.E1RM(set.Weight, set.Reps); err == nil && e > out.BestE1RM {
			out.BestE1RM = e
		}
	}
	out.Message = fmt.Sprintf("Logged %d sets of %s on %s (best e1RM %.1f)",
		len(res.Sets), res.Exercise.Name, models.DateKey(res.Session.Date), out.BestE1RM)
	return nil, out, nil
}

func (s *Server) handleListDaily(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, any, error) {
	if input.Days <= 0 {
		input.Days = 30
	}

	logs, err := s.repo.ListDailyLogs(storage.LastDays(s.now(), input.Days))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	if len(logs) == 0 {
		return nil, map[string]any{"message": "No daily logs found."}, nil
	}
	return nil, map[string]any{"count": len(logs), "logs": logs}, nil
}

func (s *Server) handleListBloodPressure(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, any, error) {
	if input.Days <= 0 {
		input.Days = 30
	}

	readings, err := s.repo.ListBloodPressure(storage.LastDays(s.now(), input.Days))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list blood pressure: %w", err)
	}
	if len(readings) == 0 {
		return nil, map[string]any{"message": "No blood pressure readings found."}, nil
	}
	return nil, map[string]any{"count": len(readings), "readings": readings}, nil
}

func (s *Server) handleAnalyzeReport(ctx context.Context, req *mcp.CallToolRequest, input analyzeInput) (*mcp.CallToolResult, any, error) {
	snap, err := s.snapshot(input.Days)
	if err != nil {
		return nil, nil, err
	}
	report, err := s.engine.Analyze(snap, s.now())
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]any{
		"report":         report,
		"recommendation": report.Recommendation.Text(),
		"trend":          report.Trend.Category.Label(),
	}, nil
}

func (s *Server) handleAnalyzeCorrelation(ctx context.Context, req *mcp.CallToolRequest, input correlationInput) (*mcp.CallToolResult, any, error) {
	predictor := analysis.PredictorCarbs
	if input.Predictor != "" {
		p, err := analysis.ParsePredictor(input.Predictor)
		if err != nil {
			return nil, nil, err
		}
		predictor = p
	}

	snap, err := s.snapshot(input.Days)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.engine.BloodPressure(snap, predictor)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]any{
		"analysis": res,
		"summary":  describeCorrelation(res),
	}, nil
}

func (s *Server) handleExerciseProgress(ctx context.Context, req *mcp.CallToolRequest, input progressInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Exercise) == "" {
		return nil, nil, errors.New("exercise is required")
	}

	snap, err := s.snapshot(0)
	if err != nil {
		return nil, nil, err
	}
	prog, err := s.engine.Progress(snap, input.Exercise, s.now())
	if err != nil {
		return nil, nil, err
	}
	if !prog.Status.OK() {
		return nil, map[string]any{"message": fmt.Sprintf("No sets logged for %s.", input.Exercise)}, nil
	}
	return nil, prog, nil
}

func (s *Server) handleGetTrend(ctx context.Context, req *mcp.CallToolRequest, input analyzeInput) (*mcp.CallToolResult, any, error) {
	snap, err := s.snapshot(input.Days)
	if err != nil {
		return nil, nil, err
	}
	trend, err := s.engine.Trend(snap, s.now())
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]any{
		"trend": trend,
		"label": trend.Category.Label(),
	}, nil
}

func (s *Server) handleDashboard(ctx context.Context, req *mcp.CallToolRequest, input analyzeInput) (*mcp.CallToolResult, any, error) {
	snap, err := s.snapshot(input.Days)
	if err != nil {
		return nil, nil, err
	}
	return s.dashboard(snap)
}

func (s *Server) dashboard(snap *analysis.Snapshot) (*mcp.CallToolResult, any, error) {
	summary, err := s.engine.Dashboard(snap)
	if err != nil {
		return nil, nil, err
	}
	measurements, err := s.engine.Measurements(snap)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]any{
		"summary":      summary,
		"average_bp":   summary.AverageBP(),
		"measurements": measurements,
	}, nil
}

// describeCorrelation renders a one-line summary of a blood pressure analysis.
func describeCorrelation(a analysis.BloodPressureAnalysis) string {
	c := a.Correlation
	switch c.Status {
	case analysis.StatusOK:
		return fmt.Sprintf("%s %s correlation (r=%.2f, n=%d) between %s and systolic blood pressure",
			c.Strength, c.Direction(), c.Coefficient, c.N, a.Predictor)
	case analysis.StatusUndefined:
		return fmt.Sprintf("Correlation undefined: %s or blood pressure did not vary", a.Predictor)
	default:
		return fmt.Sprintf("Need at least 3 days with both %s and blood pressure logged (have %d)", a.Predictor, len(a.Pairs))
	}
}

// parseDate accepts YYYY-MM-DD or RFC3339; empty means today.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return models.DateOf(now), nil
	}
	if d, err := models.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return models.DateOf(t), nil
}

// parseTimestamp accepts RFC3339 or "YYYY-MM-DD HH:MM" in local time.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: use ISO 8601 or YYYY-MM-DD HH:MM", s)
	}
	return t, nil
}
