// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a temporary SQLite store.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/models"
	"github.com/harperreed/healthopt/internal/storage"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// setupTestServer creates a server over a fresh database with a fixed clock.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "healthopt.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	server, err := NewServer(db, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	server.now = func() time.Time { return testNow }
	return server, db
}

// seedCorrelated logs ten days where systolic pressure rises with carbs.
func seedCorrelated(t *testing.T, db *storage.DB) {
	t.Helper()
	for i := 0; i < 10; i++ {
		d := models.DateOf(testNow).AddDate(0, 0, -i)
		l := models.NewDailyLog(d).WithWeight(180 + float64(i)*0.2).WithMacros(2200, 150, 100+20*float64(i), 70)
		if err := db.UpsertDailyLog(l); err != nil {
			t.Fatalf("UpsertDailyLog failed: %v", err)
		}
		b := models.NewBloodPressureReading(110+2*i, 75).WithRecordedAt(d.Add(8 * time.Hour))
		if err := db.CreateBloodPressure(b); err != nil {
			t.Fatalf("CreateBloodPressure failed: %v", err)
		}
	}
}

func resultMap(t *testing.T, out any) map[string]any {
	t.Helper()
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map output, got %T", out)
	}
	return m
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.engine == nil {
		t.Error("Expected default engine")
	}
}

func TestHandleLogDaily(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	energy := 8
	badEnergy := 0
	longSleep := 30.0

	tests := []struct {
		name      string
		input     logDailyInput
		wantDate  string
		wantErr   bool
		errSubstr string
	}{
		{
			name:     "defaults to today",
			input:    logDailyInput{Weight: 181.2, Calories: 2100, Carbs: 150},
			wantDate: "2025-06-15",
		},
		{
			name:     "explicit date with energy",
			input:    logDailyInput{Date: "2025-06-10", Protein: 160, Energy: &energy},
			wantDate: "2025-06-10",
		},
		{
			name:     "RFC3339 date",
			input:    logDailyInput{Date: "2025-06-11T21:30:00Z", Steps: 12000},
			wantDate: "2025-06-11",
		},
		{
			name:      "invalid date",
			input:     logDailyInput{Date: "June 10"},
			wantErr:   true,
			errSubstr: "invalid date",
		},
		{
			name:      "negative value",
			input:     logDailyInput{Calories: -5},
			wantErr:   true,
			errSubstr: "negative",
		},
		{
			name:      "negative steps",
			input:     logDailyInput{Date: "2025-06-01", Steps: -5},
			wantErr:   true,
			errSubstr: "steps",
		},
		{
			name:      "sleep over a day",
			input:     logDailyInput{Date: "2025-06-01", SleepHours: &longSleep},
			wantErr:   true,
			errSubstr: "sleep hours",
		},
		{
			name:      "energy out of range",
			input:     logDailyInput{Date: "2025-06-01", Energy: &badEnergy},
			wantErr:   true,
			errSubstr: "energy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleLogDaily(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.Date != tt.wantDate {
				t.Errorf("Date = %s, want %s", output.Date, tt.wantDate)
			}
			if len(output.ID) != 8 {
				t.Errorf("expected 8-character ID, got %q", output.ID)
			}
			if output.Message == "" {
				t.Error("Expected non-empty Message")
			}
		})
	}

	// Logging the same day again replaces the record.
	if _, _, err := server.handleLogDaily(ctx, &mcp.CallToolRequest{}, logDailyInput{Weight: 180}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got, err := db.GetDailyLog(testNow)
	if err != nil {
		t.Fatalf("GetDailyLog failed: %v", err)
	}
	if got.Weight != 180 || got.Calories != 0 {
		t.Errorf("expected replaced log, got weight=%v calories=%d", got.Weight, got.Calories)
	}
}

func TestHandleLogBloodPressure(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	pulse := 64
	noPulse := 0

	tests := []struct {
		name     string
		input    logBloodPressureInput
		wantDate string
		wantErr  bool
	}{
		{"now", logBloodPressureInput{Systolic: 118, Diastolic: 76}, "", false},
		{"RFC3339", logBloodPressureInput{Systolic: 122, Diastolic: 80, RecordedAt: "2025-06-14T07:00:00Z", Pulse: &pulse}, "2025-06-14", false},
		{"simple timestamp", logBloodPressureInput{Systolic: 125, Diastolic: 82, RecordedAt: "2025-06-13 19:45"}, "2025-06-13", false},
		{"zero systolic", logBloodPressureInput{Systolic: 0, Diastolic: 80}, "", true},
		{"zero pulse", logBloodPressureInput{Systolic: 120, Diastolic: 80, Pulse: &noPulse}, "", true},
		{"bad timestamp", logBloodPressureInput{Systolic: 120, Diastolic: 80, RecordedAt: "yesterday"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleLogBloodPressure(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantDate != "" && output.Date != tt.wantDate {
				t.Errorf("Date = %s, want %s", output.Date, tt.wantDate)
			}
		})
	}

	readings, err := db.ListBloodPressure(storage.AllTime())
	if err != nil {
		t.Fatalf("ListBloodPressure failed: %v", err)
	}
	if len(readings) != 3 {
		t.Errorf("expected 3 stored readings, got %d", len(readings))
	}
}

func TestHandleLogMeasurementMerges(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleLogMeasurement(ctx, &mcp.CallToolRequest{}, logMeasurementInput{Waist: 34, Chest: 42}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, _, err := server.handleLogMeasurement(ctx, &mcp.CallToolRequest{}, logMeasurementInput{Waist: 33.5, LeftArm: 15}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m, err := db.GetBodyMeasurement(testNow)
	if err != nil {
		t.Fatalf("GetBodyMeasurement failed: %v", err)
	}
	if models.ValueOr(m.Waist, 0) != 33.5 || models.ValueOr(m.Chest, 0) != 42 || models.ValueOr(m.LeftArm, 0) != 15 {
		t.Errorf("unexpected merged measurement: waist=%v chest=%v left_arm=%v",
			models.ValueOr(m.Waist, 0), models.ValueOr(m.Chest, 0), models.ValueOr(m.LeftArm, 0))
	}
	if m.RightArm != nil {
		t.Error("expected unset fields to stay nil")
	}
}

func TestHandleLogSets(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleLogSets(ctx, &mcp.CallToolRequest{}, logSetsInput{
		Exercise: "Squat",
		Sets:     []setInput{{Reps: 5, Weight: 200}, {Reps: 3, Weight: 210}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(out.SetIDs) != 2 {
		t.Errorf("expected 2 set IDs, got %d", len(out.SetIDs))
	}
	if out.BestE1RM != 233.3 {
		t.Errorf("BestE1RM = %v, want 233.3", out.BestE1RM)
	}

	if _, _, err := server.handleLogSets(ctx, &mcp.CallToolRequest{}, logSetsInput{
		Exercise: "squat",
		Sets:     []setInput{{Reps: 8, Weight: 185}},
	}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sets, err := db.ListSets(nil)
	if err != nil {
		t.Fatalf("ListSets failed: %v", err)
	}
	if len(sets) != 3 || sets[2].SetNumber != 3 {
		t.Errorf("expected third set numbered 3, got %d sets", len(sets))
	}

	if _, _, err := server.handleLogSets(ctx, &mcp.CallToolRequest{}, logSetsInput{
		Exercise: "Squat",
		Sets:     []setInput{{Reps: 0, Weight: 185}},
	}); err == nil {
		t.Error("Expected error for zero reps")
	}
}

func TestHandleListDaily(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListDaily(ctx, &mcp.CallToolRequest{}, daysInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := resultMap(t, out)["message"]; !ok {
		t.Error("expected message for empty results")
	}

	seedCorrelated(t, db)
	_, out, err = server.handleListDaily(ctx, &mcp.CallToolRequest{}, daysInput{Days: 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := resultMap(t, out)["count"]; got != 5 {
		t.Errorf("count = %v, want 5", got)
	}
}

func TestHandleListBloodPressure(t *testing.T) {
	server, db := setupTestServer(t)
	seedCorrelated(t, db)

	_, out, err := server.handleListBloodPressure(context.Background(), &mcp.CallToolRequest{}, daysInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := resultMap(t, out)["count"]; got != 10 {
		t.Errorf("count = %v, want 10", got)
	}
}

func TestHandleAnalyzeReport(t *testing.T) {
	server, db := setupTestServer(t)
	seedCorrelated(t, db)

	_, out, err := server.handleAnalyzeReport(context.Background(), &mcp.CallToolRequest{}, analyzeInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result := resultMap(t, out)
	report, ok := result["report"].(*analysis.Report)
	if !ok {
		t.Fatalf("expected *analysis.Report, got %T", result["report"])
	}

	c := report.BloodPressure.Correlation
	if !c.Status.OK() {
		t.Fatalf("correlation status = %s, want ok", c.Status)
	}
	if c.Strength != analysis.StrengthStrong || !c.Positive() {
		t.Errorf("expected strong positive correlation, got %s r=%.2f", c.Strength, c.Coefficient)
	}
	text, _ := result["recommendation"].(string)
	if !strings.Contains(text, "carbs") {
		t.Errorf("recommendation should mention carbs: %q", text)
	}
	if _, err := json.Marshal(out); err != nil {
		t.Errorf("report should marshal to JSON: %v", err)
	}
}

func TestRejectedEntriesKeepAnalysisUsable(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	longSleep := 30.0

	if _, _, err := server.handleLogDaily(ctx, &mcp.CallToolRequest{}, logDailyInput{Date: "2025-06-01", Steps: -5, SleepHours: &longSleep}); err == nil {
		t.Fatal("Expected invalid daily log to be rejected")
	}
	if _, _, err := server.handleAnalyzeReport(ctx, &mcp.CallToolRequest{}, analyzeInput{}); err != nil {
		t.Errorf("analyze_report failed after rejected entry: %v", err)
	}
	if _, _, err := server.handleDashboard(ctx, &mcp.CallToolRequest{}, analyzeInput{}); err != nil {
		t.Errorf("dashboard failed after rejected entry: %v", err)
	}
}

func TestHandleAnalyzeReportEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	_, out, err := server.handleAnalyzeReport(context.Background(), &mcp.CallToolRequest{}, analyzeInput{Days: 30})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text, _ := resultMap(t, out)["recommendation"].(string)
	if !strings.Contains(text, analysis.PlaceholderAdvice) {
		t.Errorf("expected placeholder advice, got %q", text)
	}
}

func TestHandleAnalyzeCorrelation(t *testing.T) {
	server, db := setupTestServer(t)
	seedCorrelated(t, db)
	ctx := context.Background()

	_, out, err := server.handleAnalyzeCorrelation(ctx, &mcp.CallToolRequest{}, correlationInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	summary, _ := resultMap(t, out)["summary"].(string)
	if !strings.HasPrefix(summary, "Strong positive") {
		t.Errorf("summary = %q, want Strong positive...", summary)
	}

	// Protein is constant in the seed data.
	_, out, err = server.handleAnalyzeCorrelation(ctx, &mcp.CallToolRequest{}, correlationInput{Predictor: "protein"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	a, ok := resultMap(t, out)["analysis"].(analysis.BloodPressureAnalysis)
	if !ok {
		t.Fatalf("expected BloodPressureAnalysis, got %T", resultMap(t, out)["analysis"])
	}
	if a.Correlation.Status != analysis.StatusUndefined {
		t.Errorf("status = %s, want undefined", a.Correlation.Status)
	}

	if _, _, err := server.handleAnalyzeCorrelation(ctx, &mcp.CallToolRequest{}, correlationInput{Predictor: "sodium"}); err == nil {
		t.Error("Expected error for unknown predictor")
	}
}

func TestHandleExerciseProgress(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleExerciseProgress(ctx, &mcp.CallToolRequest{}, progressInput{}); err == nil {
		t.Error("Expected error for missing exercise")
	}

	_, out, err := server.handleExerciseProgress(ctx, &mcp.CallToolRequest{}, progressInput{Exercise: "Bench"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := resultMap(t, out)["message"]; !ok {
		t.Error("expected message for unknown exercise")
	}

	for i, w := range []float64{200, 220} {
		if _, _, err := server.handleLogSets(ctx, &mcp.CallToolRequest{}, logSetsInput{
			Date:     models.DateKey(testNow.AddDate(0, 0, -7*(1-i))),
			Exercise: "Squat",
			Sets:     []setInput{{Reps: 5, Weight: w}},
		}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	_, out, err = server.handleExerciseProgress(ctx, &mcp.CallToolRequest{}, progressInput{Exercise: "squat"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	prog, ok := out.(analysis.ExerciseProgress)
	if !ok {
		t.Fatalf("expected ExerciseProgress, got %T", out)
	}
	if prog.PersonalRecord != 256.7 {
		t.Errorf("PersonalRecord = %v, want 256.7", prog.PersonalRecord)
	}
	if prog.TotalSets != 2 || len(prog.Days) != 2 {
		t.Errorf("expected 2 sets over 2 days, got %d sets, %d days", prog.TotalSets, len(prog.Days))
	}
}

func TestHandleGetTrend(t *testing.T) {
	server, db := setupTestServer(t)
	seedCorrelated(t, db)

	_, out, err := server.handleGetTrend(context.Background(), &mcp.CallToolRequest{}, analyzeInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result := resultMap(t, out)
	if _, ok := result["trend"].(analysis.TrendResult); !ok {
		t.Errorf("expected TrendResult, got %T", result["trend"])
	}
	if label, _ := result["label"].(string); label == "" {
		t.Error("expected non-empty label")
	}
}

func TestHandleDashboard(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleDashboard(ctx, &mcp.CallToolRequest{}, analyzeInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := resultMap(t, out)["average_bp"]; got != "--" {
		t.Errorf("average_bp = %v, want --", got)
	}

	seedCorrelated(t, db)
	_, out, err = server.handleDashboard(ctx, &mcp.CallToolRequest{}, analyzeInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	summary, ok := resultMap(t, out)["summary"].(analysis.DashboardSummary)
	if !ok {
		t.Fatalf("expected DashboardSummary, got %T", resultMap(t, out)["summary"])
	}
	if summary.DaysLogged != 10 || summary.ReadingCount != 10 {
		t.Errorf("expected 10 days and readings, got %d and %d", summary.DaysLogged, summary.ReadingCount)
	}
	if got := resultMap(t, out)["average_bp"]; got != "119/75" {
		t.Errorf("average_bp = %v, want 119/75", got)
	}
}

func TestResources(t *testing.T) {
	server, db := setupTestServer(t)
	seedCorrelated(t, db)
	ctx := context.Background()

	tests := []struct {
		uri     string
		handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
		key     string
	}{
		{"health://report", server.handleReportResource, "recommendation"},
		{"health://dashboard", server.handleDashboardResource, "average_bp"},
		{"health://recent", server.handleRecentResource, "counts"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			result, err := tt.handler(ctx, &mcp.ReadResourceRequest{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(result.Contents) != 1 {
				t.Fatalf("expected 1 content, got %d", len(result.Contents))
			}
			c := result.Contents[0]
			if c.URI != tt.uri {
				t.Errorf("URI = %s, want %s", c.URI, tt.uri)
			}
			if c.MIMEType != "application/json" {
				t.Errorf("MIMEType = %s, want application/json", c.MIMEType)
			}

			var body map[string]any
			if err := json.Unmarshal([]byte(c.Text), &body); err != nil {
				t.Fatalf("resource text is not JSON: %v", err)
			}
			if _, ok := body[tt.key]; !ok {
				t.Errorf("expected key %q in %s", tt.key, tt.uri)
			}
		})
	}
}

func TestRecentResourceWindow(t *testing.T) {
	server, db := setupTestServer(t)
	seedCorrelated(t, db)

	result, err := server.handleRecentResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var body struct {
		Counts map[string]int `json:"counts"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if body.Counts["daily_logs"] != recentDays {
		t.Errorf("daily_logs = %d, want %d", body.Counts["daily_logs"], recentDays)
	}
}
