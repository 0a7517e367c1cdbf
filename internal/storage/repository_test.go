// ABOUTME: Tests for Repository implementations.
// ABOUTME: Every case runs against both the SQLite and Badger backends.
package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/healthopt/internal/models"
)

func TestUpsertDailyLogOnePerDate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		first := models.NewDailyLog(day(0)).WithWeight(180).WithMacros(2200, 150, 200, 70)
		if err := repo.UpsertDailyLog(first); err != nil {
			t.Fatalf("UpsertDailyLog failed: %v", err)
		}

		second := models.NewDailyLog(day(0).Add(20 * time.Hour)).WithWeight(179.2).WithSteps(8000)
		if err := repo.UpsertDailyLog(second); err != nil {
			t.Fatalf("UpsertDailyLog failed: %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("expected upsert to keep ID %s, got %s", first.ID, second.ID)
		}

		logs, err := repo.ListDailyLogs(AllTime())
		if err != nil {
			t.Fatalf("ListDailyLogs failed: %v", err)
		}
		if len(logs) != 1 {
			t.Fatalf("expected 1 log, got %d", len(logs))
		}
		if logs[0].Weight != 179.2 || logs[0].Steps != 8000 {
			t.Errorf("expected replaced fields, got weight=%v steps=%d", logs[0].Weight, logs[0].Steps)
		}
		if logs[0].Calories != 0 {
			t.Errorf("expected calories replaced with 0, got %d", logs[0].Calories)
		}
	})
}

func TestGetDailyLog(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		l := models.NewDailyLog(day(2)).WithWeight(181).WithEnergy(6).WithSleep(7.5).WithNotes("travel")
		if err := repo.UpsertDailyLog(l); err != nil {
			t.Fatalf("UpsertDailyLog failed: %v", err)
		}

		got, err := repo.GetDailyLog(day(2).Add(9 * time.Hour))
		if err != nil {
			t.Fatalf("GetDailyLog failed: %v", err)
		}
		if models.DateKey(got.Date) != "2025-03-03" {
			t.Errorf("Date = %s, want 2025-03-03", models.DateKey(got.Date))
		}
		if got.EnergyLevel == nil || *got.EnergyLevel != 6 {
			t.Errorf("expected energy 6, got %v", got.EnergyLevel)
		}
		if got.SleepHours == nil || *got.SleepHours != 7.5 {
			t.Errorf("expected sleep 7.5, got %v", got.SleepHours)
		}
		if got.Notes != "travel" {
			t.Errorf("Notes = %q, want travel", got.Notes)
		}

		if _, err := repo.GetDailyLog(day(3)); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListDailyLogsRange(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		for _, n := range []int{4, 0, 2, 1, 3} {
			if err := repo.UpsertDailyLog(models.NewDailyLog(day(n)).WithWeight(180 - float64(n))); err != nil {
				t.Fatalf("UpsertDailyLog failed: %v", err)
			}
		}

		logs, err := repo.ListDailyLogs(DateRange{From: day(1), To: day(3)})
		if err != nil {
			t.Fatalf("ListDailyLogs failed: %v", err)
		}
		if len(logs) != 3 {
			t.Fatalf("expected 3 logs, got %d", len(logs))
		}
		for i, want := range []string{"2025-03-02", "2025-03-03", "2025-03-04"} {
			if got := models.DateKey(logs[i].Date); got != want {
				t.Errorf("logs[%d] = %s, want %s", i, got, want)
			}
		}

		recent, err := repo.ListDailyLogs(LastDays(day(4).Add(12*time.Hour), 2))
		if err != nil {
			t.Fatalf("ListDailyLogs failed: %v", err)
		}
		if len(recent) != 2 {
			t.Errorf("expected 2 logs in last 2 days, got %d", len(recent))
		}
	})
}

func TestBloodPressureRangeAndDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		morning := models.NewBloodPressureReading(118, 76).WithRecordedAt(day(1).Add(7 * time.Hour)).WithPulse(60)
		evening := models.NewBloodPressureReading(126, 82).WithRecordedAt(day(1).Add(21 * time.Hour))
		later := models.NewBloodPressureReading(122, 80).WithRecordedAt(day(5).Add(8 * time.Hour))
		for _, b := range []*models.BloodPressureReading{later, evening, morning} {
			if err := repo.CreateBloodPressure(b); err != nil {
				t.Fatalf("CreateBloodPressure failed: %v", err)
			}
		}

		readings, err := repo.ListBloodPressure(DateRange{From: day(1), To: day(1)})
		if err != nil {
			t.Fatalf("ListBloodPressure failed: %v", err)
		}
		if len(readings) != 2 {
			t.Fatalf("expected 2 readings on day 1, got %d", len(readings))
		}
		if readings[0].ID != morning.ID {
			t.Error("expected readings in time order")
		}
		if readings[0].Pulse == nil || *readings[0].Pulse != 60 {
			t.Errorf("expected pulse 60, got %v", readings[0].Pulse)
		}

		if err := repo.DeleteBloodPressure(evening.ID.String()[:8]); err != nil {
			t.Fatalf("DeleteBloodPressure by prefix failed: %v", err)
		}
		all, err := repo.ListBloodPressure(AllTime())
		if err != nil {
			t.Fatalf("ListBloodPressure failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 readings after delete, got %d", len(all))
		}
	})
}

func TestDeleteErrors(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		a := models.NewBloodPressureReading(120, 80)
		a.ID = uuid.MustParse("abcdef01-0000-4000-8000-000000000001")
		b := models.NewBloodPressureReading(121, 81)
		b.ID = uuid.MustParse("abcdef01-0000-4000-8000-000000000002")
		for _, r := range []*models.BloodPressureReading{a, b} {
			if err := repo.CreateBloodPressure(r); err != nil {
				t.Fatalf("CreateBloodPressure failed: %v", err)
			}
		}

		if err := repo.DeleteBloodPressure("abcdef01"); !errors.Is(err, ErrAmbiguous) {
			t.Errorf("expected ErrAmbiguous, got %v", err)
		}
		if err := repo.DeleteBloodPressure("ffffffff"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := repo.DeleteBloodPressure(""); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for empty ID, got %v", err)
		}
		if err := repo.DeleteDailyLog(uuid.New().String()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown daily log, got %v", err)
		}
	})
}

func TestBodyMeasurementMerge(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		first := models.NewBodyMeasurement(day(0))
		first.Waist = models.Float(34.5)
		first.Chest = models.Float(41)
		first.Notes = "first"
		if err := repo.UpsertBodyMeasurement(first); err != nil {
			t.Fatalf("UpsertBodyMeasurement failed: %v", err)
		}

		update := models.NewBodyMeasurement(day(0))
		update.Waist = models.Float(34)
		update.Neck = models.Float(15.5)
		if err := repo.UpsertBodyMeasurement(update); err != nil {
			t.Fatalf("UpsertBodyMeasurement failed: %v", err)
		}

		got, err := repo.GetBodyMeasurement(day(0))
		if err != nil {
			t.Fatalf("GetBodyMeasurement failed: %v", err)
		}
		if got.ID != first.ID {
			t.Error("expected merge to keep the original ID")
		}
		if models.ValueOr(got.Waist, 0) != 34 {
			t.Errorf("Waist = %v, want 34", models.ValueOr(got.Waist, 0))
		}
		if models.ValueOr(got.Chest, 0) != 41 {
			t.Errorf("Chest = %v, want 41 (kept)", models.ValueOr(got.Chest, 0))
		}
		if models.ValueOr(got.Neck, 0) != 15.5 {
			t.Errorf("Neck = %v, want 15.5", models.ValueOr(got.Neck, 0))
		}
		if got.Notes != "first" {
			t.Errorf("Notes = %q, want first (kept)", got.Notes)
		}

		list, err := repo.ListBodyMeasurements(AllTime())
		if err != nil {
			t.Fatalf("ListBodyMeasurements failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("expected 1 measurement, got %d", len(list))
		}
	})
}

func TestExerciseNamesUniqueIgnoringCase(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		if err := repo.CreateExercise(models.NewExercise("Squat")); err != nil {
			t.Fatalf("CreateExercise failed: %v", err)
		}
		if err := repo.CreateExercise(models.NewExercise("squat")); err == nil {
			t.Error("expected duplicate name to be rejected")
		}

		got, err := repo.GetExerciseByName("SQUAT")
		if err != nil {
			t.Fatalf("GetExerciseByName failed: %v", err)
		}
		if got.Name != "Squat" {
			t.Errorf("Name = %q, want Squat", got.Name)
		}
		if _, err := repo.GetExerciseByName("Deadlift"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAddSetRequiresSessionAndExercise(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		e := models.NewExercise("Row")
		if err := repo.CreateExercise(e); err != nil {
			t.Fatalf("CreateExercise failed: %v", err)
		}
		set := models.NewWorkoutSet(uuid.New(), e.ID, 1, 8, 135)
		if err := repo.AddSet(set); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown session, got %v", err)
		}
	})
}

func TestLogExerciseNumbersSets(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		req := LogExerciseRequest{
			Date:     day(0),
			Exercise: "Bench Press",
			Sets:     []SetInput{{Reps: 5, Weight: 185}, {Reps: 5, Weight: 185}},
		}
		first, err := LogExercise(repo, req)
		if err != nil {
			t.Fatalf("LogExercise failed: %v", err)
		}
		if !first.CreatedSession || !first.CreatedExercise {
			t.Error("expected session and exercise to be created")
		}
		if first.Session.WorkoutType != DefaultWorkoutType {
			t.Errorf("WorkoutType = %q, want %q", first.Session.WorkoutType, DefaultWorkoutType)
		}
		if first.Exercise.Category != models.DefaultExerciseCategory {
			t.Errorf("Category = %q, want %q", first.Exercise.Category, models.DefaultExerciseCategory)
		}

		rpe := 9
		second, err := LogExercise(repo, LogExerciseRequest{
			Date:     day(0).Add(18 * time.Hour),
			Exercise: "bench press",
			Sets:     []SetInput{{Reps: 3, Weight: 195, RPE: &rpe}},
		})
		if err != nil {
			t.Fatalf("LogExercise failed: %v", err)
		}
		if second.CreatedSession || second.CreatedExercise {
			t.Error("expected existing session and exercise to be reused")
		}
		if second.Session.ID != first.Session.ID {
			t.Error("expected same session for same date")
		}
		if got := second.Sets[0].SetNumber; got != 3 {
			t.Errorf("SetNumber = %d, want 3", got)
		}

		other, err := LogExercise(repo, LogExerciseRequest{
			Date:     day(0),
			Exercise: "Row",
			Sets:     []SetInput{{Reps: 10, Weight: 95}},
		})
		if err != nil {
			t.Fatalf("LogExercise failed: %v", err)
		}
		if got := other.Sets[0].SetNumber; got != 1 {
			t.Errorf("SetNumber for new exercise = %d, want 1", got)
		}

		sets, err := repo.ListSets(&first.Session.ID)
		if err != nil {
			t.Fatalf("ListSets failed: %v", err)
		}
		if len(sets) != 4 {
			t.Fatalf("expected 4 sets, got %d", len(sets))
		}
		var withRPE int
		for _, s := range sets {
			if s.RPE != nil && *s.RPE == 9 {
				withRPE++
			}
		}
		if withRPE != 1 {
			t.Errorf("expected 1 set with RPE 9, got %d", withRPE)
		}
	})
}

func TestLogExerciseValidation(t *testing.T) {
	tests := []struct {
		name string
		req  LogExerciseRequest
	}{
		{"missing exercise", LogExerciseRequest{Date: day(0), Sets: []SetInput{{Reps: 5, Weight: 100}}}},
		{"no sets", LogExerciseRequest{Date: day(0), Exercise: "Squat"}},
		{"zero reps", LogExerciseRequest{Date: day(0), Exercise: "Squat", Sets: []SetInput{{Reps: 0, Weight: 100}}}},
		{"negative weight", LogExerciseRequest{Date: day(0), Exercise: "Squat", Sets: []SetInput{{Reps: 5, Weight: -1}}}},
	}

	repo := setupTestDB(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LogExercise(repo, tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	sessions, err := repo.ListSessions(AllTime())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected nothing stored, got %d sessions", len(sessions))
	}
}

func TestDeleteSessionCascadesSets(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		res, err := LogExercise(repo, LogExerciseRequest{
			Date:     day(0),
			Exercise: "Deadlift",
			Sets:     []SetInput{{Reps: 5, Weight: 275}, {Reps: 5, Weight: 295}},
		})
		if err != nil {
			t.Fatalf("LogExercise failed: %v", err)
		}
		keep, err := LogExercise(repo, LogExerciseRequest{
			Date:     day(2),
			Exercise: "Deadlift",
			Sets:     []SetInput{{Reps: 3, Weight: 305}},
		})
		if err != nil {
			t.Fatalf("LogExercise failed: %v", err)
		}

		got, err := repo.GetSession(res.Session.ID.String()[:8])
		if err != nil {
			t.Fatalf("GetSession by prefix failed: %v", err)
		}
		if got.ID != res.Session.ID {
			t.Error("GetSession returned the wrong session")
		}

		if err := repo.DeleteSession(res.Session.ID.String()[:8]); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}

		sets, err := repo.ListSets(nil)
		if err != nil {
			t.Fatalf("ListSets failed: %v", err)
		}
		if len(sets) != 1 || sets[0].ID != keep.Sets[0].ID {
			t.Errorf("expected only the other session's set to remain, got %d sets", len(sets))
		}
		if _, err := repo.GetSession(res.Session.ID.String()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		if err := repo.DeleteSet(keep.Sets[0].ID.String()); err != nil {
			t.Fatalf("DeleteSet failed: %v", err)
		}
	})
}

func TestListSetsOrderedBySessionDate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		for _, n := range []int{3, 1} {
			if _, err := LogExercise(repo, LogExerciseRequest{
				Date:     day(n),
				Exercise: "Squat",
				Sets:     []SetInput{{Reps: 5, Weight: 200 + float64(n)}, {Reps: 5, Weight: 210 + float64(n)}},
			}); err != nil {
				t.Fatalf("LogExercise failed: %v", err)
			}
		}

		sets, err := repo.ListSets(nil)
		if err != nil {
			t.Fatalf("ListSets failed: %v", err)
		}
		want := []float64{201, 211, 203, 213}
		if len(sets) != len(want) {
			t.Fatalf("expected %d sets, got %d", len(want), len(sets))
		}
		for i, w := range want {
			if sets[i].Weight != w {
				t.Errorf("sets[%d].Weight = %v, want %v", i, sets[i].Weight, w)
			}
		}
	})
}

func TestLoadSnapshot(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		for n := 0; n < 5; n++ {
			if err := repo.UpsertDailyLog(models.NewDailyLog(day(n)).WithWeight(180).WithMacros(2000, 150, 180, 60)); err != nil {
				t.Fatalf("UpsertDailyLog failed: %v", err)
			}
		}
		if err := repo.CreateBloodPressure(models.NewBloodPressureReading(118, 75).WithRecordedAt(day(3).Add(7 * time.Hour))); err != nil {
			t.Fatalf("CreateBloodPressure failed: %v", err)
		}
		for _, n := range []int{0, 4} {
			if _, err := LogExercise(repo, LogExerciseRequest{
				Date:     day(n),
				Exercise: "Squat",
				Sets:     []SetInput{{Reps: 5, Weight: 225}},
			}); err != nil {
				t.Fatalf("LogExercise failed: %v", err)
			}
		}

		snap, err := LoadSnapshot(repo, DateRange{From: day(2), To: day(4)})
		if err != nil {
			t.Fatalf("LoadSnapshot failed: %v", err)
		}
		if len(snap.DailyLogs) != 3 {
			t.Errorf("DailyLogs = %d, want 3", len(snap.DailyLogs))
		}
		if len(snap.BloodPressure) != 1 {
			t.Errorf("BloodPressure = %d, want 1", len(snap.BloodPressure))
		}
		if len(snap.Sessions) != 1 || len(snap.Sets) != 1 {
			t.Errorf("expected 1 session and 1 set in range, got %d and %d", len(snap.Sessions), len(snap.Sets))
		}
		if len(snap.Exercises) != 1 {
			t.Errorf("Exercises = %d, want 1", len(snap.Exercises))
		}
		if err := snap.Validate(); err != nil {
			t.Errorf("expected loaded snapshot to validate, got %v", err)
		}
	})
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{From: day(1), To: day(3)}
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before", day(0).Add(23 * time.Hour), false},
		{"first day", day(1), true},
		{"last day late", day(3).Add(23 * time.Hour), true},
		{"after", day(4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
	if !AllTime().Contains(day(-1000)) {
		t.Error("expected AllTime to contain everything")
	}
}
