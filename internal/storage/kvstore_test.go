// ABOUTME: Tests specific to the Badger backend.
// ABOUTME: Covers concurrent date upserts and create-once keys.
package storage

import (
	"sync"
	"testing"

	"github.com/harperreed/healthopt/internal/models"
)

func TestKVConcurrentUpsertsShareOneRecord(t *testing.T) {
	kv := setupTestKV(t)

	const writers = 8
	logs := make([]*models.DailyLog, writers)
	measurements := make([]*models.BodyMeasurement, writers)
	errs := make([]error, 2*writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		logs[i] = models.NewDailyLog(day(0)).WithSteps(1000 * (i + 1))
		measurements[i] = models.NewBodyMeasurement(day(0))
		measurements[i].Waist = models.Float(80 + float64(i))
		if i == 0 {
			measurements[i].Neck = models.Float(39)
		}

		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs[i] = kv.UpsertDailyLog(logs[i])
		}(i)
		go func(i int) {
			defer wg.Done()
			errs[writers+i] = kv.UpsertBodyMeasurement(measurements[i])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	stored, err := kv.ListDailyLogs(AllTime())
	if err != nil {
		t.Fatalf("ListDailyLogs failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 daily log, got %d", len(stored))
	}
	for i, l := range logs {
		if l.ID != stored[0].ID {
			t.Errorf("writer %d kept ID %s, stored record has %s", i, l.ID, stored[0].ID)
		}
	}

	m, err := kv.GetBodyMeasurement(day(0))
	if err != nil {
		t.Fatalf("GetBodyMeasurement failed: %v", err)
	}
	if models.ValueOr(m.Neck, 0) != 39 {
		t.Errorf("Neck = %v, want 39 kept across merges", models.ValueOr(m.Neck, 0))
	}
	if m.Waist == nil {
		t.Error("expected waist set")
	}
}

func TestKVCreateOnceRefusesDuplicate(t *testing.T) {
	kv := setupTestKV(t)

	b := models.NewBloodPressureReading(120, 80).WithRecordedAt(day(0))
	if err := kv.CreateBloodPressure(b); err != nil {
		t.Fatalf("CreateBloodPressure failed: %v", err)
	}
	if err := kv.CreateBloodPressure(b); err == nil {
		t.Error("expected error creating the same reading twice")
	}

	readings, err := kv.ListBloodPressure(AllTime())
	if err != nil {
		t.Fatalf("ListBloodPressure failed: %v", err)
	}
	if len(readings) != 1 {
		t.Errorf("expected 1 reading, got %d", len(readings))
	}
}
