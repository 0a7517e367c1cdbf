// ABOUTME: Copies records out of a repository into an analysis snapshot.
// ABOUTME: All storage I/O happens here, before the engine runs.
package storage

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/healthopt/internal/analysis"
)

// LoadSnapshot reads every collection in r into value slices.
// Sets are included when their session is in range; exercises are always included.
func LoadSnapshot(repo Repository, r DateRange) (*analysis.Snapshot, error) {
	snap := &analysis.Snapshot{}

	logs, err := repo.ListDailyLogs(r)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	for _, l := range logs {
		snap.DailyLogs = append(snap.DailyLogs, *l)
	}

	readings, err := repo.ListBloodPressure(r)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	for _, b := range readings {
		snap.BloodPressure = append(snap.BloodPressure, *b)
	}

	measurements, err := repo.ListBodyMeasurements(r)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	for _, m := range measurements {
		snap.Measurements = append(snap.Measurements, *m)
	}

	sessions, err := repo.ListSessions(r)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	inRange := make(map[uuid.UUID]bool, len(sessions))
	for _, s := range sessions {
		snap.Sessions = append(snap.Sessions, *s)
		inRange[s.ID] = true
	}

	sets, err := repo.ListSets(nil)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	for _, s := range sets {
		if inRange[s.SessionID] {
			snap.Sets = append(snap.Sets, *s)
		}
	}

	exercises, err := repo.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	for _, e := range exercises {
		snap.Exercises = append(snap.Exercises, *e)
	}

	return snap, nil
}
