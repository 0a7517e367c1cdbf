// ABOUTME: BloodPressureReading model for timestamped BP samples.
// ABOUTME: Several readings per day are allowed; pulse is optional.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BloodPressureReading is a single systolic/diastolic sample.
type BloodPressureReading struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
	Systolic   int       `json:"systolic" yaml:"systolic"`
	Diastolic  int       `json:"diastolic" yaml:"diastolic"`
	Pulse      *int      `json:"pulse,omitempty" yaml:"pulse,omitempty"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewBloodPressureReading creates a reading recorded now.
func NewBloodPressureReading(systolic, diastolic int) *BloodPressureReading {
	now := time.Now()
	return &BloodPressureReading{
		ID:         uuid.New(),
		RecordedAt: now,
		Systolic:   systolic,
		Diastolic:  diastolic,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom reading timestamp.
func (b *BloodPressureReading) WithRecordedAt(t time.Time) *BloodPressureReading {
	b.RecordedAt = t
	return b
}

// WithPulse sets the pulse in bpm.
func (b *BloodPressureReading) WithPulse(bpm int) *BloodPressureReading {
	b.Pulse = &bpm
	return b
}

// WithNotes sets notes on the reading.
func (b *BloodPressureReading) WithNotes(notes string) *BloodPressureReading {
	b.Notes = notes
	return b
}

// Validate requires positive pressures and, when present, a positive pulse.
func (b *BloodPressureReading) Validate() error {
	if b.Systolic <= 0 || b.Diastolic <= 0 {
		return fmt.Errorf("reading %d/%d: values must be positive", b.Systolic, b.Diastolic)
	}
	if b.Pulse != nil && *b.Pulse <= 0 {
		return fmt.Errorf("pulse %d must be positive", *b.Pulse)
	}
	return nil
}
