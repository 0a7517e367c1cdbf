// ABOUTME: BodyMeasurement model for circumference measurements.
// ABOUTME: Every field is optional; one measurement per date, merged on update.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BodyMeasurement holds circumferences taken on one date.
type BodyMeasurement struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Date       time.Time `json:"date" yaml:"date"`
	Waist      *float64  `json:"waist,omitempty" yaml:"waist,omitempty"`
	Chest      *float64  `json:"chest,omitempty" yaml:"chest,omitempty"`
	LeftArm    *float64  `json:"left_arm,omitempty" yaml:"left_arm,omitempty"`
	RightArm   *float64  `json:"right_arm,omitempty" yaml:"right_arm,omitempty"`
	LeftThigh  *float64  `json:"left_thigh,omitempty" yaml:"left_thigh,omitempty"`
	RightThigh *float64  `json:"right_thigh,omitempty" yaml:"right_thigh,omitempty"`
	Neck       *float64  `json:"neck,omitempty" yaml:"neck,omitempty"`
	Hips       *float64  `json:"hips,omitempty" yaml:"hips,omitempty"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewBodyMeasurement creates an empty measurement for the date of t.
func NewBodyMeasurement(t time.Time) *BodyMeasurement {
	return &BodyMeasurement{
		ID:        uuid.New(),
		Date:      DateOf(t),
		CreatedAt: time.Now(),
	}
}

// Merge copies every positive field set on other into m. Notes are replaced only when other has some.
func (m *BodyMeasurement) Merge(other *BodyMeasurement) {
	merge := func(dst **float64, src *float64) {
		if src != nil && *src > 0 {
			v := *src
			*dst = &v
		}
	}
	merge(&m.Waist, other.Waist)
	merge(&m.Chest, other.Chest)
	merge(&m.LeftArm, other.LeftArm)
	merge(&m.RightArm, other.RightArm)
	merge(&m.LeftThigh, other.LeftThigh)
	merge(&m.RightThigh, other.RightThigh)
	merge(&m.Neck, other.Neck)
	merge(&m.Hips, other.Hips)
	if other.Notes != "" {
		m.Notes = other.Notes
	}
}

// Validate rejects negative circumferences.
func (m *BodyMeasurement) Validate() error {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"waist", m.Waist},
		{"chest", m.Chest},
		{"left arm", m.LeftArm},
		{"right arm", m.RightArm},
		{"left thigh", m.LeftThigh},
		{"right thigh", m.RightThigh},
		{"neck", m.Neck},
		{"hips", m.Hips},
	} {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s %v must not be negative", f.name, *f.v)
		}
	}
	return nil
}

// Float returns a pointer to v, or nil when v is not positive.
// Form inputs use zero for "not measured".
func Float(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

// ValueOr dereferences p, returning def when p is nil.
func ValueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
