// ABOUTME: DailyLog model for per-day nutrition, weight and activity.
// ABOUTME: One log per calendar date; optional energy and sleep fields.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DailyLog is the per-day nutrition/activity record. Date is the unique key.
type DailyLog struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	Date         time.Time `json:"date" yaml:"date"`
	Weight       float64   `json:"weight" yaml:"weight"`
	Calories     int       `json:"calories" yaml:"calories"`
	ProteinGrams float64   `json:"protein_grams" yaml:"protein_grams"`
	CarbsGrams   float64   `json:"carbs_grams" yaml:"carbs_grams"`
	FatGrams     float64   `json:"fat_grams" yaml:"fat_grams"`
	Steps        int       `json:"steps" yaml:"steps"`
	EnergyLevel  *int      `json:"energy_level,omitempty" yaml:"energy_level,omitempty"`
	SleepHours   *float64  `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// NewDailyLog creates a DailyLog for the calendar date of t.
func NewDailyLog(t time.Time) *DailyLog {
	return &DailyLog{
		ID:        uuid.New(),
		Date:      DateOf(t),
		CreatedAt: time.Now(),
	}
}

// WithWeight sets body weight.
func (d *DailyLog) WithWeight(w float64) *DailyLog {
	d.Weight = w
	return d
}

// WithMacros sets calories and macronutrient grams.
func (d *DailyLog) WithMacros(calories int, protein, carbs, fat float64) *DailyLog {
	d.Calories = calories
	d.ProteinGrams = protein
	d.CarbsGrams = carbs
	d.FatGrams = fat
	return d
}

// WithSteps sets the step count.
func (d *DailyLog) WithSteps(steps int) *DailyLog {
	d.Steps = steps
	return d
}

// WithEnergy sets the 1-10 energy level.
func (d *DailyLog) WithEnergy(level int) *DailyLog {
	d.EnergyLevel = &level
	return d
}

// WithSleep sets hours slept.
func (d *DailyLog) WithSleep(hours float64) *DailyLog {
	d.SleepHours = &hours
	return d
}

// WithNotes sets notes on the log.
func (d *DailyLog) WithNotes(notes string) *DailyLog {
	d.Notes = notes
	return d
}

// Validate reports the first field outside its allowed range.
func (d *DailyLog) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"weight", d.Weight},
		{"calories", float64(d.Calories)},
		{"protein", d.ProteinGrams},
		{"carbs", d.CarbsGrams},
		{"fat", d.FatGrams},
		{"steps", float64(d.Steps)},
	} {
		if f.v < 0 {
			return fmt.Errorf("%s %v must not be negative", f.name, f.v)
		}
	}
	if d.EnergyLevel != nil && (*d.EnergyLevel < 1 || *d.EnergyLevel > 10) {
		return fmt.Errorf("energy level %d out of range 1-10", *d.EnergyLevel)
	}
	if d.SleepHours != nil && (*d.SleepHours < 0 || *d.SleepHours > 24) {
		return fmt.Errorf("sleep hours %v out of range 0-24", *d.SleepHours)
	}
	return nil
}
