// ABOUTME: CLI command for recording a blood pressure reading.
// ABOUTME: Accepts systolic and diastolic values with optional pulse, timestamp and notes.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/models"
)

var (
	bpAt    string
	bpPulse int
	bpNotes string
)

var bpCmd = &cobra.Command{
	Use:   "bp <systolic> <diastolic>",
	Short: "Record a blood pressure reading",
	Long: `Record a blood pressure reading in mmHg. Several readings per day are allowed;
analysis averages them per date.

EXAMPLES:

  healthopt bp 122 78
  healthopt bp 118 76 --pulse 62
  healthopt bp 131 84 --at "2025-06-14 07:30" --notes "after coffee"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := strconv.Atoi(args[0])
		if err != nil || sys <= 0 {
			return fmt.Errorf("invalid systolic value: %s", args[0])
		}
		dia, err := strconv.Atoi(args[1])
		if err != nil || dia <= 0 {
			return fmt.Errorf("invalid diastolic value: %s", args[1])
		}
		if dia >= sys {
			return fmt.Errorf("diastolic (%d) must be lower than systolic (%d)", dia, sys)
		}

		b := models.NewBloodPressureReading(sys, dia)
		if bpAt != "" {
			t, err := parseTime(bpAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", bpAt)
			}
			b.WithRecordedAt(t)
		}
		if cmd.Flags().Changed("pulse") {
			b.WithPulse(bpPulse)
		}
		if bpNotes != "" {
			b.WithNotes(bpNotes)
		}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("invalid blood pressure: %w", err)
		}

		if err := repo.CreateBloodPressure(b); err != nil {
			return fmt.Errorf("failed to save blood pressure: %w", err)
		}

		color.Green("✓ Added blood pressure")
		fmt.Printf("  %s %d/%d mmHg  %s\n", shortID(b.ID), b.Systolic, b.Diastolic,
			faint.Sprint(b.RecordedAt.Format("2006-01-02 15:04")))
		return nil
	},
}

// parseTime accepts the timestamp formats used by --at flags, in local time unless zoned.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	bpCmd.Flags().StringVar(&bpAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	bpCmd.Flags().IntVar(&bpPulse, "pulse", 0, "pulse in beats per minute")
	bpCmd.Flags().StringVar(&bpNotes, "notes", "", "notes for the reading")
	rootCmd.AddCommand(bpCmd)
}
