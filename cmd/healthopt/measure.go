// ABOUTME: CLI command for recording body measurements.
// ABOUTME: Values merge into the measurement already stored for the date.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/models"
)

var (
	measureDate       string
	measureWaist      float64
	measureChest      float64
	measureLeftArm    float64
	measureRightArm   float64
	measureLeftThigh  float64
	measureRightThigh float64
	measureNeck       float64
	measureHips       float64
	measureNotes      string
)

var measureCmd = &cobra.Command{
	Use:     "measure",
	Aliases: []string{"m"},
	Short:   "Record body measurements",
	Long: `Record body circumference measurements. Only the values you pass are updated;
measurements already taken on the same date are kept.

EXAMPLES:

  healthopt measure --waist 86.5
  healthopt measure --chest 104 --left-arm 36.5 --right-arm 37
  healthopt measure --date 2025-06-01 --left-thigh 58 --right-thigh 58.5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(measureDate)
		if err != nil {
			return err
		}

		m := models.NewBodyMeasurement(date)
		m.Waist = models.Float(measureWaist)
		m.Chest = models.Float(measureChest)
		m.LeftArm = models.Float(measureLeftArm)
		m.RightArm = models.Float(measureRightArm)
		m.LeftThigh = models.Float(measureLeftThigh)
		m.RightThigh = models.Float(measureRightThigh)
		m.Neck = models.Float(measureNeck)
		m.Hips = models.Float(measureHips)
		if cmd.Flags().Changed("notes") {
			m.Notes = measureNotes
		}

		fields := measurementFields(m)
		if len(fields) == 0 {
			return errors.New("nothing to record: pass at least one positive measurement")
		}

		if err := repo.UpsertBodyMeasurement(m); err != nil {
			return fmt.Errorf("failed to save measurement: %w", err)
		}

		saved, err := repo.GetBodyMeasurement(date)
		if err != nil {
			return fmt.Errorf("failed to reload measurement: %w", err)
		}

		color.Green("✓ Recorded measurements for %s", models.DateKey(date))
		fmt.Printf("  %s %s\n", shortID(saved.ID), strings.Join(measurementFields(saved), "  "))
		return nil
	},
}

// measurementFields lists the set fields of m as "name value" strings.
func measurementFields(m *models.BodyMeasurement) []string {
	var out []string
	add := func(name string, v *float64) {
		if v != nil {
			out = append(out, fmt.Sprintf("%s %.1f", name, *v))
		}
	}
	add("waist", m.Waist)
	add("chest", m.Chest)
	add("l-arm", m.LeftArm)
	add("r-arm", m.RightArm)
	add("l-thigh", m.LeftThigh)
	add("r-thigh", m.RightThigh)
	add("neck", m.Neck)
	add("hips", m.Hips)
	return out
}

func init() {
	measureCmd.Flags().StringVarP(&measureDate, "date", "d", "", "date (YYYY-MM-DD, today, yesterday)")
	measureCmd.Flags().Float64Var(&measureWaist, "waist", 0, "waist circumference")
	measureCmd.Flags().Float64Var(&measureChest, "chest", 0, "chest circumference")
	measureCmd.Flags().Float64Var(&measureLeftArm, "left-arm", 0, "left arm circumference")
	measureCmd.Flags().Float64Var(&measureRightArm, "right-arm", 0, "right arm circumference")
	measureCmd.Flags().Float64Var(&measureLeftThigh, "left-thigh", 0, "left thigh circumference")
	measureCmd.Flags().Float64Var(&measureRightThigh, "right-thigh", 0, "right thigh circumference")
	measureCmd.Flags().Float64Var(&measureNeck, "neck", 0, "neck circumference")
	measureCmd.Flags().Float64Var(&measureHips, "hips", 0, "hip circumference")
	measureCmd.Flags().StringVar(&measureNotes, "notes", "", "notes for the measurement")
	rootCmd.AddCommand(measureCmd)
}
