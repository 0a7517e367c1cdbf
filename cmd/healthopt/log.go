// ABOUTME: CLI command for recording the daily log.
// ABOUTME: Only the flags given are written; other fields keep any value already logged for the date.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/models"
	"github.com/harperreed/healthopt/internal/storage"
)

var (
	logDate     string
	logWeight   float64
	logCalories int
	logProtein  float64
	logCarbs    float64
	logFat      float64
	logSteps    int
	logEnergy   int
	logSleep    float64
	logNotes    string
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"daily"},
	Short:   "Record weight, nutrition and activity for a day",
	Long: `Record the daily log. There is one log per date; running the command again
for the same date updates only the fields you pass.

EXAMPLES:

  healthopt log --weight 82.5
  healthopt log --calories 2100 --protein 160 --carbs 180 --fat 70
  healthopt log --date 2025-06-14 --steps 9500 --sleep 7.5 --energy 7
  healthopt log --date yesterday --notes "travel day"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(logDate)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		changed := false
		for _, name := range []string{"weight", "calories", "protein", "carbs", "fat", "steps", "energy", "sleep", "notes"} {
			changed = changed || flags.Changed(name)
		}
		if !changed {
			return errors.New("nothing to log: pass at least one of --weight, --calories, --protein, --carbs, --fat, --steps, --energy, --sleep, --notes")
		}

		d, err := repo.GetDailyLog(date)
		if errors.Is(err, storage.ErrNotFound) {
			d = models.NewDailyLog(date)
		} else if err != nil {
			return fmt.Errorf("failed to load daily log: %w", err)
		}

		if flags.Changed("weight") {
			d.WithWeight(logWeight)
		}
		if flags.Changed("calories") {
			d.Calories = logCalories
		}
		if flags.Changed("protein") {
			d.ProteinGrams = logProtein
		}
		if flags.Changed("carbs") {
			d.CarbsGrams = logCarbs
		}
		if flags.Changed("fat") {
			d.FatGrams = logFat
		}
		if flags.Changed("steps") {
			d.WithSteps(logSteps)
		}
		if flags.Changed("energy") {
			d.WithEnergy(logEnergy)
		}
		if flags.Changed("sleep") {
			d.WithSleep(logSleep)
		}
		if flags.Changed("notes") {
			d.WithNotes(logNotes)
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("invalid daily log: %w", err)
		}

		if err := repo.UpsertDailyLog(d); err != nil {
			return fmt.Errorf("failed to save daily log: %w", err)
		}

		color.Green("✓ Logged %s", models.DateKey(d.Date))
		fmt.Printf("  %s weight %.1f  %d kcal  P %.0fg  C %.0fg  F %.0fg  %d steps\n",
			shortID(d.ID), d.Weight, d.Calories, d.ProteinGrams, d.CarbsGrams, d.FatGrams, d.Steps)
		return nil
	},
}

// parseDay accepts YYYY-MM-DD, "today" or "yesterday"; empty means today.
func parseDay(s string) (time.Time, error) {
	today := models.DateOf(now())
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return d, nil
}

func init() {
	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "date (YYYY-MM-DD, today, yesterday)")
	logCmd.Flags().Float64VarP(&logWeight, "weight", "w", 0, "body weight")
	logCmd.Flags().IntVar(&logCalories, "calories", 0, "calories eaten")
	logCmd.Flags().Float64Var(&logProtein, "protein", 0, "protein grams")
	logCmd.Flags().Float64Var(&logCarbs, "carbs", 0, "carbohydrate grams")
	logCmd.Flags().Float64Var(&logFat, "fat", 0, "fat grams")
	logCmd.Flags().IntVar(&logSteps, "steps", 0, "step count")
	logCmd.Flags().IntVar(&logEnergy, "energy", 0, "energy level 1-10")
	logCmd.Flags().Float64Var(&logSleep, "sleep", 0, "hours slept")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "notes for the day")
	rootCmd.AddCommand(logCmd)
}
