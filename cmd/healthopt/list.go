// ABOUTME: CLI command for listing recent health records.
// ABOUTME: Shows daily logs, blood pressure readings and body measurements with their ID prefixes.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/storage"
)

const (
	listDaily   = "daily"
	listBP      = "bp"
	listMeasure = "measure"
)

var (
	listType string
	listDays int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List recent health records",
	Long: `List recent records from your health log.

OUTPUT FORMAT:

  Each line starts with an 8-character ID prefix you can pass to delete.

FILTERING:

  Use --type to show one kind of record: daily, bp, measure.
  Use --days to change the window (0 lists everything).
  Workouts are listed with 'healthopt workout list'.

EXAMPLES:

  healthopt list                 # Last 14 days of everything
  healthopt list --type bp       # Only blood pressure
  healthopt list -t daily -n 90  # Daily logs from the last 90 days`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := storage.AllTime()
		if listDays > 0 {
			r = storage.LastDays(now(), listDays)
		}

		show := func(kind string) bool { return listType == "" || listType == kind }
		switch listType {
		case "", listDaily, listBP, listMeasure:
		default:
			return fmt.Errorf("unknown record type: %s (use daily, bp, or measure)", listType)
		}

		heading := color.New(color.Bold)
		printed := false

		if show(listDaily) {
			logs, err := repo.ListDailyLogs(r)
			if err != nil {
				return fmt.Errorf("failed to list daily logs: %w", err)
			}
			if len(logs) > 0 {
				heading.Println("Daily logs")
				for _, d := range logs {
					notes := ""
					if d.Notes != "" {
						notes = faint.Sprintf(" (%s)", truncate(d.Notes, 30))
					}
					fmt.Printf("%s %s %6.1f %5d kcal  P %4.0fg  C %4.0fg  F %4.0fg %6d steps%s\n",
						shortID(d.ID),
						faint.Sprint(d.Date.Format("2006-01-02")),
						d.Weight, d.Calories, d.ProteinGrams, d.CarbsGrams, d.FatGrams, d.Steps,
						notes)
				}
				printed = true
			}
		}

		if show(listBP) {
			readings, err := repo.ListBloodPressure(r)
			if err != nil {
				return fmt.Errorf("failed to list blood pressure: %w", err)
			}
			if len(readings) > 0 {
				if printed {
					fmt.Println()
				}
				heading.Println("Blood pressure")
				for _, b := range readings {
					pulse := ""
					if b.Pulse != nil {
						pulse = fmt.Sprintf("  pulse %d", *b.Pulse)
					}
					notes := ""
					if b.Notes != "" {
						notes = faint.Sprintf(" (%s)", truncate(b.Notes, 30))
					}
					fmt.Printf("%s %s %s%s%s\n",
						shortID(b.ID),
						faint.Sprint(b.RecordedAt.Format("2006-01-02 15:04")),
						padRight(fmt.Sprintf("%d/%d", b.Systolic, b.Diastolic), 8),
						pulse,
						notes)
				}
				printed = true
			}
		}

		if show(listMeasure) {
			measurements, err := repo.ListBodyMeasurements(r)
			if err != nil {
				return fmt.Errorf("failed to list measurements: %w", err)
			}
			if len(measurements) > 0 {
				if printed {
					fmt.Println()
				}
				heading.Println("Body measurements")
				for _, m := range measurements {
					fmt.Printf("%s %s %s\n",
						shortID(m.ID),
						faint.Sprint(m.Date.Format("2006-01-02")),
						strings.Join(measurementFields(m), "  "))
				}
				printed = true
			}
		}

		if !printed {
			fmt.Println("No records found.")
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "record type: daily, bp, measure")
	listCmd.Flags().IntVarP(&listDays, "days", "n", 14, "days to include (0 for all)")
	rootCmd.AddCommand(listCmd)
}
