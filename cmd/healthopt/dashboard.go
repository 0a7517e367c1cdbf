// ABOUTME: CLI command for the summary dashboard.
// ABOUTME: Shows averages, the latest body measurement change and charts of weight, carbs and systolic BP.
package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/analysis"
)

var (
	dashboardDays int
	dashboardJSON bool
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Summary of logged data with charts",
	Long: `Show days logged, average weight, calories, carbs and blood pressure, the
change between the two latest body measurements, and charts of each series.

Examples:
  healthopt dashboard
  healthopt dashboard --days 30
  healthopt dashboard --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := analysisSnapshot(dashboardDays)
		if err != nil {
			return err
		}
		summary, err := engine.Dashboard(snap)
		if err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}
		measurements, err := engine.Measurements(snap)
		if err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if dashboardJSON {
			return printJSON(out, map[string]any{
				"summary":      summary,
				"average_bp":   summary.AverageBP(),
				"measurements": measurements,
			})
		}

		stats := box("Summary",
			fmt.Sprintf("days logged   %d", summary.DaysLogged),
			fmt.Sprintf("avg weight    %.1f", summary.AvgWeight),
			fmt.Sprintf("avg calories  %.0f", summary.AvgCalories),
			fmt.Sprintf("avg carbs     %.1fg", summary.AvgCarbs),
			fmt.Sprintf("avg BP        %s (%d readings)", summary.AverageBP(), summary.ReadingCount),
			fmt.Sprintf("workouts      %d", summary.SessionCount),
		)
		fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, stats, "  ", measurementBox(measurements)))
		fmt.Fprintln(out)
		fmt.Fprintln(out, chart(summary.WeightSeries, "weight"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, chart(summary.CarbSeries, "carbs (g)"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, chart(summary.SystolicSeries, "systolic BP"))
		return nil
	},
}

func measurementBox(m analysis.MeasurementSummary) string {
	if m.Latest == nil {
		return box("Measurements", mutedStyle.Render("none logged"))
	}
	lines := []string{mutedStyle.Render("latest " + m.Latest.Date.Format("2006-01-02"))}
	lines = append(lines, measurementFields(m.Latest)...)
	if m.HasChange {
		lines = append(lines, "",
			mutedStyle.Render("change since "+m.Previous.Date.Format("2006-01-02")),
			fmt.Sprintf("waist  %+.2f", m.Change.Waist),
			fmt.Sprintf("chest  %+.2f", m.Change.Chest),
			fmt.Sprintf("arms   %+.2f", m.Change.Arms),
			fmt.Sprintf("thighs %+.2f", m.Change.Thighs),
		)
	}
	return box("Measurements", lines...)
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardDays, "days", 0, "days to include (0 for all)")
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "output JSON")
	rootCmd.AddCommand(dashboardCmd)
}
