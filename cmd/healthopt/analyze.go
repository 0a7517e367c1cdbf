// ABOUTME: CLI commands for running the analytics engine.
// ABOUTME: Supports report, correlation, strength, nutrition, and trend subcommands with --json output.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/storage"
)

var (
	analyzeDays      int
	analyzeJSON      bool
	analyzePredictor string
	analyzeExercise  string
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"a"},
	Short:   "Analyze relationships in your health data",
	Long: `Run the analytics engine over your logged records.

COMMANDS:

  report       Every analysis plus recommendations
  correlation  Daily nutrient vs systolic blood pressure, with optimal range
  strength     Weekly protein vs strength gains, or --exercise progress
  nutrition    Weekly calories vs weight, with weight trend
  trend        Body recomposition status (recent vs prior window)

Use --days to limit the records analyzed (0 analyzes everything) and --json
for machine-readable output.`,
}

var analyzeReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Full analysis report with recommendations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := analysisSnapshot(analyzeDays)
		if err != nil {
			return err
		}
		report, err := engine.Analyze(snap, now())
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			return printJSON(out, report)
		}

		lines := []string{
			correlationLine(report.BloodPressure.Correlation, report.BloodPressure.Predictor.String()+" vs systolic BP"),
			correlationLine(report.ProteinStrength.Correlation, "protein vs strength gain"),
			correlationLine(report.CaloriesWeight.Correlation, "calories vs weight"),
			"recomposition: " + report.Trend.Category.Label(),
			"",
		}
		for _, f := range report.Recommendation.Fragments {
			lines = append(lines, fragmentLine(f))
		}
		fmt.Fprintln(out, box("Health Report "+report.GeneratedAt.Format("2006-01-02"), lines...))
		return nil
	},
}

var analyzeCorrelationCmd = &cobra.Command{
	Use:   "correlation",
	Short: "Nutrient vs systolic blood pressure",
	Long: `Pair each day's nutrient total with that day's average systolic blood pressure,
compute the correlation and the intake range seen on days under the threshold.

Predictors: carbs, protein, calories, fat, steps, sleep.

Examples:
  healthopt analyze correlation
  healthopt analyze correlation --predictor calories --days 90`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pred, err := analysis.ParsePredictor(analyzePredictor)
		if err != nil {
			return err
		}
		snap, err := analysisSnapshot(analyzeDays)
		if err != nil {
			return err
		}
		res, err := engine.BloodPressure(snap, pred)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			return printJSON(out, res)
		}

		lines := []string{correlationLine(res.Correlation, pred.String()+" vs systolic BP")}
		switch res.Range.Status {
		case analysis.StatusOK:
			lines = append(lines, fmt.Sprintf("optimal range: %.0f-%.0f%s (%d days under %.0f, %d over)",
				res.Range.Min, res.Range.Max, pred.Unit(), res.Range.InThreshold, res.Threshold, res.Range.OutThreshold))
			if diff, ok := res.Range.Difference(); ok {
				lines = append(lines, fmt.Sprintf("avg systolic in range %.1f vs outside %.1f (%+.1f)",
					res.Range.AvgInRange, res.Range.AvgOutsideRange, diff))
			}
		case analysis.StatusNoQualifying:
			lines = append(lines, fmt.Sprintf("no day had systolic under %.0f", res.Threshold))
		default:
			lines = append(lines, mutedStyle.Render("optimal range: not enough data"))
		}
		fmt.Fprintln(out, box("Blood Pressure", lines...))
		return nil
	},
}

var analyzeStrengthCmd = &cobra.Command{
	Use:   "strength",
	Short: "Protein vs strength, or progress for one exercise",
	Long: `Without --exercise, relate each week's average protein to the week-over-week
change in best session strength. With --exercise, show estimated 1RM progress.

Examples:
  healthopt analyze strength
  healthopt analyze strength --exercise squat`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := analysisSnapshot(analyzeDays)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if analyzeExercise != "" {
			p, err := engine.Progress(snap, analyzeExercise, now())
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			if analyzeJSON {
				return printJSON(out, p)
			}
			return renderProgress(out, p)
		}

		res, err := engine.ProteinStrength(snap)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		if analyzeJSON {
			return printJSON(out, res)
		}

		lines := []string{correlationLine(res.Correlation, "protein vs strength gain")}
		if res.Range.Status == analysis.StatusOK {
			lines = append(lines, fmt.Sprintf("weeks with gains averaged %.0f-%.0fg protein", res.Range.Min, res.Range.Max))
		}
		if len(res.Pairs) > 0 {
			lines = append(lines, "", mutedStyle.Render("protein   gain"))
			for _, p := range res.Pairs {
				lines = append(lines, fmt.Sprintf("%6.0fg %+7.1f", p.Predictor, p.Outcome))
			}
		}
		fmt.Fprintln(out, box("Protein & Strength", lines...))
		return nil
	},
}

var analyzeNutritionCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "Calories vs weight",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := analysisSnapshot(analyzeDays)
		if err != nil {
			return err
		}
		res, err := engine.CaloriesWeight(snap)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			return printJSON(out, res)
		}

		if res.Status != analysis.StatusOK {
			fmt.Fprintln(out, box("Calories & Weight",
				mutedStyle.Render(fmt.Sprintf("not enough data: %d days with both calories and weight", res.Days))))
			return nil
		}

		lines := []string{
			correlationLine(res.Correlation, "calories vs weight"),
			"weight trend: " + res.WeightTrend.String(),
			fmt.Sprintf("weekly calories: %.0f-%.0f", res.CalorieMin, res.CalorieMax),
		}
		weekly := make([]analysis.SeriesPoint, len(res.Weeks))
		for i, w := range res.Weeks {
			weekly[i] = analysis.SeriesPoint{Date: w.WeekStart, Value: w.AvgWeight}
		}
		fmt.Fprintln(out, box("Calories & Weight", lines...))
		fmt.Fprintln(out, chart(weekly, "weekly average weight"))
		return nil
	},
}

var analyzeTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Body recomposition status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := analysisSnapshot(analyzeDays)
		if err != nil {
			return err
		}
		res, err := engine.Trend(snap, now())
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			return printJSON(out, res)
		}

		lines := []string{
			res.Category.Label(),
			mutedStyle.Render(fmt.Sprintf("prior %s to %s vs recent since %s",
				res.PriorStart.Format("2006-01-02"), res.Cutoff.AddDate(0, 0, -1).Format("2006-01-02"), res.Cutoff.Format("2006-01-02"))),
			"",
			signalLine("strength", res.Strength, "up"),
			signalLine("weight", res.Weight, "down"),
			signalLine("waist", res.Waist, "down"),
		}
		fmt.Fprintln(out, box("Recomposition", lines...))
		return nil
	},
}

func renderProgress(out io.Writer, p analysis.ExerciseProgress) error {
	if p.Status != analysis.StatusOK {
		fmt.Fprintf(out, "No sets logged for %s yet.\n", analyzeExercise)
		return nil
	}

	lines := []string{
		fmt.Sprintf("current e1RM     %.1f", p.CurrentE1RM),
		fmt.Sprintf("personal record  %.1f", p.PersonalRecord),
		fmt.Sprintf("total sets       %d", p.TotalSets),
		fmt.Sprintf("last workout     %s", p.LastWorkout.Format("2006-01-02")),
	}
	if p.HasPercentChange {
		lines = append(lines, fmt.Sprintf("change           %+.1f%%", p.PercentChange))
	}
	if p.HasWeeklyGain {
		lines = append(lines, fmt.Sprintf("weekly gain      %+.2f", p.WeeklyGain))
	}

	series := make([]analysis.SeriesPoint, len(p.Days))
	for i, d := range p.Days {
		series[i] = analysis.SeriesPoint{Date: d.Date, Value: d.E1RM}
	}
	fmt.Fprintln(out, box(strings.ToUpper(p.Exercise.Name[:1])+p.Exercise.Name[1:], lines...))
	fmt.Fprintln(out, chart(series, "daily best e1RM"))
	return nil
}

// analysisSnapshot loads the last days of records, or all of them when days is 0.
func analysisSnapshot(days int) (*analysis.Snapshot, error) {
	r := storage.AllTime()
	if days > 0 {
		r = storage.LastDays(now(), days)
	}
	snap, err := storage.LoadSnapshot(repo, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	log.Debug("snapshot loaded",
		"daily_logs", len(snap.DailyLogs),
		"blood_pressure", len(snap.BloodPressure),
		"sessions", len(snap.Sessions),
		"sets", len(snap.Sets))
	return snap, nil
}

func init() {
	analyzeCmd.PersistentFlags().IntVar(&analyzeDays, "days", 0, "days to analyze (0 for all)")
	analyzeCmd.PersistentFlags().BoolVar(&analyzeJSON, "json", false, "output JSON")

	analyzeCorrelationCmd.Flags().StringVarP(&analyzePredictor, "predictor", "p", "carbs", "daily predictor")
	analyzeStrengthCmd.Flags().StringVarP(&analyzeExercise, "exercise", "e", "", "exercise name for progress")

	analyzeCmd.AddCommand(analyzeReportCmd)
	analyzeCmd.AddCommand(analyzeCorrelationCmd)
	analyzeCmd.AddCommand(analyzeStrengthCmd)
	analyzeCmd.AddCommand(analyzeNutritionCmd)
	analyzeCmd.AddCommand(analyzeTrendCmd)
	rootCmd.AddCommand(analyzeCmd)
}
