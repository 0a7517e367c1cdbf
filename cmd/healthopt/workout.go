// ABOUTME: CLI commands for strength workouts.
// ABOUTME: Supports log, show, list, and exercises subcommands.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/models"
	"github.com/harperreed/healthopt/internal/storage"
)

var (
	workoutDate  string
	workoutType  string
	workoutNotes string
	workoutDays  int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage strength workouts",
	Long: `Track strength training as sets of reps x weight per exercise.

There is one workout session per date. Logging sets for a date creates the
session if needed, creates the exercise the first time you name it, and
numbers new sets after the ones already logged for that exercise.

WORKFLOW:

  1. Log sets:            healthopt workout log squat 5x100 5x100 3x110
  2. Review the session:  healthopt workout show 2025-06-14
  3. Track progress:      healthopt analyze strength --exercise squat

SET FORMAT:

  REPSxWEIGHT           5x100
  REPSxWEIGHT@RPE       5x100@8
  SETSxREPSxWEIGHT      3x5x100   (three identical sets)`,
}

var workoutLogCmd = &cobra.Command{
	Use:   "log <exercise> <set>...",
	Short: "Log sets of one exercise",
	Long: `Log one or more sets of an exercise.

Examples:
  healthopt workout log "bench press" 5x80 5x80 5x80
  healthopt workout log deadlift 3x5x140@8 --date yesterday
  healthopt workout log squat 5x100 --type "Lower body" --notes "felt strong"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(workoutDate)
		if err != nil {
			return err
		}

		var sets []storage.SetInput
		for _, spec := range args[1:] {
			parsed, err := parseSetSpec(spec)
			if err != nil {
				return err
			}
			sets = append(sets, parsed...)
		}

		res, err := storage.LogExercise(repo, storage.LogExerciseRequest{
			Date:        date,
			WorkoutType: workoutType,
			Exercise:    args[0],
			Sets:        sets,
			Notes:       workoutNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to log sets: %w", err)
		}

		color.Green("✓ Logged %d sets of %s", len(res.Sets), res.Exercise.Name)
		if res.CreatedSession {
			fmt.Printf("  new %s session %s on %s\n", res.Session.WorkoutType, shortID(res.Session.ID), models.DateKey(res.Session.Date))
		}
		if res.CreatedExercise {
			fmt.Printf("  new exercise %s\n", res.Exercise.Name)
		}
		for _, s := range res.Sets {
			fmt.Println("  " + setLine(s))
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id|date>",
	Short: "Show a workout session with its sets",
	Long: `Show a workout session by ID prefix or by date (YYYY-MM-DD).

Examples:
  healthopt workout show 2025-06-14
  healthopt workout show abc123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := findSession(args[0])
		if err != nil {
			return err
		}

		sets, err := repo.ListSets(&session.ID)
		if err != nil {
			return fmt.Errorf("failed to list sets: %w", err)
		}
		names, err := exerciseNames()
		if err != nil {
			return err
		}

		fmt.Printf("Workout: %s\n", shortID(session.ID))
		fmt.Printf("Date: %s\n", models.DateKey(session.Date))
		fmt.Printf("Type: %s\n", session.WorkoutType)
		if session.OverallRPE != nil {
			fmt.Printf("RPE: %d\n", *session.OverallRPE)
		}
		if session.Notes != "" {
			fmt.Printf("Notes: %s\n", session.Notes)
		}

		if len(sets) == 0 {
			fmt.Println("\nNo sets logged.")
			return nil
		}

		var order []uuid.UUID
		byExercise := make(map[uuid.UUID][]*models.WorkoutSet)
		workSets := make([]models.WorkoutSet, len(sets))
		for i, s := range sets {
			if _, seen := byExercise[s.ExerciseID]; !seen {
				order = append(order, s.ExerciseID)
			}
			byExercise[s.ExerciseID] = append(byExercise[s.ExerciseID], s)
			workSets[i] = *s
		}
		for _, id := range order {
			fmt.Printf("\n%s\n", color.New(color.Bold).Sprint(names[id]))
			for _, s := range byExercise[id] {
				fmt.Println("  " + setLine(s))
			}
		}
		fmt.Printf("\nSession strength (total e1RM): %.1f\n", analysis.SessionStrength(workSets))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent workout sessions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := storage.AllTime()
		if workoutDays > 0 {
			r = storage.LastDays(now(), workoutDays)
		}
		sessions, err := repo.ListSessions(r)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		for _, w := range sessions {
			sets, err := repo.ListSets(&w.ID)
			if err != nil {
				return fmt.Errorf("failed to list sets: %w", err)
			}
			notes := ""
			if w.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(w.Notes, 30))
			}
			fmt.Printf("%s %s %s %d sets%s\n",
				shortID(w.ID),
				faint.Sprint(models.DateKey(w.Date)),
				padRight(w.WorkoutType, 12),
				len(sets),
				notes)
		}
		return nil
	},
}

var workoutExercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List known exercises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := repo.ListExercises()
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if len(exercises) == 0 {
			fmt.Println("No exercises yet. Log sets with 'healthopt workout log'.")
			return nil
		}
		for _, e := range exercises {
			fmt.Printf("%s %s %s\n", padRight(e.Name, 24), padRight(e.Category, 10), faint.Sprint(e.MuscleGroup))
		}
		return nil
	},
}

// parseSetSpec parses REPSxWEIGHT, SETSxREPSxWEIGHT, either with an optional @RPE suffix.
func parseSetSpec(spec string) ([]storage.SetInput, error) {
	body := strings.ToLower(strings.TrimSpace(spec))
	var rpe *int
	if at := strings.IndexByte(body, '@'); at >= 0 {
		v, err := strconv.Atoi(body[at+1:])
		if err != nil || v < 1 || v > 10 {
			return nil, fmt.Errorf("invalid set %q: RPE must be 1-10", spec)
		}
		rpe = &v
		body = body[:at]
	}

	parts := strings.Split(body, "x")
	count := 1
	switch len(parts) {
	case 2:
	case 3:
		n, err := strconv.Atoi(parts[0])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid set %q: bad set count", spec)
		}
		count = n
		parts = parts[1:]
	default:
		return nil, fmt.Errorf("invalid set %q: use REPSxWEIGHT, e.g. 5x100", spec)
	}

	reps, err := strconv.Atoi(parts[0])
	if err != nil || reps <= 0 {
		return nil, fmt.Errorf("invalid set %q: reps must be a positive integer", spec)
	}
	weight, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || weight < 0 {
		return nil, fmt.Errorf("invalid set %q: weight must be a non-negative number", spec)
	}

	out := make([]storage.SetInput, count)
	for i := range out {
		out[i] = storage.SetInput{Reps: reps, Weight: weight, RPE: rpe}
	}
	return out, nil
}

func setLine(s *models.WorkoutSet) string {
	line := fmt.Sprintf("#%d  %d x %.1f", s.SetNumber, s.Reps, s.Weight)
	if s.RPE != nil {
		line += fmt.Sprintf(" @%d", *s.RPE)
	}
	if e, err := analysis.E1RM(s.Weight, s.Reps); err == nil {
		line += faint.Sprintf("  e1RM %.1f", e)
	}
	return line
}

// findSession resolves an ID prefix, falling back to a date.
func findSession(arg string) (*models.WorkoutSession, error) {
	session, err := repo.GetSession(arg)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to find workout: %w", err)
	}
	date, dateErr := models.ParseDate(arg)
	if dateErr != nil {
		return nil, fmt.Errorf("workout not found: %s", arg)
	}
	session, err = repo.GetSessionByDate(date)
	if err != nil {
		return nil, fmt.Errorf("no workout on %s: %w", arg, err)
	}
	return session, nil
}

func exerciseNames() (map[uuid.UUID]string, error) {
	exercises, err := repo.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	names := make(map[uuid.UUID]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	return names, nil
}

func init() {
	workoutLogCmd.Flags().StringVarP(&workoutDate, "date", "d", "", "date (YYYY-MM-DD, today, yesterday)")
	workoutLogCmd.Flags().StringVarP(&workoutType, "type", "t", storage.DefaultWorkoutType, "workout type for a new session")
	workoutLogCmd.Flags().StringVar(&workoutNotes, "notes", "", "notes for a new session")

	workoutListCmd.Flags().IntVar(&workoutDays, "days", 30, "days to include (0 for all)")

	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutExercisesCmd)
	rootCmd.AddCommand(workoutCmd)
}
