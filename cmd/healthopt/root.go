// ABOUTME: Root Cobra command for the healthopt CLI.
// ABOUTME: Loads config and opens storage in PersistentPreRunE, closes it in PersistentPostRunE.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/config"
	"github.com/harperreed/healthopt/internal/storage"
)

var (
	cfg     *config.Config
	repo    storage.Repository
	engine  *analysis.Engine
	verbose bool

	// now is swapped in tests to pin analysis windows.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "healthopt",
	Short: "Personal health tracker with nutrition, blood pressure and strength analytics",
	Long: `Healthopt records daily nutrition, blood pressure, body measurements and
strength training, then looks for relationships between them.

WHAT IT TRACKS:

  Daily log      weight, calories, protein, carbs, fat, steps, energy, sleep
  Blood pressure systolic/diastolic readings with optional pulse
  Measurements   waist, chest, arms, thighs, neck, hips
  Workouts       sets of reps x weight per exercise, with optional RPE

QUICK START:

  $ healthopt log --weight 82.5 --calories 2100 --protein 160 --carbs 180
  $ healthopt bp 122 78 --pulse 64
  $ healthopt measure --waist 86.5
  $ healthopt workout log squat 5x100 5x100 3x110
  $ healthopt analyze report

ANALYSIS:

  analyze report       Full report with recommendations
  analyze correlation  Nutrient vs systolic blood pressure
  analyze strength     Protein vs strength, or progress for one exercise
  analyze nutrition    Calories vs weight
  analyze trend        Body recomposition status
  dashboard            Averages and charts

MCP INTEGRATION:

  Run 'healthopt mcp' to start the Model Context Protocol server for AI
  assistants:

  {
    "mcpServers": {
      "healthopt": { "command": "healthopt", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/healthopt/healthopt.db by default.
  Set "backend": "badger" in ~/.config/healthopt/config.json to use Badger KV.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureLogging()

		if skipsStorage(cmd) {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		policy, err := cfg.Policy()
		if err != nil {
			log.Warn("ignoring analysis overrides", "err", err)
		}
		engine = analysis.NewEngine(policy)

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("open %s storage: %w", cfg.GetBackend(), err)
		}
		log.Debug("storage opened", "backend", cfg.GetBackend(), "dir", cfg.GetDataDir())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			return nil
		}
		err := repo.Close()
		repo = nil
		return err
	},
}

// Execute runs the root command and releases storage even when a command fails,
// since cobra skips PersistentPostRunE after a RunE error.
func Execute() error {
	err := rootCmd.Execute()
	if repo != nil {
		err = multierr.Append(err, repo.Close())
		repo = nil
	}
	return err
}

func configureLogging() {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// skipsStorage reports whether cmd runs without opening the repository.
func skipsStorage(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "install-skill", "completion", cobra.ShellCompRequestCmd:
		return true
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
