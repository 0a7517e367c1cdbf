// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Moves every record from the configured backend into SQLite or Badger.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/harperreed/healthopt/internal/config"
	"github.com/harperreed/healthopt/internal/storage"
)

var (
	migrateTo     string
	migrateDest   string
	migrateDryRun bool
	migrateSwitch bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy every record from the configured backend into another backend.

BACKENDS:

  sqlite   single file at <dir>/healthopt.db (default)
  badger   Badger key-value store at <dir>/kv

The destination must be empty; existing data is never overwritten.

USAGE:

  healthopt migrate --to badger --dry-run   # Preview what would be copied
  healthopt migrate --to badger             # Copy into the default data dir
  healthopt migrate --to badger --switch    # Copy, then make badger the configured backend
  healthopt migrate --to sqlite --dest ~/backup/healthopt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo != config.BackendSQLite && migrateTo != config.BackendBadger {
			return fmt.Errorf("unknown backend: %q (use sqlite or badger)", migrateTo)
		}

		dest := &config.Config{Backend: migrateTo, DataDir: migrateDest}
		if dest.DataDir == "" {
			dest.DataDir = cfg.GetDataDir()
		}
		if dest.GetBackend() == cfg.GetBackend() && dest.GetDataDir() == cfg.GetDataDir() {
			return errors.New("destination is the current storage; pass --dest or a different --to")
		}

		if err := checkEmptyDestination(dest); err != nil {
			return err
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			data, err := storage.GetAllData(repo)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			fmt.Printf("Would copy from %s to %s at %s:\n", cfg.GetBackend(), migrateTo, dest.GetDataDir())
			fmt.Printf("  %d daily logs, %d blood pressure, %d measurements, %d exercises, %d sessions, %d sets\n",
				len(data.DailyLogs), len(data.BloodPressure), len(data.Measurements),
				len(data.Exercises), len(data.Sessions), len(data.Sets))
			return nil
		}

		dst, err := dest.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		summary, err := storage.MigrateData(repo, dst)
		err = multierr.Append(err, dst.Close())
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Copied %d records to %s", summary.Total(), migrateTo)
		fmt.Printf("  %d daily logs, %d blood pressure, %d measurements, %d exercises, %d sessions, %d sets\n",
			summary.DailyLogs, summary.BloodPressure, summary.Measurements,
			summary.Exercises, summary.Sessions, summary.Sets)

		if migrateSwitch {
			cfg.Backend = migrateTo
			if migrateDest != "" {
				cfg.DataDir = migrateDest
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("  backend set to %s in %s\n", migrateTo, config.GetConfigPath())
		}
		return nil
	},
}

// checkEmptyDestination refuses to write into a backend that already holds data.
func checkEmptyDestination(dest *config.Config) error {
	switch dest.GetBackend() {
	case config.BackendBadger:
		dir := filepath.Join(dest.GetDataDir(), storage.KVDirName)
		nonEmpty, err := storage.IsDirNonEmpty(dir)
		if err != nil {
			return err
		}
		if nonEmpty {
			return fmt.Errorf("destination %s is not empty", dir)
		}
	case config.BackendSQLite:
		path := filepath.Join(dest.GetDataDir(), storage.DefaultDBName)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("destination %s already exists", path)
		}
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or badger")
	migrateCmd.Flags().StringVar(&migrateDest, "dest", "", "destination data directory (default: configured data dir)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "make the destination the configured backend afterwards")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
