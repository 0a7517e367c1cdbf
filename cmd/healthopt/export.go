// ABOUTME: CLI commands for exporting and importing health data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports JSON or YAML backups.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/models"
	"github.com/harperreed/healthopt/internal/storage"
)

var (
	exportOutput string
	exportSince  string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export health data",
	Long: `Export health data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also restorable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include data since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  healthopt export json                        # Export all data as JSON
  healthopt export json -o backup.json         # Save to file
  healthopt export yaml                        # Export as YAML
  healthopt export markdown --since 2025-01-01 # Markdown tables from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown":
			r := storage.AllTime()
			if exportSince != "" {
				since, perr := models.ParseDate(exportSince)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				r.From = since
			}
			var md string
			md, err = storage.ExportMarkdown(repo, r)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import health data from a JSON or YAML backup",
	Long: `Import health data from a file written by 'healthopt export json' or
'healthopt export yaml'.

Daily logs and body measurements merge by date. Exercises are matched by name,
so sets from the backup attach to exercises you already have.

EXAMPLES:

  healthopt import backup.json
  healthopt import backup.yaml
  healthopt import dump.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
			if format != "json" && format != "yaml" && format != "yml" {
				format = ""
			}
		}

		data, err := storage.ParseExport(raw, format)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := data.Validate(); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		summary, err := storage.ImportData(repo, data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d records from %s", summary.Total(), filename)
		fmt.Printf("  %d daily logs, %d blood pressure, %d measurements, %d exercises, %d sessions, %d sets\n",
			summary.DailyLogs, summary.BloodPressure, summary.Measurements,
			summary.Exercises, summary.Sessions, summary.Sets)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format: json or yaml (default: from extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
