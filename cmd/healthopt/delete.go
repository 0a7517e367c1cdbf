// ABOUTME: CLI command for deleting health records.
// ABOUTME: Supports deletion by full ID or ID prefix for each record kind.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteKinds = map[string]func(string) error{
	"daily":   func(id string) error { return repo.DeleteDailyLog(id) },
	"bp":      func(id string) error { return repo.DeleteBloodPressure(id) },
	"measure": func(id string) error { return repo.DeleteBodyMeasurement(id) },
	"session": func(id string) error { return repo.DeleteSession(id) },
	"set":     func(id string) error { return repo.DeleteSet(id) },
}

var deleteCmd = &cobra.Command{
	Use:     "delete <kind> <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a health record",
	Long: `Delete a record by its ID or ID prefix.

KINDS:

  daily     daily log
  bp        blood pressure reading
  measure   body measurement
  session   workout session (and all of its sets)
  set       single workout set

The ID prefix is shown in the first column of 'healthopt list' and
'healthopt workout list' output.

EXAMPLES:

  healthopt delete bp abc12345        # Delete by 8-char prefix
  healthopt rm session abc1           # Short prefix (if unique)

CAUTION:

  This permanently deletes the record. There is no undo.
  If the prefix matches multiple records, an error is returned.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"daily", "bp", "measure", "session", "set"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, idOrPrefix := args[0], args[1]
		del, ok := deleteKinds[kind]
		if !ok {
			return fmt.Errorf("unknown record kind: %s (use daily, bp, measure, session, or set)", kind)
		}

		if err := del(idOrPrefix); err != nil {
			return fmt.Errorf("failed to delete %s: %w", kind, err)
		}

		color.Yellow("✗ Deleted %s %s", kind, idOrPrefix)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
