// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthopt/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and reads a fresh snapshot of your
records for every analysis request. Diagnostic logs go to stderr.

CONFIGURATION:

  {
    "mcpServers": {
      "healthopt": {
        "command": "healthopt",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_daily            Record or update the daily log for a date
  log_blood_pressure   Record a blood pressure reading
  log_measurement      Record body measurements
  log_sets             Log sets of one exercise
  list_daily           List recent daily logs
  list_blood_pressure  List recent blood pressure readings
  analyze_report       Full analysis with recommendations
  analyze_correlation  Nutrient vs systolic blood pressure
  exercise_progress    Strength progress for one exercise
  get_trend            Body recomposition status
  dashboard            Averages and body measurement change

AVAILABLE RESOURCES:

  health://report      Latest analysis report
  health://dashboard   Dashboard summary
  health://recent      Records from the last 7 days`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, engine)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case sig := <-sigChan:
				log.Info("shutting down MCP server", "signal", sig)
				cancel()
			case <-ctx.Done():
			}
		}()

		log.Info("MCP server listening on stdio", "backend", cfg.GetBackend())
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
