// ABOUTME: MCP resource implementations for health data and analysis.
// ABOUTME: Provides health://report, health://dashboard, and health://recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/healthopt/internal/storage"
)

const recentDays = 7

func (s *Server) registerResources() {
	// health://report - Full analysis over all history
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://report",
		Name:        "Health Analysis Report",
		Description: "Correlations, optimal ranges, trend category and recommendations",
		MIMEType:    "application/json",
	}, s.handleReportResource)

	// health://dashboard - Averages and measurement changes
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://dashboard",
		Name:        "Health Dashboard",
		Description: "Average weight, calories, carbs and blood pressure plus measurement changes",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)

	// health://recent - Everything logged in the last week
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://recent",
		Name:        "Recent Health Entries",
		Description: "Daily logs, blood pressure readings and workouts from the last 7 days",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleReportResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap, err := s.snapshot(0)
	if err != nil {
		return nil, err
	}
	report, err := s.engine.Analyze(snap, s.now())
	if err != nil {
		return nil, err
	}
	return jsonResource("health://report", map[string]any{
		"report":         report,
		"recommendation": report.Recommendation.Text(),
		"trend":          report.Trend.Category.Label(),
	})
}

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap, err := s.snapshot(0)
	if err != nil {
		return nil, err
	}
	_, result, err := s.dashboard(snap)
	if err != nil {
		return nil, err
	}
	return jsonResource("health://dashboard", result)
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	r := storage.LastDays(s.now(), recentDays)

	logs, err := s.repo.ListDailyLogs(r)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	readings, err := s.repo.ListBloodPressure(r)
	if err != nil {
		return nil, fmt.Errorf("failed to list blood pressure: %w", err)
	}
	sessions, err := s.repo.ListSessions(r)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	return jsonResource("health://recent", map[string]any{
		"from":           r.From.Format("2006-01-02"),
		"daily_logs":     logs,
		"blood_pressure": readings,
		"workouts":       sessions,
		"counts": map[string]int{
			"daily_logs":     len(logs),
			"blood_pressure": len(readings),
			"workouts":       len(sessions),
		},
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
