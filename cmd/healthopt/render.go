// ABOUTME: Terminal rendering helpers shared by CLI commands.
// ABOUTME: Colored IDs, lipgloss report boxes, asciigraph series charts and JSON output.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/models"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	faint = color.New(color.Faint)
)

// shortID is the 8-character prefix accepted by delete and show commands.
func shortID(id uuid.UUID) string {
	return faint.Sprint(id.String()[:8])
}

// box renders lines under a bold title inside a rounded border.
func box(title string, lines ...string) string {
	body := append([]string{titleStyle.Render(title)}, lines...)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

// chart plots a dated series. Fewer than two points yields a muted note instead.
func chart(points []analysis.SeriesPoint, caption string) string {
	if len(points) < 2 {
		return mutedStyle.Render(fmt.Sprintf("%s: not enough data to chart", caption))
	}
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Value
	}
	first := models.DateKey(points[0].Date)
	last := models.DateKey(points[len(points)-1].Date)
	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("%s (%s to %s)", caption, first, last)),
	)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fragmentLine renders one recommendation fragment by kind.
func fragmentLine(f analysis.Fragment) string {
	switch f.Kind {
	case analysis.KindAdvice:
		return color.GreenString("→ ") + f.Text
	case analysis.KindPlaceholder:
		return mutedStyle.Render("· " + f.Text)
	default:
		return "• " + f.Text
	}
}

func correlationLine(c analysis.CorrelationResult, subject string) string {
	switch c.Status {
	case analysis.StatusOK:
		return fmt.Sprintf("%s: %s %s correlation (r=%.2f, n=%d)", subject, c.Strength, c.Direction(), c.Coefficient, c.N)
	case analysis.StatusUndefined:
		return fmt.Sprintf("%s: undefined (no variation)", subject)
	default:
		return fmt.Sprintf("%s: not enough data (n=%d)", subject, c.N)
	}
}

func signalLine(name string, s analysis.Signal, favorable string) string {
	if !s.Sufficient {
		return fmt.Sprintf("%s %s", padRight(name, 9), mutedStyle.Render("not enough data"))
	}
	verdict := "flat"
	if s.Favorable {
		verdict = favorable
	}
	return fmt.Sprintf("%s %-5s %.2f → %.2f", padRight(name, 9), verdict, s.Prior, s.Recent)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
