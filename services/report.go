package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gbp-auditor/models"
)

var (
	accent = lipgloss.Color("#4F46E5")
	dim    = lipgloss.Color("#6B7280")

	bandColors = map[models.ScoreBand]lipgloss.Color{
		models.BandPoor: lipgloss.Color("#EF4444"),
		models.BandFair: lipgloss.Color("#F59E0B"),
		models.BandGood: lipgloss.Color("#22C55E"),
	}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(60)
	sectionStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	thin         = strings.Repeat("─", 56)
)

func scoreStyle(score int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(bandColors[models.BandFor(score)])
}

// RenderReport formats an audit result for the terminal.
func RenderReport(result *models.AuditResult, businessName string) string {
	if result == nil {
		return "\n  " + dimStyle.Render("No audit result.") + "\n\n"
	}

	var b strings.Builder

	title := headerStyle.Render("GBP Audit")
	name := sectionStyle.Render(businessName)
	overall := scoreStyle(result.OverallScore).Render(fmt.Sprintf("%d / 100", result.OverallScore))
	band := dimStyle.Render(string(models.BandFor(result.OverallScore)))
	b.WriteString(boxStyle.Render(title + "\n" + name + "\n\n" + overall + "  " + band))
	b.WriteString("\n\n")

	b.WriteString("  " + sectionStyle.Render("Breakdown") + "\n")
	b.WriteString("  " + dimStyle.Render(thin) + "\n")
	for _, item := range result.AuditBreakdown {
		b.WriteString(fmt.Sprintf("  %-42s %s\n",
			truncate(item.Category, 40),
			scoreStyle(item.Score).Render(fmt.Sprintf("%3d", item.Score))))
		if item.Comment != "" {
			b.WriteString("    " + dimStyle.Render(item.Comment) + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("  " + sectionStyle.Render("Recommendations") + "\n")
	b.WriteString("  " + dimStyle.Render(thin) + "\n")
	for i, rec := range result.Recommendations {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, sectionStyle.Render(rec.Title)))
		b.WriteString("     " + rec.Description + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// RenderHistory formats history entries as a table, in the order given.
func RenderHistory(entries []models.AuditEntry) string {
	if len(entries) == 0 {
		return "\n  " + dimStyle.Render("No audits recorded yet.") + "\n\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render(fmt.Sprintf("Audit history (%d)", len(entries))) + "\n")
	b.WriteString("  " + dimStyle.Render(thin) + "\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %s  %-24s %-20s %s\n",
			dimStyle.Render(e.Timestamp.Local().Format(time.DateTime)),
			truncate(e.BusinessName, 24),
			truncate(e.Location, 20),
			e.Email))
	}
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
