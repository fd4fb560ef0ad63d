package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"imgresize/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows lists the run totals shown after "Done!".
func SummaryRows(s processor.Summary) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Candidates", Value: fmt.Sprintf("%d", s.Candidates)},
		{Label: "Resized", Value: fmt.Sprintf("%d", s.Resized)},
		{Label: "Skipped (image dimensions)", Value: fmt.Sprintf("%d", s.SkippedDimensions)},
		{Label: "Skipped (extension)", Value: fmt.Sprintf("%d", s.SkippedExtension)},
		{Label: "Skipped (file size)", Value: fmt.Sprintf("%d", s.SkippedSize)},
		{Label: "Errors", Value: fmt.Sprintf("%d", s.Errors+s.ScanErrors)},
		{Label: "Space saved (bytes)", Value: fmt.Sprintf("%d", s.BytesSaved)},
	}
	if s.Cancelled > 0 {
		rows = append(rows, SummaryRow{Label: "Not processed (interrupted)", Value: fmt.Sprintf("%d", s.Cancelled)})
	}
	return rows
}

// RenderInterrupted is the warning printed when a signal stopped the run
// before every candidate was handed to a worker.
func RenderInterrupted(cancelled int) string {
	return WarnStyle.Render(fmt.Sprintf("Interrupted: %d files left untouched.", cancelled))
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padLeft(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)
