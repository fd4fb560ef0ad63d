package tui

import (
	"fmt"
	"io"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"imgresize/internal/processor"
)

// RunInteractive drives the bubbletea progress view until updates is closed.
func RunInteractive(updates <-chan processor.ProgressUpdate, interrupt func(), opts ...tea.ProgramOption) error {
	program := tea.NewProgram(NewModel(updates, interrupt), opts...)
	_, err := program.Run()
	// Keep draining so the pipeline never blocks on a dead view.
	for range updates {
	}
	return err
}

// RunPlain writes a text progress line to w each time the completed
// percentage changes. It returns once updates is closed.
func RunPlain(w io.Writer, updates <-chan processor.ProgressUpdate) {
	total, processed := 0, 0
	lastPct := -1
	for u := range updates {
		total += u.TotalDelta
		processed += u.ProcessedDelta
		if u.ProcessedDelta == 0 || total == 0 {
			continue
		}
		pct := processed * 100 / total
		if pct == lastPct {
			continue
		}
		lastPct = pct
		ratio := float64(processed) / float64(total)
		fmt.Fprintf(w, "%s %d/%d\n", renderBar(30, ratio), processed, total)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
