package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imgresize/internal/processor"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 60
	minBarWidth     = 20
)

// Model renders resize progress from a stream of ProgressUpdate values and
// quits once the stream is closed.
type Model struct {
	updates    <-chan processor.ProgressUpdate
	started    time.Time
	bar        progress.Model
	spin       spinner.Model
	total      int
	processed  int
	resized    int
	skipped    int
	errors     int
	bytesSaved int64
	quitting   bool
	interrupt  func()
}

type doneMsg struct{}

type updateMsg processor.ProgressUpdate

// NewModel builds the view. interrupt, if not nil, is called when the user
// presses ctrl+c; the terminal is in raw mode so no SIGINT is delivered.
func NewModel(updates <-chan processor.ProgressUpdate, interrupt func()) Model {
	bar := progress.New(
		progress.WithGradient(string(ColorAccentAlt), string(ColorAccent)),
		progress.WithWidth(defaultBarWidth),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{updates: updates, started: time.Now(), bar: bar, spin: sp, interrupt: interrupt}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForUpdates(m.updates), m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.processed += msg.ProcessedDelta
		m.resized += msg.ResizedDelta
		m.skipped += msg.SkippedDelta
		m.errors += msg.ErrorDelta
		m.bytesSaved += msg.BytesSavedDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && m.interrupt != nil {
			m.interrupt()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		m.spin.View() + " " + titleStyle.Render("Resizing images"),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed, m.total)) +
			dimStyle.Render(fmt.Sprintf("  resized:%d skipped:%d ", m.resized, m.skipped)) +
			m.errorCount(),
		labelStyle.Render(fmt.Sprintf("Bytes saved: %d", m.bytesSaved)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(m.ratio()),
	}

	return strings.Join(lines, "\n")
}

func (m Model) errorCount() string {
	text := fmt.Sprintf("errors:%d", m.errors)
	if m.errors == 0 {
		return dimStyle.Render(text)
	}
	return ErrorStyle.Render(text)
}

func (m Model) ratio() float64 {
	if m.total <= 0 {
		return 0
	}
	ratio := float64(m.processed) / float64(m.total)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

func barWidth(termWidth int) int {
	if termWidth <= 0 {
		return defaultBarWidth
	}
	return max(minBarWidth, min(maxBarWidth, termWidth-10))
}

func listenForUpdates(updates <-chan processor.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
