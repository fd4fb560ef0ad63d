package tui

import "github.com/charmbracelet/lipgloss"

// Nord-ish palette shared by the progress view, the summary table and the
// command's console lines.
var (
	ColorInk       = lipgloss.Color("#E5E9F0")
	ColorDim       = lipgloss.Color("#7A8291")
	ColorAccent    = lipgloss.Color("#88C0D0")
	ColorAccentAlt = lipgloss.Color("#5E81AC")
	ColorSuccess   = lipgloss.Color("#A3BE8C")
	ColorWarn      = lipgloss.Color("#EBCB8B")
	ColorError     = lipgloss.Color("#BF616A")
)

var (
	HeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	DoneStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
)
