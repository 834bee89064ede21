// Package formatter renders stratako entities for the terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stratako/stratako/internal/domain"
)

var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill renders a project status with its color.
func StatusPill(status domain.ProjectStatus) string {
	label := status.String()
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● " + label)
	case domain.ProjectMaintenance:
		return StyleBlue.Render("● " + label)
	case domain.ProjectOnHold:
		return StyleYellow.Render("○ " + label)
	case domain.ProjectNotStarted:
		return StyleDim.Render("○ " + label)
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ " + label)
	case domain.ProjectAbandoned:
		return StyleRed.Render("✖ " + label)
	default:
		return StyleDim.Render(fmt.Sprintf("? %d", int(status)))
	}
}

// StatePill renders an operation's partition.
func StatePill(state domain.OperationState) string {
	switch state {
	case domain.OperationStarted:
		return StyleGreen.Render("● started")
	case domain.OperationCompleted:
		return StyleDim.Render("✔ done")
	default:
		return StyleBlue.Render("○ queued")
	}
}

// Header renders an upper-cased section title over a rule.
func Header(text string) string {
	upper := strings.ToUpper(text)
	return StyleHeader.Render(upper) + "\n" + StyleDim.Render(strings.Repeat("─", lipgloss.Width(upper)))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
