// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/assemble/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// Header styles table headers.
var Header = lipgloss.NewStyle().Bold(true).Foreground(Iris)

// Muted styles secondary text such as commit hashes.
var Muted = lipgloss.NewStyle().Foreground(Slate)

var stateStyles = map[domain.WorkTreeState]lipgloss.Style{
	domain.WorkTreeInSync:  lipgloss.NewStyle().Foreground(Green),
	domain.WorkTreeDrifted: lipgloss.NewStyle().Foreground(Yellow),
	domain.WorkTreeMissing: lipgloss.NewStyle().Foreground(Red),
}

var stateIcons = map[domain.WorkTreeState]string{
	domain.WorkTreeInSync:  Check,
	domain.WorkTreeDrifted: Tilde,
	domain.WorkTreeMissing: Cross,
}

// State renders a work tree state with its icon and color.
func State(s domain.WorkTreeState) string {
	icon, ok := stateIcons[s]
	if !ok {
		icon = Circle
	}
	st, ok := stateStyles[s]
	if !ok {
		st = Muted
	}
	return st.Render(icon + " " + string(s))
}
