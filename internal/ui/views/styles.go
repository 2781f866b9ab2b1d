package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Input         lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Subtitle      lipgloss.Style
	Score         lipgloss.Style
	Match         lipgloss.Style
	Item          lipgloss.Style
	SelectionBg   lipgloss.Style
	Cursor        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:   lipgloss.NewStyle().Faint(true),
		Input: lipgloss.NewStyle().MarginTop(1).MarginBottom(1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		Subtitle:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Score:         lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Match:         lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Item:          lipgloss.NewStyle(),
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
	}
}

// SourceColor returns the badge color for a catalog source
func SourceColor(source string) string {
	switch source {
	case "builtin":
		return "99" // purple
	case "desktop":
		return "78" // green
	case "path":
		return "39" // blue
	default:
		return "245"
	}
}
