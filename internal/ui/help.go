package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skylaunch/internal/pager"
)

// renderHelpContent builds the full help page shown in the pager
func renderHelpContent(keys keyMap, configPath string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	writeBinding := func(b key.Binding) {
		h := b.Help()
		help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
	}

	help.WriteString(titleStyle.Render("Skylaunch Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Navigation"))
	help.WriteString("\n")
	for _, b := range []key.Binding{keys.Up, keys.Down, keys.Home, keys.End, keys.PageUp, keys.PageDown} {
		writeBinding(b)
	}
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Actions"))
	help.WriteString("\n")
	for _, b := range []key.Binding{keys.Execute, keys.Clear, keys.ToggleInfo} {
		writeBinding(b)
	}
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	notes := []string{
		"Type to search titles and keywords.",
		"Title prefix matches rank first, then title subsequences, then keywords.",
		"With an empty query, recently launched entries are listed first.",
	}
	for _, n := range notes {
		help.WriteString("  " + descStyle.Render(n) + "\n")
	}
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	for _, b := range []key.Binding{keys.Help, keys.Quit} {
		writeBinding(b)
	}
	if configPath != "" {
		help.WriteString("\n")
		help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render("  Config: " + configPath))
	}

	return help.String()
}

// showHelpPager hands the terminal to ov for the help page
func (m *Model) showHelpPager() tea.Cmd {
	content := renderHelpContent(m.keys, m.configPath)
	program := m.program
	return func() tea.Msg {
		if program == nil {
			return helpPagerMsg{err: fmt.Errorf("program not set")}
		}

		if err := program.ReleaseTerminal(); err != nil {
			return helpPagerMsg{err: err}
		}

		err := pager.Show(content)

		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		if rerr := program.RestoreTerminal(); rerr != nil && err == nil {
			err = rerr
		}

		return helpPagerMsg{err: err}
	}
}
