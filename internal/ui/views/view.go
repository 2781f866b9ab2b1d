package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"skylaunch/internal/controller"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	InputView     string
	Query         string
	Results       []controller.ResultView
	SelectedIndex int
	HasSelection  bool
	CatalogSize   int
	Scanning      bool
	Pending       bool
	StatusMessage string
	StatusIsError bool
	HelpView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	resultRender *ResultRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showScores, showSubtitles bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		resultRender: NewResultRenderer(styles, showScores, showSubtitles),
	}
}

// Results exposes the row renderer so the model can toggle columns
func (r *Renderer) Results() *ResultRenderer {
	return r.resultRender
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Input.Render(state.InputView))
	content.WriteString("\n")

	switch {
	case len(state.Results) > 0:
		content.WriteString(r.renderResults(state))
	case state.Scanning && state.CatalogSize == 0:
		content.WriteString(r.styles.Dim.Render("Discovering applications..."))
	case state.Query != "":
		content.WriteString(r.styles.Dim.Render("No matches."))
	default:
		content.WriteString(r.styles.Dim.Render("Nothing to launch yet."))
	}

	if state.StatusMessage != "" {
		content.WriteString("\n")
		style := r.styles.Status
		if state.StatusIsError {
			style = style.Inherit(r.styles.StatusError)
		}
		content.WriteString(style.Render(state.StatusMessage))
	}

	if state.HelpView != "" {
		// Push help to the bottom of the screen
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := state.Height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		if pad := availableLines - currentLines - 1; pad > 0 {
			content.WriteString(strings.Repeat("\n", pad))
		}
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("skylaunch")

	var indicators []string
	if state.Scanning {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		indicators = append(indicators, fmt.Sprintf("%s Scanning", spinner[frame]))
	}
	if state.Pending {
		indicators = append(indicators, "searching")
	}
	indicators = append(indicators, fmt.Sprintf("%d entries", state.CatalogSize))

	right := r.styles.Dim.Render(strings.Join(indicators, " | "))

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderResults(state ViewState) string {
	width := state.Width - 4
	lines := make([]string, 0, len(state.Results))
	for i, res := range state.Results {
		selected := state.HasSelection && i == state.SelectedIndex
		lines = append(lines, r.resultRender.RenderResult(res, state.Query, selected, width))
	}
	return strings.Join(lines, "\n")
}
