package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"skylaunch/internal/controller"
	"skylaunch/internal/search"
)

// ResultRenderer handles rendering of result rows
type ResultRenderer struct {
	styles        *Styles
	showScores    bool
	showSubtitles bool
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles, showScores, showSubtitles bool) *ResultRenderer {
	return &ResultRenderer{
		styles:        styles,
		showScores:    showScores,
		showSubtitles: showSubtitles,
	}
}

// SetShowScores toggles the score column
func (r *ResultRenderer) SetShowScores(show bool) {
	r.showScores = show
}

// ShowScores reports whether the score column is shown
func (r *ResultRenderer) ShowScores() bool {
	return r.showScores
}

// RenderResult renders one result row
func (r *ResultRenderer) RenderResult(res controller.ResultView, query string, isSelected bool, width int) string {
	bg := lipgloss.NewStyle()
	if isSelected {
		bg = r.styles.SelectionBg
	}

	cursor := bg.Render("  ")
	if isSelected {
		cursor = r.styles.Cursor.Inherit(bg).Render("> ")
	}

	title := r.renderTitle(res, query, bg)

	var parts []string
	parts = append(parts, cursor, title)

	if r.showSubtitles && res.Subtitle != "" {
		parts = append(parts, bg.Render("  "), r.styles.Subtitle.Inherit(bg).Render(res.Subtitle))
	}

	badge := lipgloss.NewStyle().Foreground(lipgloss.Color(SourceColor(res.Source))).Inherit(bg)
	parts = append(parts, bg.Render("  "), badge.Render("["+res.Source+"]"))

	if r.showScores {
		parts = append(parts, bg.Render(" "), r.styles.Score.Inherit(bg).Render(fmt.Sprintf("%.3f %s", res.Score, res.Rule)))
	}

	line := strings.Join(parts, "")
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// renderTitle highlights the characters the query matched. Keyword matches
// leave the title plain since the match was elsewhere.
func (r *ResultRenderer) renderTitle(res controller.ResultView, query string, bg lipgloss.Style) string {
	base := r.styles.Item.Inherit(bg)
	if res.Rule != search.RulePrefix && res.Rule != search.RuleTitle {
		return base.Render(res.Title)
	}
	positions := search.MatchedPositions(query, res.Title)
	if len(positions) == 0 {
		return base.Render(res.Title)
	}
	return lipgloss.StyleRunes(res.Title, positions, r.styles.Match.Inherit(bg), base)
}
