package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/telly/internal/shows"
	"github.com/five82/telly/internal/tvmaze"
)

// listRow is one selectable line of the genre list. A show with several
// genres appears once per genre.
type listRow struct {
	genre string
	show  tvmaze.Show
}

// rows flattens the genre entries into selectable rows.
func (m Model) rows() []listRow {
	var rows []listRow
	for _, entry := range m.browser.GenreEntries() {
		for _, show := range entry.Shows {
			rows = append(rows, listRow{genre: entry.Genre, show: show})
		}
	}
	return rows
}

// listHeight is the number of content lines inside the list box.
func (m Model) listHeight() int {
	// header + cmdbar + search line + box borders
	return max(m.height-5, 1)
}

// renderList renders the search line and the genre sections.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 3 // header + cmdbar + search line

	search := m.renderSearchLine()

	if m.browser.IsLoading() && len(m.browser.DashboardShows()) == 0 {
		msg := m.spinner.View() + " " + styles.MutedText.Render("Loading shows...")
		return search + "\n" + lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	if errMsg := m.browser.ErrorMessage(); errMsg != "" && len(m.browser.ActiveShows()) == 0 {
		msg := styles.DangerText.Render(errMsg) + "\n" + styles.FaintText.Render("press r to retry")
		return search + "\n" + lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	if m.browser.ShowNoResults() {
		msg := styles.MutedText.Render(fmt.Sprintf("No shows match %q.", strings.TrimSpace(m.browser.Query())))
		return search + "\n" + lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	content := m.renderGenreSections(m.width-2, m.theme.SurfaceAlt)
	return search + "\n" + m.renderTitledBox(m.listTitle(), content, m.width, contentHeight, true)
}

// renderSearchLine renders the query input with search status.
func (m Model) renderSearchLine() string {
	styles := m.theme.Styles()
	parts := []string{m.searchInput.View()}

	switch {
	case m.browser.IsSearching():
		parts = append(parts, m.spinner.View()+styles.MutedText.Render("Searching..."))
	case m.browser.SearchError() != "":
		parts = append(parts, styles.DangerText.Render(m.browser.SearchError()))
	case m.browser.Query() != "" && !m.browser.IsSearchMode():
		parts = append(parts, styles.FaintText.Render("keep typing..."))
	}
	if errMsg := m.browser.ErrorMessage(); errMsg != "" && len(m.browser.ActiveShows()) > 0 {
		parts = append(parts, styles.DangerText.Render(errMsg))
	}

	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) listTitle() string {
	if applied := m.browser.AppliedQuery(); applied != "" && m.browser.Query() != "" {
		return fmt.Sprintf("Results for %q", truncate(applied, 30))
	}
	return fmt.Sprintf("Shows · page %d", m.browser.Page())
}

// renderGenreSections renders genre headings and show rows, scrolled so the
// selected row stays visible.
func (m Model) renderGenreSections(width int, bgColor string) string {
	entries := m.browser.GenreEntries()
	if len(entries) == 0 {
		return ""
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	var lines []string
	selectedLine := 0
	index := 0
	for _, entry := range entries {
		heading := bg.Render(entry.Genre, styles.AccentText.Bold(true)) +
			bg.Render(fmt.Sprintf(" (%d)", len(entry.Shows)), styles.FaintText)
		lines = append(lines, heading)
		for _, show := range entry.Shows {
			selected := index == m.selectedRow
			if selected {
				selectedLine = len(lines)
				content := m.formatShowRow(show, width, m.theme.SelectionBg, true)
				lines = append(lines, lipgloss.NewStyle().
					Background(lipgloss.Color(m.theme.SelectionBg)).
					Width(width).
					Render(content))
			} else {
				content := m.formatShowRow(show, width, bgColor, false)
				lines = append(lines, lipgloss.NewStyle().
					Background(lipgloss.Color(bgColor)).
					Width(width).
					Render(content))
			}
			index++
		}
	}

	return strings.Join(visibleWindow(lines, selectedLine, m.listHeight()), "\n")
}

// visibleWindow returns at most height lines around focus.
func visibleWindow(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := focus - height/2
	start = max(start, 0)
	start = min(start, len(lines)-height)
	return lines[start : start+height]
}

// formatShowRow formats a show card line.
// Format: "  Name · ★ 8.8 · Network · 2012"
func (m Model) formatShowRow(show tvmaze.Show, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	meta := []string{shows.FormatRating(show)}
	if network := show.NetworkName(); network != "" {
		meta = append(meta, network)
	}
	if year := show.PremieredYear(); year > 0 {
		meta = append(meta, fmt.Sprintf("%d", year))
	}
	metaStr := strings.Join(meta, " · ")

	nameWidth := max(width-len([]rune(metaStr))-5, 10)

	var nameStyle, sepStyle, metaStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		nameStyle = selText
		sepStyle = selText
		metaStyle = selText
	} else {
		styles := m.theme.Styles()
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForStatus(show.Status)))
		sepStyle = styles.FaintText
		metaStyle = styles.MutedText
	}

	return bg.Spaces(2) +
		bg.Render(truncate(show.Name, nameWidth), nameStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(metaStr, metaStyle)
}

// colorForStatus returns the theme color for a show status.
func (m Model) colorForStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Text
}

// renderTitledBox renders content in a box with the title embedded in the top border.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
	} else {
		borderColorStr = m.theme.Border
	}
	bgColorStr = m.theme.SurfaceAlt
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := len([]rune(title))
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	paddedLines := make([]string, 0, max(boxHeight, 0))
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
