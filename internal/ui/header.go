package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("telly", styles.Logo)}

	switch {
	case m.currentView == ViewDetail && m.detail.Show() != nil:
		parts = append(parts, bg.Render("Show #"+fmt.Sprint(m.detail.ID()), styles.MutedText))
	case m.browser.Query() != "" && m.browser.AppliedQuery() != "":
		parts = append(parts,
			bg.Render("Search", styles.AccentText)+bg.Space()+
				bg.Render(truncate(m.browser.AppliedQuery(), 24), styles.Text))
	default:
		parts = append(parts,
			bg.Render("Dashboard", styles.AccentText)+bg.Space()+
				bg.Render(fmt.Sprintf("page %d", m.browser.Page()), styles.MutedText))
	}

	active := m.browser.ActiveShows()
	genres := len(m.browser.GenreEntries())
	if compact {
		parts = append(parts, bg.Render(fmt.Sprintf("%d/%d", len(active), genres), styles.InfoText))
	} else {
		parts = append(parts, bg.Render(fmt.Sprintf("%d shows · %d genres", len(active), genres), styles.InfoText))
	}

	switch {
	case m.browser.IsLoading() || m.browser.IsSearching() || m.detail.IsLoading():
		parts = append(parts, bg.Render("Loading", styles.WarningText.Bold(true)))
	case m.browser.ErrorMessage() != "" || m.browser.SearchError() != "":
		parts = append(parts, bg.Render("Error", styles.DangerText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.inputFocused:
		commands = []cmd{
			{"enter", "Search now"},
			{"esc", "Clear"},
		}
	case m.currentView == ViewDetail:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"j/k", "Navigate"},
			{"enter", "Details"},
			{"r", "Reload"},
		}
		if m.browser.Query() != "" {
			commands = append(commands, cmd{"esc", "Clear"})
		}
		commands = append(commands, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
