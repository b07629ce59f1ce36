package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/telly/internal/shows"
	"github.com/five82/telly/internal/tvmaze"
)

// initDetailViewport creates the detail viewport.
func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(max(m.width-4, 10), max(m.height-4, 1))
}

func (m *Model) resizeDetailViewport() {
	m.detailViewport.Width = max(m.width-4, 10)
	m.detailViewport.Height = max(m.height-4, 1) // header + cmdbar + borders
}

// updateDetailViewport refreshes the viewport with the current detail state.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(m.detailViewport.Width))
}

// renderDetail renders the detail view.
func (m Model) renderDetail() string {
	title := "Show"
	if show := m.detail.Show(); show != nil {
		title = show.Name
	}
	return m.renderTitledBox(title, m.detailViewport.View(), m.width, m.height-2, true)
}

// renderDetailContent builds the detail body for the given width.
func (m *Model) renderDetailContent(width int) string {
	styles := m.theme.Styles()

	if m.detail.IsLoading() {
		return m.spinner.View() + styles.MutedText.Render("Loading show...")
	}
	if errMsg := m.detail.ErrorMessage(); errMsg != "" {
		return styles.DangerText.Render(errMsg) + "\n" + styles.FaintText.Render("press r to retry, esc to go back")
	}
	show := m.detail.Show()
	if show == nil {
		return styles.MutedText.Render("Select a show")
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(show.Name))
	b.WriteString("\n")

	badges := []string{}
	if status := strings.TrimSpace(show.Status); status != "" {
		badges = append(badges, styles.StatusStyle(status).Render(status))
	}
	badges = append(badges, styles.WarningText.Render(shows.RatingLabel(*show)))
	b.WriteString(strings.Join(badges, " "))
	b.WriteString("\n\n")

	for _, f := range detailFields(*show) {
		b.WriteString(styles.FaintText.Width(12).Render(f.label))
		b.WriteString(styles.Text.Render(f.value))
		b.WriteString("\n")
	}

	if summary := m.renderSummary(show.SummaryHTML(), width); summary != "" {
		b.WriteString("\n")
		b.WriteString(summary)
	}

	return b.String()
}

type detailField struct {
	label string
	value string
}

// detailFields lists the populated metadata rows for a show.
func detailFields(show tvmaze.Show) []detailField {
	var fields []detailField
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fields = append(fields, detailField{label: label, value: value})
		}
	}

	add("Network", show.NetworkName())
	add("Type", show.Type)
	add("Language", show.Language)
	add("Genres", strings.Join(show.Genres, ", "))
	add("Aired", airedRange(show))
	if minutes := show.RuntimeMinutes(); minutes > 0 {
		add("Runtime", fmt.Sprintf("%d min", minutes))
	}
	add("Schedule", scheduleLabel(show.Schedule))
	add("Website", show.Website())
	return fields
}

func airedRange(show tvmaze.Show) string {
	start, end := show.PremieredYear(), show.EndedYear()
	switch {
	case start == 0:
		return ""
	case end > 0 && end != start:
		return fmt.Sprintf("%d–%d", start, end)
	case end > 0:
		return fmt.Sprintf("%d", start)
	default:
		return fmt.Sprintf("%d–", start)
	}
}

func scheduleLabel(s tvmaze.Schedule) string {
	days := strings.Join(s.Days, ", ")
	switch {
	case days != "" && s.Time != "":
		return days + " at " + s.Time
	default:
		return days + s.Time
	}
}

// renderSummary renders the HTML summary as Markdown, falling back to plain
// text when the renderer is unavailable.
func (m *Model) renderSummary(html string, width int) string {
	markdown := shows.SummaryMarkdown(html)
	if markdown == "" {
		return ""
	}
	renderer, err := m.getRenderer(width)
	if err != nil {
		m.logger.Debug("markdown renderer unavailable", zap.Error(err))
		return lipgloss.NewStyle().Width(width).Render(shows.StripHTML(html))
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		m.logger.Debug("render summary failed", zap.Error(err))
		return lipgloss.NewStyle().Width(width).Render(shows.StripHTML(html))
	}
	return strings.TrimRight(out, "\n")
}

// getRenderer returns a glamour renderer wrapped to width, rebuilding it only
// when the width changes.
func (m *Model) getRenderer(width int) (*glamour.TermRenderer, error) {
	wrap := max(width-2, 20)
	if m.renderer != nil && m.rendererWidth == wrap {
		return m.renderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}
	m.renderer = r
	m.rendererWidth = wrap
	return r, nil
}
