package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/five82/telly/internal/browser"
	"github.com/five82/telly/internal/detail"
	"github.com/five82/telly/internal/shows"
	"github.com/five82/telly/internal/tvmaze"
)

// PrintList writes the dashboard page grouped by genre.
func PrintList(ctx context.Context, w io.Writer, catalog tvmaze.Catalog, page int, logger *zap.Logger) error {
	b := browser.New(browser.Options{Context: ctx, Catalog: catalog, Page: page, Logger: logger})
	b, _ = b.Update(b.Init()())
	if msg := b.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}

	entries := b.GenreEntries()
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No shows on page %d.\n", b.Page())
		return err
	}
	for i, entry := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", entry.Genre, len(entry.Shows))
		for _, show := range entry.Shows {
			fmt.Fprintln(w, showLine(show))
		}
	}
	return nil
}

// PrintSearch writes search results in relevance order.
func PrintSearch(ctx context.Context, w io.Writer, catalog tvmaze.Catalog, query string, minLen int, logger *zap.Logger) error {
	b := browser.New(browser.Options{Context: ctx, Catalog: catalog, MinQueryLength: minLen, Logger: logger})
	b, cmd := b.Submit(query)
	if cmd == nil {
		if minLen <= 0 {
			minLen = browser.DefaultMinQueryLength
		}
		return fmt.Errorf("query must be at least %d characters", minLen)
	}
	b, _ = b.Update(cmd())
	if msg := b.SearchError(); msg != "" {
		return errors.New(msg)
	}

	results := b.ActiveShows()
	if b.ShowNoResults() {
		_, err := fmt.Fprintf(w, "No shows match %q.\n", strings.TrimSpace(query))
		return err
	}
	for i, show := range results {
		fmt.Fprintf(w, "%2d. %s\n", i+1, strings.TrimLeft(showLine(show), " "))
	}
	return nil
}

// PrintShow writes a detail card for the show id in raw.
func PrintShow(ctx context.Context, w io.Writer, catalog tvmaze.Catalog, raw string, logger *zap.Logger) error {
	d := detail.New(detail.Options{Context: ctx, Fetcher: catalog, Logger: logger})
	d, cmd := d.SetID(detail.ParseID(raw))
	if cmd != nil {
		d, _ = d.Update(cmd())
	}
	if msg := d.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}
	show := d.Show()
	if show == nil {
		return errors.New(detail.MsgInvalidID)
	}

	fmt.Fprintln(w, show.Name)
	fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(show.Name)))
	field := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(w, "%-10s %s\n", label+":", value)
		}
	}
	field("Status", show.Status)
	field("Rating", shows.RatingLabel(*show))
	field("Network", show.NetworkName())
	field("Genres", strings.Join(show.Genres, ", "))
	if year := show.PremieredYear(); year > 0 {
		aired := fmt.Sprintf("%d", year)
		if end := show.EndedYear(); end > 0 && end != year {
			aired += fmt.Sprintf("-%d", end)
		}
		field("Aired", aired)
	}
	if minutes := show.RuntimeMinutes(); minutes > 0 {
		field("Runtime", fmt.Sprintf("%d min", minutes))
	}
	field("Website", show.Website())
	if summary := shows.Snippet(show.SummaryHTML()); summary != "" {
		fmt.Fprintf(w, "\n%s\n", summary)
	}
	return nil
}

// showLine formats one show as "  Name  rating  network  year".
func showLine(show tvmaze.Show) string {
	parts := []string{shows.FormatRating(show)}
	if network := show.NetworkName(); network != "" {
		parts = append(parts, network)
	}
	if year := show.PremieredYear(); year > 0 {
		parts = append(parts, fmt.Sprintf("%d", year))
	}
	return fmt.Sprintf("  %-36s %s", show.Name, strings.Join(parts, "  "))
}
