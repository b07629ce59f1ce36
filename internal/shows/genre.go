// Package shows holds pure helpers over catalog shows: genre grouping,
// rating formatting and summary text cleanup.
package shows

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/telly/internal/tvmaze"
)

// OtherGenre collects shows without any genre.
const OtherGenre = "Other"

// GenreEntry is one genre section ready for display.
type GenreEntry struct {
	Genre string
	Shows []tvmaze.Show
}

// RatingValue returns the average rating, treating a missing rating as 0.
func RatingValue(show tvmaze.Show) float64 {
	if show.Rating.Average == nil {
		return 0
	}
	return *show.Rating.Average
}

// FormatRating renders the rating with one decimal, or an em dash when unrated.
func FormatRating(show tvmaze.Show) string {
	if show.Rating.Average == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *show.Rating.Average)
}

// RatingLabel is the spoken form of FormatRating.
func RatingLabel(show tvmaze.Show) string {
	if show.Rating.Average == nil {
		return "No rating"
	}
	return "Rating " + FormatRating(show)
}

// GroupByGenre places every show under each of its distinct, non-blank
// genres, or under OtherGenre when it has none. Buckets are ordered by
// rating descending and keep input order for equal ratings. The input slice
// is not modified.
func GroupByGenre(list []tvmaze.Show) map[string][]tvmaze.Show {
	groups := make(map[string][]tvmaze.Show)
	for _, show := range list {
		for _, genre := range genresOf(show) {
			groups[genre] = append(groups[genre], show)
		}
	}
	for _, bucket := range groups {
		slices.SortStableFunc(bucket, func(a, b tvmaze.Show) int {
			return cmp.Compare(RatingValue(b), RatingValue(a))
		})
	}
	return groups
}

// SortedGenreEntries orders groups by genre name using English collation.
func SortedGenreEntries(groups map[string][]tvmaze.Show) []GenreEntry {
	entries := make([]GenreEntry, 0, len(groups))
	for genre, list := range groups {
		entries = append(entries, GenreEntry{Genre: genre, Shows: list})
	}
	col := collate.New(language.English)
	slices.SortFunc(entries, func(a, b GenreEntry) int {
		if c := col.CompareString(a.Genre, b.Genre); c != 0 {
			return c
		}
		return strings.Compare(a.Genre, b.Genre)
	})
	return entries
}

func genresOf(show tvmaze.Show) []string {
	seen := make(map[string]struct{}, len(show.Genres))
	out := make([]string, 0, len(show.Genres))
	for _, g := range show.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	if len(out) == 0 {
		return []string{OtherGenre}
	}
	return out
}
