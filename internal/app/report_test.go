package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/telly/internal/tvmaze"
)

type stubCatalog struct {
	page      []tvmaze.Show
	pageErr   error
	results   []tvmaze.SearchResult
	searchErr error
	show      *tvmaze.Show
	showErr   error
	searched  []string
}

func (s *stubCatalog) GetPage(context.Context, int) ([]tvmaze.Show, error) {
	return s.page, s.pageErr
}

func (s *stubCatalog) Search(_ context.Context, q string) ([]tvmaze.SearchResult, error) {
	s.searched = append(s.searched, q)
	return s.results, s.searchErr
}

func (s *stubCatalog) GetByID(context.Context, int) (*tvmaze.Show, error) {
	return s.show, s.showErr
}

func rated(v float64) tvmaze.Rating { return tvmaze.Rating{Average: &v} }

func strPtr(s string) *string { return &s }

func TestPrintList_GroupsByGenre(t *testing.T) {
	cat := &stubCatalog{page: []tvmaze.Show{
		{ID: 1, Name: "Under the Dome", Genres: []string{"Drama", "Thriller"}, Rating: rated(6.5),
			Network: &tvmaze.Network{Name: "CBS"}, Premiered: strPtr("2013-06-24")},
		{ID: 2, Name: "Person of Interest", Genres: []string{"Drama"}, Rating: rated(8.8)},
		{ID: 3, Name: "Untagged"},
	}}

	var buf bytes.Buffer
	require.NoError(t, PrintList(context.Background(), &buf, cat, 0, nil))

	out := buf.String()
	assert.Contains(t, out, "Drama (2)\n")
	assert.Contains(t, out, "Other (1)\n")
	assert.Contains(t, out, "Thriller (1)\n")
	assert.Contains(t, out, "6.5  CBS  2013")
	assert.Less(t, strings.Index(out, "Person of Interest"), strings.Index(out, "Under the Dome"))
	assert.Less(t, strings.Index(out, "Drama"), strings.Index(out, "Other"))
}

func TestPrintList_Error(t *testing.T) {
	cat := &stubCatalog{pageErr: &tvmaze.StatusError{Code: 500, Path: "/shows"}}
	err := PrintList(context.Background(), &bytes.Buffer{}, cat, 0, nil)
	require.Error(t, err)
	assert.Equal(t, "Server error. Please try again.", err.Error())
}

func TestPrintSearch_RankOrder(t *testing.T) {
	cat := &stubCatalog{results: []tvmaze.SearchResult{
		{Score: 0.9, Show: tvmaze.Show{Name: "Lost"}},
		{Score: 0.4, Show: tvmaze.Show{Name: "Lost Girl"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, PrintSearch(context.Background(), &buf, cat, "  lost ", 2, nil))

	assert.Equal(t, []string{"lost"}, cat.searched)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, " 1. Lost "), out)
	assert.Contains(t, out, " 2. Lost Girl")
}

func TestPrintSearch_TooShort(t *testing.T) {
	cat := &stubCatalog{}
	err := PrintSearch(context.Background(), &bytes.Buffer{}, cat, "a", 3, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
	assert.Empty(t, cat.searched)
}

func TestPrintSearch_NoResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSearch(context.Background(), &buf, &stubCatalog{}, "zzz", 2, nil))
	assert.Equal(t, "No shows match \"zzz\".\n", buf.String())
}

func TestPrintSearch_Error(t *testing.T) {
	cat := &stubCatalog{searchErr: errors.New("dial tcp: connection refused")}
	err := PrintSearch(context.Background(), &bytes.Buffer{}, cat, "lost", 2, nil)
	require.Error(t, err)
	assert.Equal(t, "dial tcp: connection refused", err.Error())
}

func TestPrintShow_Card(t *testing.T) {
	runtime := 60
	cat := &stubCatalog{show: &tvmaze.Show{
		ID: 1, Name: "Under the Dome", Status: "Ended", Rating: rated(6.5),
		Genres: []string{"Drama", "Thriller"}, Runtime: &runtime,
		Premiered: strPtr("2013-06-24"), Ended: strPtr("2015-09-10"),
		Summary: strPtr("<p><b>Under the Dome</b> is the story of a small town.</p>"),
	}}

	var buf bytes.Buffer
	require.NoError(t, PrintShow(context.Background(), &buf, cat, "1", nil))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Under the Dome\n==============\n"), out)
	assert.Contains(t, out, "Status:    Ended\n")
	assert.Contains(t, out, "Rating:    Rating 6.5\n")
	assert.Contains(t, out, "Aired:     2013-2015\n")
	assert.Contains(t, out, "Runtime:   60 min\n")
	assert.Contains(t, out, "Under the Dome is the story of a small town.")
	assert.NotContains(t, out, "<p>")
}

func TestPrintShow_InvalidID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-2", "1.5", "NaN"} {
		err := PrintShow(context.Background(), &bytes.Buffer{}, &stubCatalog{}, raw, nil)
		require.Error(t, err, raw)
		assert.Equal(t, "Invalid show id.", err.Error(), raw)
	}
}

func TestPrintShow_NotFound(t *testing.T) {
	cat := &stubCatalog{showErr: &tvmaze.StatusError{Code: 404, Path: "/shows/9"}}
	err := PrintShow(context.Background(), &bytes.Buffer{}, cat, "9", nil)
	require.Error(t, err)
	assert.Equal(t, "Not found.", err.Error())
}
