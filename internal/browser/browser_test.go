package browser

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/telly/internal/apperrors"
	"github.com/five82/telly/internal/tvmaze"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type searchCall struct {
	ctx   context.Context
	query string
}

type fakeCatalog struct {
	mu        sync.Mutex
	pages     []int
	searches  []searchCall
	pageShows []tvmaze.Show
	pageErr   error
	results   map[string][]tvmaze.SearchResult
	searchErr error
}

func (f *fakeCatalog) GetPage(_ context.Context, page int) ([]tvmaze.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.pageShows, nil
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]tvmaze.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, searchCall{ctx: ctx, query: query})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results[query], nil
}

func (f *fakeCatalog) searchCalls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.searches...)
}

type blankErr struct{}

func (blankErr) Error() string { return "" }

type codedErr struct{ code string }

func (e codedErr) Error() string { return "request aborted" }
func (e codedErr) Code() string  { return e.code }

func rated(v float64) tvmaze.Rating { return tvmaze.Rating{Average: &v} }

func dashboardShows() []tvmaze.Show {
	return []tvmaze.Show{
		{ID: 1, Name: "Under the Dome", Genres: []string{"Drama", "Science-Fiction"}, Rating: rated(6.5)},
		{ID: 2, Name: "Person of Interest", Genres: []string{"Action", "Drama"}, Rating: rated(8.8)},
	}
}

func newTestModel(cat *fakeCatalog) Model {
	return New(Options{Catalog: cat, Debounce: 10 * time.Millisecond})
}

// loaded runs the dashboard load to completion.
func loaded(t *testing.T, cat *fakeCatalog) Model {
	t.Helper()
	m := newTestModel(cat)
	m, cmd := m.Update(m.Init()())
	require.Nil(t, cmd)
	return m
}

// drive executes cmd and feeds every resulting message back into m.
func drive(m Model, cmd tea.Cmd) Model {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func TestInit_LoadsDashboard(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := newTestModel(cat)
	assert.True(t, m.IsLoading(), "dashboard should be loading before init completes")

	m, _ = m.Update(m.Init()())

	assert.Equal(t, []int{0}, cat.pages)
	assert.False(t, m.IsLoading())
	assert.Empty(t, m.ErrorMessage())
	assert.Len(t, m.ActiveShows(), 2)
	assert.False(t, m.IsSearchMode())
}

func TestInit_UsesConfiguredPage(t *testing.T) {
	cat := &fakeCatalog{}
	m := New(Options{Catalog: cat, Page: 3})
	m.Init()()
	assert.Equal(t, []int{3}, cat.pages)
	assert.Equal(t, 3, m.Page())
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "message", err: errors.New("network down"), want: "network down"},
		{name: "blank", err: blankErr{}, want: fallbackLoadError},
		{name: "server", err: &tvmaze.StatusError{Code: 503, Path: "/shows"}, want: apperrors.MsgServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loaded(t, &fakeCatalog{pageErr: tt.err})
			assert.False(t, m.IsLoading())
			assert.Equal(t, tt.want, m.ErrorMessage())
			assert.Empty(t, m.ActiveShows())
		})
	}
}

func TestLoadInitial_RetryClearsError(t *testing.T) {
	cat := &fakeCatalog{pageErr: errors.New("boom")}
	m := loaded(t, cat)
	require.Equal(t, "boom", m.ErrorMessage())

	cat.mu.Lock()
	cat.pageErr = nil
	cat.pageShows = dashboardShows()
	cat.mu.Unlock()

	m, cmd := m.LoadInitial()
	assert.True(t, m.IsLoading())
	assert.Empty(t, m.ErrorMessage())
	m = drive(m, cmd)
	assert.Len(t, m.ActiveShows(), 2)
}

func TestLoadInitial_StaleCompletionIgnored(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := newTestModel(cat)
	first := m.Init()
	m, second := m.LoadInitial()

	m, _ = m.Update(first())
	assert.True(t, m.IsLoading(), "superseded load must not settle state")

	m, _ = m.Update(second())
	assert.False(t, m.IsLoading())
}

func TestSetQuery_DebouncesThenSearchesTrimmedQuery(t *testing.T) {
	cat := &fakeCatalog{
		pageShows: dashboardShows(),
		results: map[string][]tvmaze.SearchResult{
			"planet": {{Score: 0.9, Show: tvmaze.Show{ID: 99, Name: "Planet Earth", Genres: []string{"Nature"}}}},
		},
	}
	m := loaded(t, cat)

	m, cmd := m.SetQuery("  planet ")
	require.NotNil(t, cmd)
	assert.Empty(t, cat.searchCalls(), "search must wait for the debounce interval")
	assert.True(t, m.IsSearchMode())

	m, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	assert.True(t, m.IsSearching())

	m = drive(m, cmd)

	calls := cat.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "planet", calls[0].query)
	require.NotNil(t, calls[0].ctx)
	assert.NotNil(t, calls[0].ctx.Done(), "search must receive a cancellable context")

	assert.False(t, m.IsSearching())
	assert.Equal(t, "planet", m.AppliedQuery())
	require.Len(t, m.ActiveShows(), 1)
	assert.Equal(t, 99, m.ActiveShows()[0].ID)
	require.Len(t, m.GenreEntries(), 1)
	assert.Equal(t, "Nature", m.GenreEntries()[0].Genre)
}

func TestSetQuery_BelowMinimumNeverSearches(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := New(Options{Catalog: cat, MinQueryLength: 3, Debounce: 10 * time.Millisecond})
	m, _ = m.Update(m.Init()())

	m, cmd := m.SetQuery("ab")
	m = drive(m, cmd)

	assert.Empty(t, cat.searchCalls())
	assert.False(t, m.IsSearchMode())
	assert.False(t, m.IsSearching())
	assert.False(t, m.ShowNoResults())
}

func TestSetQuery_OnlyLastKeystrokeSearches(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := loaded(t, cat)

	m, first := m.SetQuery("pla")
	m, second := m.SetQuery("plan")

	assert.Nil(t, first(), "superseded debounce must yield no message")
	m = drive(m, second)

	calls := cat.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "plan", calls[0].query)
}

func TestSetQuery_StaleDebounceMessageIgnored(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := loaded(t, cat)

	m, _ = m.SetQuery("pla")
	stale := debounceMsg{seq: m.debounceSeq}
	m, pending := m.SetQuery("plan")

	m, cmd := m.Update(stale)
	assert.Nil(t, cmd)
	assert.False(t, m.IsSearching())

	m = drive(m, pending)
	assert.Len(t, cat.searchCalls(), 1)
}

func TestSubmit_StopsPendingDebounce(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := loaded(t, cat)

	m, pending := m.SetQuery("plan")
	m, cmd := m.Submit("plan")
	require.NotNil(t, cmd)
	m = drive(m, cmd)

	assert.Nil(t, pending(), "submitted query must not be searched again by the timer")
	m = drive(m, pending)

	calls := cat.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "plan", calls[0].query)
	assert.Equal(t, "plan", m.AppliedQuery())
	assert.Equal(t, "plan", m.Query())
}

func TestSubmit_SetsQueryWithoutTimer(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := loaded(t, cat)

	m, cmd := m.Submit("  zz ")
	m = drive(m, cmd)

	require.Len(t, cat.searchCalls(), 1)
	assert.Equal(t, "  zz ", m.Query())
	assert.True(t, m.ShowNoResults())
}

func TestSetQuery_UnchangedQueryIsNoop(t *testing.T) {
	m := loaded(t, &fakeCatalog{})
	m, cmd := m.SetQuery("lost")
	require.NotNil(t, cmd)
	seq := m.debounceSeq

	m, cmd = m.SetQuery("lost")
	assert.Nil(t, cmd)
	assert.Equal(t, seq, m.debounceSeq)
	m = m.ClearSearch()
}

func TestShowNoResults_OnlyForCurrentQuery(t *testing.T) {
	cat := &fakeCatalog{pageShows: dashboardShows()}
	m := loaded(t, cat)

	m, _ = m.SetQuery("zz")
	m, cmd := m.RunSearch("zz")
	m = drive(m, cmd)
	assert.True(t, m.ShowNoResults())

	m, _ = m.SetQuery("zzz")
	assert.False(t, m.ShowNoResults(), "a new query has no settled result yet")
	m = m.ClearSearch()
}

func TestShowNoResults_FalseWhileSearchingOrFailed(t *testing.T) {
	cat := &fakeCatalog{searchErr: errors.New("offline")}
	m := loaded(t, cat)

	m, _ = m.SetQuery("zz")
	m, cmd := m.RunSearch("zz")
	assert.True(t, m.IsSearching())
	assert.False(t, m.ShowNoResults())

	m = drive(m, cmd)
	assert.Equal(t, "offline", m.SearchError())
	assert.False(t, m.ShowNoResults())
	m = m.ClearSearch()
}

func TestClearSearch_ResetsAndCancels(t *testing.T) {
	cat := &fakeCatalog{
		pageShows: dashboardShows(),
		results: map[string][]tvmaze.SearchResult{
			"lost": {{Show: tvmaze.Show{ID: 7, Name: "Lost"}}},
		},
	}
	m := loaded(t, cat)

	m, _ = m.SetQuery("lost")
	m, inflight := m.RunSearch("lost")
	require.True(t, m.IsSearching())

	m = m.ClearSearch()
	assert.Empty(t, m.Query())
	assert.Empty(t, m.AppliedQuery())
	assert.Empty(t, m.SearchError())
	assert.False(t, m.IsSearching())
	assert.False(t, m.ShowNoResults())

	// The cancelled request may still complete; it must not resurrect results.
	m = drive(m, inflight)

	calls := cat.searchCalls()
	require.Len(t, calls, 1)
	assert.ErrorIs(t, calls[0].ctx.Err(), context.Canceled)
	assert.Empty(t, m.AppliedQuery())
	assert.False(t, m.IsSearching())
	assert.Len(t, m.ActiveShows(), 2, "dashboard should be visible again")
}

func TestClearSearch_ClearsError(t *testing.T) {
	m := loaded(t, &fakeCatalog{searchErr: blankErr{}})
	m, _ = m.SetQuery("lost")
	m, cmd := m.RunSearch("lost")
	m = drive(m, cmd)
	require.Equal(t, fallbackSearchError, m.SearchError())

	m = m.ClearSearch()
	assert.Empty(t, m.SearchError())
}

func TestRunSearch_CancelledErrorIsSilent(t *testing.T) {
	m := loaded(t, &fakeCatalog{searchErr: codedErr{code: apperrors.CodeCanceled}})
	m, _ = m.SetQuery("lost")
	m, cmd := m.RunSearch("lost")
	m = drive(m, cmd)

	assert.Empty(t, m.SearchError())
	assert.False(t, m.IsSearching())
	m = m.ClearSearch()
}

func TestRunSearch_SupersedesPrevious(t *testing.T) {
	cat := &fakeCatalog{
		results: map[string][]tvmaze.SearchResult{
			"lost": {{Show: tvmaze.Show{ID: 1}}},
			"lose": {{Show: tvmaze.Show{ID: 2}}},
		},
	}
	m := loaded(t, cat)
	m, _ = m.SetQuery("lose")

	m, older := m.RunSearch("lost")
	m, newer := m.RunSearch("lose")

	m, _ = m.Update(older())
	assert.True(t, m.IsSearching(), "superseded completion must not settle the search")
	assert.Empty(t, m.AppliedQuery())

	m = drive(m, newer)
	assert.Equal(t, "lose", m.AppliedQuery())
	require.Len(t, m.ActiveShows(), 1)
	assert.Equal(t, 2, m.ActiveShows()[0].ID)

	calls := cat.searchCalls()
	require.Len(t, calls, 2)
	assert.ErrorIs(t, calls[0].ctx.Err(), context.Canceled)
	m = m.ClearSearch()
}

func TestRunSearch_StaleErrorIgnored(t *testing.T) {
	m := loaded(t, &fakeCatalog{})
	m, _ = m.SetQuery("lost")
	m, cmd := m.RunSearch("lost")

	m, _ = m.Update(searchDoneMsg{seq: m.searchSeq - 1, query: "los", err: errors.New("late failure")})
	assert.Empty(t, m.SearchError())
	assert.True(t, m.IsSearching())

	m = drive(m, cmd)
	assert.False(t, m.IsSearching())
	m = m.ClearSearch()
}

func TestRunSearch_BelowMinimumKeepsPreviousResults(t *testing.T) {
	cat := &fakeCatalog{
		pageShows: dashboardShows(),
		results: map[string][]tvmaze.SearchResult{
			"lost": {{Show: tvmaze.Show{ID: 7, Name: "Lost"}}},
		},
	}
	m := loaded(t, cat)
	m, _ = m.SetQuery("lost")
	m, cmd := m.RunSearch("lost")
	m = drive(m, cmd)
	require.Equal(t, "lost", m.AppliedQuery())

	m, _ = m.SetQuery("l")
	m, cmd = m.RunSearch("l")
	assert.Nil(t, cmd)
	assert.False(t, m.IsSearching())
	assert.Equal(t, "lost", m.AppliedQuery())
	require.Len(t, m.ActiveShows(), 1)
	assert.Equal(t, 7, m.ActiveShows()[0].ID)
	assert.Len(t, cat.searchCalls(), 1)
	m = m.ClearSearch()
}

func TestRunSearch_EmptyReturnsToDashboard(t *testing.T) {
	cat := &fakeCatalog{
		pageShows: dashboardShows(),
		results: map[string][]tvmaze.SearchResult{
			"lost": {{Show: tvmaze.Show{ID: 7}}},
		},
	}
	m := loaded(t, cat)
	m, _ = m.SetQuery("lost")
	m, cmd := m.RunSearch("lost")
	m = drive(m, cmd)

	m, _ = m.SetQuery("   ")
	m, cmd = m.RunSearch("   ")
	assert.Nil(t, cmd)
	assert.Empty(t, m.AppliedQuery())
	assert.Len(t, m.ActiveShows(), 2)
	m = m.ClearSearch()
}

func TestActiveShows_DashboardWhileFirstSearchPending(t *testing.T) {
	m := loaded(t, &fakeCatalog{pageShows: dashboardShows()})
	m, _ = m.SetQuery("lost")
	m, _ = m.RunSearch("lost")

	assert.True(t, m.IsSearching())
	assert.Len(t, m.ActiveShows(), 2)
	m = m.ClearSearch()
}

func TestGenreEntries_Dashboard(t *testing.T) {
	m := loaded(t, &fakeCatalog{pageShows: dashboardShows()})

	entries := m.GenreEntries()
	genres := make([]string, 0, len(entries))
	for _, e := range entries {
		genres = append(genres, e.Genre)
	}
	assert.Equal(t, []string{"Action", "Drama", "Science-Fiction"}, genres)

	require.Len(t, entries[1].Shows, 2)
	assert.Equal(t, 2, entries[1].Shows[0].ID, "higher rating first")
}

func TestUpdate_IgnoresForeignMessages(t *testing.T) {
	m := loaded(t, &fakeCatalog{pageShows: dashboardShows()})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, m.ActiveShows(), next.ActiveShows())
}

func TestNilCatalog(t *testing.T) {
	m := New(Options{})
	m, _ = m.Update(m.Init()())
	assert.Equal(t, errNoCatalog.Error(), m.ErrorMessage())
}
