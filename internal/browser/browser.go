package browser

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/telly/internal/apperrors"
	"github.com/five82/telly/internal/shows"
	"github.com/five82/telly/internal/tvmaze"
)

// Defaults applied when Options leave a field at its zero value.
const (
	DefaultMinQueryLength = 2
	DefaultDebounce       = 500 * time.Millisecond
)

const (
	fallbackLoadError   = "Failed to load shows. Please try again."
	fallbackSearchError = "Search failed. Please try again."
)

var errNoCatalog = errors.New("no catalog configured")

// Catalog is the subset of the TVMaze API the browser needs.
type Catalog interface {
	GetPage(ctx context.Context, page int) ([]tvmaze.Show, error)
	Search(ctx context.Context, query string) ([]tvmaze.SearchResult, error)
}

// Options configure a Model. They are fixed for the Model's lifetime.
type Options struct {
	Context        context.Context
	Catalog        Catalog
	Page           int
	MinQueryLength int
	Debounce       time.Duration
	Logger         *zap.Logger
}

// Model holds dashboard and search state.
type Model struct {
	ctx            context.Context
	catalog        Catalog
	logger         *zap.Logger
	page           int
	minQueryLength int
	debounce       time.Duration

	// Dashboard
	shows        []tvmaze.Show
	isLoading    bool
	errorMessage string
	loadSeq      uint64

	// Search
	query         string
	searchedShows []tvmaze.Show
	isSearching   bool
	searchError   string
	appliedQuery  string

	debounceSeq  uint64
	stopDebounce context.CancelFunc
	searchSeq    uint64
	stopSearch   context.CancelFunc
}

// New creates a browser primed for its dashboard load; Init returns the
// command that performs it.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minLen := opts.MinQueryLength
	if minLen <= 0 {
		minLen = DefaultMinQueryLength
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	page := opts.Page
	if page < 0 {
		page = 0
	}
	return Model{
		ctx:            ctx,
		catalog:        opts.Catalog,
		logger:         logger.Named("browser"),
		page:           page,
		minQueryLength: minLen,
		debounce:       debounce,
		isLoading:      true,
		loadSeq:        1,
	}
}

// Messages

type pageLoadedMsg struct {
	seq   uint64
	page  int
	shows []tvmaze.Show
	err   error
}

type debounceMsg struct {
	seq uint64
}

type searchDoneMsg struct {
	seq     uint64
	query   string
	results []tvmaze.SearchResult
	err     error
}

// Init returns the dashboard load primed by New.
func (m Model) Init() tea.Cmd {
	return loadPageCmd(m.ctx, m.catalog, m.loadSeq, m.page)
}

// LoadInitial (re)loads the dashboard page.
func (m Model) LoadInitial() (Model, tea.Cmd) {
	m.loadSeq++
	m.isLoading = true
	m.errorMessage = ""
	return m, loadPageCmd(m.ctx, m.catalog, m.loadSeq, m.page)
}

// SetQuery records new search text and restarts the debounce timer.
func (m Model) SetQuery(query string) (Model, tea.Cmd) {
	if query == m.query {
		return m, nil
	}
	m.query = query
	m.cancelDebounce()

	ctx, stop := context.WithCancel(m.ctx)
	m.stopDebounce = stop
	return m, debounceCmd(ctx, m.debounce, m.debounceSeq)
}

// Submit sets the query and searches at once. Any pending debounce timer is
// stopped, so the submitted text is searched exactly once.
func (m Model) Submit(query string) (Model, tea.Cmd) {
	m.query = query
	m.cancelDebounce()
	return m.RunSearch(query)
}

// RunSearch evaluates raw immediately, bypassing the debounce timer.
func (m Model) RunSearch(raw string) (Model, tea.Cmd) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		m.cancelSearch()
		m.searchedShows = nil
		m.appliedQuery = ""
		m.searchError = ""
		m.isSearching = false
		return m, nil
	}

	// Below the threshold the previous results stay on screen.
	if utf8.RuneCountInString(trimmed) < m.minQueryLength {
		m.cancelSearch()
		m.isSearching = false
		m.searchError = ""
		return m, nil
	}

	m.cancelSearch()
	ctx, stop := context.WithCancel(m.ctx)
	m.stopSearch = stop
	m.isSearching = true
	m.searchError = ""
	m.logger.Debug("search issued", zap.String("query", trimmed), zap.Uint64("seq", m.searchSeq))
	return m, searchCmd(ctx, m.catalog, m.searchSeq, trimmed)
}

// ClearSearch drops all search state at once and returns to the dashboard.
func (m Model) ClearSearch() Model {
	m.cancelDebounce()
	m.cancelSearch()
	m.query = ""
	m.searchedShows = nil
	m.appliedQuery = ""
	m.searchError = ""
	m.isSearching = false
	return m
}

// Update applies command results. Foreign messages are ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return m.handlePageLoaded(msg), nil
	case debounceMsg:
		if msg.seq != m.debounceSeq {
			return m, nil
		}
		if m.stopDebounce != nil {
			m.stopDebounce()
			m.stopDebounce = nil
		}
		return m.RunSearch(m.query)
	case searchDoneMsg:
		return m.handleSearchDone(msg), nil
	}
	return m, nil
}

func (m Model) handlePageLoaded(msg pageLoadedMsg) Model {
	if msg.seq != m.loadSeq {
		return m
	}
	m.isLoading = false
	if msg.err != nil {
		m.errorMessage = apperrors.ToUserMessage(msg.err, fallbackLoadError)
		m.logger.Warn("dashboard load failed", zap.Int("page", msg.page), zap.Error(msg.err))
		return m
	}
	m.shows = msg.shows
	m.errorMessage = ""
	return m
}

func (m Model) handleSearchDone(msg searchDoneMsg) Model {
	current := msg.seq == m.searchSeq
	if apperrors.IsCancelled(msg.err) {
		m.logger.Debug("search cancelled", zap.String("query", msg.query), zap.Bool("current", current))
		if current {
			m.releaseSearch()
			m.isSearching = false
		}
		return m
	}
	if !current {
		m.logger.Debug("dropping stale search", zap.String("query", msg.query))
		return m
	}

	m.releaseSearch()
	m.isSearching = false
	if msg.err != nil {
		m.searchError = apperrors.ToUserMessage(msg.err, fallbackSearchError)
		m.logger.Warn("search failed", zap.String("query", msg.query), zap.Error(msg.err))
		return m
	}
	found := make([]tvmaze.Show, 0, len(msg.results))
	for _, r := range msg.results {
		found = append(found, r.Show)
	}
	m.searchedShows = found
	m.appliedQuery = msg.query
	m.searchError = ""
	return m
}

// cancelDebounce stops the pending timer and invalidates its message.
func (m *Model) cancelDebounce() {
	if m.stopDebounce != nil {
		m.stopDebounce()
		m.stopDebounce = nil
	}
	m.debounceSeq++
}

// cancelSearch aborts the in-flight search and invalidates its completion.
func (m *Model) cancelSearch() {
	m.releaseSearch()
	m.searchSeq++
}

func (m *Model) releaseSearch() {
	if m.stopSearch != nil {
		m.stopSearch()
		m.stopSearch = nil
	}
}

// Derived state

// Page returns the dashboard page index.
func (m Model) Page() int { return m.page }

// Query returns the raw search text.
func (m Model) Query() string { return m.query }

// AppliedQuery is the trimmed query the current search results belong to.
func (m Model) AppliedQuery() string { return m.appliedQuery }

// IsLoading reports a pending dashboard load.
func (m Model) IsLoading() bool { return m.isLoading }

// ErrorMessage returns the dashboard error, or "".
func (m Model) ErrorMessage() string { return m.errorMessage }

// IsSearching reports a pending search request.
func (m Model) IsSearching() bool { return m.isSearching }

// SearchError returns the search error, or "".
func (m Model) SearchError() string { return m.searchError }

// DashboardShows returns the dashboard page.
func (m Model) DashboardShows() []tvmaze.Show { return m.shows }

// IsSearchMode reports whether the query is long enough to search.
func (m Model) IsSearchMode() bool {
	return utf8.RuneCountInString(strings.TrimSpace(m.query)) >= m.minQueryLength
}

// ActiveShows is what the list displays: the dashboard when the query is
// empty, otherwise the search results. While the very first search is still
// pending the dashboard stays visible.
func (m Model) ActiveShows() []tvmaze.Show {
	if strings.TrimSpace(m.query) == "" {
		return m.shows
	}
	if len(m.searchedShows) > 0 || m.appliedQuery != "" {
		return m.searchedShows
	}
	return m.shows
}

// GenreEntries groups ActiveShows by genre in display order.
func (m Model) GenreEntries() []shows.GenreEntry {
	return shows.SortedGenreEntries(shows.GroupByGenre(m.ActiveShows()))
}

// ShowNoResults is true only when the search for the current query has
// completed and returned nothing.
func (m Model) ShowNoResults() bool {
	q := strings.TrimSpace(m.query)
	return utf8.RuneCountInString(q) >= m.minQueryLength &&
		!m.isSearching &&
		m.searchError == "" &&
		m.appliedQuery == q &&
		len(m.searchedShows) == 0
}

// Commands

func loadPageCmd(ctx context.Context, catalog Catalog, seq uint64, page int) tea.Cmd {
	return func() tea.Msg {
		if catalog == nil {
			return pageLoadedMsg{seq: seq, page: page, err: errNoCatalog}
		}
		list, err := catalog.GetPage(ctx, page)
		return pageLoadedMsg{seq: seq, page: page, shows: list, err: err}
	}
}

// debounceCmd fires after d unless ctx is cancelled first, in which case it
// yields no message.
func debounceCmd(ctx context.Context, d time.Duration, seq uint64) tea.Cmd {
	return func() tea.Msg {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return debounceMsg{seq: seq}
		case <-ctx.Done():
			return nil
		}
	}
}

func searchCmd(ctx context.Context, catalog Catalog, seq uint64, query string) tea.Cmd {
	return func() tea.Msg {
		if catalog == nil {
			return searchDoneMsg{seq: seq, query: query, err: errNoCatalog}
		}
		results, err := catalog.Search(ctx, query)
		// A catalog that finished despite cancellation must not deliver data.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return searchDoneMsg{seq: seq, query: query, err: ctxErr}
		}
		return searchDoneMsg{seq: seq, query: query, results: results, err: err}
	}
}
