// Package detail loads a single show for the detail view.
//
// Every id change issues a fetch tagged with a fresh request id. Completions
// carrying an older request id are dropped, so a slow response for a
// previous show can never overwrite the one currently displayed.
package detail

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/telly/internal/apperrors"
	"github.com/five82/telly/internal/tvmaze"
)

// Messages surfaced to users.
const (
	MsgInvalidID  = "Invalid show id."
	fallbackError = "Failed to load show details. Please try again."
)

var errNoFetcher = errors.New("no show fetcher configured")

// Fetcher retrieves one show.
type Fetcher interface {
	GetByID(ctx context.Context, id int) (*tvmaze.Show, error)
}

// Options configure a Model.
type Options struct {
	Context context.Context
	Fetcher Fetcher
	Logger  *zap.Logger
}

// Model is the detail loader state.
type Model struct {
	ctx     context.Context
	fetcher Fetcher
	logger  *zap.Logger

	id        int
	observed  bool
	requestID uint64

	show         *tvmaze.Show
	isLoading    bool
	errorMessage string
}

// New creates an idle loader. Nothing is fetched until an id is observed.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		ctx:     ctx,
		fetcher: opts.Fetcher,
		logger:  logger.Named("detail"),
	}
}

// fetchedMsg reports the outcome of a fetch started with requestID.
type fetchedMsg struct {
	requestID uint64
	id        int
	show      *tvmaze.Show
	err       error
}

// ID returns the last observed id.
func (m Model) ID() int { return m.id }

// Show returns the loaded show, or nil.
func (m Model) Show() *tvmaze.Show { return m.show }

// IsLoading reports whether the current request is still pending.
func (m Model) IsLoading() bool { return m.isLoading }

// ErrorMessage returns the current error text, or "".
func (m Model) ErrorMessage() string { return m.errorMessage }

// SetID observes id and fetches when it differs from the previous
// observation. The first observation always fetches.
func (m Model) SetID(id int) (Model, tea.Cmd) {
	if m.observed && id == m.id {
		return m, nil
	}
	m.observed = true
	m.id = id
	return m.FetchShow(id)
}

// FetchShow starts loading id unconditionally.
func (m Model) FetchShow(id int) (Model, tea.Cmd) {
	// Any newer trigger supersedes whatever is still in flight, including
	// a rejected id.
	m.requestID++

	if id <= 0 {
		m.show = nil
		m.errorMessage = MsgInvalidID
		m.isLoading = false
		return m, nil
	}

	m.isLoading = true
	m.errorMessage = ""
	return m, fetchCmd(m.ctx, m.fetcher, m.requestID, id)
}

// Update applies fetch completions. Other messages are ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	fetched, ok := msg.(fetchedMsg)
	if !ok {
		return m, nil
	}
	if fetched.requestID != m.requestID {
		m.logger.Debug("dropping stale show response",
			zap.Int("id", fetched.id),
			zap.Uint64("request", fetched.requestID),
			zap.Uint64("current", m.requestID))
		return m, nil
	}

	m.isLoading = false
	if fetched.err != nil {
		m.show = nil
		m.errorMessage = apperrors.ToUserMessage(fetched.err, fallbackError)
		m.logger.Warn("show fetch failed", zap.Int("id", fetched.id), zap.Error(fetched.err))
		return m, nil
	}
	m.show = fetched.show
	m.errorMessage = ""
	return m, nil
}

func fetchCmd(ctx context.Context, fetcher Fetcher, requestID uint64, id int) tea.Cmd {
	return func() tea.Msg {
		if fetcher == nil {
			return fetchedMsg{requestID: requestID, id: id, err: errNoFetcher}
		}
		show, err := fetcher.GetByID(ctx, id)
		return fetchedMsg{requestID: requestID, id: id, show: show, err: err}
	}
}

// ParseID converts route or command line text into a show id. Anything that
// is not a finite whole number maps to 0, which SetID rejects.
func ParseID(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
