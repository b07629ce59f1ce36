package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/telly/internal/browser"
	"github.com/five82/telly/internal/config"
	"github.com/five82/telly/internal/detail"
	"github.com/five82/telly/internal/prefs"
	"github.com/five82/telly/internal/tvmaze"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Catalog      tvmaze.Catalog
	Config       config.Config
	Logger       *zap.Logger
	ThemeName    string
	PrefsPath    string
	InitialQuery string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	logger    *zap.Logger
	prefsPath string
	keys      keyMap
	startup   []tea.Cmd

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// State machines
	browser browser.Model
	detail  detail.Model

	// List state
	searchInput  textinput.Model
	inputFocused bool
	spinner      spinner.Model
	selectedRow  int

	// Detail state
	detailViewport viewport.Model
	renderer       *glamour.TermRenderer
	rendererWidth  int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)

	input := textinput.New()
	input.Placeholder = "Search shows"
	input.Prompt = "/ "
	input.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	b := browser.New(browser.Options{
		Context:        ctx,
		Catalog:        opts.Catalog,
		Page:           opts.Config.Page,
		MinQueryLength: opts.Config.MinQueryLength,
		Debounce:       opts.Config.Debounce,
		Logger:         logger,
	})
	startup := []tea.Cmd{b.Init(), sp.Tick}

	if q := strings.TrimSpace(opts.InitialQuery); q != "" {
		input.SetValue(q)
		var cmd tea.Cmd
		b, cmd = b.SetQuery(q)
		startup = append(startup, cmd)
	}

	var fetcher detail.Fetcher
	if opts.Catalog != nil {
		fetcher = opts.Catalog
	}

	return Model{
		ctx:         ctx,
		logger:      logger.Named("ui"),
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		startup:     startup,
		theme:       theme,
		currentView: ViewList,
		browser:     b,
		detail:      detail.New(detail.Options{Context: ctx, Fetcher: fetcher, Logger: logger}),
		searchInput: input,
		spinner:     sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startup...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.resizeDetailViewport()
		m.updateDetailViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.currentView == ViewDetail && m.detail.IsLoading() {
			m.updateDetailViewport()
		}
		return m, cmd
	}

	// Everything else is a command result for one of the state machines;
	// each ignores messages it does not own.
	var browserCmd, detailCmd tea.Cmd
	m.browser, browserCmd = m.browser.Update(msg)
	m.detail, detailCmd = m.detail.Update(msg)
	m.clampSelection()
	m.updateDetailViewport()
	return m, tea.Batch(browserCmd, detailCmd)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.inputFocused {
		return m.handleSearchInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.savePrefs()
		return m, nil
	}

	switch m.currentView {
	case ViewDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleListKey processes keyboard input for the show list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.inputFocused = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.browser.Query() != "" {
			m.resetSearch()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		var cmd tea.Cmd
		m.browser, cmd = m.browser.LoadInitial()
		return m, cmd

	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	}

	count := len(m.rows())
	if count == 0 {
		return m, nil
	}
	half := max(m.listHeight()/2, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = min(m.selectedRow+half, count-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = max(m.selectedRow-half, 0)
	}

	return m, nil
}

// handleSearchInputKey processes keys while the search box has focus.
func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.inputFocused = false
		m.searchInput.Blur()
		m.resetSearch()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.inputFocused = false
		m.searchInput.Blur()
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Submit(m.searchInput.Value())
		m.savePrefs()
		return m, cmd
	}

	var inputCmd, queryCmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		m.browser, queryCmd = m.browser.SetQuery(value)
		m.selectedRow = 0
	}
	return m, tea.Batch(inputCmd, queryCmd)
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewList
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		var cmd tea.Cmd
		m.detail, cmd = m.detail.FetchShow(m.detail.ID())
		m.updateDetailViewport()
		return m, cmd

	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// openSelected switches to the detail view for the highlighted show.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	rows := m.rows()
	if m.selectedRow < 0 || m.selectedRow >= len(rows) {
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.SetID(rows[m.selectedRow].show.ID)
	m.currentView = ViewDetail
	m.detailViewport.GotoTop()
	m.updateDetailViewport()
	return m, cmd
}

func (m *Model) resetSearch() {
	m.browser = m.browser.ClearSearch()
	m.searchInput.SetValue("")
	m.selectedRow = 0
}

func (m *Model) clampSelection() {
	count := len(m.rows())
	if m.selectedRow >= count {
		m.selectedRow = max(count-1, 0)
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:     m.theme.Name,
		LastQuery: strings.TrimSpace(m.searchInput.Value()),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetail:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
