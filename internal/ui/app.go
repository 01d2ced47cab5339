package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/cv"
	"github.com/five82/docket/internal/export"
	"github.com/five82/docket/internal/prefs"
	"github.com/five82/docket/internal/record"
	"github.com/five82/docket/internal/review"
	"github.com/five82/docket/internal/state"
	"github.com/five82/docket/internal/table"
)

// CVOpener hands a decoded CV to an external viewer.
type CVOpener interface {
	Open(h cv.Handle) error
}

// Options configures the UI.
type Options struct {
	Context       context.Context
	Service       *review.Service
	Exporter      *export.Exporter
	Opener        CVOpener
	DateLayout    string
	ToastDuration time.Duration
	LogPath       string
	SourceLabel   string
	ThemeName     string
	PageSize      int
	PrefsPath     string
	Logger        *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx           context.Context
	svc           *review.Service
	store         *state.Store
	exporter      *export.Exporter
	opener        CVOpener
	logger        *slog.Logger
	prefsPath     string
	logPath       string
	sourceLabel   string
	toastDuration time.Duration
	keys          keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Data state
	snapshot   state.Snapshot
	cancelLoad context.CancelFunc
	inFlight   map[int64]applications.Status

	// Table state
	table    table.State
	view     table.View
	cursor   int // row within the current page
	focusCol int // index into table.Columns

	// Search
	searching bool
	search    textinput.Model

	spinner   spinner.Model
	toasts    []toast
	nextToast int

	// Overlays
	modal    Modal
	showHelp bool
	showLog  bool
	logView  viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	toastDuration := opts.ToastDuration
	if toastDuration <= 0 {
		toastDuration = DefaultToastDuration
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dark"
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search every column"
	search.CharLimit = 128

	ts := table.NewState(opts.PageSize)
	if opts.DateLayout != "" {
		ts.DateLayout = opts.DateLayout
	}

	m := Model{
		ctx:           ctx,
		svc:           opts.Service,
		exporter:      opts.Exporter,
		opener:        opts.Opener,
		logger:        logger.With(slog.String("component", "ui")),
		prefsPath:     opts.PrefsPath,
		logPath:       opts.LogPath,
		sourceLabel:   opts.SourceLabel,
		toastDuration: toastDuration,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(themeName),
		inFlight:      make(map[int64]applications.Status),
		table:         ts,
		search:        search,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		logView:       viewport.New(0, 0),
	}
	if m.svc != nil {
		m.store = m.svc.Store()
	}
	m.derive()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.search.Width = max(msg.Width-8, 10)
		m.logView.Width = max(msg.Width-2, 0)
		m.logView.Height = max(msg.Height-3, 0)
		return m, nil

	case reloadMsg:
		cmd := tea.Batch(m.startLoad(), m.spinner.Tick)
		return m, cmd

	case loadedMsg:
		return m.handleLoaded(msg)

	case statusMsg:
		return m.handleStatus(msg)

	case bulkConfirmedMsg:
		cmd := m.bulkSetStatus(msg.status)
		return m, cmd

	case bulkMsg:
		return m.handleBulk(msg)

	case exportMsg:
		return m.handleExport(msg)

	case logMsg:
		m.handleLog(msg)
		return m, nil

	case toastExpiredMsg:
		m.dismissToast(msg.id)
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showLog {
		return m.renderLog()
	}

	return m.renderMain()
}

// refresh pulls the latest snapshot from the store and re-derives the view.
func (m *Model) refresh() {
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.table.Prune(m.snapshot.Records)
	m.derive()
}

// derive recomputes the visible page and keeps the cursor on it.
func (m *Model) derive() {
	m.view = table.Derive(m.table, m.snapshot.Records)
	m.table.Sync(m.view)
	if m.cursor >= len(m.view.Rows) {
		m.cursor = max(len(m.view.Rows)-1, 0)
	}
}

// currentRecord returns the record under the cursor.
func (m Model) currentRecord() (record.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return record.Record{}, false
	}
	return m.view.Rows[m.cursor], true
}

// selectedIDs returns the selected ids in collection order.
func (m Model) selectedIDs() []int64 {
	return m.table.SelectedIDs(m.snapshot.Records)
}

// savePrefs persists theme and page size. Failures are logged, never shown.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, PageSize: m.table.PageSize}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences", slog.Any("error", err))
	}
}

// shutdown cancels any in-flight load.
func (m Model) shutdown() {
	if m.cancelLoad != nil {
		m.cancelLoad()
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.shutdown()
	}
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
