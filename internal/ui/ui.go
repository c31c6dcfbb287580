package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/procviewer/internal/config"
	"github.com/Dicklesworthstone/procviewer/internal/filter"
	"github.com/Dicklesworthstone/procviewer/internal/history"
	"github.com/Dicklesworthstone/procviewer/internal/input"
	"github.com/Dicklesworthstone/procviewer/internal/model"
	"github.com/Dicklesworthstone/procviewer/internal/snapshot"
)

// DetailSource reads the on-demand fields shown in the details view.
type DetailSource interface {
	Details(ctx context.Context, pid int32) (model.Details, error)
}

// Source is everything the dashboard reads from, or does to, the system.
// *sampler.Sampler implements it.
type Source interface {
	snapshot.Lister
	filter.UserResolver
	input.Terminator
	history.Source
	DetailSource
	Summary(ctx context.Context) model.Summary
}

// Model is the dashboard. All fields are owned by the bubbletea loop.
type Model struct {
	cfg     config.Config
	ctx     context.Context
	src     Source
	logger  *zap.Logger
	builder *snapshot.Builder
	history *history.History
	state   *input.State

	view    []model.Process
	total   int
	listErr error
	stale   bool
	summary model.Summary

	details    model.Details
	detailsErr error

	keys keyMap
	help help.Model
}

func New(ctx context.Context, cfg config.Config, src Source, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	state := input.NewState(cfg.SortKey(), cfg.Tree)
	state.Filters.Search = cfg.Filter
	state.Size = input.Size{Rows: 40, Cols: 120}
	h := newHelp()
	h.Width = state.Size.Cols
	return &Model{
		cfg:     cfg,
		ctx:     ctx,
		src:     src,
		logger:  logger,
		builder: snapshot.New(src, logger),
		history: history.New(cfg.History.Size, logger),
		state:   state,
		summary: model.Zero(),
		keys:    newKeyMap(),
		help:    h,
	}
}

// Messages
type tickMsg time.Time

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Interval.Duration, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init samples immediately; later samples follow the configured interval.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Size = input.Size{Rows: msg.Height, Cols: msg.Width}
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		return m, m.handleKey(m.keys.translate(msg))
	case tickMsg:
		m.refresh()
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) handleKey(k input.Key) tea.Cmd {
	if k.Type == input.KeyNone {
		return nil
	}
	// status messages last until the next key
	m.state.Message = ""
	prev := m.state.Mode
	env := input.Env{
		Ctx:        m.ctx,
		Count:      len(m.view),
		Selected:   m.selected(),
		Terminator: m.src,
		Listed: func(pid int32) bool {
			_, ok := m.builder.Lookup(pid)
			return ok
		},
	}
	if input.Apply(m.state, k, env) == input.Stop {
		return tea.Quit
	}
	if m.state.Mode == input.ModeDetails && prev != input.ModeDetails {
		m.loadDetails()
	}
	m.rebuild()
	return nil
}

// refresh takes a new sample: process list, history and header summary.
func (m *Model) refresh() {
	procs, err := m.builder.Sample(m.ctx, m.state.Sort, m.state.Tree)
	m.listErr = err
	m.stale = !m.history.Update(m.ctx, m.src)
	m.summary = m.src.Summary(m.ctx)
	m.setView(procs)
}

// rebuild reorders and refilters the last sample after a key press.
func (m *Model) rebuild() {
	m.setView(m.builder.Rebuild(m.state.Sort, m.state.Tree))
}

func (m *Model) setView(procs []model.Process) {
	m.total = len(procs)
	m.view = filter.Apply(m.ctx, procs, m.state.Filters, m.src)
	m.state.Clamp(len(m.view))
}

func (m *Model) selected() *model.Process {
	i := m.state.Selected
	if i < 0 || i >= len(m.view) {
		return nil
	}
	p := m.view[i]
	return &p
}

func (m *Model) loadDetails() {
	p := m.selected()
	if p == nil {
		return
	}
	m.details, m.detailsErr = m.src.Details(m.ctx, p.PID)
	if m.detailsErr != nil {
		m.logger.Info("details unavailable", zap.Int32("pid", p.PID), zap.Error(m.detailsErr))
		m.details = model.Details{Process: *p}
	}
}

// RunTUI starts the Bubble Tea program.
func RunTUI(ctx context.Context, cfg config.Config, src Source, logger *zap.Logger) error {
	prog := tea.NewProgram(New(ctx, cfg, src, logger), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
