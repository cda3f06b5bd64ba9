// Package tui provides the terminal user interface for careboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"careboard/internal/config"
	"careboard/internal/dateutil"
	"careboard/internal/schedule"
	"careboard/internal/tui/commands"
	"careboard/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeModal
)

// ViewMode selects the active compositor.
type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewWeek
	ViewMonth
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalMeetingForm
	ModalMeetingDetail
	ModalConfirmCancel
	ModalHelp
)

// conflictFlashDuration is how long a rejected commit stays on screen.
const conflictFlashDuration = 1200 * time.Millisecond

// conflictFlashMsg clears the conflict flash. The sequence number ties the
// timer to the indicator that armed it, so a stale timer cannot clear a
// newer message.
type conflictFlashMsg struct {
	seq int
}

// sessionOutbox collects what the drag session decided at release time so the
// update loop can turn it into commands. Pointer field on the model, so the
// session callbacks survive bubbletea's value copies.
type sessionOutbox struct {
	draft  *schedule.Draft
	update *timeChangeRequest
	open   *schedule.Meeting
}

type timeChangeRequest struct {
	ID        string
	StartTime string
	EndTime   string
}

func (o *sessionOutbox) clear() {
	o.draft = nil
	o.update = nil
	o.open = nil
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   schedule.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Grid and gesture state
	grid    TimeGrid
	session *DragSession
	batcher *FrameBatcher
	outbox  *sessionOutbox

	// Navigation
	viewMode     ViewMode
	current      time.Time // anchor day
	showWeekends bool

	// Data snapshot for the visible range
	meetings    []*schedule.Meeting
	rooms       []*schedule.Room
	specialists []*schedule.Specialist
	patients    []*schedule.Patient
	loading     bool

	// Render-derived state, rebuilt by Update when layout inputs change
	geometry  GridGeometry
	columns   [][]LayoutItem
	monthGeom monthGeometry
	cache     renderCache

	// Modal state
	mode      Mode
	modalType ModalType
	form      *meetingForm
	detail    *schedule.Meeting

	// Hover tooltip
	hover hoverState

	// Overlay state
	overlay OverlayModel

	// Terminal dimensions
	width       int
	height      int
	rowsPerSlot int

	// Messages
	statusMsg   string
	conflictMsg string
	conflictSeq int

	// Error state
	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithDate sets the initial anchor day.
func WithDate(date time.Time) ModelOption {
	return func(m *Model) {
		m.current = dateutil.TruncateToDay(date)
	}
}

// WithView sets the initial view mode.
func WithView(v ViewMode) ModelOption {
	return func(m *Model) {
		m.viewMode = v
	}
}

// New creates a new TUI model.
func New(repo schedule.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	grid := NewTimeGrid(cfg.StartHour(), cfg.EndHour())

	m := &Model{
		repo:         repo,
		config:       cfg,
		theme:        t,
		styles:       styles,
		grid:         grid,
		batcher:      &FrameBatcher{},
		outbox:       &sessionOutbox{},
		overlay:      NewOverlayModel(),
		viewMode:     ViewDay,
		current:      dateutil.TruncateToDay(time.Now()),
		showWeekends: cfg.Schedule.ShowWeekends,
		loading:      true,
		rowsPerSlot:  1,
	}

	outbox := m.outbox
	m.session = NewDragSession(grid, SessionCallbacks{
		OnMeetingCreate: func(d schedule.Draft) {
			outbox.draft = &d
		},
		OnMeetingUpdate: func(id, startTime, endTime string) {
			outbox.update = &timeChangeRequest{ID: id, StartTime: startTime, EndTime: endTime}
		},
		OnMeetingOpen: func(meeting *schedule.Meeting) {
			outbox.open = meeting
		},
	})

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadRefs(m.repo),
		m.loadVisibleMeetings(),
	)
}

// visibleRange returns the inclusive date range the active view shows.
func (m Model) visibleRange() (start, end time.Time) {
	switch m.viewMode {
	case ViewWeek:
		return dateutil.WeekRange(m.current)
	case ViewMonth:
		return dateutil.MonthRange(m.current)
	default:
		day := dateutil.TruncateToDay(m.current)
		return day, day
	}
}

// loadVisibleMeetings loads the meetings for the active view's range.
func (m Model) loadVisibleMeetings() tea.Cmd {
	start, end := m.visibleRange()
	return commands.LoadMeetings(m.repo, start, end)
}

// columnItems returns the committed layout for one rendered column.
func (m Model) columnItems(col int) []LayoutItem {
	if col < 0 || col >= len(m.columns) {
		return nil
	}
	return m.columns[col]
}

// meetingByID finds a meeting in the current snapshot.
func (m Model) meetingByID(id string) *schedule.Meeting {
	for _, mt := range m.meetings {
		if mt != nil && mt.ID == id {
			return mt
		}
	}
	return nil
}

// meetingTitle returns a short human label for a meeting, preferring its
// notes line, then its room name.
func (m Model) meetingTitle(mt *schedule.Meeting) string {
	if mt == nil {
		return ""
	}
	if mt.Notes != "" {
		return mt.Notes
	}
	if r := schedule.RoomByID(m.rooms, mt.RoomID); r != nil {
		return r.Name + " " + mt.StartTime
	}
	return mt.StartTime + "-" + mt.EndTime
}

// drainSessionOutbox converts what the session committed at release into
// modal openings and repository commands.
func (m Model) drainSessionOutbox() (Model, tea.Cmd) {
	defer m.outbox.clear()

	if d := m.outbox.draft; d != nil {
		m.openCreateForm(*d)
		return m, nil
	}
	if u := m.outbox.update; u != nil {
		return m, commands.UpdateMeetingTimes(m.repo, u.ID, u.StartTime, u.EndTime)
	}
	if mt := m.outbox.open; mt != nil {
		m.openDetail(mt)
		return m, nil
	}
	return m, nil
}

// Run starts the TUI.
func Run(repo schedule.Repository, cfg *config.Config, opts ...ModelOption) error {
	return RunWithDebug(repo, cfg, false, opts...)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo schedule.Repository, cfg *config.Config, debug bool, opts ...ModelOption) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(repo, cfg, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
