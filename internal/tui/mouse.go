package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"careboard/internal/schedule"
)

// hoverDelay is how long the pointer must rest on a meeting before the
// tooltip appears.
const hoverDelay = 500 * time.Millisecond

// ColumnInfo describes one resource column of the rendered grid. In day view
// each column is a room on the current date; in week view each column is a
// date and RoomID is empty.
type ColumnInfo struct {
	Date   time.Time
	RoomID string
}

// GridGeometry maps terminal coordinates back to grid positions for the
// frame it was computed on. The view rebuilds it on every layout-changing
// render so hit testing always agrees with what is on screen.
type GridGeometry struct {
	Top         int
	Left        int
	GutterWidth int
	ColumnWidth int
	Columns     []ColumnInfo
	RowsPerSlot int
	SlotCount   int
}

// Valid reports whether the geometry describes a drawable grid.
func (g GridGeometry) Valid() bool {
	return g.ColumnWidth > 0 && g.RowsPerSlot > 0 && g.SlotCount > 0 && len(g.Columns) > 0
}

// Hit resolves a terminal coordinate to a column and slot index.
func (g GridGeometry) Hit(x, y int) (col, slot int, ok bool) {
	if !g.Valid() {
		return 0, 0, false
	}
	relX := x - g.Left - g.GutterWidth
	relY := y - g.Top
	if relX < 0 || relY < 0 {
		return 0, 0, false
	}
	col = relX / g.ColumnWidth
	slot = relY / g.RowsPerSlot
	if col >= len(g.Columns) || slot >= g.SlotCount {
		return 0, 0, false
	}
	return col, slot, true
}

// Context returns the gesture context for a column.
func (g GridGeometry) Context(col int) GridContext {
	c := g.Columns[col]
	return GridContext{Date: c.Date, RoomID: c.RoomID}
}

// columnX returns the pointer's x offset within a column.
func (g GridGeometry) columnX(x, col int) int {
	return x - g.Left - g.GutterWidth - col*g.ColumnWidth
}

// meetingAt finds the layout item under the pointer within one column,
// resolving lanes by horizontal position. Lanes split the column evenly; the
// last lane absorbs the remainder.
func meetingAt(items []LayoutItem, slot, relX, colWidth int) (LayoutItem, bool) {
	for _, it := range items {
		if slot < it.StartIndex || slot >= it.EndIndex {
			continue
		}
		count := it.LaneCount
		if count < 1 {
			count = 1
		}
		laneW := colWidth / count
		if laneW < 1 {
			laneW = 1
		}
		lo := it.Lane * laneW
		hi := lo + laneW
		if it.Lane == count-1 {
			hi = colWidth
		}
		if relX >= lo && relX < hi {
			return it, true
		}
	}
	return LayoutItem{}, false
}

// edgeAt classifies the pointer row within a block. The bottom row is the
// end-edge handle; the top row is the start-edge handle when the block is
// tall enough to leave at least one body row between them. A one-row block
// is all body so it stays clickable and movable; its edges are reached
// through the edit form.
func edgeAt(it LayoutItem, y, top, rowsPerSlot int) (Edge, bool) {
	first := top + it.StartIndex*rowsPerSlot
	last := top + it.EndIndex*rowsPerSlot - 1
	if last == first {
		return EdgeStart, false
	}
	if y == last {
		return EdgeEnd, true
	}
	if y == first && last-first >= 2 {
		return EdgeStart, true
	}
	return EdgeStart, false
}

// hoverTickMsg fires when the hover delay elapses for a candidate meeting.
type hoverTickMsg struct {
	MeetingID string
}

type hoverState struct {
	meetingID string
	x, y      int
	visible   bool
}

func (h *hoverState) clear() {
	*h = hoverState{}
}

// handleMouseMsg routes pointer events. All gesture state lives in the drag
// session; this layer only translates coordinates and forwards samples.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	LogMouse(msg)

	if m.mode == ModeModal {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.mousePress(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		// A motion sample with no button held while a gesture is active
		// means the release happened outside the window. Treat it as the
		// release so the drag cannot wedge.
		if m.session.Active() && msg.Button == tea.MouseButtonNone {
			return m.mouseRelease(msg.X, msg.Y)
		}
		return m.mouseMotion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		if m.session.Active() {
			return m.mouseRelease(msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m Model) mousePress(x, y int) (Model, tea.Cmd) {
	m.hover.clear()

	if m.viewMode == ViewMonth {
		if date, ok := m.monthDayAt(x, y); ok {
			m.current = date
			m.viewMode = ViewDay
			return m, m.loadVisibleMeetings()
		}
		return m, nil
	}

	col, slot, ok := m.geometry.Hit(x, y)
	if !ok {
		return m, nil
	}
	ctx := m.geometry.Context(col)
	relX := m.geometry.columnX(x, col)

	if it, found := meetingAt(m.columnItems(col), slot, relX, m.geometry.ColumnWidth); found {
		if edge, isEdge := edgeAt(it, y, m.geometry.Top, m.geometry.RowsPerSlot); isEdge {
			m.session.StartResize(it.Meeting, ctx, edge, y, m.geometry.RowsPerSlot)
		} else {
			m.session.Arm(it.Meeting, ctx, x, y, m.geometry.RowsPerSlot, time.Now())
		}
		return m, nil
	}

	m.session.StartSelect(ctx, slot)
	return m, nil
}

func (m Model) mouseMotion(x, y int) (Model, tea.Cmd) {
	switch m.session.State() {
	case StateIdle:
		return m.trackHover(x, y)

	case StateSelecting:
		col, slot, ok := m.geometry.Hit(x, y)
		if !ok {
			// Leaving the grid surface aborts the selection; a release out
			// there must not create anything.
			m.session.Cancel()
			return m, nil
		}
		m.session.ExtendSelect(m.geometry.Context(col), slot)
		return m, nil

	case StateArmed:
		if !m.session.ArmedMotion(x, y) {
			return m, nil
		}
		// Promoted to a move; fall through so this sample already drags.
		return m.dragMotion(y)

	case StateResizing, StateMoving:
		return m.dragMotion(y)
	}
	return m, nil
}

// dragMotion feeds one motion sample to the active resize or move and hands
// the conflict-free candidate to the frame batcher. A conflicting candidate
// freezes the ghost and flashes the blocker instead.
func (m Model) dragMotion(y int) (Model, tea.Cmd) {
	var (
		delta, remainder int
		conflict         *schedule.Meeting
		ok               bool
	)
	if m.session.State() == StateResizing {
		delta, remainder, conflict, ok = m.session.ResizeMotion(y, m.meetings)
	} else {
		delta, remainder, conflict, ok = m.session.MoveMotion(y, m.meetings)
	}

	if conflict != nil {
		m.conflictSeq++
		m.conflictMsg = "Blocked by " + m.meetingTitle(conflict)
		return m, flashConflict(m.conflictSeq)
	}
	if !ok {
		return m, nil
	}
	m.conflictMsg = ""
	return m, m.batcher.Schedule(delta, remainder)
}

func (m Model) mouseRelease(x, y int) (Model, tea.Cmd) {
	LogGesture(m.session.State(), "release")
	m.session.Release(x, y, time.Now(), m.meetings)
	m.batcher.Cancel()
	m.conflictMsg = ""
	return m.drainSessionOutbox()
}

// trackHover arms the tooltip timer when the idle pointer rests on a meeting.
func (m Model) trackHover(x, y int) (Model, tea.Cmd) {
	if m.viewMode == ViewMonth {
		m.hover.clear()
		return m, nil
	}

	col, slot, ok := m.geometry.Hit(x, y)
	if !ok {
		m.hover.clear()
		return m, nil
	}
	relX := m.geometry.columnX(x, col)
	it, found := meetingAt(m.columnItems(col), slot, relX, m.geometry.ColumnWidth)
	if !found {
		m.hover.clear()
		return m, nil
	}

	if m.hover.meetingID == it.Meeting.ID {
		m.hover.x, m.hover.y = x, y
		return m, nil
	}

	m.hover = hoverState{meetingID: it.Meeting.ID, x: x, y: y}
	id := it.Meeting.ID
	return m, tea.Tick(hoverDelay, func(time.Time) tea.Msg {
		return hoverTickMsg{MeetingID: id}
	})
}
