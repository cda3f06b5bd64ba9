package tui

import (
	"time"

	"careboard/internal/schedule"
)

// SessionState tags the active gesture. Exactly one gesture can be active;
// every entry point refuses to start unless the session is idle.
type SessionState int

const (
	// StateIdle means no gesture is active.
	StateIdle SessionState = iota
	// StateSelecting is a drag over empty slots to create a meeting.
	StateSelecting
	// StateArmed is a press on a meeting body that has not yet moved enough
	// to count as a drag; release here is a click.
	StateArmed
	// StateResizing drags one edge of a meeting.
	StateResizing
	// StateMoving drags a whole meeting, preserving its duration.
	StateMoving
)

// Edge identifies which meeting boundary a resize drags.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

// Click-vs-drag disambiguation thresholds. Tunable, not load-bearing.
const (
	clickMaxCells    = 1
	clickMaxDuration = 250 * time.Millisecond
)

// GridContext pins a gesture to one resource column on one date. In Day view
// columns are rooms; in Week view RoomID is empty and the date varies.
type GridContext struct {
	Date   time.Time
	RoomID string
}

func (c GridContext) equal(other GridContext) bool {
	return c.RoomID == other.RoomID &&
		c.Date.Year() == other.Date.Year() &&
		c.Date.YearDay() == other.Date.YearDay()
}

// SessionCallbacks are the injected collaborators the session reports to.
// The session itself never persists anything.
type SessionCallbacks struct {
	// OnMeetingCreate receives the proposed range when a drag-select finishes.
	OnMeetingCreate func(schedule.Draft)
	// OnMeetingUpdate receives a validated non-conflicting time change.
	OnMeetingUpdate func(id, startTime, endTime string)
	// OnMeetingOpen receives a meeting that was plainly clicked.
	OnMeetingOpen func(*schedule.Meeting)
}

// DragSession owns all gesture state for the grid: drag-select, edge resize,
// and body move. It reads meeting snapshots supplied by the caller and never
// mutates them; committed changes go out through the callbacks.
type DragSession struct {
	state SessionState
	grid  TimeGrid
	cb    SessionCallbacks

	ctx GridContext

	// selecting
	anchorSlot  int
	currentSlot int

	// armed / resizing / moving
	meeting     *schedule.Meeting
	edge        Edge
	startIndex  int
	endIndex    int
	anchorY     int
	rowsPerSlot int

	armedX, armedY int
	armedAt        time.Time

	// last delta the batcher actually flushed; the ghost renders here and
	// release commits from here
	ghostDelta int
}

// NewDragSession creates an idle session over the given grid window.
func NewDragSession(grid TimeGrid, cb SessionCallbacks) *DragSession {
	return &DragSession{grid: grid, cb: cb}
}

// SetGrid swaps the grid window, e.g. after a working-hours change. Any
// active gesture is cancelled since its indices no longer resolve.
func (s *DragSession) SetGrid(grid TimeGrid) {
	s.grid = grid
	s.reset()
}

// State returns the current gesture state.
func (s *DragSession) State() SessionState { return s.state }

// Active reports whether any gesture is in progress.
func (s *DragSession) Active() bool { return s.state != StateIdle }

// TargetMeeting returns the meeting under resize or move, or nil. The
// compositor suppresses it from the committed layer and renders the ghost
// instead.
func (s *DragSession) TargetMeeting() *schedule.Meeting {
	if s.state == StateResizing || s.state == StateMoving {
		return s.meeting
	}
	return nil
}

// Cancel forces the session back to idle from any state without committing.
// The caller must also cancel the frame batcher.
func (s *DragSession) Cancel() {
	s.reset()
}

func (s *DragSession) reset() {
	s.state = StateIdle
	s.ctx = GridContext{}
	s.anchorSlot, s.currentSlot = 0, 0
	s.meeting = nil
	s.edge = EdgeStart
	s.startIndex, s.endIndex = 0, 0
	s.anchorY, s.rowsPerSlot = 0, 0
	s.armedX, s.armedY = 0, 0
	s.armedAt = time.Time{}
	s.ghostDelta = 0
}

// StartSelect begins a drag-select at the given empty slot. Refused unless
// idle or the slot is out of range.
func (s *DragSession) StartSelect(ctx GridContext, slot int) bool {
	if s.state != StateIdle {
		return false
	}
	if slot < 0 || slot >= s.grid.SlotCount() {
		return false
	}
	s.state = StateSelecting
	s.ctx = ctx
	s.anchorSlot = slot
	s.currentSlot = slot
	return true
}

// ExtendSelect moves the selection's current slot. Motion over a different
// column or date is ignored, not aborted; the session stays anchored to its
// original context.
func (s *DragSession) ExtendSelect(ctx GridContext, slot int) {
	if s.state != StateSelecting || !s.ctx.equal(ctx) {
		return
	}
	if slot < 0 {
		slot = 0
	}
	if slot >= s.grid.SlotCount() {
		slot = s.grid.SlotCount() - 1
	}
	s.currentSlot = slot
}

// SelectionRange returns the normalized selection as [start,end) indices,
// inclusive of the hovered slot.
func (s *DragSession) SelectionRange() (start, end int, ok bool) {
	if s.state != StateSelecting {
		return 0, 0, false
	}
	start = min(s.anchorSlot, s.currentSlot)
	end = max(s.anchorSlot, s.currentSlot) + 1
	return start, end, true
}

// FinishSelect commits the selection. A degenerate range (end not after
// start) is discarded silently; a single-slot click still yields one slot of
// duration through the inclusive end.
func (s *DragSession) FinishSelect() {
	if s.state != StateSelecting {
		return
	}
	start, end, _ := s.SelectionRange()
	ctx := s.ctx
	s.reset()

	if end <= start {
		return
	}
	if s.cb.OnMeetingCreate != nil {
		s.cb.OnMeetingCreate(schedule.Draft{
			Date:      ctx.Date,
			RoomID:    ctx.RoomID,
			StartTime: s.grid.LabelOf(start),
			EndTime:   s.grid.LabelOf(end),
		})
	}
}

// Arm records a press on a meeting body. The gesture stays a potential click
// until motion exceeds the drag threshold.
func (s *DragSession) Arm(m *schedule.Meeting, ctx GridContext, x, y int, rowsPerSlot int, at time.Time) bool {
	if s.state != StateIdle || m == nil {
		return false
	}
	if _, _, ok := s.grid.Range(m.StartTime, m.EndTime); !ok {
		return false
	}
	s.state = StateArmed
	s.ctx = ctx
	s.meeting = m
	s.armedX, s.armedY = x, y
	s.armedAt = at
	s.rowsPerSlot = max(1, rowsPerSlot)
	return true
}

// ArmedMotion checks whether motion while armed crosses the drag threshold
// and, if so, promotes the gesture to a move. Returns true when now moving.
func (s *DragSession) ArmedMotion(x, y int) bool {
	if s.state != StateArmed {
		return false
	}
	if absInt(x-s.armedX) <= clickMaxCells && absInt(y-s.armedY) <= clickMaxCells {
		return false
	}
	start, end, ok := s.grid.Range(s.meeting.StartTime, s.meeting.EndTime)
	if !ok {
		s.reset()
		return false
	}
	s.state = StateMoving
	s.startIndex, s.endIndex = start, end
	s.anchorY = s.armedY
	return true
}

// StartResize begins an edge drag on a meeting. Refused unless idle or when
// the meeting's times do not resolve on the current grid.
func (s *DragSession) StartResize(m *schedule.Meeting, ctx GridContext, edge Edge, anchorY, rowsPerSlot int) bool {
	if s.state != StateIdle || m == nil {
		return false
	}
	start, end, ok := s.grid.Range(m.StartTime, m.EndTime)
	if !ok {
		return false
	}
	s.state = StateResizing
	s.ctx = ctx
	s.meeting = m
	s.edge = edge
	s.startIndex, s.endIndex = start, end
	s.anchorY = anchorY
	s.rowsPerSlot = max(1, rowsPerSlot)
	return true
}

// slotShift converts vertical motion into a whole-slot delta plus the
// leftover rows. Integer division truncates toward zero, which is exactly
// the rounding the gesture needs: partial rows never move the edge.
func (s *DragSession) slotShift(y int) (delta, remainder int) {
	raw := y - s.anchorY
	return raw / s.rowsPerSlot, raw % s.rowsPerSlot
}

// ResizeMotion processes a motion sample during a resize. The returned delta
// and remainder are the latest conflict-free candidate for the frame batcher;
// ok is false when the candidate conflicts, in which case the ghost holds its
// last valid position and conflict names the blocking meeting.
func (s *DragSession) ResizeMotion(y int, meetings []*schedule.Meeting) (delta, remainder int, conflict *schedule.Meeting, ok bool) {
	if s.state != StateResizing {
		return 0, 0, nil, false
	}

	delta, remainder = s.slotShift(y)
	newStart, newEnd := s.resizedRange(delta)
	if s.edge == EdgeEnd {
		delta = newEnd - s.endIndex
	} else {
		delta = newStart - s.startIndex
	}

	conflict = schedule.FindAnyConflict(meetings, s.meeting, s.ctx.Date,
		s.grid.LabelOf(newStart), s.grid.LabelOf(newEnd))
	if conflict != nil {
		return 0, 0, conflict, false
	}
	return delta, remainder, nil, true
}

// MoveMotion processes a motion sample during a move. Both edges shift in
// lockstep; conflicts freeze the ghost just like ResizeMotion.
func (s *DragSession) MoveMotion(y int, meetings []*schedule.Meeting) (delta, remainder int, conflict *schedule.Meeting, ok bool) {
	if s.state != StateMoving {
		return 0, 0, nil, false
	}

	delta, remainder = s.slotShift(y)
	newStart, newEnd := s.movedRange(delta)
	delta = newStart - s.startIndex

	conflict = schedule.FindAnyConflict(meetings, s.meeting, s.ctx.Date,
		s.grid.LabelOf(newStart), s.grid.LabelOf(newEnd))
	if conflict != nil {
		return 0, 0, conflict, false
	}
	return delta, remainder, nil, true
}

// resizedRange applies a slot delta to the dragged edge, clamped so the
// edited edge cannot cross the opposite edge (one slot minimum) nor leave
// the grid.
func (s *DragSession) resizedRange(delta int) (start, end int) {
	start, end = s.startIndex, s.endIndex
	if s.edge == EdgeEnd {
		end += delta
		if end < start+1 {
			end = start + 1
		}
		if end > s.grid.SlotCount() {
			end = s.grid.SlotCount()
		}
	} else {
		start += delta
		if start > end-1 {
			start = end - 1
		}
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// movedRange shifts both edges by a slot delta, clamped so the whole block
// stays within the grid.
func (s *DragSession) movedRange(delta int) (start, end int) {
	duration := s.endIndex - s.startIndex
	start = s.startIndex + delta
	if start < 0 {
		start = 0
	}
	if start > s.grid.SlotCount()-duration {
		start = s.grid.SlotCount() - duration
	}
	return start, start + duration
}

// ApplyFlush records a frame-batcher flush; the ghost renders at this delta
// and release commits from it.
func (s *DragSession) ApplyFlush(delta, remainder int) {
	if s.state != StateResizing && s.state != StateMoving {
		return
	}
	s.ghostDelta = delta
	_ = remainder // rendering snaps to whole slots; rows are too coarse for sub-slot offsets
}

// GhostRange returns the live preview's [start,end) indices for the active
// gesture, or ok=false when nothing should be drawn.
func (s *DragSession) GhostRange() (start, end int, ok bool) {
	switch s.state {
	case StateSelecting:
		return s.SelectionRange()
	case StateResizing:
		start, end = s.resizedRange(s.ghostDelta)
		return start, end, true
	case StateMoving:
		start, end = s.movedRange(s.ghostDelta)
		return start, end, true
	default:
		return 0, 0, false
	}
}

// Context returns the context of the active gesture.
func (s *DragSession) Context() GridContext { return s.ctx }

// Release ends the gesture at pointer-up (or at a motion sample reporting no
// button held, which is how a release outside the window shows up). Selection
// finalizes, an armed press resolves to click or nothing, and resize/move
// commit their last batched delta after a final conflict re-check.
func (s *DragSession) Release(x, y int, at time.Time, meetings []*schedule.Meeting) {
	switch s.state {
	case StateSelecting:
		s.FinishSelect()
	case StateArmed:
		s.releaseArmed(x, y, at)
	case StateResizing, StateMoving:
		s.commitDrag(meetings)
	}
}

// releaseArmed resolves a press that never became a drag. A quick, still
// press is a click that opens the meeting; anything slower is discarded.
func (s *DragSession) releaseArmed(x, y int, at time.Time) {
	m := s.meeting
	isClick := at.Sub(s.armedAt) < clickMaxDuration &&
		absInt(x-s.armedX) <= clickMaxCells &&
		absInt(y-s.armedY) <= clickMaxCells
	s.reset()

	if isClick && s.cb.OnMeetingOpen != nil {
		s.cb.OnMeetingOpen(m)
	}
}

// commitDrag finishes a resize or move. An unchanged position is a no-op
// that skips both the conflict check and the callback; otherwise the
// candidate is re-checked once more against the snapshot before the update
// callback fires, guarding against a stale batched delta.
func (s *DragSession) commitDrag(meetings []*schedule.Meeting) {
	m := s.meeting
	date := s.ctx.Date
	delta := s.ghostDelta

	var start, end int
	if s.state == StateResizing {
		start, end = s.resizedRange(delta)
	} else {
		start, end = s.movedRange(delta)
	}
	origStart, origEnd := s.startIndex, s.endIndex
	s.reset()

	if start == origStart && end == origEnd {
		return
	}

	newStart := s.grid.LabelOf(start)
	newEnd := s.grid.LabelOf(end)
	if schedule.FindAnyConflict(meetings, m, date, newStart, newEnd) != nil {
		return
	}
	if s.cb.OnMeetingUpdate != nil {
		s.cb.OnMeetingUpdate(m.ID, newStart, newEnd)
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
