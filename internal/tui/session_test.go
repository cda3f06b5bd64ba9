package tui

import (
	"testing"
	"time"

	"careboard/internal/schedule"
)

type sessionRecorder struct {
	created []schedule.Draft
	updated []timeChange
	opened  []*schedule.Meeting
}

type timeChange struct {
	id         string
	start, end string
}

func newTestSession() (*DragSession, *sessionRecorder) {
	rec := &sessionRecorder{}
	grid := NewTimeGrid(8, 20)
	s := NewDragSession(grid, SessionCallbacks{
		OnMeetingCreate: func(d schedule.Draft) { rec.created = append(rec.created, d) },
		OnMeetingUpdate: func(id, start, end string) {
			rec.updated = append(rec.updated, timeChange{id, start, end})
		},
		OnMeetingOpen: func(m *schedule.Meeting) { rec.opened = append(rec.opened, m) },
	})
	return s, rec
}

func sessionMeeting(id, start, end, roomID string, specIDs ...string) *schedule.Meeting {
	return &schedule.Meeting{
		ID:            id,
		Date:          layoutDay,
		StartTime:     start,
		EndTime:       end,
		RoomID:        roomID,
		SpecialistIDs: specIDs,
		Status:        schedule.StatusPresent,
	}
}

func roomCtx(roomID string) GridContext {
	return GridContext{Date: layoutDay, RoomID: roomID}
}

// dragMeeting promotes an armed press into a moving session.
func dragMeeting(t *testing.T, s *DragSession, m *schedule.Meeting, x, y int) {
	t.Helper()
	if !s.Arm(m, roomCtx(m.RoomID), x, y, 2, time.Now()) {
		t.Fatal("Arm refused")
	}
	if !s.ArmedMotion(x, y+3) {
		t.Fatal("expected threshold crossing to start move")
	}
	if s.State() != StateMoving {
		t.Fatalf("state = %v, want moving", s.State())
	}
}

// Drag-select over two slots proposes a range with an inclusive end.
func TestDragSelect(t *testing.T) {
	s, rec := newTestSession()
	ctx := roomCtx("room-1")

	// 10:00 is index 4 on an 08:00 grid; drag down one slot to 10:30
	if !s.StartSelect(ctx, 4) {
		t.Fatal("StartSelect refused")
	}
	s.ExtendSelect(ctx, 5)
	s.FinishSelect()

	if len(rec.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(rec.created))
	}
	d := rec.created[0]
	if d.RoomID != "room-1" {
		t.Errorf("room = %q, want room-1", d.RoomID)
	}
	if d.StartTime != "10:00" || d.EndTime != "11:00" {
		t.Errorf("range = %s-%s, want 10:00-11:00", d.StartTime, d.EndTime)
	}
	if s.Active() {
		t.Error("session should be idle after finish")
	}
}

func TestDragSelect_SingleSlotClick(t *testing.T) {
	s, rec := newTestSession()
	ctx := roomCtx("room-1")

	s.StartSelect(ctx, 4)
	s.FinishSelect()

	// Inclusive end still yields one slot of duration
	if len(rec.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(rec.created))
	}
	if rec.created[0].StartTime != "10:00" || rec.created[0].EndTime != "10:30" {
		t.Errorf("range = %s-%s, want 10:00-10:30",
			rec.created[0].StartTime, rec.created[0].EndTime)
	}
}

func TestDragSelect_UpwardNormalizes(t *testing.T) {
	s, rec := newTestSession()
	ctx := roomCtx("room-1")

	s.StartSelect(ctx, 6)
	s.ExtendSelect(ctx, 3)
	s.FinishSelect()

	if len(rec.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(rec.created))
	}
	if rec.created[0].StartTime != "09:30" || rec.created[0].EndTime != "11:30" {
		t.Errorf("range = %s-%s, want 09:30-11:30",
			rec.created[0].StartTime, rec.created[0].EndTime)
	}
}

func TestDragSelect_IgnoresOtherColumn(t *testing.T) {
	s, rec := newTestSession()

	s.StartSelect(roomCtx("room-1"), 2)
	// Motion over a different room keeps the anchor context
	s.ExtendSelect(roomCtx("room-2"), 8)
	s.FinishSelect()

	if len(rec.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(rec.created))
	}
	if rec.created[0].RoomID != "room-1" {
		t.Errorf("room = %q, want room-1", rec.created[0].RoomID)
	}
	if rec.created[0].EndTime != "09:30" {
		t.Errorf("end = %q, want 09:30 (other-column motion ignored)", rec.created[0].EndTime)
	}
}

func TestDragSelect_CancelDiscards(t *testing.T) {
	s, rec := newTestSession()

	s.StartSelect(roomCtx("room-1"), 4)
	s.ExtendSelect(roomCtx("room-1"), 6)
	s.Cancel()

	if len(rec.created) != 0 {
		t.Errorf("expected no create after cancel, got %d", len(rec.created))
	}
	if s.Active() {
		t.Error("session should be idle after cancel")
	}
}

// Sessions are exclusive: nothing can start while another gesture is active.
func TestSessionExclusiveEntry(t *testing.T) {
	s, _ := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1", "spec-1")

	if !s.StartSelect(roomCtx("room-1"), 2) {
		t.Fatal("StartSelect refused from idle")
	}
	if s.StartSelect(roomCtx("room-2"), 3) {
		t.Error("StartSelect allowed while selecting")
	}
	if s.StartResize(m, roomCtx("room-1"), EdgeEnd, 0, 2) {
		t.Error("StartResize allowed while selecting")
	}
	if s.Arm(m, roomCtx("room-1"), 0, 0, 2, time.Now()) {
		t.Error("Arm allowed while selecting")
	}

	s.Cancel()
	if !s.StartResize(m, roomCtx("room-1"), EdgeEnd, 0, 2) {
		t.Error("StartResize refused from idle")
	}
}

func TestResize_GrowEnd(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1", "spec-1")
	meetings := []*schedule.Meeting{m}

	if !s.StartResize(m, roomCtx("room-1"), EdgeEnd, 10, 2) {
		t.Fatal("StartResize refused")
	}

	// Two rows per slot: +2 rows is one slot
	delta, _, conflict, ok := s.ResizeMotion(12, meetings)
	if !ok || conflict != nil {
		t.Fatalf("motion rejected: conflict=%v", conflict)
	}
	if delta != 1 {
		t.Errorf("delta = %d, want 1", delta)
	}

	s.ApplyFlush(delta, 0)
	s.Release(0, 12, time.Now(), meetings)

	if len(rec.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(rec.updated))
	}
	u := rec.updated[0]
	if u.id != "m1" || u.start != "09:00" || u.end != "10:30" {
		t.Errorf("update = %+v, want m1 09:00-10:30", u)
	}
}

// Partial rows round toward zero and never move the edge.
func TestResize_SubSlotMotionHolds(t *testing.T) {
	s, _ := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")

	s.StartResize(m, roomCtx("room-1"), EdgeEnd, 10, 2)

	delta, remainder, _, ok := s.ResizeMotion(11, []*schedule.Meeting{m})
	if !ok {
		t.Fatal("motion rejected")
	}
	if delta != 0 || remainder != 1 {
		t.Errorf("(delta, remainder) = (%d, %d), want (0, 1)", delta, remainder)
	}

	delta, remainder, _, ok = s.ResizeMotion(9, []*schedule.Meeting{m})
	if !ok {
		t.Fatal("motion rejected")
	}
	if delta != 0 || remainder != -1 {
		t.Errorf("(delta, remainder) = (%d, %d), want (0, -1)", delta, remainder)
	}
}

// The end handle clamps at one slot of duration and at the grid edge.
func TestResize_Clamp(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")
	meetings := []*schedule.Meeting{m}

	s.StartResize(m, roomCtx("room-1"), EdgeEnd, 10, 2)

	// Far upward: end cannot cross below start+1
	delta, _, _, ok := s.ResizeMotion(-100, meetings)
	if !ok {
		t.Fatal("motion rejected")
	}
	s.ApplyFlush(delta, 0)
	start, end, _ := s.GhostRange()
	if got := s.grid.LabelOf(end); got != "09:30" {
		t.Errorf("min end = %q, want 09:30", got)
	}
	if got := s.grid.LabelOf(start); got != "09:00" {
		t.Errorf("start moved to %q", got)
	}

	// Far downward: end cannot leave the grid
	delta, _, _, ok = s.ResizeMotion(1000, meetings)
	if !ok {
		t.Fatal("motion rejected")
	}
	s.ApplyFlush(delta, 0)
	_, end, _ = s.GhostRange()
	if end != s.grid.SlotCount() {
		t.Errorf("max end index = %d, want %d", end, s.grid.SlotCount())
	}

	s.Release(0, 1000, time.Now(), meetings)
	if len(rec.updated) != 1 || rec.updated[0].end != "20:00" {
		t.Errorf("expected commit at closing label, got %+v", rec.updated)
	}
}

func TestResize_StartEdge(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "10:00", "11:00", "room-1")
	meetings := []*schedule.Meeting{m}

	s.StartResize(m, roomCtx("room-1"), EdgeStart, 8, 2)

	// Up two rows = start one slot earlier
	delta, _, _, ok := s.ResizeMotion(6, meetings)
	if !ok || delta != -1 {
		t.Fatalf("delta = %d, ok = %v, want -1, true", delta, ok)
	}
	s.ApplyFlush(delta, 0)
	s.Release(0, 6, time.Now(), meetings)

	if len(rec.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(rec.updated))
	}
	if rec.updated[0].start != "09:30" || rec.updated[0].end != "11:00" {
		t.Errorf("update = %+v, want 09:30-11:00", rec.updated[0])
	}
}

// Scenario: resizing into a neighboring booking freezes the ghost, names the
// blocker, and never commits.
func TestResize_ConflictRejected(t *testing.T) {
	s, rec := newTestSession()
	m1 := sessionMeeting("m1", "09:00", "10:00", "room-1", "spec-1")
	m2 := sessionMeeting("m2", "10:00", "11:00", "room-1", "spec-2")
	meetings := []*schedule.Meeting{m1, m2}

	s.StartResize(m1, roomCtx("room-1"), EdgeEnd, 10, 2)

	_, _, conflict, ok := s.ResizeMotion(12, meetings) // toward 10:30
	if ok {
		t.Fatal("expected motion to be rejected")
	}
	if conflict == nil || conflict.ID != "m2" {
		t.Fatalf("expected m2 as blocker, got %v", conflict)
	}

	// The ghost holds its last valid position
	start, end, _ := s.GhostRange()
	if start != 2 || end != 4 {
		t.Errorf("ghost = [%d,%d), want [2,4)", start, end)
	}

	s.Release(0, 12, time.Now(), meetings)
	if len(rec.updated) != 0 {
		t.Errorf("expected no update, got %+v", rec.updated)
	}
}

// An unchanged position skips the callback entirely.
func TestResize_NoChangeNoCallback(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")
	meetings := []*schedule.Meeting{m}

	s.StartResize(m, roomCtx("room-1"), EdgeEnd, 10, 2)
	s.Release(0, 10, time.Now(), meetings)

	if len(rec.updated) != 0 {
		t.Errorf("expected no update, got %+v", rec.updated)
	}
	if s.Active() {
		t.Error("session should be idle")
	}
}

// A quick, still press-and-release opens the meeting and never moves it.
func TestMove_ClickOpensEdit(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")

	now := time.Now()
	if !s.Arm(m, roomCtx("room-1"), 5, 10, 2, now) {
		t.Fatal("Arm refused")
	}
	s.Release(5, 10, now.Add(100*time.Millisecond), []*schedule.Meeting{m})

	if len(rec.opened) != 1 || rec.opened[0].ID != "m1" {
		t.Fatalf("expected m1 opened, got %+v", rec.opened)
	}
	if len(rec.updated) != 0 {
		t.Errorf("click must never update, got %+v", rec.updated)
	}
}

func TestMove_SlowPressIsNothing(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")

	now := time.Now()
	s.Arm(m, roomCtx("room-1"), 5, 10, 2, now)
	s.Release(5, 10, now.Add(600*time.Millisecond), []*schedule.Meeting{m})

	if len(rec.opened) != 0 || len(rec.updated) != 0 {
		t.Errorf("slow press should do nothing, got opened=%d updated=%d",
			len(rec.opened), len(rec.updated))
	}
}

// Scenario: moving a meeting two slots to a free range commits exactly once
// with the duration preserved.
func TestMove_Commit(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1", "spec-1")
	meetings := []*schedule.Meeting{m}

	dragMeeting(t, s, m, 5, 10)

	// +4 rows at two rows per slot = +2 slots
	delta, _, conflict, ok := s.MoveMotion(14, meetings)
	if !ok || conflict != nil {
		t.Fatalf("motion rejected: %v", conflict)
	}
	if delta != 2 {
		t.Errorf("delta = %d, want 2", delta)
	}
	s.ApplyFlush(delta, 0)
	s.Release(5, 14, time.Now(), meetings)

	if len(rec.updated) != 1 {
		t.Fatalf("expected exactly 1 update, got %d", len(rec.updated))
	}
	u := rec.updated[0]
	if u.id != "m1" || u.start != "10:00" || u.end != "11:00" {
		t.Errorf("update = %+v, want m1 10:00-11:00", u)
	}
	if len(rec.opened) != 0 {
		t.Error("a drag must not open the edit form")
	}
}

// Every committed move keeps the block's duration.
func TestMove_PreservesDuration(t *testing.T) {
	for _, rows := range []int{2, 3, 5, 9, 14} {
		s, rec := newTestSession()
		m := sessionMeeting("m1", "09:00", "10:30", "room-1")
		meetings := []*schedule.Meeting{m}

		dragMeeting(t, s, m, 5, 10)
		delta, _, _, ok := s.MoveMotion(10+rows, meetings)
		if !ok {
			t.Fatalf("rows=%d: motion rejected", rows)
		}
		s.ApplyFlush(delta, 0)
		s.Release(5, 10+rows, time.Now(), meetings)

		for _, u := range rec.updated {
			dur := schedule.TimeToMinutes(u.end) - schedule.TimeToMinutes(u.start)
			if dur != 90 {
				t.Errorf("rows=%d: committed duration %d minutes, want 90", rows, dur)
			}
		}
	}
}

func TestMove_ClampsToGrid(t *testing.T) {
	s, _ := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")
	meetings := []*schedule.Meeting{m}

	dragMeeting(t, s, m, 5, 10)

	delta, _, _, ok := s.MoveMotion(-500, meetings)
	if !ok {
		t.Fatal("motion rejected")
	}
	s.ApplyFlush(delta, 0)
	start, end, _ := s.GhostRange()
	if start != 0 || end != 2 {
		t.Errorf("ghost = [%d,%d), want pinned at [0,2)", start, end)
	}

	delta, _, _, ok = s.MoveMotion(500, meetings)
	if !ok {
		t.Fatal("motion rejected")
	}
	s.ApplyFlush(delta, 0)
	start, end, _ = s.GhostRange()
	if end != s.grid.SlotCount() || end-start != 2 {
		t.Errorf("ghost = [%d,%d), want pinned at grid end with duration 2", start, end)
	}
}

// Moving onto a specialist's other booking is rejected even in another room.
func TestMove_SpecialistConflict(t *testing.T) {
	s, rec := newTestSession()
	m1 := sessionMeeting("m1", "09:00", "10:00", "room-1", "spec-1")
	other := sessionMeeting("m2", "11:00", "12:00", "room-2", "spec-1")
	meetings := []*schedule.Meeting{m1, other}

	dragMeeting(t, s, m1, 5, 10)

	// +4 slots would land on 11:00-12:00, clashing with spec-1 in room-2
	_, _, conflict, ok := s.MoveMotion(18, meetings)
	if ok {
		t.Fatal("expected rejection")
	}
	if conflict == nil || conflict.ID != "m2" {
		t.Fatalf("expected m2 as blocker, got %v", conflict)
	}

	s.Release(5, 18, time.Now(), meetings)
	if len(rec.updated) != 0 {
		t.Errorf("expected no update, got %+v", rec.updated)
	}
}

// Release commits the last batched delta, not the last rejected candidate.
func TestMove_CommitUsesLastFlushedDelta(t *testing.T) {
	s, rec := newTestSession()
	m1 := sessionMeeting("m1", "09:00", "10:00", "room-1", "spec-1")
	m2 := sessionMeeting("m2", "12:00", "13:00", "room-1", "spec-2")
	meetings := []*schedule.Meeting{m1, m2}

	dragMeeting(t, s, m1, 5, 10)

	// Valid +2 slots, flushed
	delta, _, _, ok := s.MoveMotion(14, meetings)
	if !ok {
		t.Fatal("valid motion rejected")
	}
	s.ApplyFlush(delta, 0)

	// Further motion lands on m2 and is rejected; no flush follows
	if _, _, _, ok := s.MoveMotion(22, meetings); ok {
		t.Fatal("expected conflict rejection")
	}

	s.Release(5, 22, time.Now(), meetings)
	if len(rec.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(rec.updated))
	}
	if rec.updated[0].start != "10:00" || rec.updated[0].end != "11:00" {
		t.Errorf("update = %+v, want 10:00-11:00", rec.updated[0])
	}
}

func TestEscapeCancelsAnyState(t *testing.T) {
	s, rec := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")
	meetings := []*schedule.Meeting{m}

	dragMeeting(t, s, m, 5, 10)
	delta, _, _, _ := s.MoveMotion(14, meetings)
	s.ApplyFlush(delta, 0)

	s.Cancel()

	if s.Active() {
		t.Error("session should be idle after cancel")
	}
	if s.TargetMeeting() != nil {
		t.Error("no target after cancel")
	}
	if len(rec.updated) != 0 {
		t.Errorf("cancel must not commit, got %+v", rec.updated)
	}
}

func TestTargetMeetingSuppression(t *testing.T) {
	s, _ := newTestSession()
	m := sessionMeeting("m1", "09:00", "10:00", "room-1")

	if s.TargetMeeting() != nil {
		t.Error("idle session has no target")
	}

	s.StartResize(m, roomCtx("room-1"), EdgeEnd, 0, 2)
	if s.TargetMeeting() != m {
		t.Error("resizing session should expose its target")
	}
}
