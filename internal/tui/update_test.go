package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"careboard/internal/schedule"
	"careboard/internal/tui/commands"
)

// sizedModel returns a model with a window, one room, and an empty board so
// the grid geometry is valid.
func sizedModel(t *testing.T) Model {
	t.Helper()
	m := testModel(t, WithDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	m, _ = applyMsg(t, m, tea.WindowSizeMsg{Width: 86, Height: 40})
	m, _ = applyMsg(t, m, commands.RefsLoadedMsg{
		Rooms: []*schedule.Room{{ID: "r1", Name: "Therapy 1"}},
	})
	m, _ = applyMsg(t, m, commands.MeetingsLoadedMsg{Meetings: nil})
	return m
}

func TestWindowSizeRebuildsAndCancelsGesture(t *testing.T) {
	m := sizedModel(t)
	if !m.session.StartSelect(GridContext{Date: m.current, RoomID: "r1"}, 2) {
		t.Fatal("failed to start selection")
	}

	m, _ = applyMsg(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	if m.width != 120 || m.height != 50 {
		t.Errorf("size: got %dx%d, want 120x50", m.width, m.height)
	}
	if m.session.Active() {
		t.Error("resize must cancel the active gesture")
	}
	if m.rowsPerSlot < 1 {
		t.Errorf("rowsPerSlot: got %d, want >= 1", m.rowsPerSlot)
	}
	if !m.geometry.Valid() {
		t.Error("expected valid geometry after resize")
	}
}

func TestMeetingsLoadedRebuildsLayout(t *testing.T) {
	m := sizedModel(t)
	mt := &schedule.Meeting{
		ID: "m1", Date: m.current, StartTime: "09:00", EndTime: "10:00", RoomID: "r1",
	}

	m, _ = applyMsg(t, m, commands.MeetingsLoadedMsg{Meetings: []*schedule.Meeting{mt}})

	if m.loading {
		t.Error("loading flag not cleared")
	}
	if len(m.columns) != 1 || len(m.columns[0]) != 1 {
		t.Fatalf("expected the meeting laid out in one column, got %v", m.columns)
	}
	if m.columns[0][0].Meeting.ID != "m1" {
		t.Errorf("laid out meeting: got %s, want m1", m.columns[0][0].Meeting.ID)
	}
}

func TestRefsLoadedSetsReferenceLists(t *testing.T) {
	m := testModel(t)
	m, _ = applyMsg(t, m, commands.RefsLoadedMsg{
		Rooms:       []*schedule.Room{{ID: "r1"}},
		Specialists: []*schedule.Specialist{{ID: "s1"}},
		Patients:    []*schedule.Patient{{ID: "p1"}},
	})

	if len(m.rooms) != 1 || len(m.specialists) != 1 || len(m.patients) != 1 {
		t.Errorf("refs not stored: %d rooms, %d specialists, %d patients",
			len(m.rooms), len(m.specialists), len(m.patients))
	}
}

func TestHoverTickOnlyForMatchingMeeting(t *testing.T) {
	m := testModel(t)
	m.hover = hoverState{meetingID: "m1"}

	m, _ = applyMsg(t, m, hoverTickMsg{MeetingID: "other"})
	if m.hover.visible {
		t.Error("stale hover tick must not show the tooltip")
	}

	m, _ = applyMsg(t, m, hoverTickMsg{MeetingID: "m1"})
	if !m.hover.visible {
		t.Error("matching hover tick must show the tooltip")
	}
}

func TestConflictFlashSequencing(t *testing.T) {
	m := testModel(t)
	m.conflictMsg = "Blocked by Intake"
	m.conflictSeq = 2

	// A timer armed for an older indicator must not clear a newer one.
	m, _ = applyMsg(t, m, conflictFlashMsg{seq: 1})
	if m.conflictMsg == "" {
		t.Error("stale flash timer cleared the current message")
	}

	m, _ = applyMsg(t, m, conflictFlashMsg{seq: 2})
	if m.conflictMsg != "" {
		t.Error("matching flash timer did not clear the message")
	}
}

func TestConflictMsgReloadsBoardAndArmsFlash(t *testing.T) {
	m := sizedModel(t)
	before := m.conflictSeq

	m, cmd := applyMsg(t, m, commands.ConflictMsg{Err: schedule.ErrRoomDoubleBooked})
	if m.conflictMsg == "" {
		t.Error("conflict message not set")
	}
	if m.conflictSeq != before+1 {
		t.Error("store rejection must arm a fresh flash generation")
	}
	if cmd == nil {
		t.Error("expected a reload command")
	}
}

func TestErrMsgSetsStatus(t *testing.T) {
	m := testModel(t)

	m, cmd := applyMsg(t, m, commands.ErrMsg{Err: errors.New("boom")})
	if !strings.HasPrefix(m.statusMsg, "Error:") {
		t.Errorf("statusMsg: got %q, want Error prefix", m.statusMsg)
	}
	if m.err == nil {
		t.Error("err not recorded")
	}
	if cmd == nil {
		t.Error("expected a clear-status timer")
	}
}

func TestStatusMessageLifecycle(t *testing.T) {
	m := testModel(t)

	m, _ = applyMsg(t, m, commands.StatusMsgCmd{Msg: "Saved"})
	if m.statusMsg != "Saved" {
		t.Errorf("statusMsg: got %q, want Saved", m.statusMsg)
	}

	m, _ = applyMsg(t, m, commands.ClearStatusMsg{})
	if m.statusMsg != "" {
		t.Errorf("statusMsg not cleared: %q", m.statusMsg)
	}
}

func TestMeetingCancelledSetsStatusAndReloads(t *testing.T) {
	m := sizedModel(t)

	m, cmd := applyMsg(t, m, commands.MeetingCancelledMsg{ID: "m1"})
	if m.statusMsg != "Meeting cancelled" {
		t.Errorf("statusMsg: got %q", m.statusMsg)
	}
	if cmd == nil {
		t.Error("expected a reload command")
	}
}
