package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"careboard/internal/schedule"
	"careboard/internal/tui/commands"
)

func TestPadCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 4, "    "},
		{"ab", 4, "ab  "},
		{"abcd", 4, "abcd"},
		{"abcdef", 4, "abcdef"},
		// Multi-byte names pad by display width, not byte length.
		{"Żaneta", 8, "Żaneta  "},
		{"Gym café", 10, "Gym café  "},
	}

	for _, tt := range tests {
		if got := padCell(tt.in, tt.width); got != tt.want {
			t.Errorf("padCell(%q, %d): got %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTruncCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 4, "abc…"},
		{"abcdef", 1, "a"},
		{"héllo wörld", 6, "héllo…"},
	}

	for _, tt := range tests {
		if got := truncCell(tt.in, tt.width); got != tt.want {
			t.Errorf("truncCell(%q, %d): got %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestVisibleColumns(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) // a Tuesday

	t.Run("week without weekends", func(t *testing.T) {
		m := testModel(t, WithDate(date), WithView(ViewWeek))
		cols := m.visibleColumns()
		if len(cols) != 5 {
			t.Fatalf("got %d columns, want 5", len(cols))
		}
		if got := cols[0].Date.Format("2006-01-02"); got != "2026-03-09" {
			t.Errorf("first column: got %s, want Monday 2026-03-09", got)
		}
		if cols[0].RoomID != "" {
			t.Error("week columns must not carry a room")
		}
	})

	t.Run("week with weekends", func(t *testing.T) {
		m := testModel(t, WithDate(date), WithView(ViewWeek))
		m.showWeekends = true
		cols := m.visibleColumns()
		if len(cols) != 7 {
			t.Fatalf("got %d columns, want 7", len(cols))
		}
		if got := cols[6].Date.Format("2006-01-02"); got != "2026-03-15" {
			t.Errorf("last column: got %s, want Sunday 2026-03-15", got)
		}
	})

	t.Run("day per room", func(t *testing.T) {
		m := testModel(t, WithDate(date))
		m.rooms = []*schedule.Room{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}
		cols := m.visibleColumns()
		if len(cols) != 3 {
			t.Fatalf("got %d columns, want 3", len(cols))
		}
		for i, col := range cols {
			if col.RoomID != m.rooms[i].ID {
				t.Errorf("column %d: got room %q, want %q", i, col.RoomID, m.rooms[i].ID)
			}
			if !col.Date.Equal(date) {
				t.Errorf("column %d: got date %v, want %v", i, col.Date, date)
			}
		}
	})

	t.Run("month has none", func(t *testing.T) {
		m := testModel(t, WithView(ViewMonth))
		if cols := m.visibleColumns(); cols != nil {
			t.Errorf("got %v, want nil", cols)
		}
	})
}

func TestColumnMeetingsFilters(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	other := date.AddDate(0, 0, 1)
	m := testModel(t, WithDate(date))
	m.meetings = []*schedule.Meeting{
		nil,
		{ID: "same-room", Date: date, RoomID: "r1"},
		{ID: "other-room", Date: date, RoomID: "r2"},
		{ID: "other-day", Date: other, RoomID: "r1"},
	}

	got := m.columnMeetings(ColumnInfo{Date: date, RoomID: "r1"})
	if len(got) != 1 || got[0].ID != "same-room" {
		t.Errorf("room column: got %v, want just same-room", got)
	}

	// Week columns have no room and take the whole day.
	got = m.columnMeetings(ColumnInfo{Date: date})
	if len(got) != 2 {
		t.Errorf("day column: got %d meetings, want 2", len(got))
	}
}

func TestComposeRowWidths(t *testing.T) {
	m := sizedModel(t)
	w := m.geometry.ColumnWidth

	tests := []struct {
		name string
		segs []cellSegment
	}{
		{"empty", nil},
		{"one block", []cellSegment{{x: 0, width: 4, text: "a", style: m.styles.BlockPresentStyle}}},
		{"gap between blocks", []cellSegment{
			{x: 6, width: 4, text: "b", style: m.styles.BlockPresentStyle},
			{x: 0, width: 4, text: "a", style: m.styles.BlockAbsentStyle},
		}},
		{"overflowing block", []cellSegment{{x: w - 2, width: 10, text: "z", style: m.styles.BlockPresentStyle}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := m.composeRow(tt.segs, w, false)
			if got := len(ansi.Strip(row)); got != w {
				t.Errorf("row width: got %d, want %d", got, w)
			}
		})
	}
}

func TestComposeRowUsesCache(t *testing.T) {
	m := sizedModel(t)
	w := m.geometry.ColumnWidth

	if got := m.composeRow(nil, w, false); got != m.cache.emptyCell {
		t.Error("empty row at cached width must reuse the cached cell")
	}
	if got := m.composeRow(nil, w, true); got != m.cache.emptyCellAlt {
		t.Error("alt band must reuse the cached alt cell")
	}
	// A foreign width falls back to live rendering at that width.
	if got := len(ansi.Strip(m.composeRow(nil, w+3, false))); got != w+3 {
		t.Errorf("fallback width: got %d, want %d", got, w+3)
	}
}

func TestRenderGridShowsEmptyRoomHint(t *testing.T) {
	m := testModel(t)
	m, _ = applyMsg(t, m, tea.WindowSizeMsg{Width: 86, Height: 40})

	out := ansi.Strip(m.renderGrid())
	if !strings.Contains(out, "No rooms configured") {
		t.Errorf("expected empty-room hint, got %q", out)
	}
}

func TestRenderGridDrawsMeetingAndGutter(t *testing.T) {
	m := sizedModel(t)
	mt := &schedule.Meeting{
		ID: "m1", Date: m.current, StartTime: "09:00", EndTime: "10:00",
		RoomID: "r1", Notes: "Intake",
	}
	m, _ = applyMsg(t, m, commands.MeetingsLoadedMsg{Meetings: []*schedule.Meeting{mt}})

	out := ansi.Strip(m.renderGrid())
	if !strings.Contains(out, "Intake") {
		t.Error("meeting title missing from the grid")
	}
	if !strings.Contains(out, "08:00") || !strings.Contains(out, "09:30") {
		t.Error("time gutter labels missing")
	}
	if !strings.Contains(out, "Therapy 1") {
		t.Error("room header missing")
	}
}
