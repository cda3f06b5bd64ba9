package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"careboard/internal/schedule"
)

func TestViewBeforeFirstResize(t *testing.T) {
	m := testModel(t)
	if got := m.View(); got != "Loading..." {
		t.Errorf("got %q, want plain loading placeholder", got)
	}
}

func TestRenderTitlePerView(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		view ViewMode
		want string
	}{
		{"day", ViewDay, "Tuesday, Mar 10 2026  [day]"},
		{"week", ViewWeek, "Mar 09 - Mar 15 2026  [week]"},
		{"month", ViewMonth, "March 2026  [month]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, WithDate(date), WithView(tt.view))
			m.loading = false
			got := ansi.Strip(m.renderTitle())
			if !strings.Contains(got, tt.want) {
				t.Errorf("title %q missing %q", got, tt.want)
			}
		})
	}
}

func TestRenderTitleLoadingIndicator(t *testing.T) {
	m := testModel(t)
	m.loading = true
	if got := ansi.Strip(m.renderTitle()); !strings.HasSuffix(got, "...") {
		t.Errorf("loading title %q missing indicator", got)
	}
}

func TestRenderFooterConflictWinsOverStatus(t *testing.T) {
	m := testModel(t)
	m.statusMsg = "Saved"
	m.conflictMsg = "Blocked by Intake"

	got := ansi.Strip(m.renderFooter())
	if !strings.Contains(got, "Blocked by Intake") {
		t.Error("conflict message missing from footer")
	}
	if strings.Contains(got, "Saved") {
		t.Error("status message must yield to the conflict message")
	}
}

func TestRenderTooltip(t *testing.T) {
	m := testModel(t)
	m.rooms = []*schedule.Room{{ID: "r1", Name: "Therapy 1"}}
	m.specialists = []*schedule.Specialist{{ID: "s1", Name: "Dr. Vos"}}

	mt := &schedule.Meeting{
		ID: "m1", StartTime: "09:00", EndTime: "10:00", RoomID: "r1",
		SpecialistIDs: []string{"s1"}, Notes: "Intake", Status: schedule.StatusPresent,
	}

	got := ansi.Strip(m.renderTooltip(mt))
	for _, want := range []string{"Intake", "09:00-10:00", "Therapy 1", "Dr. Vos"} {
		if !strings.Contains(got, want) {
			t.Errorf("tooltip missing %q:\n%s", want, got)
		}
	}
}

func TestSpecialistNamesSkipsUnknown(t *testing.T) {
	m := testModel(t)
	m.specialists = []*schedule.Specialist{{ID: "s1", Name: "Dr. Vos"}}

	mt := &schedule.Meeting{SpecialistIDs: []string{"s1", "missing"}}
	if got := m.specialistNames(mt); got != "Dr. Vos" {
		t.Errorf("got %q, want just the known name", got)
	}
}

func TestViewRendersModalOverlay(t *testing.T) {
	m := sizedModel(t)
	m.rooms = []*schedule.Room{{ID: "r1", Name: "Therapy 1"}}
	m.openCreateForm(schedule.Draft{
		Date:      m.current,
		StartTime: "09:00",
		EndTime:   "10:00",
		RoomID:    "r1",
	})

	got := ansi.Strip(m.View())
	if !strings.Contains(got, "New meeting") {
		t.Error("form modal missing from the composed view")
	}
}

func TestExportMeeting(t *testing.T) {
	m := testModel(t)
	m.rooms = []*schedule.Room{{ID: "r1", Name: "Therapy 1"}}
	m.specialists = []*schedule.Specialist{{ID: "s1", Name: "Dr. Vos"}}

	mt := &schedule.Meeting{
		Date:          time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:00",
		EndTime:       "10:00",
		RoomID:        "r1",
		Notes:         "Intake",
		SpecialistIDs: []string{"s1"},
	}

	got := m.exportMeeting(mt)
	want := "2026-03-10 09:00-10:00 @ Therapy 1\nIntake\nWith: Dr. Vos"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
