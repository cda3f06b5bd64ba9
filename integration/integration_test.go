// Package integration exercises the SQLite repository end to end.
package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"careboard/internal/db"
	"careboard/internal/schedule"
)

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// mustParseDate parses a date string or fails the test.
func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", s, err)
	}
	return date
}

// createRoom inserts a room and returns it.
func createRoom(t *testing.T, repo *db.SQLite, name string) *schedule.Room {
	t.Helper()
	r := &schedule.Room{ID: uuid.NewString(), Name: name}
	if err := repo.CreateRoom(context.Background(), r); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return r
}

// createSpecialist inserts a specialist and returns it.
func createSpecialist(t *testing.T, repo *db.SQLite, name string) *schedule.Specialist {
	t.Helper()
	sp := &schedule.Specialist{ID: uuid.NewString(), Name: name}
	if err := repo.CreateSpecialist(context.Background(), sp); err != nil {
		t.Fatalf("failed to create specialist: %v", err)
	}
	return sp
}

// createMeeting builds, validates, and inserts a meeting.
func createMeeting(t *testing.T, repo *db.SQLite, d schedule.Draft) *schedule.Meeting {
	t.Helper()
	m, err := schedule.New(d)
	if err != nil {
		t.Fatalf("failed to build meeting: %v", err)
	}
	if err := repo.CreateMeeting(context.Background(), m); err != nil {
		t.Fatalf("failed to insert meeting: %v", err)
	}
	return m
}

func TestMeetingRoundTrip(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	room := createRoom(t, repo, "Therapy 1")
	spec := createSpecialist(t, repo, "Dr. Vos")
	date := mustParseDate(t, "2026-01-20")

	m := createMeeting(t, repo, schedule.Draft{
		Date:          date,
		StartTime:     "08:00",
		EndTime:       "09:00",
		RoomID:        room.ID,
		SpecialistIDs: []string{spec.ID},
		Notes:         "Integration round trip",
	})

	got, err := repo.GetMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("failed to get meeting: %v", err)
	}
	if got == nil {
		t.Fatalf("meeting %s not found in database", m.ID)
	}
	if got.Notes != "Integration round trip" {
		t.Errorf("Notes: got %q, want %q", got.Notes, "Integration round trip")
	}
	if got.StartTime != "08:00" || got.EndTime != "09:00" {
		t.Errorf("times: got %s-%s, want 08:00-09:00", got.StartTime, got.EndTime)
	}
	if got.RoomID != room.ID {
		t.Errorf("RoomID: got %q, want %q", got.RoomID, room.ID)
	}
	if len(got.SpecialistIDs) != 1 || got.SpecialistIDs[0] != spec.ID {
		t.Errorf("SpecialistIDs: got %v, want [%s]", got.SpecialistIDs, spec.ID)
	}
	if !got.Date.Equal(date) {
		t.Errorf("Date: got %v, want %v", got.Date, date)
	}
}

func TestRoomDoubleBookingRejected(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	room := createRoom(t, repo, "Therapy 1")
	date := mustParseDate(t, "2026-01-20")

	createMeeting(t, repo, schedule.Draft{
		Date: date, StartTime: "09:00", EndTime: "10:00", RoomID: room.ID,
	})

	overlap, err := schedule.New(schedule.Draft{
		Date: date, StartTime: "09:30", EndTime: "10:30", RoomID: room.ID,
	})
	if err != nil {
		t.Fatalf("failed to build meeting: %v", err)
	}
	err = repo.CreateMeeting(ctx, overlap)
	if !errors.Is(err, schedule.ErrRoomDoubleBooked) {
		t.Fatalf("expected ErrRoomDoubleBooked, got %v", err)
	}

	// Adjacent meetings share a boundary and must be allowed.
	adjacent, err := schedule.New(schedule.Draft{
		Date: date, StartTime: "10:00", EndTime: "11:00", RoomID: room.ID,
	})
	if err != nil {
		t.Fatalf("failed to build meeting: %v", err)
	}
	if err := repo.CreateMeeting(ctx, adjacent); err != nil {
		t.Fatalf("adjacent meeting rejected: %v", err)
	}
}

func TestSpecialistDoubleBookingAcrossRooms(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	room1 := createRoom(t, repo, "Therapy 1")
	room2 := createRoom(t, repo, "Gym")
	spec := createSpecialist(t, repo, "Dr. Vos")
	date := mustParseDate(t, "2026-01-20")

	createMeeting(t, repo, schedule.Draft{
		Date: date, StartTime: "09:00", EndTime: "10:00",
		RoomID: room1.ID, SpecialistIDs: []string{spec.ID},
	})

	other, err := schedule.New(schedule.Draft{
		Date: date, StartTime: "09:30", EndTime: "10:30",
		RoomID: room2.ID, SpecialistIDs: []string{spec.ID},
	})
	if err != nil {
		t.Fatalf("failed to build meeting: %v", err)
	}
	err = repo.CreateMeeting(ctx, other)
	if !errors.Is(err, schedule.ErrSpecialistDoubleBooked) {
		t.Fatalf("expected ErrSpecialistDoubleBooked, got %v", err)
	}
}

func TestUpdateMeetingTimesConflict(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	room := createRoom(t, repo, "Therapy 1")
	date := mustParseDate(t, "2026-01-20")

	createMeeting(t, repo, schedule.Draft{
		Date: date, StartTime: "09:00", EndTime: "10:00", RoomID: room.ID,
	})
	second := createMeeting(t, repo, schedule.Draft{
		Date: date, StartTime: "11:00", EndTime: "12:00", RoomID: room.ID,
	})

	// Moving the second meeting onto the first must fail and leave it alone.
	err := repo.UpdateMeetingTimes(ctx, second.ID, schedule.TimeUpdate{
		StartTime: "09:30", EndTime: "10:30",
	})
	if !errors.Is(err, schedule.ErrRoomDoubleBooked) {
		t.Fatalf("expected ErrRoomDoubleBooked, got %v", err)
	}

	got, err := repo.GetMeeting(ctx, second.ID)
	if err != nil {
		t.Fatalf("failed to get meeting: %v", err)
	}
	if got.StartTime != "11:00" || got.EndTime != "12:00" {
		t.Errorf("rejected update changed times to %s-%s", got.StartTime, got.EndTime)
	}

	// A clean move succeeds.
	if err := repo.UpdateMeetingTimes(ctx, second.ID, schedule.TimeUpdate{
		StartTime: "10:00", EndTime: "11:00",
	}); err != nil {
		t.Fatalf("clean move failed: %v", err)
	}
}

func TestCancelledMeetingFreesSlot(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	room := createRoom(t, repo, "Therapy 1")
	date := mustParseDate(t, "2026-01-20")

	m := createMeeting(t, repo, schedule.Draft{
		Date: date, StartTime: "09:00", EndTime: "10:00", RoomID: room.ID,
	})
	if err := repo.CancelMeeting(ctx, m.ID); err != nil {
		t.Fatalf("failed to cancel meeting: %v", err)
	}

	replacement, err := schedule.New(schedule.Draft{
		Date: date, StartTime: "09:00", EndTime: "10:00", RoomID: room.ID,
	})
	if err != nil {
		t.Fatalf("failed to build meeting: %v", err)
	}
	if err := repo.CreateMeeting(ctx, replacement); err != nil {
		t.Fatalf("cancelled meeting still blocks its slot: %v", err)
	}
}

func TestDeleteMeeting(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	room := createRoom(t, repo, "Therapy 1")
	date := mustParseDate(t, "2026-01-20")

	m := createMeeting(t, repo, schedule.Draft{
		Date: date, StartTime: "09:00", EndTime: "10:00", RoomID: room.ID,
	})
	if err := repo.DeleteMeeting(ctx, m.ID); err != nil {
		t.Fatalf("failed to delete meeting: %v", err)
	}

	got, err := repo.GetMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("failed to get meeting: %v", err)
	}
	if got != nil {
		t.Error("expected deleted meeting to be gone")
	}
}

func TestListMeetingsByDateRangeOrder(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	room := createRoom(t, repo, "Therapy 1")
	day1 := mustParseDate(t, "2026-01-20")
	day2 := mustParseDate(t, "2026-01-21")

	createMeeting(t, repo, schedule.Draft{Date: day2, StartTime: "09:00", EndTime: "10:00", RoomID: room.ID})
	createMeeting(t, repo, schedule.Draft{Date: day1, StartTime: "14:00", EndTime: "15:00", RoomID: room.ID})
	createMeeting(t, repo, schedule.Draft{Date: day1, StartTime: "08:00", EndTime: "09:00", RoomID: room.ID})

	meetings, err := repo.ListMeetingsByDateRange(ctx, day1, day2)
	if err != nil {
		t.Fatalf("failed to list meetings: %v", err)
	}
	if len(meetings) != 3 {
		t.Fatalf("expected 3 meetings, got %d", len(meetings))
	}

	wantOrder := []string{"08:00", "14:00", "09:00"}
	for i, m := range meetings {
		if m.StartTime != wantOrder[i] {
			t.Errorf("meeting %d: got start %s, want %s", i, m.StartTime, wantOrder[i])
		}
	}
}
