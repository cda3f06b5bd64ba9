// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"careboard/internal/schedule"
)

// MeetingsLoadedMsg is sent when the visible date range has been loaded.
type MeetingsLoadedMsg struct {
	Start    time.Time
	End      time.Time
	Meetings []*schedule.Meeting
}

// RefsLoadedMsg is sent when the reference lists are loaded.
type RefsLoadedMsg struct {
	Rooms       []*schedule.Room
	Specialists []*schedule.Specialist
	Patients    []*schedule.Patient
}

// MeetingSavedMsg is sent after a meeting is created or updated.
type MeetingSavedMsg struct {
	ID string
}

// MeetingCancelledMsg is sent after a meeting is cancelled.
type MeetingCancelledMsg struct {
	ID string
}

// MeetingDeletedMsg is sent after a meeting is deleted.
type MeetingDeletedMsg struct {
	ID string
}

// ConflictMsg is sent when the store rejects a change for double booking.
type ConflictMsg struct {
	Err error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadMeetings loads every meeting in [start,end] inclusive.
func LoadMeetings(repo schedule.Repository, start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		meetings, err := repo.ListMeetingsByDateRange(context.Background(), start, end)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading meetings: %w", err)}
		}
		return MeetingsLoadedMsg{Start: start, End: end, Meetings: meetings}
	}
}

// LoadRefs loads rooms, specialists, and patients.
func LoadRefs(repo schedule.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		rooms, err := repo.ListRooms(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading rooms: %w", err)}
		}
		specialists, err := repo.ListSpecialists(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading specialists: %w", err)}
		}
		patients, err := repo.ListPatients(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading patients: %w", err)}
		}

		return RefsLoadedMsg{Rooms: rooms, Specialists: specialists, Patients: patients}
	}
}

// CreateMeeting persists a new meeting built from the draft.
func CreateMeeting(repo schedule.Repository, draft schedule.Draft) tea.Cmd {
	return func() tea.Msg {
		m, err := schedule.New(draft)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := repo.CreateMeeting(context.Background(), m); err != nil {
			if isConflict(err) {
				return ConflictMsg{Err: err}
			}
			return ErrMsg{Err: fmt.Errorf("creating meeting: %w", err)}
		}
		return MeetingSavedMsg{ID: m.ID}
	}
}

// UpdateMeeting replaces every editable field of a meeting.
func UpdateMeeting(repo schedule.Repository, m *schedule.Meeting) tea.Cmd {
	return func() tea.Msg {
		if err := repo.UpdateMeeting(context.Background(), m); err != nil {
			if isConflict(err) {
				return ConflictMsg{Err: err}
			}
			return ErrMsg{Err: fmt.Errorf("updating meeting: %w", err)}
		}
		return MeetingSavedMsg{ID: m.ID}
	}
}

// UpdateMeetingTimes commits a grid resize or move.
func UpdateMeetingTimes(repo schedule.Repository, id, startTime, endTime string) tea.Cmd {
	return func() tea.Msg {
		upd := schedule.TimeUpdate{StartTime: startTime, EndTime: endTime}
		if err := repo.UpdateMeetingTimes(context.Background(), id, upd); err != nil {
			if isConflict(err) {
				return ConflictMsg{Err: err}
			}
			return ErrMsg{Err: fmt.Errorf("moving meeting: %w", err)}
		}
		return MeetingSavedMsg{ID: id}
	}
}

// CancelMeeting marks a meeting cancelled, keeping it on the board.
func CancelMeeting(repo schedule.Repository, id string) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CancelMeeting(context.Background(), id); err != nil {
			return ErrMsg{Err: fmt.Errorf("cancelling meeting: %w", err)}
		}
		return MeetingCancelledMsg{ID: id}
	}
}

// DeleteMeeting removes a meeting permanently.
func DeleteMeeting(repo schedule.Repository, id string) tea.Cmd {
	return func() tea.Msg {
		if err := repo.DeleteMeeting(context.Background(), id); err != nil {
			return ErrMsg{Err: fmt.Errorf("deleting meeting: %w", err)}
		}
		return MeetingDeletedMsg{ID: id}
	}
}

func isConflict(err error) bool {
	return errors.Is(err, schedule.ErrRoomDoubleBooked) ||
		errors.Is(err, schedule.ErrSpecialistDoubleBooked)
}
