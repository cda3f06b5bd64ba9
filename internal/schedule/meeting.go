// Package schedule defines the core domain types for careboard.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"careboard/internal/dateutil"
)

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrMissingRoom       = errors.New("meeting must have a room")
	ErrInvalidStatus     = errors.New("invalid meeting status")
)

// Domain errors.
var (
	ErrRoomDoubleBooked       = errors.New("room is already booked for this time")
	ErrSpecialistDoubleBooked = errors.New("specialist is already booked for this time")
	ErrMeetingNotFound        = errors.New("meeting not found")
)

// Status represents the state of a meeting.
type Status string

const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusInProgress Status = "in_progress"
	StatusCancelled  Status = "cancelled"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusInProgress, StatusCancelled:
		return true
	default:
		return false
	}
}

// Meeting represents a scheduled occupation of one room by one or more
// specialists and zero or more patients for one contiguous time range.
type Meeting struct {
	ID            string
	Date          time.Time
	StartTime     string // "HH:MM"
	EndTime       string // "HH:MM"
	RoomID        string
	SpecialistIDs []string
	PatientIDs    []string
	Notes         string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Draft holds the fields needed to create a meeting; the identifier is
// assigned at creation time.
type Draft struct {
	Date          time.Time
	StartTime     string
	EndTime       string
	RoomID        string
	SpecialistIDs []string
	PatientIDs    []string
	Notes         string
}

// New creates a Meeting from a draft with validation.
// date must be a calendar day; start and end must be HH:MM with end after start.
func New(d Draft) (*Meeting, error) {
	if d.RoomID == "" {
		return nil, ErrMissingRoom
	}
	if err := ValidateTime(d.StartTime); err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	if err := ValidateTime(d.EndTime); err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}
	if d.EndTime <= d.StartTime {
		return nil, ErrEndBeforeStart
	}

	now := time.Now()
	return &Meeting{
		ID:            uuid.NewString(),
		Date:          dateutil.TruncateToDay(d.Date),
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		RoomID:        d.RoomID,
		SpecialistIDs: append([]string(nil), d.SpecialistIDs...),
		PatientIDs:    append([]string(nil), d.PatientIDs...),
		Notes:         d.Notes,
		Status:        StatusPresent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ValidateTime checks that s is a well-formed HH:MM string.
func ValidateTime(s string) error {
	if len(s) != 5 {
		return ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return ErrInvalidTimeFormat
	}
	return nil
}

// IsCancelled returns true if the meeting has cancelled status.
func (m *Meeting) IsCancelled() bool {
	return m.Status == StatusCancelled
}

// Duration returns the meeting duration in minutes.
func (m *Meeting) Duration() int {
	return TimeToMinutes(m.EndTime) - TimeToMinutes(m.StartTime)
}

// HasSpecialist returns true if the specialist is attached to the meeting.
func (m *Meeting) HasSpecialist(id string) bool {
	for _, s := range m.SpecialistIDs {
		if s == id {
			return true
		}
	}
	return false
}

// SameDay returns true if the meeting falls on the given calendar day.
func (m *Meeting) SameDay(date time.Time) bool {
	return m.Date.Year() == date.Year() && m.Date.YearDay() == date.YearDay()
}

// OverlapsWith returns true if this meeting overlaps another in time on the
// same calendar day. Room and specialist membership are not considered.
func (m *Meeting) OverlapsWith(other *Meeting) bool {
	if other == nil || !m.SameDay(other.Date) {
		return false
	}
	return TimesOverlap(m.StartTime, m.EndTime, other.StartTime, other.EndTime)
}
