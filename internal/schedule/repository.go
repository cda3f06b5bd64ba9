package schedule

import (
	"context"
	"time"
)

// TimeUpdate carries a proposed start/end change for one meeting.
type TimeUpdate struct {
	StartTime string
	EndTime   string
}

// Repository defines the storage interface for meetings and reference data.
type Repository interface {
	// CreateMeeting adds a new meeting. Returns ErrRoomDoubleBooked or
	// ErrSpecialistDoubleBooked if the slot is already taken.
	CreateMeeting(ctx context.Context, m *Meeting) error

	// GetMeeting retrieves a meeting by ID, or nil if absent.
	GetMeeting(ctx context.Context, id string) (*Meeting, error)

	// UpdateMeetingTimes changes only the start/end of a meeting in place.
	// Used by grid resize and move commits. The same double-booking errors
	// apply as for CreateMeeting.
	UpdateMeetingTimes(ctx context.Context, id string, upd TimeUpdate) error

	// UpdateMeeting replaces every editable field of a meeting.
	UpdateMeeting(ctx context.Context, m *Meeting) error

	// CancelMeeting marks a meeting as cancelled.
	CancelMeeting(ctx context.Context, id string) error

	// DeleteMeeting removes a meeting permanently.
	DeleteMeeting(ctx context.Context, id string) error

	// ListMeetingsByDateRange returns meetings with dates in [start,end]
	// inclusive, ordered by date then start time.
	ListMeetingsByDateRange(ctx context.Context, start, end time.Time) ([]*Meeting, error)

	// Rooms.
	CreateRoom(ctx context.Context, r *Room) error
	ListRooms(ctx context.Context) ([]*Room, error)

	// Specialists.
	CreateSpecialist(ctx context.Context, s *Specialist) error
	ListSpecialists(ctx context.Context) ([]*Specialist, error)

	// Patients.
	CreatePatient(ctx context.Context, p *Patient) error
	ListPatients(ctx context.Context) ([]*Patient, error)

	// Close releases any resources held by the repository.
	Close() error
}
