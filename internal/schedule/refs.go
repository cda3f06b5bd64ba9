package schedule

import "errors"

// Reference validation errors.
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrRoomNotFound       = errors.New("room not found")
	ErrSpecialistNotFound = errors.New("specialist not found")
)

// Room is a bookable resource; meetings occupy exactly one room.
type Room struct {
	ID    string
	Name  string
	Color string // hex accent used by the grid header
}

// Specialist is an employee who can be attached to meetings.
// A specialist cannot appear in two overlapping meetings on one day.
type Specialist struct {
	ID    string
	Name  string
	Color string
}

// Patient is a guest attached to a meeting; patients carry no booking
// constraint of their own.
type Patient struct {
	ID   string
	Name string
}

// RoomByID returns the room with the given id, or nil.
func RoomByID(rooms []*Room, id string) *Room {
	for _, r := range rooms {
		if r != nil && r.ID == id {
			return r
		}
	}
	return nil
}

// SpecialistByID returns the specialist with the given id, or nil.
func SpecialistByID(specialists []*Specialist, id string) *Specialist {
	for _, s := range specialists {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}
