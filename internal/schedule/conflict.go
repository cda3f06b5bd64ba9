package schedule

import "time"

// Axis selects the resource dimension a double-booking check runs along.
type Axis int

const (
	// AxisRoom checks occupancy of a single room.
	AxisRoom Axis = iota
	// AxisSpecialist checks the agenda of a single specialist across rooms.
	AxisSpecialist
)

// FindConflict returns the first meeting that double-books the given resource
// for [start,end) on date, or nil if the range is free. Ranges are half-open:
// a meeting ending at 10:00 does not conflict with one starting at 10:00.
// Cancelled meetings never conflict, and excludeID skips the meeting being
// edited so it is never in conflict with itself.
func FindConflict(meetings []*Meeting, axis Axis, resourceID string, date time.Time, start, end string, excludeID string) *Meeting {
	for _, m := range meetings {
		if m == nil || m.ID == excludeID || m.IsCancelled() {
			continue
		}
		if !m.SameDay(date) {
			continue
		}
		switch axis {
		case AxisRoom:
			if m.RoomID != resourceID {
				continue
			}
		case AxisSpecialist:
			if !m.HasSpecialist(resourceID) {
				continue
			}
		}
		if TimesOverlap(start, end, m.StartTime, m.EndTime) {
			return m
		}
	}
	return nil
}

// HasConflict reports whether the resource has any meeting overlapping
// [start,end) on date.
func HasConflict(meetings []*Meeting, axis Axis, resourceID string, date time.Time, start, end string, excludeID string) bool {
	return FindConflict(meetings, axis, resourceID, date, start, end, excludeID) != nil
}

// FindAnyConflict checks a candidate meeting position against both resource
// axes: its room, then each of its specialists. It returns the first blocking
// meeting found, or nil when the position is free on every axis.
func FindAnyConflict(meetings []*Meeting, candidate *Meeting, date time.Time, start, end string) *Meeting {
	if candidate == nil {
		return nil
	}
	if blocker := FindConflict(meetings, AxisRoom, candidate.RoomID, date, start, end, candidate.ID); blocker != nil {
		return blocker
	}
	for _, specID := range candidate.SpecialistIDs {
		if blocker := FindConflict(meetings, AxisSpecialist, specID, date, start, end, candidate.ID); blocker != nil {
			return blocker
		}
	}
	return nil
}
