package tui

import (
	"careboard/internal/schedule"
)

const (
	// SlotMinutes is the grid granularity.
	SlotMinutes = 30
	// SlotGap is the number of blank rows between slot rows.
	SlotGap = 0
)

// TimeGrid maps wall-clock "HH:MM" labels to discrete slot indices for one
// working-hours window. Index N (one past the last slot) is a valid exclusive
// end boundary for the synthesized closing label.
type TimeGrid struct {
	openHour  int
	closeHour int
}

// NewTimeGrid creates a grid covering [openHour, closeHour) in 30-minute slots.
func NewTimeGrid(openHour, closeHour int) TimeGrid {
	if closeHour <= openHour {
		closeHour = openHour + 1
	}
	return TimeGrid{openHour: openHour, closeHour: closeHour}
}

// SlotCount returns N, the number of labelled slots in the window.
func (g TimeGrid) SlotCount() int {
	return (g.closeHour - g.openHour) * 60 / SlotMinutes
}

// OpenHour returns the first labelled hour.
func (g TimeGrid) OpenHour() int { return g.openHour }

// CloseHour returns the exclusive closing hour.
func (g TimeGrid) CloseHour() int { return g.closeHour }

// Slots returns the ordered slot-start labels, closing hour excluded.
func (g TimeGrid) Slots() []string {
	labels := make([]string, g.SlotCount())
	for i := range labels {
		labels[i] = g.LabelOf(i)
	}
	return labels
}

// LabelOf returns the "HH:MM" label for an index. It is defined for 0..N
// inclusive; index N synthesizes the closing label even though no slot
// starts there.
func (g TimeGrid) LabelOf(index int) string {
	return schedule.MinutesToTime(g.openHour*60 + index*SlotMinutes)
}

// IndexOf resolves a slot-start label to its index. The closing label is not
// a slot start; use ExclusiveEndIndex for end boundaries.
func (g TimeGrid) IndexOf(label string) (int, bool) {
	mins := schedule.TimeToMinutes(label)
	open := g.openHour * 60
	close := g.closeHour * 60
	if mins < open || mins >= close {
		return 0, false
	}
	offset := mins - open
	if offset%SlotMinutes != 0 {
		return 0, false
	}
	return offset / SlotMinutes, true
}

// ExclusiveEndIndex resolves an end label to an exclusive slot index,
// accepting both real slot-start labels and the synthetic closing label.
func (g TimeGrid) ExclusiveEndIndex(label string) (int, bool) {
	mins := schedule.TimeToMinutes(label)
	open := g.openHour * 60
	close := g.closeHour * 60
	if mins <= open || mins > close {
		return 0, false
	}
	offset := mins - open
	if offset%SlotMinutes != 0 {
		return 0, false
	}
	return offset / SlotMinutes, true
}

// Range resolves a meeting's [start,end) labels to [startIndex,endIndex).
func (g TimeGrid) Range(start, end string) (startIndex, endIndex int, ok bool) {
	startIndex, ok = g.IndexOf(start)
	if !ok {
		return 0, 0, false
	}
	endIndex, ok = g.ExclusiveEndIndex(end)
	if !ok || endIndex <= startIndex {
		return 0, 0, false
	}
	return startIndex, endIndex, true
}

// ComputeSlotHeight returns the number of terminal rows per slot so that all
// slots fit in the available height without scrolling. Never below 1.
func ComputeSlotHeight(containerHeight, slotCount, headerHeight int) int {
	if slotCount <= 0 {
		return 1
	}
	rows := (containerHeight - headerHeight) / slotCount
	if rows < 1 {
		rows = 1
	}
	return rows
}
