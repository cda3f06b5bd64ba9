package ui

import (
	"fmt"
	"strings"

	"careboard/internal/schedule"
)

// BoardStats holds aggregated statistics for a set of meetings.
type BoardStats struct {
	BookedMinutes   int
	TotalBlocks     int
	CancelledBlocks int
	RoomMinutes     map[string]int
	DayMinutes      map[string]int
}

// BusiestRoom returns the room with the most booked minutes.
func (s BoardStats) BusiestRoom() (room string, minutes int) {
	for r, m := range s.RoomMinutes {
		if m > minutes {
			minutes = m
			room = r
		}
	}
	return room, minutes
}

// BusiestDay returns the day with the most booked minutes.
func (s BoardStats) BusiestDay() (day string, minutes int) {
	for d, m := range s.DayMinutes {
		if m > minutes {
			minutes = m
			day = d
		}
	}
	return day, minutes
}

// PrintOpts configures meeting printing behavior.
type PrintOpts struct {
	Verbose       bool // Show full notes
	ShowRoom      bool // Show the room column
	ShowDuration  bool // Show duration column
	MaxNotesWidth int  // Maximum notes width (0 = auto)
}

// CalcMaxNotesWidth calculates the maximum notes width based on options.
func (o PrintOpts) CalcMaxNotesWidth(defaultWidth int) int {
	if o.MaxNotesWidth > 0 {
		return o.MaxNotesWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	tw := termWidth()
	// Base: "  ○  HH:MM-HH:MM  " = ~18 chars
	overhead := 18
	if o.ShowRoom {
		overhead += 16
	}
	if o.ShowDuration {
		overhead += 6
	}
	available := tw - overhead
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintMeetingRow prints a single meeting row with consistent formatting.
// roomLabel and specialists are already resolved to names by the caller.
func PrintMeetingRow(m *schedule.Meeting, roomLabel, specialists string, opts PrintOpts, maxNotesWidth int) {
	symbol := statusSymbol(m.Status)

	notes := m.Notes
	if notes == "" {
		notes = "(no notes)"
	}
	if len(notes) > maxNotesWidth {
		notes = notes[:maxNotesWidth-3] + "..."
	}
	if m.IsCancelled() {
		notes = formatMuted(notes)
	}

	row := fmt.Sprintf("  %s  %s-%s", symbol, m.StartTime, m.EndTime)
	if opts.ShowRoom {
		row += fmt.Sprintf("  %-16s", formatRoom(roomLabel))
	}
	row += fmt.Sprintf("  %-*s", maxNotesWidth, notes)
	if opts.ShowDuration {
		row += "  " + formatMuted(FormatDuration(m.Duration()))
	}
	if specialists != "" {
		row += "  " + formatSpecialist(specialists)
	}
	fmt.Println(row)
}

// AccumulateStats updates stats based on a meeting. Cancelled meetings count
// as blocks but not as booked time.
func AccumulateStats(stats *BoardStats, m *schedule.Meeting, roomLabel, dayKey string) {
	stats.TotalBlocks++
	if m.IsCancelled() {
		stats.CancelledBlocks++
		return
	}

	minutes := m.Duration()
	stats.BookedMinutes += minutes

	if stats.RoomMinutes == nil {
		stats.RoomMinutes = make(map[string]int)
	}
	stats.RoomMinutes[roomLabel] += minutes

	if stats.DayMinutes == nil {
		stats.DayMinutes = make(map[string]int)
	}
	stats.DayMinutes[dayKey] += minutes
}

// PrintStats prints the stats summary line. openMinutes is the bookable
// capacity of the printed range (rooms times working hours); zero hides the
// utilization figure.
func PrintStats(stats BoardStats, openMinutes int) {
	booked := formatStats("Booked: " + FormatDuration(stats.BookedMinutes))
	fmt.Printf("%s | Blocks: %d", booked, stats.TotalBlocks)
	if stats.CancelledBlocks > 0 {
		fmt.Printf(" | %s", formatMuted(fmt.Sprintf("Cancelled: %d", stats.CancelledBlocks)))
	}
	fmt.Println()

	if openMinutes > 0 {
		fmt.Printf("Utilization: %s\n", UtilizationBar(stats.BookedMinutes, openMinutes, 20))
	}

	if room, minutes := stats.BusiestRoom(); room != "" {
		fmt.Printf("Busiest room: %s (%s)\n", formatRoom(room), FormatDuration(minutes))
	}
}

// UtilizationBar creates an ASCII progress bar showing booked vs open time.
func UtilizationBar(bookedMinutes, openMinutes, width int) string {
	if openMinutes == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% booked)"
	}

	pct := (bookedMinutes * 100) / openMinutes
	filled := (bookedMinutes * width) / openMinutes
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatRoom(bar), formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// statusSymbol returns the status indicator for a meeting.
func statusSymbol(s schedule.Status) string {
	switch s {
	case schedule.StatusPresent:
		return "●"
	case schedule.StatusAbsent:
		return "○"
	case schedule.StatusInProgress:
		return "◐"
	case schedule.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}

// roomName resolves a room id to its display name.
func roomName(rooms []*schedule.Room, id string) string {
	if r := schedule.RoomByID(rooms, id); r != nil {
		return r.Name
	}
	return id
}

// specialistNameList resolves specialist ids to a comma-joined name list.
func specialistNameList(specialists []*schedule.Specialist, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if sp := schedule.SpecialistByID(specialists, id); sp != nil {
			names = append(names, sp.Name)
		} else {
			names = append(names, id)
		}
	}
	return strings.Join(names, ", ")
}
