package tui

import (
	"fmt"
	"strings"
	"time"

	"careboard/internal/dateutil"
)

// monthCellHeight gives each day room for its number and a meeting count.
const monthCellHeight = 3

// monthGeometry maps terminal coordinates to calendar days for click
// navigation into day view.
type monthGeometry struct {
	Top    int
	Left   int
	CellW  int
	CellH  int
	Monday time.Time // Monday of the first rendered week
	Weeks  int
}

// monthDayAt resolves a click in month view to a calendar day.
func (m Model) monthDayAt(x, y int) (time.Time, bool) {
	g := m.monthGeom
	if g.CellW <= 0 || g.CellH <= 0 || g.Weeks <= 0 {
		return time.Time{}, false
	}
	relX := x - g.Left
	relY := y - g.Top
	if relX < 0 || relY < 0 {
		return time.Time{}, false
	}
	col := relX / g.CellW
	row := relY / g.CellH
	if col >= 7 || row >= g.Weeks {
		return time.Time{}, false
	}
	return g.Monday.AddDate(0, 0, row*7+col), true
}

// computeMonthGeometry lays out the month calendar for the current anchor.
// Called from rebuildLayout so clicks and rendering share one geometry.
func (m Model) computeMonthGeometry() monthGeometry {
	first, last := dateutil.MonthRange(m.current)
	monday, _ := dateutil.WeekRange(first)
	_, sunday := dateutil.WeekRange(last)
	weeks := int(sunday.Sub(monday).Hours()/24+1) / 7

	cellW := 10
	if m.width > 0 && m.width/7 < cellW {
		cellW = m.width / 7
	}
	if cellW < 4 {
		cellW = 4
	}

	return monthGeometry{
		Top:    gridHeaderHeight,
		Left:   0,
		CellW:  cellW,
		CellH:  monthCellHeight,
		Monday: monday,
		Weeks:  weeks,
	}
}

// renderMonth draws the month as a calendar of day cells with meeting
// counts. Days outside the anchor month render muted.
func (m Model) renderMonth() string {
	g := m.monthGeom
	if g.CellW <= 0 || g.Weeks <= 0 {
		return m.styles.HelpStyle.Render("Loading...")
	}
	first, _ := dateutil.MonthRange(m.current)
	monday := g.Monday
	weeks := g.Weeks
	cellW := g.CellW

	counts := m.meetingCountsByDay()
	today := dateutil.TruncateToDay(time.Now())

	var b strings.Builder
	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		b.WriteString(m.styles.ColumnHeaderStyle.Width(cellW).Render(name))
	}
	b.WriteByte('\n')

	for week := 0; week < weeks; week++ {
		lines := make([]strings.Builder, monthCellHeight)
		for dow := 0; dow < 7; dow++ {
			day := monday.AddDate(0, 0, week*7+dow)

			style := m.styles.MonthDayStyle
			if day.Month() != first.Month() {
				style = m.styles.MonthDayMutedStyle
			}
			if day.Equal(today) {
				style = m.styles.MonthDayTodayStyle
			}

			count := counts[day.Format("2006-01-02")]
			countText := ""
			if count == 1 {
				countText = "1 mtg"
			} else if count > 1 {
				countText = fmt.Sprintf("%d mtgs", count)
			}

			lines[0].WriteString(style.Width(cellW).Render(fmt.Sprintf("%2d", day.Day())))
			lines[1].WriteString(m.styles.MonthCountStyle.Width(cellW).Render(countText))
			lines[2].WriteString(m.styles.MonthDayStyle.Width(cellW).Render(""))
		}
		for i := range lines {
			b.WriteString(lines[i].String())
			b.WriteByte('\n')
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// meetingCountsByDay tallies non-cancelled meetings per calendar day.
func (m Model) meetingCountsByDay() map[string]int {
	counts := make(map[string]int)
	for _, mt := range m.meetings {
		if mt == nil || mt.IsCancelled() {
			continue
		}
		counts[mt.Date.Format("2006-01-02")]++
	}
	return counts
}
