package tui

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"careboard/internal/dateutil"
	"careboard/internal/schedule"
)

const (
	// gridHeaderHeight covers the title row and the column header row.
	gridHeaderHeight = 2
	// footerHeight covers the legend and status rows.
	footerHeight = 2
	// gutterWidth fits "HH:MM " hour labels.
	gutterWidth = 6
	// minColumnWidth keeps columns legible when many rooms are configured.
	minColumnWidth = 8
)

// rebuildLayout recomputes the hit-test geometry and the per-column lane
// layout from the current snapshot. Called from Update whenever the window,
// the view, or the data changes; View only reads the result.
func (m *Model) rebuildLayout() {
	if m.viewMode == ViewMonth {
		m.monthGeom = m.computeMonthGeometry()
		m.geometry = GridGeometry{}
		m.columns = nil
		return
	}

	cols := m.visibleColumns()

	colWidth := 0
	if len(cols) > 0 && m.width > gutterWidth {
		colWidth = (m.width - gutterWidth) / len(cols)
	}
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}

	m.geometry = GridGeometry{
		Top:         gridHeaderHeight,
		Left:        0,
		GutterWidth: gutterWidth,
		ColumnWidth: colWidth,
		Columns:     cols,
		RowsPerSlot: m.rowsPerSlot,
		SlotCount:   m.grid.SlotCount(),
	}

	m.columns = make([][]LayoutItem, len(cols))
	for i, col := range cols {
		m.columns[i] = LayoutColumn(m.columnMeetings(col), m.grid)
	}

	m.refreshRenderCache()
}

// visibleColumns returns the resource columns for the active view. Day view
// shows one column per room; week view shows one column per day.
func (m Model) visibleColumns() []ColumnInfo {
	switch m.viewMode {
	case ViewWeek:
		monday, _ := dateutil.WeekRange(m.current)
		days := 7
		if !m.showWeekends {
			days = 5
		}
		cols := make([]ColumnInfo, days)
		for i := range cols {
			cols[i] = ColumnInfo{Date: monday.AddDate(0, 0, i)}
		}
		return cols
	case ViewMonth:
		return nil
	default:
		cols := make([]ColumnInfo, 0, len(m.rooms))
		for _, r := range m.rooms {
			cols = append(cols, ColumnInfo{Date: m.current, RoomID: r.ID})
		}
		return cols
	}
}

// columnMeetings filters the snapshot down to one column.
func (m Model) columnMeetings(col ColumnInfo) []*schedule.Meeting {
	var out []*schedule.Meeting
	for _, mt := range m.meetings {
		if mt == nil || !mt.SameDay(col.Date) {
			continue
		}
		if col.RoomID != "" && mt.RoomID != col.RoomID {
			continue
		}
		out = append(out, mt)
	}
	return out
}

// renderGrid draws the day or week grid: hour gutter plus resource columns,
// committed meetings, and the live gesture layer on top.
func (m Model) renderGrid() string {
	g := m.geometry
	if !g.Valid() {
		if len(m.rooms) == 0 && m.viewMode == ViewDay {
			return m.styles.HelpStyle.Render("No rooms configured. Add one with: careboard rooms add <name>")
		}
		return m.styles.HelpStyle.Render("Terminal too small")
	}

	totalRows := g.SlotCount * g.RowsPerSlot
	colRows := make([][]string, len(g.Columns))
	for i := range g.Columns {
		colRows[i] = m.renderColumnRows(i, totalRows)
	}

	var b strings.Builder
	b.WriteString(m.renderColumnHeaders())
	b.WriteByte('\n')

	for row := 0; row < totalRows; row++ {
		b.WriteString(m.renderGutterCell(row))
		for i := range colRows {
			b.WriteString(colRows[i][row])
		}
		if row < totalRows-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// renderColumnHeaders draws room names in day view, weekday labels in week
// view. Today's column gets the accent color.
func (m Model) renderColumnHeaders() string {
	g := m.geometry
	var b strings.Builder
	b.WriteString(m.styles.TimeGutterStyle.Render(padCell("", gutterWidth)))

	today := dateutil.TruncateToDay(time.Now())
	for _, col := range g.Columns {
		var label string
		style := m.styles.ColumnHeaderStyle
		if col.RoomID != "" {
			if r := schedule.RoomByID(m.rooms, col.RoomID); r != nil {
				label = r.Name
			} else {
				label = col.RoomID
			}
		} else {
			label = col.Date.Format("Mon 02")
		}
		if col.Date.Equal(today) && (col.RoomID == "" || m.viewMode == ViewDay) {
			style = m.styles.ColumnHeaderToday
		}
		b.WriteString(style.Width(g.ColumnWidth).Render(truncCell(label, g.ColumnWidth)))
	}
	return b.String()
}

// renderGutterCell draws the time label for the first row of each slot, with
// whole hours accented.
func (m Model) renderGutterCell(row int) string {
	slot := row / m.geometry.RowsPerSlot
	rowInSlot := row % m.geometry.RowsPerSlot
	if rowInSlot != 0 {
		return m.cache.gutterBlank
	}
	label := m.grid.LabelOf(slot)
	style := m.styles.TimeGutterStyle
	if strings.HasSuffix(label, ":00") {
		style = m.styles.TimeGutterHourStyle
	}
	return style.Render(padCell(label, gutterWidth))
}

// cellSegment is one horizontal run of a rendered grid row.
type cellSegment struct {
	x     int
	width int
	text  string
	style lipgloss.Style
}

// renderColumnRows renders one column's rows. Committed blocks are laid out
// by lane; the active gesture's ghost draws over them at full column width.
func (m Model) renderColumnRows(col, totalRows int) []string {
	g := m.geometry
	items := m.columnItems(col)
	target := m.session.TargetMeeting()

	ghostStart, ghostEnd, ghostOK := 0, 0, false
	if m.sessionInColumn(col) {
		ghostStart, ghostEnd, ghostOK = m.session.GhostRange()
	}

	rows := make([]string, totalRows)
	for row := range rows {
		slot := row / g.RowsPerSlot
		rowInBand := (slot / 2) % 2

		var segs []cellSegment
		for _, it := range items {
			if target != nil && it.Meeting.ID == target.ID {
				continue
			}
			if slot < it.StartIndex || slot >= it.EndIndex {
				continue
			}
			segs = append(segs, m.blockSegment(it, row))
		}

		if ghostOK && slot >= ghostStart && slot < ghostEnd {
			segs = []cellSegment{m.ghostSegment(ghostStart, ghostEnd, row)}
		}

		rows[row] = m.composeRow(segs, g.ColumnWidth, rowInBand == 1)
	}
	return rows
}

// sessionInColumn reports whether the active gesture belongs to a column.
func (m Model) sessionInColumn(col int) bool {
	if !m.session.Active() {
		return false
	}
	ctx := m.session.Context()
	c := m.geometry.Columns[col]
	return ctx.RoomID == c.RoomID &&
		ctx.Date.Year() == c.Date.Year() &&
		ctx.Date.YearDay() == c.Date.YearDay()
}

// blockSegment renders one row of a committed meeting block.
func (m Model) blockSegment(it LayoutItem, row int) cellSegment {
	g := m.geometry
	count := it.LaneCount
	if count < 1 {
		count = 1
	}
	laneW := g.ColumnWidth / count
	if laneW < 1 {
		laneW = 1
	}
	x := it.Lane * laneW
	w := laneW
	if it.Lane == count-1 {
		w = g.ColumnWidth - x
	}

	firstRow := it.StartIndex * g.RowsPerSlot
	text := ""
	switch row - firstRow {
	case 0:
		text = m.meetingTitle(it.Meeting)
	case 1:
		text = it.Meeting.StartTime + "-" + it.Meeting.EndTime
	}

	return cellSegment{
		x:     x,
		width: w,
		text:  text,
		style: m.styles.BlockStyle(it.Meeting.Status),
	}
}

// ghostSegment renders one row of the gesture preview at full column width.
// A frozen conflict keeps the ghost but recolors it.
func (m Model) ghostSegment(ghostStart, ghostEnd, row int) cellSegment {
	g := m.geometry
	style := m.styles.GhostStyle
	if m.session.State() == StateSelecting {
		style = m.styles.SelectionStyle
	}
	if m.conflictMsg != "" {
		style = m.styles.ConflictStyle
	}

	text := ""
	if row == ghostStart*g.RowsPerSlot {
		text = m.grid.LabelOf(ghostStart) + "-" + m.grid.LabelOf(ghostEnd)
	}

	return cellSegment{x: 0, width: g.ColumnWidth, text: text, style: style}
}

// composeRow merges non-overlapping segments into one fixed-width row,
// filling gaps with the empty-cell background.
func (m Model) composeRow(segs []cellSegment, width int, altBand bool) string {
	empty := m.styles.EmptyCellStyle
	if altBand {
		empty = m.styles.EmptyCellAltStyle
	}
	if len(segs) == 0 {
		if width == m.cache.width {
			if altBand {
				return m.cache.emptyCellAlt
			}
			return m.cache.emptyCell
		}
		return empty.Render(padCell("", width))
	}

	sort.Slice(segs, func(i, j int) bool { return segs[i].x < segs[j].x })

	var b strings.Builder
	x := 0
	for _, seg := range segs {
		if seg.x > x {
			b.WriteString(empty.Render(padCell("", seg.x-x)))
			x = seg.x
		}
		w := seg.width
		if x+w > width {
			w = width - x
		}
		if w <= 0 {
			continue
		}
		b.WriteString(seg.style.Render(padCell(truncCell(seg.text, w), w)))
		x += w
	}
	if x < width {
		b.WriteString(empty.Render(padCell("", width-x)))
	}
	return b.String()
}

func padCell(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncCell(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
