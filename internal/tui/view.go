package tui

import (
	"strings"

	"careboard/internal/dateutil"
	"careboard/internal/schedule"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	base := m.renderAppContent()

	if m.hover.visible && m.mode != ModeModal {
		if mt := m.meetingByID(m.hover.meetingID); mt != nil {
			tooltip := m.renderTooltip(mt)
			base = spliceTooltip(base, tooltip, m.width, m.height, m.hover.x, m.hover.y)
		}
	}

	if m.mode == ModeModal && m.modalType != ModalNone {
		m.overlay.active = true
		m.overlay.SetBackground(m.styles.ModalBackdropColor)
		return m.overlay.Render(base, m.width, m.height, m.renderModal())
	}

	return base
}

func (m Model) renderAppContent() string {
	var body string
	switch {
	case m.loading && len(m.meetings) == 0 && len(m.rooms) == 0:
		body = m.styles.HelpStyle.Render("Loading...")
	case m.viewMode == ViewMonth:
		body = m.renderMonth()
	default:
		body = m.renderGrid()
	}

	content := m.renderTitle() + "\n" + body + "\n" + m.renderFooter()
	return strings.Join(padToSize(m.styles.AppStyle.Render(content), m.width, m.height), "\n")
}

func (m Model) renderTitle() string {
	var label string
	switch m.viewMode {
	case ViewWeek:
		monday, sunday := dateutil.WeekRange(m.current)
		label = monday.Format("Jan 02") + " - " + sunday.Format("Jan 02 2006") + "  [week]"
	case ViewMonth:
		label = m.current.Format("January 2006") + "  [month]"
	default:
		label = m.current.Format("Monday, Jan 02 2006") + "  [day]"
	}
	title := "careboard  " + label
	if m.loading {
		title += "  ..."
	}
	return m.styles.TitleStyle.Render(title)
}

func (m Model) renderFooter() string {
	legend := m.styles.LegendStyle.Render(
		"h/l move  t today  d/w/m view  W weekends  n new  ? help  q quit")

	status := ""
	switch {
	case m.conflictMsg != "":
		status = m.styles.ConflictMsg.Render(m.conflictMsg)
	case m.statusMsg != "":
		status = m.styles.StatusStyle.Render(m.statusMsg)
	}

	return legend + "\n" + status
}

// renderTooltip builds the hover card for a meeting.
func (m Model) renderTooltip(mt *schedule.Meeting) string {
	var lines []string
	lines = append(lines, m.meetingTitle(mt))
	lines = append(lines, mt.StartTime+"-"+mt.EndTime+"  "+string(mt.Status))
	if r := schedule.RoomByID(m.rooms, mt.RoomID); r != nil {
		lines = append(lines, "Room: "+r.Name)
	}
	if names := m.specialistNames(mt); names != "" {
		lines = append(lines, "With: "+names)
	}
	return m.styles.TooltipStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) specialistNames(mt *schedule.Meeting) string {
	var names []string
	for _, id := range mt.SpecialistIDs {
		if s := schedule.SpecialistByID(m.specialists, id); s != nil {
			names = append(names, s.Name)
		}
	}
	return strings.Join(names, ", ")
}
