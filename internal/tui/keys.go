package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"careboard/internal/dateutil"
	"careboard/internal/schedule"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == ModeModal {
		return m.handleModalKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.session.Cancel()
		m.batcher.Cancel()
		m.conflictMsg = ""
		m.hover.clear()
		return m, nil

	// Navigation
	case "h", "left":
		return m.shiftAnchor(-1)
	case "l", "right":
		return m.shiftAnchor(1)
	case "t":
		m.current = dateutil.TruncateToDay(time.Now())
		m.loading = true
		return m, m.loadVisibleMeetings()

	// View switching
	case "d":
		return m.switchView(ViewDay)
	case "w":
		return m.switchView(ViewWeek)
	case "m":
		return m.switchView(ViewMonth)
	case "W":
		m.showWeekends = !m.showWeekends
		m.rebuildLayout()
		return m, nil

	case "n":
		m.openCreateForm(m.defaultDraft())
		return m, nil

	case "r":
		m.loading = true
		return m, m.loadVisibleMeetings()

	case "?":
		m.mode = ModeModal
		m.modalType = ModalHelp
		return m, nil
	}

	return m, nil
}

// shiftAnchor moves the anchor day by one view-sized step.
func (m Model) shiftAnchor(direction int) (Model, tea.Cmd) {
	switch m.viewMode {
	case ViewWeek:
		m.current = m.current.AddDate(0, 0, 7*direction)
	case ViewMonth:
		m.current = m.current.AddDate(0, direction, 0)
	default:
		m.current = m.current.AddDate(0, 0, direction)
	}
	m.session.Cancel()
	m.batcher.Cancel()
	m.hover.clear()
	m.loading = true
	m.rebuildLayout()
	return m, m.loadVisibleMeetings()
}

func (m Model) switchView(v ViewMode) (Model, tea.Cmd) {
	if m.viewMode == v {
		return m, nil
	}
	m.viewMode = v
	m.session.Cancel()
	m.batcher.Cancel()
	m.hover.clear()
	m.loading = true
	m.rebuildLayout()
	return m, m.loadVisibleMeetings()
}

// defaultDraft proposes a one-hour meeting at the top of the grid in the
// first room, for keyboard-driven creation.
func (m Model) defaultDraft() schedule.Draft {
	roomID := ""
	if len(m.rooms) > 0 {
		roomID = m.rooms[0].ID
	}
	start := m.grid.LabelOf(0)
	end := m.grid.LabelOf(min(2, m.grid.SlotCount()))
	return schedule.Draft{
		Date:      m.current,
		RoomID:    roomID,
		StartTime: start,
		EndTime:   end,
	}
}
