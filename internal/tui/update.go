package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"careboard/internal/tui/commands"
)

// statusDuration is how long transient status messages stay on screen.
const statusDuration = 3 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rowsPerSlot = ComputeSlotHeight(m.height-footerHeight, m.grid.SlotCount(), gridHeaderHeight)
		// Geometry the active gesture anchored to is gone.
		m.session.Cancel()
		m.batcher.Cancel()
		m.hover.clear()
		m.rebuildLayout()
		return m, nil

	case FrameFlushMsg:
		if delta, remainder, ok := m.batcher.Flush(msg); ok {
			m.session.ApplyFlush(delta, remainder)
		}
		return m, nil

	case hoverTickMsg:
		if m.hover.meetingID == msg.MeetingID && m.session.State() == StateIdle {
			m.hover.visible = true
		}
		return m, nil

	case conflictFlashMsg:
		if msg.seq == m.conflictSeq {
			m.conflictMsg = ""
		}
		return m, nil

	case commands.MeetingsLoadedMsg:
		m.meetings = msg.Meetings
		m.loading = false
		m.rebuildLayout()
		return m, nil

	case commands.RefsLoadedMsg:
		m.rooms = msg.Rooms
		m.specialists = msg.Specialists
		m.patients = msg.Patients
		m.rebuildLayout()
		return m, nil

	case commands.MeetingSavedMsg:
		return m, m.loadVisibleMeetings()

	case commands.MeetingCancelledMsg:
		m.statusMsg = "Meeting cancelled"
		return m, tea.Batch(m.loadVisibleMeetings(), clearStatusAfter(statusDuration))

	case commands.MeetingDeletedMsg:
		m.statusMsg = "Meeting deleted"
		return m, tea.Batch(m.loadVisibleMeetings(), clearStatusAfter(statusDuration))

	case commands.ConflictMsg:
		// The store rejected a change that slipped past the advisory check.
		m.conflictSeq++
		m.conflictMsg = msg.Err.Error()
		return m, tea.Batch(m.loadVisibleMeetings(), flashConflict(m.conflictSeq))

	case commands.ErrMsg:
		m.err = msg.Err
		m.statusMsg = "Error: " + msg.Err.Error()
		return m, clearStatusAfter(statusDuration)

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		return m, clearStatusAfter(statusDuration)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

func flashConflict(seq int) tea.Cmd {
	return tea.Tick(conflictFlashDuration, func(time.Time) tea.Msg {
		return conflictFlashMsg{seq: seq}
	})
}
