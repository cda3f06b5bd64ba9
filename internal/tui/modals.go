package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"careboard/internal/schedule"
	"careboard/internal/tui/commands"
)

// Form focus order. Status only participates when editing.
const (
	focusNotes = iota
	focusRoom
	focusSpecialists
	focusPatients
	focusStatus
	focusSave
	focusCount
)

var statusCycle = []schedule.Status{
	schedule.StatusPresent,
	schedule.StatusAbsent,
	schedule.StatusInProgress,
	schedule.StatusCancelled,
}

// meetingForm holds the in-modal editing state for creating or editing a
// meeting. Selections index into the model's reference lists.
type meetingForm struct {
	editing *schedule.Meeting // nil when creating
	draft   schedule.Draft

	notes      textinput.Model
	roomIdx    int
	status     schedule.Status
	specChecks []bool
	patChecks  []bool
	specCursor int
	patCursor  int
	focus      int
}

// openCreateForm opens the meeting form for a fresh draft, typically from a
// drag-select on empty slots.
func (m *Model) openCreateForm(draft schedule.Draft) {
	f := m.newForm(nil, draft)
	m.form = f
	m.mode = ModeModal
	m.modalType = ModalMeetingForm
}

// openEditForm opens the meeting form pre-filled from an existing meeting.
func (m *Model) openEditForm(mt *schedule.Meeting) {
	draft := schedule.Draft{
		Date:      mt.Date,
		StartTime: mt.StartTime,
		EndTime:   mt.EndTime,
		RoomID:    mt.RoomID,
		Notes:     mt.Notes,
	}
	f := m.newForm(mt, draft)
	m.form = f
	m.mode = ModeModal
	m.modalType = ModalMeetingForm
}

// openDetail shows the read-only meeting card.
func (m *Model) openDetail(mt *schedule.Meeting) {
	m.detail = mt
	m.mode = ModeModal
	m.modalType = ModalMeetingDetail
}

func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.form = nil
	m.detail = nil
}

func (m *Model) newForm(editing *schedule.Meeting, draft schedule.Draft) *meetingForm {
	notes := textinput.New()
	notes.Placeholder = "Meeting notes"
	notes.CharLimit = 256
	notes.Width = 40
	notes.SetValue(draft.Notes)
	notes.PlaceholderStyle = m.styles.ModalPlaceholderStyle
	notes.TextStyle = m.styles.ModalInputTextStyle
	notes.PromptStyle = m.styles.ModalInputTextStyle
	notes.Cursor.Style = m.styles.ModalInputCursorStyle
	notes.Focus()

	roomIdx := 0
	for i, r := range m.rooms {
		if r.ID == draft.RoomID {
			roomIdx = i
			break
		}
	}

	f := &meetingForm{
		editing:    editing,
		draft:      draft,
		notes:      notes,
		roomIdx:    roomIdx,
		status:     schedule.StatusPresent,
		specChecks: make([]bool, len(m.specialists)),
		patChecks:  make([]bool, len(m.patients)),
	}

	if editing != nil {
		f.status = editing.Status
		for i, s := range m.specialists {
			f.specChecks[i] = editing.HasSpecialist(s.ID)
		}
		attached := make(map[string]bool, len(editing.PatientIDs))
		for _, id := range editing.PatientIDs {
			attached[id] = true
		}
		for i, p := range m.patients {
			f.patChecks[i] = attached[p.ID]
		}
	}

	return f
}

// handleModalKeys dispatches keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalMeetingForm:
		return m.handleFormKeys(msg)
	case ModalMeetingDetail:
		return m.handleDetailKeys(msg)
	case ModalConfirmCancel:
		return m.handleConfirmKeys(msg)
	case ModalHelp:
		if msg.String() == "esc" || msg.String() == "?" || msg.String() == "q" {
			m.closeModal()
		}
		return m, nil
	}
	m.closeModal()
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.closeModal()
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil

	case "tab", "down":
		f.focus = (f.focus + 1) % f.focusLimit()
		m.syncNotesFocus()
		return m, nil

	case "shift+tab", "up":
		f.focus = (f.focus + f.focusLimit() - 1) % f.focusLimit()
		m.syncNotesFocus()
		return m, nil

	case "enter":
		if field := f.fieldAt(f.focus); field == focusSave || field == focusNotes {
			return m.saveForm()
		}
		f.focus = (f.focus + 1) % f.focusLimit()
		m.syncNotesFocus()
		return m, nil
	}

	switch f.fieldAt(f.focus) {
	case focusNotes:
		var cmd tea.Cmd
		f.notes, cmd = f.notes.Update(msg)
		return m, cmd

	case focusRoom:
		switch msg.String() {
		case "left", "h":
			f.roomIdx = cycleIndex(f.roomIdx, -1, len(m.rooms))
		case "right", "l":
			f.roomIdx = cycleIndex(f.roomIdx, 1, len(m.rooms))
		}

	case focusSpecialists:
		switch msg.String() {
		case "left", "h":
			f.specCursor = cycleIndex(f.specCursor, -1, len(m.specialists))
		case "right", "l":
			f.specCursor = cycleIndex(f.specCursor, 1, len(m.specialists))
		case " ":
			if f.specCursor < len(f.specChecks) {
				f.specChecks[f.specCursor] = !f.specChecks[f.specCursor]
			}
		}

	case focusPatients:
		switch msg.String() {
		case "left", "h":
			f.patCursor = cycleIndex(f.patCursor, -1, len(m.patients))
		case "right", "l":
			f.patCursor = cycleIndex(f.patCursor, 1, len(m.patients))
		case " ":
			if f.patCursor < len(f.patChecks) {
				f.patChecks[f.patCursor] = !f.patChecks[f.patCursor]
			}
		}

	case focusStatus:
		switch msg.String() {
		case "left", "h":
			f.status = cycleStatus(f.status, -1)
		case "right", "l":
			f.status = cycleStatus(f.status, 1)
		}
	}

	return m, nil
}

// focusLimit skips the status field when creating; new meetings always start
// as present.
func (f *meetingForm) focusLimit() int {
	if f.editing == nil {
		return focusCount - 1
	}
	return focusCount
}

// fieldAt maps the visible focus position to a field, accounting for the
// hidden status row on create.
func (f *meetingForm) fieldAt(focus int) int {
	if f.editing == nil && focus >= focusStatus {
		return focus + 1
	}
	return focus
}

func (m *Model) syncNotesFocus() {
	if m.form == nil {
		return
	}
	if m.form.fieldAt(m.form.focus) == focusNotes {
		m.form.notes.Focus()
	} else {
		m.form.notes.Blur()
	}
}

// saveForm validates selections and issues the create or update command.
func (m Model) saveForm() (tea.Model, tea.Cmd) {
	f := m.form
	if len(m.rooms) == 0 {
		m.statusMsg = "No rooms configured"
		m.closeModal()
		return m, nil
	}

	draft := f.draft
	draft.RoomID = m.rooms[f.roomIdx].ID
	draft.Notes = strings.TrimSpace(f.notes.Value())
	draft.SpecialistIDs = nil
	for i, checked := range f.specChecks {
		if checked {
			draft.SpecialistIDs = append(draft.SpecialistIDs, m.specialists[i].ID)
		}
	}
	draft.PatientIDs = nil
	for i, checked := range f.patChecks {
		if checked {
			draft.PatientIDs = append(draft.PatientIDs, m.patients[i].ID)
		}
	}

	if f.editing == nil {
		m.closeModal()
		return m, commands.CreateMeeting(m.repo, draft)
	}

	updated := *f.editing
	updated.RoomID = draft.RoomID
	updated.Notes = draft.Notes
	updated.SpecialistIDs = draft.SpecialistIDs
	updated.PatientIDs = draft.PatientIDs
	updated.Status = f.status
	m.closeModal()
	return m, commands.UpdateMeeting(m.repo, &updated)
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mt := m.detail
	switch msg.String() {
	case "esc", "q":
		m.closeModal()
	case "enter", "e":
		if mt != nil {
			m.openEditForm(mt)
		}
	case "c":
		if mt != nil && !mt.IsCancelled() {
			m.modalType = ModalConfirmCancel
		}
	case "y":
		if mt != nil {
			if err := clipboard.WriteAll(m.exportMeeting(mt)); err == nil {
				m.statusMsg = "Copied to clipboard"
			}
			m.closeModal()
			return m, clearStatusAfter(statusDuration)
		}
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mt := m.detail
	switch msg.String() {
	case "y", "enter":
		m.closeModal()
		if mt != nil {
			return m, commands.CancelMeeting(m.repo, mt.ID)
		}
	case "n", "esc":
		m.modalType = ModalMeetingDetail
	}
	return m, nil
}

// exportMeeting formats a meeting as shareable text.
func (m Model) exportMeeting(mt *schedule.Meeting) string {
	var b strings.Builder
	b.WriteString(mt.Date.Format("2006-01-02"))
	b.WriteString(" ")
	b.WriteString(mt.StartTime + "-" + mt.EndTime)
	if r := schedule.RoomByID(m.rooms, mt.RoomID); r != nil {
		b.WriteString(" @ " + r.Name)
	}
	if mt.Notes != "" {
		b.WriteString("\n" + mt.Notes)
	}
	if names := m.specialistNames(mt); names != "" {
		b.WriteString("\nWith: " + names)
	}
	return b.String()
}

// renderModal renders the current modal.
func (m Model) renderModal() string {
	switch m.modalType {
	case ModalMeetingForm:
		return m.renderFormModal()
	case ModalMeetingDetail:
		return m.renderDetailModal()
	case ModalConfirmCancel:
		return m.renderConfirmModal()
	case ModalHelp:
		return m.renderHelpModal()
	default:
		return ""
	}
}

func (m Model) renderFormModal() string {
	f := m.form
	if f == nil {
		return ""
	}

	title := "New meeting"
	if f.editing != nil {
		title = "Edit meeting"
	}

	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.styles.ModalMetaStyle.Render(
		f.draft.Date.Format("Mon, Jan 02") + "  " + f.draft.StartTime + "-" + f.draft.EndTime))
	b.WriteString("\n\n")

	b.WriteString(m.formRow(focusNotes, "Notes", f.notes.View()))
	b.WriteString(m.formRow(focusRoom, "Room", m.roomPicker()))
	b.WriteString(m.formRow(focusSpecialists, "Specialists", m.checkPicker(m.specialistLabels(), f.specChecks, f.specCursor, f.fieldAt(f.focus) == focusSpecialists)))
	b.WriteString(m.formRow(focusPatients, "Patients", m.checkPicker(m.patientLabels(), f.patChecks, f.patCursor, f.fieldAt(f.focus) == focusPatients)))
	if f.editing != nil {
		b.WriteString(m.formRow(focusStatus, "Status", string(f.status)))
	}

	b.WriteString("\n")
	save := m.styles.ModalButtonStyle
	if f.fieldAt(f.focus) == focusSave {
		save = m.styles.ModalButtonActiveStyle
	}
	b.WriteString(save.Render("Save"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalHintStyle.Render("tab next  h/l cycle  space toggle  enter save  esc close"))

	return m.styles.ModalStyle.Render(b.String())
}

func (m Model) formRow(field int, label, value string) string {
	style := m.styles.ModalFieldStyle
	if m.form != nil && m.form.fieldAt(m.form.focus) == field {
		style = m.styles.ModalFieldFocusedStyle
	}
	return m.styles.ModalLabelStyle.Render(label) + style.Render(value) + "\n"
}

func (m Model) roomPicker() string {
	if len(m.rooms) == 0 {
		return "(none)"
	}
	idx := m.form.roomIdx
	if idx >= len(m.rooms) {
		idx = 0
	}
	return "< " + m.rooms[idx].Name + " >"
}

func (m Model) specialistLabels() []string {
	labels := make([]string, len(m.specialists))
	for i, s := range m.specialists {
		labels[i] = s.Name
	}
	return labels
}

func (m Model) patientLabels() []string {
	labels := make([]string, len(m.patients))
	for i, p := range m.patients {
		labels[i] = p.Name
	}
	return labels
}

// checkPicker renders a toggle list as "[x] Name" entries with a cursor.
func (m Model) checkPicker(labels []string, checks []bool, cursor int, focused bool) string {
	if len(labels) == 0 {
		return "(none)"
	}
	parts := make([]string, len(labels))
	for i, label := range labels {
		mark := "[ ]"
		if i < len(checks) && checks[i] {
			mark = "[x]"
		}
		entry := mark + " " + label
		if focused && i == cursor {
			entry = ">" + entry
		}
		parts[i] = entry
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderDetailModal() string {
	mt := m.detail
	if mt == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render(m.meetingTitle(mt)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalBodyStyle.Render(mt.Date.Format("Monday, Jan 02 2006")))
	b.WriteString("\n")
	b.WriteString(m.styles.ModalBodyStyle.Render(mt.StartTime + "-" + mt.EndTime))
	b.WriteString("\n")
	if r := schedule.RoomByID(m.rooms, mt.RoomID); r != nil {
		b.WriteString(m.styles.ModalBodyStyle.Render("Room: " + r.Name))
		b.WriteString("\n")
	}
	if names := m.specialistNames(mt); names != "" {
		b.WriteString(m.styles.ModalBodyStyle.Render("Specialists: " + names))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.ModalMetaStyle.Render("Status: " + string(mt.Status)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalHintStyle.Render("enter edit  c cancel  y copy  esc close"))

	return m.styles.ModalStyle.Render(b.String())
}

func (m Model) renderConfirmModal() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render("Cancel this meeting?"))
	b.WriteString("\n\n")
	if m.detail != nil {
		b.WriteString(m.styles.ModalBodyStyle.Render(m.meetingTitle(m.detail) + "  " + m.detail.StartTime + "-" + m.detail.EndTime))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.ModalHintStyle.Render("y confirm  n back"))
	return m.styles.ModalStyle.Render(b.String())
}

func (m Model) renderHelpModal() string {
	lines := []string{
		"Mouse",
		"  drag empty slots   create a meeting",
		"  drag a block       move it",
		"  drag a block edge  resize it",
		"  click a block      open it",
		"  hover a block      details tooltip",
		"",
		"Keys",
		"  h/l       previous / next " + m.viewUnit(),
		"  t         jump to today",
		"  d/w/m     day / week / month view",
		"  W         toggle weekends in week view",
		"  n         new meeting",
		"  r         reload",
		"  esc       cancel drag / close modal",
		"  q         quit",
	}
	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalBodyStyle.Render(strings.Join(lines, "\n")))
	return m.styles.ModalStyle.Render(b.String())
}

func (m Model) viewUnit() string {
	switch m.viewMode {
	case ViewWeek:
		return "week"
	case ViewMonth:
		return "month"
	default:
		return "day"
	}
}

func cycleIndex(idx, delta, length int) int {
	if length == 0 {
		return 0
	}
	return (idx + delta + length) % length
}

func cycleStatus(s schedule.Status, delta int) schedule.Status {
	for i, cur := range statusCycle {
		if cur == s {
			return statusCycle[cycleIndex(i, delta, len(statusCycle))]
		}
	}
	return statusCycle[0]
}
