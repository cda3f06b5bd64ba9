package tui

import (
	"github.com/charmbracelet/lipgloss"

	"careboard/internal/schedule"
	"careboard/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorWarning     lipgloss.Color

	// Title and headers
	TitleStyle          lipgloss.Style
	HeaderStyle         lipgloss.Style
	ColumnHeaderStyle   lipgloss.Style
	ColumnHeaderToday   lipgloss.Style
	TimeGutterStyle     lipgloss.Style
	TimeGutterHourStyle lipgloss.Style

	// Grid cells
	EmptyCellStyle    lipgloss.Style
	EmptyCellAltStyle lipgloss.Style // alternating hour band

	// Meeting blocks by status
	BlockPresentStyle    lipgloss.Style
	BlockAbsentStyle     lipgloss.Style
	BlockInProgressStyle lipgloss.Style
	BlockCancelledStyle  lipgloss.Style

	// Gesture feedback
	SelectionStyle lipgloss.Style
	GhostStyle     lipgloss.Style
	ConflictStyle  lipgloss.Style

	// Tooltip
	TooltipStyle lipgloss.Style

	// Month view
	MonthDayStyle      lipgloss.Style
	MonthDayTodayStyle lipgloss.Style
	MonthDayMutedStyle lipgloss.Style
	MonthCountStyle    lipgloss.Style

	// Footer
	StatusStyle   lipgloss.Style
	ConflictMsg   lipgloss.Style
	HelpStyle     lipgloss.Style
	LegendStyle   lipgloss.Style
	FooterBgStyle lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBackdropColor     lipgloss.Color
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalFieldStyle        lipgloss.Style
	ModalFieldFocusedStyle lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorWarning = palette.Warning

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.ColumnHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.ColumnHeaderToday = s.ColumnHeaderStyle.
		Foreground(s.colorAccent)

	s.TimeGutterStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.TimeGutterHourStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.EmptyCellAltStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight)

	block := lipgloss.NewStyle().
		Foreground(s.colorFg).
		Bold(true)

	s.BlockPresentStyle = block.Background(palette.PresentBg)
	s.BlockAbsentStyle = block.Background(palette.AbsentBg)
	s.BlockInProgressStyle = block.Background(palette.InProgressBg)

	// Cancelled meetings stay visible and clickable but read as inert.
	s.BlockCancelledStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(palette.CancelledBg).
		Strikethrough(true)

	s.SelectionStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorFg).
		Bold(true)

	s.GhostStyle = lipgloss.NewStyle().
		Background(palette.GhostBg).
		Foreground(palette.TextOnAccent).
		Bold(true)

	s.ConflictStyle = lipgloss.NewStyle().
		Background(s.colorWarning).
		Foreground(palette.TextOnWarning).
		Bold(true)

	s.TooltipStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.MonthDayStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg).
		Align(lipgloss.Center)

	s.MonthDayTodayStyle = s.MonthDayStyle.
		Foreground(s.colorAccent).
		Bold(true)

	s.MonthDayMutedStyle = s.MonthDayStyle.
		Foreground(s.colorFgMuted)

	s.MonthCountStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Align(lipgloss.Center)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.ConflictMsg = lipgloss.NewStyle().
		Foreground(palette.TextOnWarning).
		Background(s.colorWarning).
		Bold(true).
		Padding(0, 1)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.LegendStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.FooterBgStyle = lipgloss.NewStyle().
		Background(s.colorBg)

	modal := palette.Modal
	s.ModalBackdropColor = modal.Backdrop

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(64).
		Align(lipgloss.Left)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Bold(true).
		Width(12).
		Background(modal.Bg)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalFieldStyle = lipgloss.NewStyle().
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(0, 1)

	s.ModalFieldFocusedStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Bold(true).
		Padding(0, 1)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Padding(0, 3)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.ReverseText).
		Padding(0, 3).
		Underline(true)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg)

	return s
}

// BlockStyle returns the block style for a meeting status.
func (s *Styles) BlockStyle(status schedule.Status) lipgloss.Style {
	switch status {
	case schedule.StatusCancelled:
		return s.BlockCancelledStyle
	case schedule.StatusInProgress:
		return s.BlockInProgressStyle
	case schedule.StatusAbsent:
		return s.BlockAbsentStyle
	default:
		return s.BlockPresentStyle
	}
}
