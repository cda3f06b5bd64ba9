package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// OverlayModel composites an opaque modal box over the grid.
type OverlayModel struct {
	active  bool
	bgColor lipgloss.Color
}

// NewOverlayModel initializes an overlay model.
func NewOverlayModel() OverlayModel {
	return OverlayModel{}
}

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.active
}

// SetBackground updates the overlay backdrop color.
func (o *OverlayModel) SetBackground(color lipgloss.Color) {
	o.bgColor = color
}

// Render draws the modal content centered on top of base content. The box is
// sized by the content itself; the backdrop color fills one cell of margin
// around it.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.active || width <= 0 || height <= 0 {
		return base
	}

	contentLines := splitContentLines(content)
	contentW, contentH := contentSize(contentLines)
	if contentW == 0 || contentH == 0 {
		return base
	}

	boxW := min(contentW+2, width)
	boxH := min(contentH+2, height)
	top := max(0, (height-boxH)/2)
	left := max(0, (width-boxW)/2)

	box := o.boxLines(contentLines, boxW, boxH)
	return spliceBox(base, box, width, height, top, left, boxW)
}

// boxLines pads the content into an opaque box with a one-cell margin.
func (o OverlayModel) boxLines(content []string, boxW, boxH int) []string {
	bgSeq := ansi.Style{}.BackgroundColor(o.bgColor).String()
	blank := bgSeq + strings.Repeat(" ", boxW) + ansi.ResetStyle

	lines := make([]string, 0, boxH)
	lines = append(lines, blank)
	for i := 0; i < boxH-2; i++ {
		if i >= len(content) {
			lines = append(lines, blank)
			continue
		}
		line := content[i]
		lineW := lipgloss.Width(line)
		if lineW > boxW-2 {
			line = ansi.Cut(line, 0, boxW-2)
			lineW = boxW - 2
		}
		pad := boxW - 2 - lineW
		line = restoreBackdrop(line, bgSeq)
		lines = append(lines, bgSeq+" "+line+bgSeq+strings.Repeat(" ", pad+1)+ansi.ResetStyle)
	}
	lines = append(lines, blank)
	return lines
}

// spliceBox overwrites a rectangular region of base with box lines.
func spliceBox(base string, box []string, width, height, top, left, boxW int) string {
	baseLines := padToSize(base, width, height)

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		if row < top || row >= top+len(box) {
			lines = append(lines, baseLines[row])
			continue
		}
		baseLine := baseLines[row]
		leftSlice := ansi.Cut(baseLine, 0, left)
		rightSlice := ansi.Cut(baseLine, left+boxW, width)
		lines = append(lines, leftSlice+box[row-top]+rightSlice)
	}
	return strings.Join(lines, "\n")
}

// spliceTooltip places a rendered tooltip near a pointer position, nudged
// back inside the screen when it would clip.
func spliceTooltip(base, tooltip string, width, height, x, y int) string {
	tipLines := splitContentLines(tooltip)
	tipW, tipH := contentSize(tipLines)
	if tipW == 0 || tipH == 0 || tipW > width || tipH > height {
		return base
	}

	// Prefer below-right of the pointer.
	top := y + 1
	left := x + 1
	if left+tipW > width {
		left = width - tipW
	}
	if top+tipH > height {
		top = y - tipH
	}
	if top < 0 {
		top = 0
	}

	for i, line := range tipLines {
		if w := lipgloss.Width(line); w < tipW {
			tipLines[i] = line + strings.Repeat(" ", tipW-w)
		}
	}
	return spliceBox(base, tipLines, width, height, top, left, tipW)
}

// restoreBackdrop re-applies the backdrop background after any reset inside
// styled content, so the box stays opaque.
func restoreBackdrop(line, bgSeq string) string {
	if bgSeq == "" || line == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
	return line
}

func splitContentLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func contentSize(lines []string) (int, int) {
	if len(lines) == 0 {
		return 0, 0
	}
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth, len(lines)
}

// padToSize normalizes content to exactly width x height, truncating long
// lines and padding short ones.
func padToSize(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		if lineWidth > width {
			lines[i] = ansi.Cut(line, 0, width)
			continue
		}
		if lineWidth < width {
			lines[i] = line + strings.Repeat(" ", width-lineWidth)
		}
	}
	return lines
}
