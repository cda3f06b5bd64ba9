package tui

// renderCache stores pre-rendered ANSI strings for hot view paths. Rendering
// a row of empty cells dominates grid frames, so the filler strings are built
// once per layout instead of per cell.
type renderCache struct {
	width        int
	emptyCell    string
	emptyCellAlt string
	gutterBlank  string
}

// refreshRenderCache rebuilds the cached fillers for the current geometry.
// Called from rebuildLayout so the cache always matches the hit-test grid.
func (m *Model) refreshRenderCache() {
	w := m.geometry.ColumnWidth
	m.cache = renderCache{
		width:        w,
		emptyCell:    m.styles.EmptyCellStyle.Render(padCell("", w)),
		emptyCellAlt: m.styles.EmptyCellAltStyle.Render(padCell("", w)),
		gutterBlank:  m.styles.TimeGutterStyle.Render(padCell("", gutterWidth)),
	}
}
