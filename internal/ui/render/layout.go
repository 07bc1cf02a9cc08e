package render

import statepkg "github.com/kk-code-lab/lawview/internal/state"

// layoutMetrics is the screen geometry of one frame. Column and row counts
// come from the state so mouse hit-testing and drawing agree.
type layoutMetrics struct {
	width        int
	height       int
	sidebarWidth int // TOC columns, separator excluded
	separatorX   int // -1 when the TOC is hidden
	contentLeft  int
	contentWidth int
	contentTop   int
	contentRows  int
	searchBarRow int // -1 when the search bar is closed
	statusRow    int
}

func (r *Renderer) computeLayout(w, h int, state *statepkg.AppState) layoutMetrics {
	m := layoutMetrics{
		width:        w,
		height:       h,
		separatorX:   -1,
		searchBarRow: -1,
		statusRow:    h - 1,
	}
	if state == nil {
		return m
	}

	if sw := state.SidebarWidth(); sw > 0 {
		m.sidebarWidth = sw - 1
		m.separatorX = sw - 1
	}
	m.contentLeft = state.ContentLeft()
	m.contentWidth = state.ContentWidth()
	m.contentTop = state.ContentTop()
	m.contentRows = state.ContentRows()
	if state.SearchActive {
		m.searchBarRow = state.SearchBarRow()
	}
	return m
}

// tocRows is the height of the sidebar, which stops above the search bar.
func (m layoutMetrics) tocRows() int {
	bottom := m.statusRow
	if m.searchBarRow >= 0 {
		bottom = m.searchBarRow
	}
	rows := bottom - m.contentTop
	if rows < 0 {
		return 0
	}
	return rows
}
