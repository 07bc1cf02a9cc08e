package state

const (
	headerRows      = 1
	footerRows      = 1
	searchBarRows   = 1
	minContentWidth = 20
	contentMargin   = 1
	// spyThreshold is how far below the viewport top a chapter heading may
	// sit and still count as the chapter being read.
	spyThreshold = 2
)

func (s *AppState) screenSize() (int, int) {
	w, h := s.ScreenWidth, s.ScreenHeight
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}

// SidebarWidth returns the columns taken by the table of contents,
// separator included, or 0 when it is hidden or does not fit.
func (s *AppState) SidebarWidth() int {
	if !s.TOCVisible || s.Doc == nil || len(s.Doc.Chapters) == 0 {
		return 0
	}
	w, _ := s.screenSize()
	if w < s.TOCWidth+1+minContentWidth {
		return 0
	}
	return s.TOCWidth + 1
}

// ContentLeft is the first screen column of document text.
func (s *AppState) ContentLeft() int {
	return s.SidebarWidth() + contentMargin
}

// ContentTop is the first screen row of document text.
func (s *AppState) ContentTop() int {
	return headerRows
}

// ContentWidth is the number of columns available to document text.
func (s *AppState) ContentWidth() int {
	w, _ := s.screenSize()
	width := w - s.ContentLeft() - contentMargin
	if width < ParagraphIndent+1 {
		width = ParagraphIndent + 1
	}
	return width
}

// ContentRows is the number of document rows visible at once.
func (s *AppState) ContentRows() int {
	_, h := s.screenSize()
	rows := h - headerRows - footerRows
	if s.SearchActive {
		rows -= searchBarRows
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// SearchBarRow is the screen row of the search bar.
func (s *AppState) SearchBarRow() int {
	_, h := s.screenSize()
	return h - footerRows - searchBarRows
}

func (s *AppState) maxScroll() int {
	if s.layout == nil {
		return 0
	}
	limit := len(s.layout.Rows) - s.ContentRows()
	if limit < 0 {
		return 0
	}
	return limit
}

func (s *AppState) clampScroll() {
	if s.ScrollOffset > s.maxScroll() {
		s.ScrollOffset = s.maxScroll()
	}
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
}

func (s *AppState) scrollBy(delta int) {
	s.EnsureLayout()
	s.ScrollOffset += delta
	s.clampScroll()
}

// centerRow scrolls so row sits in the middle of the viewport.
func (s *AppState) centerRow(row int) {
	s.ScrollOffset = row - s.ContentRows()/2
	s.clampScroll()
}

// ensureRowsVisible scrolls the minimum needed to show rows [first, last],
// preferring first when they do not fit.
func (s *AppState) ensureRowsVisible(first, last int) {
	rows := s.ContentRows()
	if last-first+1 > rows {
		last = first + rows - 1
	}
	if first < s.ScrollOffset {
		s.ScrollOffset = first
	} else if last >= s.ScrollOffset+rows {
		s.ScrollOffset = last - rows + 1
	}
	s.clampScroll()
}

// revealCurrentMatch centres the row holding the current match.
func (s *AppState) revealCurrentMatch() {
	m, ok := s.Engine.Current()
	if !ok || m.Paragraph >= len(s.Nodes) {
		return
	}
	offset, ok := s.Nodes[m.Paragraph].CurrentOffset()
	if !ok {
		offset = 0
	}
	if row := s.layout.RowForOffset(m.Paragraph, offset); row >= 0 {
		s.centerRow(row)
	}
}

// ActiveChapter is the chapter being read: the last chapter whose heading
// is at or just below the top of the viewport. It is -1 while the title is
// in view above the first chapter.
func (s *AppState) ActiveChapter() int {
	l := s.EnsureLayout()
	active := -1
	for ci, row := range l.ChapterRows {
		if row <= s.ScrollOffset+spyThreshold {
			active = ci
		}
	}
	return active
}

// RowAt maps a screen row to a layout row, or -1 outside the content area.
func (s *AppState) RowAt(y int) int {
	l := s.EnsureLayout()
	rel := y - s.ContentTop()
	if rel < 0 || rel >= s.ContentRows() {
		return -1
	}
	row := s.ScrollOffset + rel
	if row >= len(l.Rows) {
		return -1
	}
	return row
}

// VisibleParagraphs returns the first and last paragraph with a row in the
// viewport, or -1, -1.
func (s *AppState) VisibleParagraphs() (int, int) {
	l := s.EnsureLayout()
	first, last := -1, -1
	end := min(s.ScrollOffset+s.ContentRows(), len(l.Rows))
	for i := s.ScrollOffset; i < end; i++ {
		p := l.Rows[i].Paragraph
		if l.Rows[i].Kind != RowParagraph || p < 0 {
			continue
		}
		if first < 0 {
			first = p
		}
		last = p
	}
	return first, last
}
