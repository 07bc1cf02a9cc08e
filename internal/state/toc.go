package state

import (
	"github.com/kk-code-lab/lawview/internal/textutil"
)

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	Chapter int
	Label   string
	Anchor  string
}

// TOCEntries lists one entry per chapter, in document order.
func (s *AppState) TOCEntries() []TOCEntry {
	if s.Doc == nil {
		return nil
	}
	entries := make([]TOCEntry, len(s.Doc.Chapters))
	for i, ch := range s.Doc.Chapters {
		entries[i] = TOCEntry{
			Chapter: i,
			Label:   textutil.SanitizeTerminalText(ch.Heading()),
			Anchor:  ch.Anchor(),
		}
	}
	return entries
}

// TOCScroll returns the first TOC entry to draw so the active chapter stays
// within rows visible entries.
func (s *AppState) TOCScroll(rows int) int {
	n := 0
	if s.Doc != nil {
		n = len(s.Doc.Chapters)
	}
	if rows <= 0 || n <= rows {
		return 0
	}
	active := s.ActiveChapter()
	start := active - rows/2
	if start < 0 {
		start = 0
	}
	if start > n-rows {
		start = n - rows
	}
	return start
}
