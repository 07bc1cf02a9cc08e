package state

import (
	"github.com/kk-code-lab/lawview/internal/document"
	"github.com/kk-code-lab/lawview/internal/textutil"
	"github.com/rivo/uniseg"
)

// RowKind classifies a line of the document view.
type RowKind int

const (
	RowBlank RowKind = iota
	RowTitle
	RowChapter
	RowArticle
	RowParagraph
	RowAnnotation
)

// ParagraphIndent is the gutter left of paragraph text; it holds the focus
// and annotation markers.
const ParagraphIndent = 2

// AnnotationIndent is the left margin of annotation panel lines.
const AnnotationIndent = 4

// Row is one screen line of the document view.
type Row struct {
	Kind      RowKind
	Chapter   int    // chapter index, -1 above the first chapter
	Paragraph int    // paragraph index for paragraph and annotation rows, else -1
	Text      string // heading or annotation text; empty for paragraph rows
	Label     string // annotation caption on the first line of an entry
	Start     int    // paragraph rows: byte range into ParagraphNode.Text
	End       int
	First     bool // first line of its paragraph or annotation entry
}

// Layout is the document flattened into rows for a given width.
type Layout struct {
	Width         int
	Rows          []Row
	ChapterRows   []int // chapter index -> heading row
	ParagraphRows []int // paragraph index -> first row
}

type lineSpan struct {
	start int
	end   int
}

// BuildLayout lays out the document of s for a content width of width
// columns. Annotation panels are emitted for paragraphs whose panel is open.
func BuildLayout(s *AppState, width int) *Layout {
	if width < ParagraphIndent+1 {
		width = ParagraphIndent + 1
	}
	l := &Layout{Width: width}
	doc := s.Doc
	add := func(r Row) { l.Rows = append(l.Rows, r) }

	title := displayText(doc.DisplayTitle())
	for _, sp := range wrapSpans(title, width) {
		add(Row{Kind: RowTitle, Chapter: -1, Paragraph: -1, Text: title[sp.start:sp.end]})
	}

	l.ChapterRows = make([]int, len(doc.Chapters))
	l.ParagraphRows = make([]int, len(s.Refs))
	para := 0
	for ci, ch := range doc.Chapters {
		add(Row{Kind: RowBlank, Chapter: ci - 1, Paragraph: -1})
		l.ChapterRows[ci] = len(l.Rows)
		heading := displayText(ch.Heading())
		add(Row{Kind: RowChapter, Chapter: ci, Paragraph: -1, Text: textutil.TruncateToWidth(heading, width), First: true})

		for _, art := range ch.Articles {
			add(Row{Kind: RowBlank, Chapter: ci, Paragraph: -1})
			heading := displayText(art.Heading())
			add(Row{Kind: RowArticle, Chapter: ci, Paragraph: -1, Text: textutil.TruncateToWidth(heading, width), First: true})

			for range art.Paragraphs {
				l.ParagraphRows[para] = len(l.Rows)
				node := s.Nodes[para]
				for i, sp := range wrapSpans(node.Text(), width-ParagraphIndent) {
					add(Row{Kind: RowParagraph, Chapter: ci, Paragraph: para, Start: sp.start, End: sp.end, First: i == 0})
				}
				if s.PanelOpen(para) {
					l.Rows = appendAnnotationRows(l.Rows, s, ci, para, width)
				}
				para++
			}
		}
	}
	return l
}

// displayText prepares text outside the search corpus for the screen.
// Paragraph text keeps its tabs so match offsets stay valid; the renderer
// draws each one as a single blank cell.
func displayText(text string) string {
	return textutil.ExpandTabs(textutil.SanitizeTerminalText(text), textutil.DefaultTabWidth)
}

func appendAnnotationRows(rows []Row, s *AppState, chapter, para, width int) []Row {
	p, _ := s.Paragraph(para)
	type entry struct{ label, text string }
	var entries []entry
	if p.Evidence != "" {
		label := s.Labels.Evidence
		if p.EvidenceKind == document.EvidenceBroadcast {
			label = s.Labels.Broadcast
		}
		entries = append(entries, entry{label, p.Evidence})
	}
	if p.Comment != "" {
		entries = append(entries, entry{s.Labels.Comment, p.Comment})
	}

	for _, e := range entries {
		label := displayText(e.label)
		text := displayText(e.text)
		avail := width - AnnotationIndent - textutil.DisplayWidth(label) - 1
		if avail < 1 {
			avail = 1
		}
		for i, sp := range wrapSpans(text, avail) {
			row := Row{Kind: RowAnnotation, Chapter: chapter, Paragraph: para, Text: text[sp.start:sp.end], First: i == 0}
			if i == 0 {
				row.Label = label
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// wrapSpans splits text into lines of at most width display columns,
// preferring line-break opportunities from UAX #14. Spaces that fall at a
// break are dropped. Empty text yields one empty line.
func wrapSpans(text string, width int) []lineSpan {
	if width < 1 {
		width = 1
	}
	var (
		spans      []lineSpan
		lineStart  int
		lineWidth  int
		lastBreak  = -1
		breakWidth int
		pos        int
		state      = -1
		rest       = text
	)
	flush := func(end int) {
		spans = append(spans, lineSpan{start: lineStart, end: trimTrailingSpace(text, lineStart, end)})
	}

	for len(rest) > 0 {
		cluster, next, boundaries, newState := uniseg.StepString(rest, state)
		w := boundaries >> uniseg.ShiftWidth
		if cluster == "\t" {
			w = 1
		}

		if cluster == " " && pos == lineStart && len(spans) > 0 {
			pos += len(cluster)
			lineStart = pos
			rest, state = next, newState
			continue
		}

		if lineWidth+w > width && pos > lineStart {
			switch {
			case cluster == " ":
				flush(pos)
				pos += len(cluster)
				lineStart, lineWidth, lastBreak = pos, 0, -1
				rest, state = next, newState
				continue
			case lastBreak > lineStart:
				flush(lastBreak)
				lineStart = lastBreak
				lineWidth -= breakWidth
			default:
				flush(pos)
				lineStart, lineWidth = pos, 0
			}
			lastBreak = -1
			if lineWidth+w > width && pos > lineStart {
				flush(pos)
				lineStart, lineWidth = pos, 0
			}
		}

		lineWidth += w
		pos += len(cluster)
		if boundaries&uniseg.MaskLine != uniseg.LineDontBreak {
			lastBreak, breakWidth = pos, lineWidth
		}
		rest, state = next, newState
	}
	if pos > lineStart || len(spans) == 0 {
		flush(pos)
	}
	return spans
}

func trimTrailingSpace(text string, start, end int) int {
	for end > start && text[end-1] == ' ' {
		end--
	}
	return end
}

// EnsureLayout rebuilds the layout when the content width changed or the
// rows were invalidated, then applies any pending reveal and clamps the
// scroll offset.
func (s *AppState) EnsureLayout() *Layout {
	width := s.ContentWidth()
	if s.layout == nil || s.layoutDirty || s.layoutWidth != width {
		s.layout = BuildLayout(s, width)
		s.layoutWidth = width
		s.layoutDirty = false
	}
	if s.revealPending {
		s.revealPending = false
		s.revealCurrentMatch()
	}
	s.clampScroll()
	return s.layout
}

// Layout returns the current layout, building it if needed.
func (s *AppState) Layout() *Layout {
	return s.EnsureLayout()
}

func (s *AppState) invalidateLayout() {
	s.layoutDirty = true
}

// ParagraphRowRange returns the rows [first, last] holding paragraph text
// (annotation rows excluded).
func (l *Layout) ParagraphRowRange(para int) (int, int) {
	if para < 0 || para >= len(l.ParagraphRows) {
		return -1, -1
	}
	first := l.ParagraphRows[para]
	last := first
	for last+1 < len(l.Rows) && l.Rows[last+1].Kind == RowParagraph && l.Rows[last+1].Paragraph == para {
		last++
	}
	return first, last
}

// RowForOffset returns the row of paragraph para containing byte offset
// into its displayed text.
func (l *Layout) RowForOffset(para, offset int) int {
	first, last := l.ParagraphRowRange(para)
	if first < 0 {
		return -1
	}
	for i := first; i <= last; i++ {
		if offset < l.Rows[i].End || i == last {
			return i
		}
	}
	return first
}
