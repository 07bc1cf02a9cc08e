package state

import (
	"strings"

	"github.com/kk-code-lab/lawview/internal/search"
)

// ParagraphNode is the displayed content of one paragraph: terminal markup
// written by the search engine, kept pre-parsed into styled segments.
type ParagraphNode struct {
	Index    int
	markup   string
	segments []search.Segment
	text     string
}

func newParagraphNode(index int, original string) *ParagraphNode {
	n := &ParagraphNode{Index: index}
	n.SetMarkup(search.TerminalMarkup{}.Escape(original))
	return n
}

// SetMarkup implements search.Node.
func (n *ParagraphNode) SetMarkup(markup string) {
	n.markup = markup
	n.segments = search.ParseTerminalMarkup(markup)
	var b strings.Builder
	b.Grow(len(markup))
	for _, seg := range n.segments {
		b.WriteString(seg.Text)
	}
	n.text = b.String()
}

// Markup returns the content as last written.
func (n *ParagraphNode) Markup() string { return n.markup }

// Segments returns the styled runs of the content.
func (n *ParagraphNode) Segments() []search.Segment { return n.segments }

// Text is the displayed text without markers. It does not change when
// matches are marked, so line wrapping is stable across searches.
func (n *ParagraphNode) Text() string { return n.text }

// CurrentOffset returns the byte offset in Text of the current match.
func (n *ParagraphNode) CurrentOffset() (int, bool) {
	offset := 0
	for _, seg := range n.segments {
		if seg.Kind == search.SegmentCurrent {
			return offset, true
		}
		offset += len(seg.Text)
	}
	return 0, false
}

// HasHits reports whether any match is marked in the paragraph.
func (n *ParagraphNode) HasHits() bool {
	for _, seg := range n.segments {
		if seg.Kind != search.SegmentPlain {
			return true
		}
	}
	return false
}

// SegmentsIn returns the styled runs covering Text()[start:end].
func (n *ParagraphNode) SegmentsIn(start, end int) []search.Segment {
	if start >= end {
		return nil
	}
	var out []search.Segment
	offset := 0
	for _, seg := range n.segments {
		segStart, segEnd := offset, offset+len(seg.Text)
		offset = segEnd
		if segEnd <= start {
			continue
		}
		if segStart >= end {
			break
		}
		lo := max(segStart, start) - segStart
		hi := min(segEnd, end) - segStart
		out = append(out, search.Segment{Text: seg.Text[lo:hi], Kind: seg.Kind})
	}
	return out
}
