package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/kk-code-lab/lawview/internal/search"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

// WritePlain writes the document laid out as in the viewer, without the
// sidebar or any styling. Marked matches keep their terminal markup when
// withMarkup is set, so a pipe into `less -R` still shows them.
func WritePlain(w io.Writer, state *statepkg.AppState, withMarkup bool) error {
	bw := bufio.NewWriter(w)
	l := state.EnsureLayout()

	for _, row := range l.Rows {
		var line strings.Builder
		switch row.Kind {
		case statepkg.RowParagraph:
			line.WriteString(plainGutter(state, row))
			node := state.Nodes[row.Paragraph]
			if withMarkup {
				line.WriteString(segmentsMarkup(node.SegmentsIn(row.Start, row.End)))
			} else {
				line.WriteString(paragraphCells(node.Text()[row.Start:row.End]))
			}
		case statepkg.RowAnnotation:
			line.WriteString(strings.Repeat(" ", statepkg.AnnotationIndent))
			if row.Label != "" {
				line.WriteString(row.Label)
				line.WriteByte(' ')
			}
			line.WriteString(row.Text)
		default:
			line.WriteString(row.Text)
		}
		if _, err := bw.WriteString(strings.TrimRight(line.String(), " ") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func plainGutter(state *statepkg.AppState, row statepkg.Row) string {
	if !row.First {
		return strings.Repeat(" ", statepkg.ParagraphIndent)
	}
	if p, ok := state.Paragraph(row.Paragraph); ok && p.HasAnnotations() {
		return " " + string(noteMarker)
	}
	return strings.Repeat(" ", statepkg.ParagraphIndent)
}

// segmentsMarkup re-opens marks per line so each output line stands alone.
func segmentsMarkup(segments []search.Segment) string {
	var b strings.Builder
	m := search.TerminalMarkup{}
	for _, seg := range segments {
		text := paragraphCells(seg.Text)
		if seg.Kind == search.SegmentPlain {
			b.WriteString(text)
			continue
		}
		current := seg.Kind == search.SegmentCurrent
		b.WriteString(m.Open(current))
		b.WriteString(text)
		b.WriteString(m.Close(current))
	}
	return b.String()
}
