package search

import (
	"strings"

	"github.com/kk-code-lab/lawview/internal/textutil"
)

// Markup is the dialect used to write a paragraph's displayed content.
// Escape must make arbitrary text inert in the dialect, so the markers from
// Open and Close are the only structure in the result.
type Markup interface {
	Escape(text string) string
	Open(current bool) string
	Close(current bool) string
}

// HTML marker strings.
const (
	HTMLHitOpen     = `<mark class="hit">`
	HTMLCurrentOpen = `<mark class="hit current">`
	HTMLClose       = `</mark>`
)

// HTMLMarkup marks matches with <mark> elements.
type HTMLMarkup struct{}

func (HTMLMarkup) Escape(text string) string { return textutil.EscapeMarkup(text) }

func (HTMLMarkup) Open(current bool) string {
	if current {
		return HTMLCurrentOpen
	}
	return HTMLHitOpen
}

func (HTMLMarkup) Close(bool) string { return HTMLClose }

// StripHTML removes match markers and unescapes, recovering the original text
// of a paragraph rendered with HTMLMarkup.
func StripHTML(markup string) string {
	r := strings.NewReplacer(HTMLCurrentOpen, "", HTMLHitOpen, "", HTMLClose, "")
	return textutil.UnescapeMarkup(r.Replace(markup))
}

// Terminal marker strings (SGR). Escaped text never contains ESC, so these
// are unambiguous.
const (
	TerminalHitOn      = "\x1b[7m"
	TerminalHitOff     = "\x1b[27m"
	TerminalCurrentOn  = "\x1b[30;43m"
	TerminalCurrentOff = "\x1b[39;49m"
)

// TerminalMarkup marks matches with SGR sequences.
type TerminalMarkup struct{}

func (TerminalMarkup) Escape(text string) string { return textutil.SanitizeTerminalText(text) }

func (TerminalMarkup) Open(current bool) string {
	if current {
		return TerminalCurrentOn
	}
	return TerminalHitOn
}

func (TerminalMarkup) Close(current bool) string {
	if current {
		return TerminalCurrentOff
	}
	return TerminalHitOff
}

// SegmentKind classifies a run of displayed text.
type SegmentKind int

const (
	SegmentPlain SegmentKind = iota
	SegmentHit
	SegmentCurrent
)

// Segment is a run of displayed text sharing one kind.
type Segment struct {
	Text string
	Kind SegmentKind
}

// ParseTerminalMarkup splits TerminalMarkup output into styled segments.
// Unknown escape sequences are dropped.
func ParseTerminalMarkup(markup string) []Segment {
	var (
		segments []Segment
		kind     = SegmentPlain
		buf      strings.Builder
	)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		segments = append(segments, Segment{Text: buf.String(), Kind: kind})
		buf.Reset()
	}

	for i := 0; i < len(markup); {
		if markup[i] != '\x1b' {
			next := strings.IndexByte(markup[i:], '\x1b')
			if next == -1 {
				buf.WriteString(markup[i:])
				break
			}
			buf.WriteString(markup[i : i+next])
			i += next
			continue
		}

		end := i + 1
		if end < len(markup) && markup[end] == '[' {
			end++
			for end < len(markup) && markup[end] != 'm' {
				end++
			}
			if end < len(markup) {
				end++
			}
		}
		next := kind
		switch markup[i:end] {
		case TerminalHitOn:
			next = SegmentHit
		case TerminalCurrentOn:
			next = SegmentCurrent
		case TerminalHitOff, TerminalCurrentOff:
			next = SegmentPlain
		}
		if next != kind {
			flush()
			kind = next
		}
		i = end
	}
	flush()
	return segments
}

// StripTerminal returns the text of a TerminalMarkup string without markers.
func StripTerminal(markup string) string {
	var b strings.Builder
	for _, seg := range ParseTerminalMarkup(markup) {
		b.WriteString(seg.Text)
	}
	return b.String()
}
