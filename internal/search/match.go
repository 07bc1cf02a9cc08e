package search

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Mode selects how a query is interpreted.
type Mode int

const (
	// ModeLiteral matches the query as a case-insensitive substring.
	ModeLiteral Mode = iota
	// ModeRegex compiles the query as a case-insensitive RE2 pattern.
	ModeRegex
)

// ErrInvalidPattern wraps regex compile failures. Search never returns it;
// it is only exposed through Engine.Err for status hints.
var ErrInvalidPattern = errors.New("invalid search pattern")

// PatternHint describes a search error in a line short enough for a status
// bar.
func PatternHint(err error) string {
	if err == nil {
		return ""
	}
	if !errors.Is(err, ErrInvalidPattern) {
		return err.Error()
	}
	msg := strings.TrimPrefix(err.Error(), ErrInvalidPattern.Error()+": ")
	msg = strings.TrimPrefix(msg, "error parsing regexp: ")
	return "invalid pattern: " + msg
}

func (m Mode) String() string {
	switch m {
	case ModeRegex:
		return "regex"
	default:
		return "literal"
	}
}

// ParseMode maps a config or flag value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal", "substring":
		return ModeLiteral, nil
	case "regex", "regexp":
		return ModeRegex, nil
	default:
		return ModeLiteral, fmt.Errorf("unknown search mode %q", s)
	}
}

type span struct {
	start int
	end   int
}

// finder returns the non-overlapping occurrences in text, left to right,
// as byte offsets on rune boundaries.
type finder func(text string) []span

func compileFinder(query string, mode Mode) (finder, error) {
	query = norm.NFC.String(query)
	var (
		find finder
		err  error
	)
	if mode == ModeRegex {
		find, err = regexFinder(query)
	} else {
		find = literalFinder(query)
	}
	if err != nil {
		return nil, err
	}
	return composedFinder(find), nil
}

// composedFinder runs find over the NFC form of text and maps the spans back
// onto text, so "e"+U+0301 and "é" find each other in either direction
// while offsets stay in the original bytes.
func composedFinder(find finder) finder {
	return func(text string) []span {
		if norm.NFC.IsNormalString(text) {
			return find(text)
		}
		composed, offsets := composeWithOffsets(text)
		spans := find(composed)
		out := spans[:0]
		for _, sp := range spans {
			sp = offsets.original(sp)
			if len(out) > 0 && sp.start < out[len(out)-1].end {
				continue
			}
			out = append(out, sp)
		}
		return out
	}
}

// composedSegment pairs one normalization segment of the original text with
// its NFC form.
type composedSegment struct {
	from, to int // in the composed text
	start    int // in the original text
	end      int
	same     bool
}

type offsetMap []composedSegment

func composeWithOffsets(text string) (string, offsetMap) {
	var (
		b       strings.Builder
		offsets offsetMap
	)
	b.Grow(len(text))
	for i := 0; i < len(text); {
		n := norm.NFC.NextBoundaryInString(text[i:], true)
		if n <= 0 {
			n = len(text) - i
		}
		seg := text[i : i+n]
		out := norm.NFC.String(seg)
		from := b.Len()
		b.WriteString(out)
		offsets = append(offsets, composedSegment{
			from: from, to: b.Len(),
			start: i, end: i + n,
			same: out == seg,
		})
		i += n
	}
	return b.String(), offsets
}

// original maps a span of the composed text onto the original text. A span
// edge inside a segment that normalization rewrote widens to the whole
// segment.
func (m offsetMap) original(sp span) span {
	i := sort.Search(len(m), func(i int) bool { return m[i].to > sp.start })
	j := sort.Search(len(m), func(j int) bool { return m[j].to >= sp.end })
	if i >= len(m) || j >= len(m) {
		return sp
	}
	out := span{start: m[i].start, end: m[j].end}
	if m[i].same {
		out.start = m[i].start + sp.start - m[i].from
	}
	if m[j].same {
		out.end = m[j].start + sp.end - m[j].from
	}
	return out
}

func literalFinder(query string) finder {
	folded := strings.Map(unicode.ToLower, query)
	asciiNeedle := isASCII(folded)
	return func(text string) []span {
		if asciiNeedle && isASCII(text) {
			return asciiSpans(strings.ToLower(text), folded)
		}
		return foldedSpans(text, folded)
	}
}

func asciiSpans(lower, needle string) []span {
	var spans []span
	from := 0
	for {
		idx := strings.Index(lower[from:], needle)
		if idx == -1 {
			return spans
		}
		start := from + idx
		end := start + len(needle)
		spans = append(spans, span{start: start, end: end})
		from = end
	}
}

func foldedSpans(text, needleLower string) []span {
	var spans []span
	for i := 0; i < len(text); {
		if end, ok := matchesAtFolded(text, i, needleLower); ok {
			spans = append(spans, span{start: i, end: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		if size <= 0 {
			size = 1
		}
		i += size
	}
	return spans
}

// matchesAtFolded compares rune by rune so offsets stay valid even when
// lowering changes a rune's encoded length.
func matchesAtFolded(haystack string, start int, needleLower string) (int, bool) {
	hIndex := start
	for _, nr := range needleLower {
		if hIndex >= len(haystack) {
			return 0, false
		}
		hr, size := utf8.DecodeRuneInString(haystack[hIndex:])
		if size <= 0 {
			return 0, false
		}
		if unicode.ToLower(hr) != nr {
			return 0, false
		}
		hIndex += size
	}
	return hIndex, true
}

func regexFinder(query string) (finder, error) {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return func(text string) []span {
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			return nil
		}
		spans := make([]span, 0, len(locs))
		for _, loc := range locs {
			// Empty matches cannot be marked or navigated to.
			if loc[1] > loc[0] {
				spans = append(spans, span{start: loc[0], end: loc[1]})
			}
		}
		return spans
	}, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
