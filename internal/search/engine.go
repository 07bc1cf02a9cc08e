// Package search implements incremental, highlighted search over the
// paragraphs of a rendered document.
//
// The Engine owns the match list and cursor. Every Search restores all
// previously marked paragraphs from their frozen original text before
// marking again, so repeated queries never compound escaping or drift.
package search

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

var defaultLog = commonlog.GetLogger("lawview.search")

// Node is a paragraph's displayed content.
type Node interface {
	SetMarkup(markup string)
}

// Revealer receives scroll-into-view requests for the current match. The
// request is fire-and-forget.
type Revealer interface {
	Reveal(m Match)
}

// RevealFunc adapts a function to Revealer.
type RevealFunc func(Match)

func (f RevealFunc) Reveal(m Match) { f(m) }

// Record is a paragraph handed to the engine: its original text and the node
// displaying it. Node may be nil when only match positions are needed.
type Record struct {
	Text string
	Node Node
}

// Match is one occurrence of the query, as byte offsets into the original
// text of paragraph Paragraph.
type Match struct {
	Paragraph int
	Start     int
	End       int
}

// Status is the 1-based cursor position and the match count.
type Status struct {
	Current int
	Total   int
}

func (s Status) String() string {
	return fmt.Sprintf("%d/%d", s.Current, s.Total)
}

type paragraph struct {
	original string
	node     Node
	marked   bool
	first    int
	count    int
}

// Engine searches a fixed, ordered list of paragraphs. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Engine struct {
	paragraphs []paragraph
	markup     Markup
	revealer   Revealer
	mode       Mode
	log        commonlog.Logger

	query   string
	matches []Match
	cursor  int
	err     error
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarkup selects the dialect used for displayed content. HTMLMarkup is
// the default.
func WithMarkup(m Markup) Option {
	return func(e *Engine) {
		if m != nil {
			e.markup = m
		}
	}
}

// WithRevealer sets the target of scroll-into-view requests.
func WithRevealer(r Revealer) Option {
	return func(e *Engine) { e.revealer = r }
}

// WithMode sets how queries are interpreted.
func WithMode(m Mode) Option {
	return func(e *Engine) { e.mode = m }
}

// WithLogger replaces the package logger.
func WithLogger(l commonlog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine freezes the original text of records. Record order defines the
// traversal order of every search.
func NewEngine(records []Record, opts ...Option) *Engine {
	e := &Engine{
		markup: HTMLMarkup{},
		log:    defaultLog,
		cursor: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.paragraphs = make([]paragraph, len(records))
	for i, rec := range records {
		e.paragraphs[i] = paragraph{
			original: strings.Clone(rec.Text),
			node:     rec.Node,
			first:    -1,
		}
	}
	return e
}

// Search replaces the match list with the occurrences of query in every
// paragraph's original text and marks them. An empty query is Clear. An
// invalid pattern yields no matches; the cause is available from Err.
func (e *Engine) Search(query string) []Match {
	e.restore()
	e.query = query
	e.err = nil
	if query == "" {
		return nil
	}

	find, err := compileFinder(query, e.mode)
	if err != nil {
		e.err = err
		e.log.Debugf("query %q: %s", query, err)
		return nil
	}

	var marked []int
	for i := range e.paragraphs {
		p := &e.paragraphs[i]
		spans := find(p.original)
		if len(spans) == 0 {
			continue
		}
		p.first = len(e.matches)
		p.count = len(spans)
		for _, sp := range spans {
			e.matches = append(e.matches, Match{Paragraph: i, Start: sp.start, End: sp.end})
		}
		marked = append(marked, i)
	}

	if len(e.matches) > 0 {
		e.cursor = 0
	}
	for _, i := range marked {
		e.paragraphs[i].marked = true
		e.paint(i)
	}
	e.log.Debugf("query %q (%s): %d matches in %d paragraphs", query, e.mode, len(e.matches), len(marked))
	if e.cursor >= 0 {
		e.reveal()
	}
	return e.Matches()
}

// Clear restores every marked paragraph and empties the match list.
// Calling it on a clear engine changes nothing.
func (e *Engine) Clear() {
	e.restore()
	e.query = ""
	e.err = nil
}

func (e *Engine) restore() {
	for i := range e.paragraphs {
		p := &e.paragraphs[i]
		if !p.marked {
			continue
		}
		p.marked = false
		p.first = -1
		p.count = 0
		setMarkup(p.node, e.markup.Escape(p.original))
	}
	e.matches = nil
	e.cursor = -1
}

// GoTo makes the match at index current, wrapping index modulo the match
// count. It is a no-op when there are no matches.
func (e *Engine) GoTo(index int) {
	n := len(e.matches)
	if n == 0 {
		return
	}
	index = ((index % n) + n) % n
	prev := e.cursor
	e.cursor = index

	target := e.matches[index].Paragraph
	if prev >= 0 && prev < n && prev != index {
		if p := e.matches[prev].Paragraph; p != target {
			e.paint(p)
		}
	}
	e.paint(target)
	e.reveal()
}

func (e *Engine) First() {
	e.GoTo(0)
}

func (e *Engine) Prev() {
	if n := len(e.matches); n > 0 {
		e.GoTo((e.cursor - 1 + n) % n)
	}
}

func (e *Engine) Next() {
	if n := len(e.matches); n > 0 {
		e.GoTo((e.cursor + 1) % n)
	}
}

func (e *Engine) Last() {
	e.GoTo(len(e.matches) - 1)
}

// Status reports {0,0} when there are no matches.
func (e *Engine) Status() Status {
	total := len(e.matches)
	if total == 0 {
		return Status{}
	}
	return Status{Current: e.cursor + 1, Total: total}
}

// Query returns the query of the last Search.
func (e *Engine) Query() string { return e.query }

// Mode returns the query interpretation.
func (e *Engine) Mode() Mode { return e.mode }

// SetMode changes how later queries are interpreted. The current match list
// is left alone; callers re-run Search.
func (e *Engine) SetMode(m Mode) { e.mode = m }

// Err returns why the last query matched nothing because it could not be
// compiled, or nil.
func (e *Engine) Err() error { return e.err }

// Len returns the number of matches.
func (e *Engine) Len() int { return len(e.matches) }

// Matches returns a copy of the match list.
func (e *Engine) Matches() []Match {
	if len(e.matches) == 0 {
		return nil
	}
	return append([]Match(nil), e.matches...)
}

// Current returns the match under the cursor.
func (e *Engine) Current() (Match, bool) {
	if e.cursor < 0 || e.cursor >= len(e.matches) {
		return Match{}, false
	}
	return e.matches[e.cursor], true
}

// MatchesIn returns the matches inside one paragraph.
func (e *Engine) MatchesIn(paragraph int) []Match {
	if paragraph < 0 || paragraph >= len(e.paragraphs) {
		return nil
	}
	p := e.paragraphs[paragraph]
	if p.count == 0 {
		return nil
	}
	return append([]Match(nil), e.matches[p.first:p.first+p.count]...)
}

// Original returns the frozen text of a paragraph.
func (e *Engine) Original(paragraph int) string {
	if paragraph < 0 || paragraph >= len(e.paragraphs) {
		return ""
	}
	return e.paragraphs[paragraph].original
}

// Paragraphs returns the number of paragraphs searched.
func (e *Engine) Paragraphs() int { return len(e.paragraphs) }

// Plain returns the unmarked displayed content of a paragraph.
func (e *Engine) Plain(paragraph int) string {
	return e.markup.Escape(e.Original(paragraph))
}

// paint rewrites a marked paragraph from its original text, interleaving
// escaped plain spans with escaped, marked matches.
func (e *Engine) paint(idx int) {
	p := &e.paragraphs[idx]
	if p.node == nil {
		return
	}
	var b strings.Builder
	b.Grow(len(p.original) + p.count*32)
	last := 0
	for k := p.first; k < p.first+p.count; k++ {
		m := e.matches[k]
		current := k == e.cursor
		b.WriteString(e.markup.Escape(p.original[last:m.Start]))
		b.WriteString(e.markup.Open(current))
		b.WriteString(e.markup.Escape(p.original[m.Start:m.End]))
		b.WriteString(e.markup.Close(current))
		last = m.End
	}
	b.WriteString(e.markup.Escape(p.original[last:]))
	p.node.SetMarkup(b.String())
}

func (e *Engine) reveal() {
	if e.revealer == nil {
		return
	}
	if m, ok := e.Current(); ok {
		e.revealer.Reveal(m)
	}
}

func setMarkup(n Node, markup string) {
	if n != nil {
		n.SetMarkup(markup)
	}
}
