package state

import (
	"time"

	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/document"
	"github.com/kk-code-lab/lawview/internal/search"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lawview.state")

// ===== STATE DEFINITIONS =====

// AppState is the single source of truth
type AppState struct {
	// Document
	Source string // path or URL the document was loaded from
	Doc    *document.Document
	Refs   []document.ParagraphRef // paragraph index -> position in Doc
	Nodes  []*ParagraphNode        // paragraph index -> displayed content
	Engine *search.Engine

	// Layout & viewport
	layout       *Layout
	layoutWidth  int
	layoutDirty  bool
	ScrollOffset int // first visible layout row

	// Paragraph focus & pinned annotation panels
	FocusIndex int // paragraph index, -1 when nothing is focused
	Pinned     map[int]bool
	PinPolicy  config.PinPolicy

	// Search bar
	SearchActive  bool // bar visible and highlights shown
	SearchEditing bool // keystrokes go to the query
	SearchQuery   string
	SearchMode    search.Mode

	// Table of contents sidebar
	TOCVisible bool
	TOCWidth   int

	// Preferences
	Labels                 config.Labels
	ShowFocusedAnnotations bool

	HelpVisible bool

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Status line
	ClipboardAvailable bool      // Whether clipboard command is available
	LastYankTime       time.Time // Time of last successful yank (for flash effect)
	LastReload         time.Time // Time the document was last replaced by Reload

	// Error state
	LastError error

	revealPending bool
}

// NewAppState builds the state for doc with preferences from cfg.
func NewAppState(source string, doc *document.Document, cfg config.Config) *AppState {
	s := &AppState{
		Source:                 source,
		FocusIndex:             -1,
		Pinned:                 make(map[int]bool),
		PinPolicy:              cfg.PinPolicy,
		SearchMode:             cfg.Mode(),
		TOCVisible:             cfg.ShowTOC,
		TOCWidth:               cfg.TOCWidth,
		Labels:                 cfg.Labels,
		ShowFocusedAnnotations: cfg.ShowFocusedAnnotations,
	}
	if s.TOCWidth <= 0 {
		s.TOCWidth = config.DefaultTOCWidth
	}
	s.setDocument(doc)
	return s
}

// setDocument installs a freshly loaded document: new paragraph nodes and a
// new engine over their frozen text. Focus, pins and scroll are reset.
func (s *AppState) setDocument(doc *document.Document) {
	if doc == nil {
		doc = &document.Document{}
	}
	s.Doc = doc
	s.Refs = document.Flatten(doc)
	s.Nodes = make([]*ParagraphNode, len(s.Refs))
	records := make([]search.Record, len(s.Refs))
	for i, ref := range s.Refs {
		_, _, p := doc.Resolve(ref)
		node := newParagraphNode(i, p.Text)
		s.Nodes[i] = node
		records[i] = search.Record{Text: p.Text, Node: node}
	}
	s.Engine = search.NewEngine(records,
		search.WithMarkup(search.TerminalMarkup{}),
		search.WithRevealer(s),
		search.WithMode(s.SearchMode),
	)
	s.FocusIndex = -1
	s.Pinned = make(map[int]bool)
	s.ScrollOffset = 0
	s.revealPending = false
	s.invalidateLayout()
}

// Reveal implements search.Revealer. The scroll happens on the next
// EnsureLayout, once row positions are known.
func (s *AppState) Reveal(search.Match) {
	s.revealPending = true
}

// Paragraph returns the document paragraph at a search index.
func (s *AppState) Paragraph(index int) (*document.Paragraph, bool) {
	if index < 0 || index >= len(s.Refs) {
		return nil, false
	}
	_, _, p := s.Doc.Resolve(s.Refs[index])
	return p, true
}

// FocusedParagraph returns the paragraph under the keyboard cursor.
func (s *AppState) FocusedParagraph() (*document.Paragraph, bool) {
	return s.Paragraph(s.FocusIndex)
}

// SearchStatus is the "current/total" counter shown in the search bar.
func (s *AppState) SearchStatus() search.Status {
	if s.Engine == nil {
		return search.Status{}
	}
	return s.Engine.Status()
}

// PanelOpen reports whether the annotation panel of paragraph index is
// shown.
func (s *AppState) PanelOpen(index int) bool {
	p, ok := s.Paragraph(index)
	if !ok || !p.HasAnnotations() {
		return false
	}
	if s.Pinned[index] {
		return true
	}
	return s.ShowFocusedAnnotations && index == s.FocusIndex
}

// PinnedCount returns the number of pinned paragraphs.
func (s *AppState) PinnedCount() int {
	n := 0
	for _, on := range s.Pinned {
		if on {
			n++
		}
	}
	return n
}
