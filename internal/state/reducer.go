package state

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/search"
)

// StateReducer applies actions to an AppState.
type StateReducer struct{}

func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies action to state in place. Returned errors are non-fatal;
// the caller stores them in LastError for the status line.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== SCROLLING =====

	case ScrollUpAction:
		state.scrollBy(-1)
	case ScrollDownAction:
		state.scrollBy(1)
	case ScrollPageUpAction:
		state.scrollBy(-pageStep(state))
	case ScrollPageDownAction:
		state.scrollBy(pageStep(state))
	case ScrollTopAction:
		state.ScrollOffset = 0
	case ScrollBottomAction:
		state.EnsureLayout()
		state.ScrollOffset = state.maxScroll()
	case ScrollByAction:
		state.scrollBy(a.Lines)

	// ===== PARAGRAPHS =====

	case FocusNextAction:
		r.moveFocus(state, 1)
	case FocusPrevAction:
		r.moveFocus(state, -1)

	case PinAction:
		idx := a.Paragraph
		if idx < 0 {
			idx = state.FocusIndex
		}
		if idx < 0 || idx >= len(state.Nodes) {
			return state, nil
		}
		state.FocusIndex = idx
		r.pin(state, idx)

	case SelectOutsideAction:
		if state.PinPolicy == config.PinExclusive {
			r.unpinAll(state)
		}
	case UnpinAllAction:
		r.unpinAll(state)

	// ===== TABLE OF CONTENTS =====

	case ToggleTOCAction:
		state.TOCVisible = !state.TOCVisible
		r.keepAnchor(state, func() { state.invalidateLayout() })

	case JumpToChapterAction:
		if state.Doc == nil || a.Chapter < 0 || a.Chapter >= len(state.Doc.Chapters) {
			return state, nil
		}
		if state.PinPolicy == config.PinExclusive {
			r.unpinAll(state)
		}
		l := state.EnsureLayout()
		state.ScrollOffset = l.ChapterRows[a.Chapter]
		state.clampScroll()

	// ===== SEARCH =====

	case SearchToggleAction:
		if state.SearchActive {
			r.closeSearch(state)
		} else {
			state.SearchActive = true
			state.SearchEditing = true
		}
	case SearchFocusAction:
		state.SearchActive = true
		state.SearchEditing = true

	case SearchCharAction:
		if !state.SearchEditing {
			return state, nil
		}
		state.SearchQuery += string(a.Char)
		r.runSearch(state)

	case SearchBackspaceAction:
		if !state.SearchEditing || state.SearchQuery == "" {
			return state, nil
		}
		_, size := utf8.DecodeLastRuneInString(state.SearchQuery)
		state.SearchQuery = state.SearchQuery[:len(state.SearchQuery)-size]
		r.runSearch(state)

	case SearchDeleteWordAction:
		if !state.SearchEditing || state.SearchQuery == "" {
			return state, nil
		}
		state.SearchQuery = trimLastWord(state.SearchQuery)
		r.runSearch(state)

	case SearchResetQueryAction:
		state.SearchQuery = ""
		r.runSearch(state)

	case SearchExitInputAction:
		state.SearchEditing = false

	case SearchSetQueryAction:
		state.SearchActive = true
		state.SearchEditing = false
		state.SearchQuery = a.Query
		r.runSearch(state)

	case SearchFirstAction:
		state.Engine.First()
	case SearchPrevAction:
		state.Engine.Prev()
	case SearchNextAction:
		state.Engine.Next()
	case SearchLastAction:
		state.Engine.Last()

	case SearchToggleModeAction:
		if state.SearchMode == search.ModeRegex {
			state.SearchMode = search.ModeLiteral
		} else {
			state.SearchMode = search.ModeRegex
		}
		state.Engine.SetMode(state.SearchMode)
		r.runSearch(state)

	// ===== VIEW =====

	case ResizeAction:
		r.keepAnchor(state, func() {
			state.ScreenWidth = a.Width
			state.ScreenHeight = a.Height
		})

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
	case HelpHideAction:
		state.HelpVisible = false

	case ReloadAction:
		r.reload(state, a)

	case ReloadFailedAction:
		log.Errorf("reload %s: %s", state.Source, a.Err)
		return state, fmt.Errorf("reload failed: %w", a.Err)
	}

	state.EnsureLayout()
	return state, nil
}

func pageStep(state *AppState) int {
	step := state.ContentRows() - 1
	if step < 1 {
		step = 1
	}
	return step
}

// runSearch re-runs the trimmed query. The engine restores the previous
// marks first, so this is safe on every keystroke.
func (r *StateReducer) runSearch(state *AppState) {
	query := strings.TrimSpace(state.SearchQuery)
	if query == "" {
		state.Engine.Clear()
		return
	}
	state.Engine.Search(query)
}

func (r *StateReducer) closeSearch(state *AppState) {
	state.SearchActive = false
	state.SearchEditing = false
	state.SearchQuery = ""
	state.Engine.Clear()
}

func (r *StateReducer) moveFocus(state *AppState, delta int) {
	n := len(state.Nodes)
	if n == 0 {
		return
	}
	next := state.FocusIndex
	if next < 0 || !r.paragraphVisible(state, next) {
		first, last := state.VisibleParagraphs()
		switch {
		case first < 0:
			next = 0
		case delta > 0:
			next = first
		default:
			next = last
		}
	} else {
		next += delta
	}
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	state.FocusIndex = next
	if state.ShowFocusedAnnotations {
		state.invalidateLayout()
	}
	l := state.EnsureLayout()
	first, last := l.ParagraphRowRange(next)
	state.ensureRowsVisible(first, last)
}

func (r *StateReducer) paragraphVisible(state *AppState, para int) bool {
	first, last := state.VisibleParagraphs()
	return first >= 0 && para >= first && para <= last
}

func (r *StateReducer) pin(state *AppState, idx int) {
	switch state.PinPolicy {
	case config.PinExclusive:
		was := state.Pinned[idx]
		state.Pinned = make(map[int]bool)
		if !was {
			state.Pinned[idx] = true
		}
	default:
		if state.Pinned[idx] {
			delete(state.Pinned, idx)
		} else {
			state.Pinned[idx] = true
		}
	}
	state.invalidateLayout()
}

func (r *StateReducer) unpinAll(state *AppState) {
	if len(state.Pinned) == 0 {
		return
	}
	state.Pinned = make(map[int]bool)
	state.invalidateLayout()
}

// keepAnchor runs change, which may alter the layout width, and then
// scrolls so the paragraph that was at the top stays at the top.
func (r *StateReducer) keepAnchor(state *AppState, change func()) {
	l := state.EnsureLayout()
	anchor := -1
	if state.ScrollOffset < len(l.Rows) {
		anchor = l.Rows[state.ScrollOffset].Paragraph
	}
	change()
	l = state.EnsureLayout()
	if anchor >= 0 && anchor < len(l.ParagraphRows) {
		state.ScrollOffset = l.ParagraphRows[anchor]
		state.clampScroll()
	}
}

func (r *StateReducer) reload(state *AppState, a ReloadAction) {
	if a.Doc == nil {
		return
	}
	scroll := state.ScrollOffset
	state.setDocument(a.Doc)
	r.runSearch(state)
	// Reload keeps the scroll position.
	state.revealPending = false
	state.EnsureLayout()
	state.ScrollOffset = scroll
	state.clampScroll()
	state.LastReload = time.Now()
	state.LastError = nil
	log.Infof("reloaded %s: %d paragraphs", state.Source, len(state.Nodes))
}

// trimLastWord drops trailing spaces and then the word before them.
func trimLastWord(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	idx := strings.LastIndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return s[:idx+1]
}
