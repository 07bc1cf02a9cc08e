package state

import (
	"github.com/kk-code-lab/lawview/internal/document"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== SCROLL ACTIONS =====

type ScrollUpAction struct{}
type ScrollDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollTopAction struct{}
type ScrollBottomAction struct{}

// ScrollByAction scrolls by Lines rows; negative scrolls up (mouse wheel).
type ScrollByAction struct {
	Lines int
}

// ===== PARAGRAPH ACTIONS =====

type FocusNextAction struct{}
type FocusPrevAction struct{}

// PinAction selects paragraph Paragraph; -1 pins the focused paragraph.
type PinAction struct {
	Paragraph int
}

// SelectOutsideAction is a selection that hit no paragraph. Under the
// exclusive pin policy it unpins everything.
type SelectOutsideAction struct{}
type UnpinAllAction struct{}

// ===== TABLE OF CONTENTS ACTIONS =====

type ToggleTOCAction struct{}

// JumpToChapterAction scrolls chapter Chapter (an index) to the top.
type JumpToChapterAction struct {
	Chapter int
}

// ===== SEARCH ACTIONS =====

type SearchToggleAction struct{} // open the bar, or close it and clear
type SearchFocusAction struct{}  // open the bar and edit the query
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}
type SearchDeleteWordAction struct{}
type SearchResetQueryAction struct{}
type SearchExitInputAction struct{} // keep highlights, leave the input
type SearchFirstAction struct{}
type SearchPrevAction struct{}
type SearchNextAction struct{}
type SearchLastAction struct{}
type SearchToggleModeAction struct{}

// SearchSetQueryAction opens the bar with Query already run and the input
// left, as when a query is given on the command line.
type SearchSetQueryAction struct {
	Query string
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type HelpToggleAction struct{}
type HelpHideAction struct{}
type YankParagraphAction struct{}

// ReloadRequestAction asks the application to load the document again.
type ReloadRequestAction struct{}

// ReloadAction replaces the document with a freshly loaded one and runs the
// current query against it.
type ReloadAction struct {
	Doc *document.Document
}

// ReloadFailedAction reports a failed reload; the old document stays.
type ReloadFailedAction struct {
	Err error
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}
