package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the application should stop.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) emit(action statepkg.Action) bool {
	ih.actionChan <- action
	return true
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	helpVisible := ih.state != nil && ih.state.HelpVisible
	searchActive := ih.state != nil && ih.state.SearchActive
	editing := ih.state != nil && ih.state.SearchEditing

	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if helpVisible {
		switch ev.Key() {
		case tcell.KeyEscape:
			return ih.emit(statepkg.HelpHideAction{})
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				return ih.emit(statepkg.HelpHideAction{})
			}
		}
		return true
	}

	if editing {
		return ih.processSearchInput(ev)
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		if searchActive {
			return ih.emit(statepkg.SearchToggleAction{})
		}
		return ih.emit(statepkg.SelectOutsideAction{})
	case tcell.KeyUp:
		return ih.emit(statepkg.ScrollUpAction{})
	case tcell.KeyDown:
		return ih.emit(statepkg.ScrollDownAction{})
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		return ih.emit(statepkg.ScrollPageUpAction{})
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		return ih.emit(statepkg.ScrollPageDownAction{})
	case tcell.KeyHome:
		return ih.emit(statepkg.ScrollTopAction{})
	case tcell.KeyEnd:
		return ih.emit(statepkg.ScrollBottomAction{})
	case tcell.KeyEnter:
		return ih.emit(statepkg.PinAction{Paragraph: -1})
	case tcell.KeyTab:
		return ih.emit(statepkg.ToggleTOCAction{})
	case tcell.KeyCtrlR:
		return ih.emit(statepkg.SearchToggleModeAction{})
	case tcell.KeyCtrlL:
		return ih.emit(statepkg.ReloadRequestAction{})
	case tcell.KeyCtrlZ:
		return ih.emit(statepkg.SuspendAction{})
	case tcell.KeyRune:
		return ih.processRune(ev.Rune(), searchActive)
	}
	return true
}

func (ih *InputHandler) processRune(r rune, searchActive bool) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case '?':
		return ih.emit(statepkg.HelpToggleAction{})
	case '/':
		if searchActive {
			return ih.emit(statepkg.SearchFocusAction{})
		}
		return ih.emit(statepkg.SearchToggleAction{})
	case 's':
		return ih.emit(statepkg.SearchToggleAction{})
	case 'n':
		return ih.emit(statepkg.SearchNextAction{})
	case 'N':
		return ih.emit(statepkg.SearchPrevAction{})
	case 'g':
		if searchActive {
			return ih.emit(statepkg.SearchFirstAction{})
		}
		return ih.emit(statepkg.ScrollTopAction{})
	case 'G':
		if searchActive {
			return ih.emit(statepkg.SearchLastAction{})
		}
		return ih.emit(statepkg.ScrollBottomAction{})
	case 'j':
		return ih.emit(statepkg.FocusNextAction{})
	case 'k':
		return ih.emit(statepkg.FocusPrevAction{})
	case ' ':
		return ih.emit(statepkg.PinAction{Paragraph: -1})
	case 'u':
		return ih.emit(statepkg.UnpinAllAction{})
	case 't':
		return ih.emit(statepkg.ToggleTOCAction{})
	case 'y':
		return ih.emit(statepkg.YankParagraphAction{})
	case 'r':
		return ih.emit(statepkg.ReloadRequestAction{})
	}
	if r >= '1' && r <= '9' {
		return ih.emit(statepkg.JumpToChapterAction{Chapter: int(r - '1')})
	}
	return true
}

func (ih *InputHandler) processSearchInput(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.SearchExitInputAction{})
	case tcell.KeyEnter, tcell.KeyDown, tcell.KeyCtrlN:
		return ih.emit(statepkg.SearchNextAction{})
	case tcell.KeyUp, tcell.KeyCtrlP, tcell.KeyBacktab:
		return ih.emit(statepkg.SearchPrevAction{})
	case tcell.KeyHome:
		return ih.emit(statepkg.SearchFirstAction{})
	case tcell.KeyEnd:
		return ih.emit(statepkg.SearchLastAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ih.emit(statepkg.SearchBackspaceAction{})
	case tcell.KeyCtrlW:
		return ih.emit(statepkg.SearchDeleteWordAction{})
	case tcell.KeyCtrlU:
		return ih.emit(statepkg.SearchResetQueryAction{})
	case tcell.KeyCtrlR:
		return ih.emit(statepkg.SearchToggleModeAction{})
	case tcell.KeyCtrlZ:
		return ih.emit(statepkg.SuspendAction{})
	case tcell.KeyRune:
		return ih.emit(statepkg.SearchCharAction{Char: ev.Rune()})
	}
	return true
}
