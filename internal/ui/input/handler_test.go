package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

func sendKey(t *testing.T, state *statepkg.AppState, ev *tcell.EventKey) (statepkg.Action, bool) {
	t.Helper()
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.SetState(state)

	cont := handler.ProcessEvent(ev)
	select {
	case action := <-actionChan:
		return action, cont
	default:
		return nil, cont
	}
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, 0)
}

func TestQuestionMarkTogglesHelpInNormalMode(t *testing.T) {
	action, _ := sendKey(t, &statepkg.AppState{}, runeKey('?'))
	if _, ok := action.(statepkg.HelpToggleAction); !ok {
		t.Fatalf("Expected HelpToggleAction, got %T", action)
	}
}

func TestEscapeHidesHelpBeforeOtherModes(t *testing.T) {
	state := &statepkg.AppState{HelpVisible: true, SearchActive: true, SearchEditing: true}
	action, _ := sendKey(t, state, tcell.NewEventKey(tcell.KeyEscape, 0, 0))
	if _, ok := action.(statepkg.HelpHideAction); !ok {
		t.Fatalf("Expected HelpHideAction, got %T", action)
	}
}

func TestHelpSwallowsOtherKeys(t *testing.T) {
	action, cont := sendKey(t, &statepkg.AppState{HelpVisible: true}, runeKey('j'))
	if action != nil || !cont {
		t.Fatalf("Expected no action while help is visible, got %T", action)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{runeKey('q'), tcell.NewEventKey(tcell.KeyCtrlC, 0, 0)} {
		action, cont := sendKey(t, &statepkg.AppState{}, ev)
		if _, ok := action.(statepkg.QuitAction); !ok || cont {
			t.Fatalf("Expected QuitAction and stop, got %T cont=%v", action, cont)
		}
	}

	action, cont := sendKey(t, &statepkg.AppState{SearchActive: true, SearchEditing: true}, runeKey('q'))
	if _, ok := action.(statepkg.SearchCharAction); !ok || !cont {
		t.Fatalf("q in the search input should be typed, got %T", action)
	}
}

func TestNormalModeKeys(t *testing.T) {
	tests := []struct {
		name   string
		state  statepkg.AppState
		ev     *tcell.EventKey
		expect statepkg.Action
	}{
		{"slash opens search", statepkg.AppState{}, runeKey('/'), statepkg.SearchToggleAction{}},
		{"slash refocuses open search", statepkg.AppState{SearchActive: true}, runeKey('/'), statepkg.SearchFocusAction{}},
		{"s toggles search", statepkg.AppState{}, runeKey('s'), statepkg.SearchToggleAction{}},
		{"n next match", statepkg.AppState{}, runeKey('n'), statepkg.SearchNextAction{}},
		{"N previous match", statepkg.AppState{}, runeKey('N'), statepkg.SearchPrevAction{}},
		{"g first match while searching", statepkg.AppState{SearchActive: true}, runeKey('g'), statepkg.SearchFirstAction{}},
		{"g top otherwise", statepkg.AppState{}, runeKey('g'), statepkg.ScrollTopAction{}},
		{"G last match while searching", statepkg.AppState{SearchActive: true}, runeKey('G'), statepkg.SearchLastAction{}},
		{"G bottom otherwise", statepkg.AppState{}, runeKey('G'), statepkg.ScrollBottomAction{}},
		{"j focuses next paragraph", statepkg.AppState{}, runeKey('j'), statepkg.FocusNextAction{}},
		{"k focuses previous paragraph", statepkg.AppState{}, runeKey('k'), statepkg.FocusPrevAction{}},
		{"space pins focused", statepkg.AppState{}, runeKey(' '), statepkg.PinAction{Paragraph: -1}},
		{"enter pins focused", statepkg.AppState{}, tcell.NewEventKey(tcell.KeyEnter, 0, 0), statepkg.PinAction{Paragraph: -1}},
		{"u unpins all", statepkg.AppState{}, runeKey('u'), statepkg.UnpinAllAction{}},
		{"t toggles TOC", statepkg.AppState{}, runeKey('t'), statepkg.ToggleTOCAction{}},
		{"digit jumps to chapter", statepkg.AppState{}, runeKey('3'), statepkg.JumpToChapterAction{Chapter: 2}},
		{"y yanks", statepkg.AppState{}, runeKey('y'), statepkg.YankParagraphAction{}},
		{"r reloads", statepkg.AppState{}, runeKey('r'), statepkg.ReloadRequestAction{}},
		{"ctrl-r switches mode", statepkg.AppState{}, tcell.NewEventKey(tcell.KeyCtrlR, 0, 0), statepkg.SearchToggleModeAction{}},
		{"ctrl-z suspends", statepkg.AppState{}, tcell.NewEventKey(tcell.KeyCtrlZ, 0, 0), statepkg.SuspendAction{}},
		{"down scrolls", statepkg.AppState{}, tcell.NewEventKey(tcell.KeyDown, 0, 0), statepkg.ScrollDownAction{}},
		{"page down", statepkg.AppState{}, tcell.NewEventKey(tcell.KeyPgDn, 0, 0), statepkg.ScrollPageDownAction{}},
		{"end scrolls to bottom", statepkg.AppState{}, tcell.NewEventKey(tcell.KeyEnd, 0, 0), statepkg.ScrollBottomAction{}},
		{"escape closes search", statepkg.AppState{SearchActive: true}, tcell.NewEventKey(tcell.KeyEscape, 0, 0), statepkg.SearchToggleAction{}},
		{"escape selects outside", statepkg.AppState{}, tcell.NewEventKey(tcell.KeyEscape, 0, 0), statepkg.SelectOutsideAction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state
			action, cont := sendKey(t, &state, tt.ev)
			if !cont {
				t.Fatalf("handler asked to stop")
			}
			if action != tt.expect {
				t.Fatalf("Expected %#v, got %#v", tt.expect, action)
			}
		})
	}
}

func TestSearchInputKeys(t *testing.T) {
	editing := statepkg.AppState{SearchActive: true, SearchEditing: true}
	tests := []struct {
		name   string
		ev     *tcell.EventKey
		expect statepkg.Action
	}{
		{"rune typed", runeKey('条'), statepkg.SearchCharAction{Char: '条'}},
		{"slash typed", runeKey('/'), statepkg.SearchCharAction{Char: '/'}},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, 0), statepkg.SearchBackspaceAction{}},
		{"ctrl-w", tcell.NewEventKey(tcell.KeyCtrlW, 0, 0), statepkg.SearchDeleteWordAction{}},
		{"ctrl-u", tcell.NewEventKey(tcell.KeyCtrlU, 0, 0), statepkg.SearchResetQueryAction{}},
		{"enter next", tcell.NewEventKey(tcell.KeyEnter, 0, 0), statepkg.SearchNextAction{}},
		{"ctrl-n next", tcell.NewEventKey(tcell.KeyCtrlN, 0, 0), statepkg.SearchNextAction{}},
		{"shift-tab previous", tcell.NewEventKey(tcell.KeyBacktab, 0, 0), statepkg.SearchPrevAction{}},
		{"up previous", tcell.NewEventKey(tcell.KeyUp, 0, 0), statepkg.SearchPrevAction{}},
		{"home first", tcell.NewEventKey(tcell.KeyHome, 0, 0), statepkg.SearchFirstAction{}},
		{"end last", tcell.NewEventKey(tcell.KeyEnd, 0, 0), statepkg.SearchLastAction{}},
		{"escape leaves input", tcell.NewEventKey(tcell.KeyEscape, 0, 0), statepkg.SearchExitInputAction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := editing
			action, _ := sendKey(t, &state, tt.ev)
			if action != tt.expect {
				t.Fatalf("Expected %#v, got %#v", tt.expect, action)
			}
		})
	}
}

func TestResizeEmitsAction(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.ProcessEvent(tcell.NewEventResize(100, 30))

	select {
	case action := <-actionChan:
		if got, ok := action.(statepkg.ResizeAction); !ok || got.Width != 100 || got.Height != 30 {
			t.Fatalf("Expected ResizeAction{100,30}, got %#v", action)
		}
	default:
		t.Fatal("Expected ResizeAction")
	}
}
