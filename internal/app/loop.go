package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/lawview/internal/document"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
	"github.com/kk-code-lab/lawview/internal/ui/input"
	renderui "github.com/kk-code-lab/lawview/internal/ui/render"
)

const wheelStep = 3

func NewApplication(opts Options) (*Application, error) {
	if opts.Doc == nil {
		return nil, fmt.Errorf("no document to view")
	}

	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	load := opts.Load
	if load == nil {
		load = document.Load
	}

	clipboardCmd, clipboardAvail := detectClipboard()

	state := statepkg.NewAppState(opts.Source, opts.Doc, opts.Config)
	state.ClipboardAvailable = clipboardAvail
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h
	state.EnsureLayout()

	actionCh := make(chan statepkg.Action, 10)
	inputHandler := input.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		screen:         screen,
		state:          state,
		reducer:        statepkg.NewStateReducer(),
		renderer:       renderui.NewRenderer(screen),
		input:          inputHandler,
		actionCh:       actionCh,
		clipboardCmd:   clipboardCmd,
		clipboardAvail: clipboardAvail,
		load:           load,
		ctx:            ctx,
		cancel:         cancel,
	}

	if opts.Query != "" {
		if _, err := app.reducer.Reduce(state, statepkg.SearchSetQueryAction{Query: opts.Query}); err != nil {
			state.LastError = err
		}
	}

	if opts.Config.Watch {
		if err := app.startWatcher(); err != nil {
			// The viewer is still useful without live reload.
			log.Errorf("watch %s: %s", opts.Source, err)
			state.LastError = err
		}
	}
	return app, nil
}

func (app *Application) Run() {
	defer app.screen.Fini()

	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	const animationInterval = 50 * time.Millisecond
	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			if !animationTimer.Stop() {
				select {
				case <-animationTimer.C:
				default:
				}
			}
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if app.shouldAnimate() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopAnimation()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		app.screen.Sync()
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps wheel motion to scrolling and primary clicks to TOC
// jumps, paragraph pins and outside selections.
func (app *Application) handleMouse(ev *tcell.EventMouse) {
	if app.state == nil || app.state.HelpVisible {
		return
	}
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && app.lastButtons&tcell.Button1 == 0
	app.lastButtons = buttons

	switch {
	case buttons&tcell.WheelUp != 0:
		app.actionCh <- statepkg.ScrollByAction{Lines: -wheelStep}
		return
	case buttons&tcell.WheelDown != 0:
		app.actionCh <- statepkg.ScrollByAction{Lines: wheelStep}
		return
	case !pressed:
		return
	}

	x, y := ev.Position()
	if y < app.state.ContentTop() {
		return
	}

	if sw := app.state.SidebarWidth(); sw > 0 && x < sw {
		app.handleSidebarClick(y)
		return
	}

	row := app.state.RowAt(y)
	if row < 0 {
		return
	}
	l := app.state.EnsureLayout()
	switch r := l.Rows[row]; r.Kind {
	case statepkg.RowParagraph, statepkg.RowAnnotation:
		app.actionCh <- statepkg.PinAction{Paragraph: r.Paragraph}
	default:
		app.actionCh <- statepkg.SelectOutsideAction{}
	}
}

func (app *Application) handleSidebarClick(y int) {
	rows := app.state.ContentRows()
	idx := y - app.state.ContentTop()
	if idx < 0 || idx >= rows {
		return
	}
	entries := app.state.TOCEntries()
	idx += app.state.TOCScroll(rows)
	if idx >= len(entries) {
		return
	}
	app.actionCh <- statepkg.JumpToChapterAction{Chapter: entries[idx].Chapter}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) shouldAnimate() bool {
	if app.state == nil || app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < 100*time.Millisecond
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.YankParagraphAction:
		return app.handleClipboard()
	case statepkg.ReloadRequestAction:
		app.requestReload()
		return false
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}
