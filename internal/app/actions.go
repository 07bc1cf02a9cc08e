package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kk-code-lab/lawview/internal/document"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

var (
	errNoClipboard = errors.New("no clipboard command available")
	errNoFocus     = errors.New("no paragraph focused")
)

// yankText is what y copies: the location line and the paragraph text.
func yankText(state *statepkg.AppState) (string, bool) {
	if state.Doc == nil || state.FocusIndex < 0 || state.FocusIndex >= len(state.Refs) {
		return "", false
	}
	ref := state.Refs[state.FocusIndex]
	_, _, p := state.Doc.Resolve(ref)
	if p == nil {
		return "", false
	}
	return state.Doc.Locator(ref) + "\n" + p.Text, true
}

func (app *Application) handleClipboard() bool {
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		app.state.LastError = errNoClipboard
		return true
	}
	text, ok := yankText(app.state)
	if !ok {
		app.state.LastError = errNoFocus
		return true
	}

	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		app.state.LastError = fmt.Errorf("clipboard %s: %w", app.clipboardCmd[0], err)
		log.Errorf("%s", app.state.LastError)
		return true
	}
	app.state.LastError = nil
	app.state.LastYankTime = time.Now()
	return true
}

// requestReload loads the document again off the event loop and posts the
// outcome back as an action.
func (app *Application) requestReload() {
	source := app.state.Source
	load := app.load
	ctx := app.ctx
	go func() {
		doc, err := load(ctx, source)
		if ctx.Err() != nil {
			return
		}
		var action statepkg.Action
		if err != nil {
			action = statepkg.ReloadFailedAction{Err: err}
		} else {
			action = statepkg.ReloadAction{Doc: doc}
		}
		select {
		case app.actionCh <- action:
		case <-ctx.Done():
		}
	}()
}

// startWatcher reloads the document whenever its file changes. Remote
// sources are not watched.
func (app *Application) startWatcher() error {
	if document.IsRemote(app.state.Source) {
		log.Infof("not watching remote document %s", app.state.Source)
		return nil
	}
	w, err := WatchFile(app.state.Source, reloadDebounce, func() {
		select {
		case app.actionCh <- statepkg.ReloadRequestAction{}:
		case <-app.ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	app.watcher = w
	return nil
}
