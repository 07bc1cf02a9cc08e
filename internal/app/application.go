package app

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/document"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
	inputui "github.com/kk-code-lab/lawview/internal/ui/input"
	renderui "github.com/kk-code-lab/lawview/internal/ui/render"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lawview.app")

// LoadFunc fetches and parses a document.
type LoadFunc func(ctx context.Context, source string) (*document.Document, error)

// Options configures a viewer session.
type Options struct {
	Source string
	Doc    *document.Document
	Config config.Config
	// Query is searched for before the first frame.
	Query string

	// Screen is created with tcell.NewScreen when nil.
	Screen tcell.Screen
	// Load reloads the document; document.Load when nil.
	Load LoadFunc
}

// Application represents the running app.
type Application struct {
	screen         tcell.Screen
	state          *statepkg.AppState
	reducer        *statepkg.StateReducer
	renderer       *renderui.Renderer
	input          *inputui.InputHandler
	actionCh       chan statepkg.Action
	shouldQuit     bool
	clipboardCmd   []string
	clipboardAvail bool
	load           LoadFunc
	watcher        *FileWatcher
	lastButtons    tcell.ButtonMask
	ctx            context.Context
	cancel         context.CancelFunc
}

// Close cleans up resources.
func (app *Application) Close() error {
	if app.watcher != nil {
		app.watcher.Stop()
	}
	if app.cancel != nil {
		app.cancel()
	}
	app.screen.Fini()
	return nil
}

// State exposes the application state, mainly for tests and the CLI.
func (app *Application) State() *statepkg.AppState {
	return app.state
}
