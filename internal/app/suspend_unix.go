//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

// contSignals are delivered when the shell resumes a stopped viewer.
func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	_ = app.screen.Suspend()
	// Stop only this process, not the whole process group.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

// resumeAfterStop takes the terminal back and re-wraps the document for the
// size the terminal has now.
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		log.Warningf("resume: %s", err)
		return false
	}
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		if _, err := app.reducer.Reduce(app.state, statepkg.ResizeAction{Width: w, Height: h}); err != nil {
			app.state.LastError = err
		}
	}
	return true
}
