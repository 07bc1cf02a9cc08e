//go:build windows

package app

import (
	"errors"
	"os"
)

var errSuspendUnsupported = errors.New("suspend is not supported on Windows")

// Windows has no SIGCONT; the viewer is never stopped.
func contSignals() []os.Signal {
	return nil
}

func (app *Application) suspendToShell() {
	app.state.LastError = errSuspendUnsupported
}

func (app *Application) resumeAfterStop() bool {
	return false
}
