package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/kk-code-lab/lawview/internal/search"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

const reloadNoticeDuration = 3 * time.Second

// formatSearchCounter is the "current/total" counter of the search bar,
// followed by the mode when it is not the default.
func formatSearchCounter(state *statepkg.AppState) string {
	counter := state.SearchStatus().String()
	if state.SearchMode == search.ModeRegex {
		counter += " · regex"
	}
	return counter
}

// formatSearchHint explains an empty result the user might not expect.
func formatSearchHint(state *statepkg.AppState) string {
	if state.Engine == nil {
		return ""
	}
	return search.PatternHint(state.Engine.Err())
}

// formatPositionStatus summarises where the viewport is and what is pinned.
func formatPositionStatus(state *statepkg.AppState) string {
	var parts []string
	if state.Doc != nil {
		if active := state.ActiveChapter(); active >= 0 && active < len(state.Doc.Chapters) {
			parts = append(parts, state.Doc.Chapters[active].Heading())
		}
	}
	if n := state.PinnedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d pinned", n))
	}
	if !state.LastReload.IsZero() && time.Since(state.LastReload) < reloadNoticeDuration {
		parts = append(parts, "reloaded")
	}
	return strings.Join(parts, " · ")
}
