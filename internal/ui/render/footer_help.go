package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := contextualHelpSegments(state)
	segments = append(segments, persistentHelpSegments(state)...)

	return segments
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	switch {
	case state.SearchEditing:
		return []string{
			"type: search",
			"↵/^N: next",
			"⇧Tab/^P: prev",
			"Home/End: first/last",
			"^R: regex",
			"Esc: leave input",
		}
	case state.SearchActive:
		return []string{
			"n/N: next/prev",
			"g/G: first/last",
			"/: edit query",
			"Esc: close search",
		}
	default:
		return []string{
			"↑↓/Pg: scroll",
			"j/k: paragraph",
			"␣: pin",
			"/: search",
			"t: contents",
			"1-9: chapter",
		}
	}
}

func persistentHelpSegments(state *statepkg.AppState) []string {
	if state == nil || state.SearchEditing {
		return nil
	}

	segments := []string{}
	if state.ClipboardAvailable {
		segments = append(segments, "y: yank")
	}
	segments = append(segments, "?: help", "q: quit")
	return segments
}
