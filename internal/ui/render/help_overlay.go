package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/lawview/internal/config"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
	textutil "github.com/kk-code-lab/lawview/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	pinDesc := "Pin / unpin the focused paragraph"
	outsideDesc := "Close search"
	if state != nil && state.PinPolicy == config.PinExclusive {
		pinDesc = "Show only the focused paragraph's notes"
		outsideDesc = "Close search, or unpin all"
	}

	sections := []helpOverlaySection{
		{
			title: "Reading",
			entries: []helpOverlayEntry{
				{keys: "↑/↓", desc: "Scroll one line"},
				{keys: "PgUp/PgDn", desc: "Scroll one page"},
				{keys: "Home/End", desc: "Top / bottom of the document"},
				{keys: "j/k", desc: "Focus next / previous paragraph"},
				{keys: "Space or ↵", desc: pinDesc},
				{keys: "u", desc: "Unpin all paragraphs"},
				{keys: "Esc", desc: outsideDesc},
			},
		},
		{
			title: "Contents",
			entries: []helpOverlayEntry{
				{keys: "t or Tab", desc: "Show / hide the table of contents"},
				{keys: "1-9", desc: "Jump to chapter"},
			},
		},
		{
			title: "Search",
			entries: []helpOverlayEntry{
				{keys: "/", desc: "Open the search bar"},
				{keys: "s", desc: "Toggle search (closing clears it)"},
				{keys: "↵ or ^N", desc: "Next match (in the search bar)"},
				{keys: "⇧Tab or ^P", desc: "Previous match (in the search bar)"},
				{keys: "n/N", desc: "Next / previous match"},
				{keys: "g/G", desc: "First / last match"},
				{keys: "^W / ^U", desc: "Delete word / clear query"},
				{keys: "^R", desc: "Switch literal / regex matching"},
			},
		},
		{
			title: "Actions",
			entries: []helpOverlayEntry{
				{keys: "y", desc: "Yank focused paragraph to clipboard"},
				{keys: "r or ^L", desc: "Reload the document"},
				{keys: "^Z", desc: "Suspend"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 40)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillRow(0, w, y, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		style := baseStyle
		if !strings.HasPrefix(line, " ") {
			style = style.Bold(true)
		}
		r.drawTextLine(2, row, w-4, text, style)
		row++
	}

	footer := "? toggle · Esc/q close"
	if h > 0 {
		footerText := r.truncateTextToWidth(footer, w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
