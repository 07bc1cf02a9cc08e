package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/document"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

func sampleDocument() *document.Document {
	return &document.Document{
		Title: "王国基本法",
		Chapters: []document.Chapter{
			{
				Number: 1,
				Title:  "総則",
				Articles: []document.Article{
					{Number: "1", Title: "目的", Paragraphs: []document.Paragraph{
						{Text: "第一条の定め"},
						{Text: "第二条の規定", Evidence: "王令第三号", EvidenceKind: document.EvidenceCited, Comment: "大事"},
					}},
				},
			},
			{
				Number: 2,
				Title:  "雑則",
				Articles: []document.Article{
					{Number: "2", Paragraphs: []document.Paragraph{
						{Text: "plain words here"},
					}},
				},
			},
		},
	}
}

func newTestState(t *testing.T, w, h int) *statepkg.AppState {
	t.Helper()
	s := statepkg.NewAppState("test.json", sampleDocument(), config.Default())
	s.ScreenWidth = w
	s.ScreenHeight = h
	s.EnsureLayout()
	return s
}

func mustReduce(t *testing.T, s *statepkg.AppState, actions ...statepkg.Action) {
	t.Helper()
	r := statepkg.NewStateReducer()
	for _, a := range actions {
		if _, err := r.Reduce(s, a); err != nil {
			t.Fatalf("Reduce(%T) failed: %v", a, err)
		}
	}
}

func typeQuery(t *testing.T, s *statepkg.AppState, query string) {
	t.Helper()
	for _, ch := range query {
		mustReduce(t, s, statepkg.SearchCharAction{Char: ch})
	}
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("initializing simulation screen failed: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

// screenLine reads row y back as text, skipping the trailing cell of wide
// runes.
func screenLine(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; {
		mainc, _, _, width := s.GetContent(x, y)
		if mainc == 0 {
			mainc = ' '
		}
		b.WriteRune(mainc)
		if width < 1 {
			width = 1
		}
		x += width
	}
	return strings.TrimRight(b.String(), " ")
}

func screenText(s tcell.SimulationScreen) string {
	_, h := s.Size()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = screenLine(s, y)
	}
	return strings.Join(lines, "\n")
}
