package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/search"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

func TestTruncateTextToWidth(t *testing.T) {
	r := NewRenderer(nil)

	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{
			name:   "fits without truncation",
			text:   "第1条",
			width:  20,
			expect: "第1条",
		},
		{
			name:   "adds ellipsis when needed",
			text:   "verylongname",
			width:  6,
			expect: "veryl…",
		},
		{
			name:   "only ellipsis when width too small",
			text:   "example",
			width:  1,
			expect: "…",
		},
		{
			name:   "multi-byte characters respected",
			text:   "王国基本法",
			width:  5,
			expect: "王国…",
		},
		{
			name:   "returns empty when width is zero",
			text:   "anything",
			width:  0,
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := r.truncateTextToWidth(tt.text, tt.width)
			if actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil)

	if got := r.measureTextWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}

	if got := r.measureTextWidth("条文"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func TestTailTextToWidthKeepsEnd(t *testing.T) {
	r := NewRenderer(nil)
	if got := r.tailTextToWidth("abcdef", 3); got != "def" {
		t.Fatalf("tailTextToWidth = %q", got)
	}
	if got := r.tailTextToWidth("第一条", 5); got != "一条" {
		t.Fatalf("tailTextToWidth wide = %q", got)
	}
}

func TestComputeLayoutFollowsState(t *testing.T) {
	r := NewRenderer(nil)
	state := newTestState(t, 80, 24)

	m := r.computeLayout(80, 24, state)
	if m.separatorX != 24 || m.sidebarWidth != 24 || m.contentLeft != 26 {
		t.Fatalf("unexpected sidebar geometry: %+v", m)
	}
	if m.searchBarRow != -1 || m.tocRows() != 22 {
		t.Fatalf("closed search bar: %+v tocRows=%d", m, m.tocRows())
	}

	mustReduce(t, state, statepkg.SearchToggleAction{}, statepkg.ToggleTOCAction{})
	m = r.computeLayout(80, 24, state)
	if m.separatorX != -1 || m.contentLeft != 1 {
		t.Fatalf("hidden TOC should free the columns: %+v", m)
	}
	if m.searchBarRow != 22 || m.contentRows != 21 {
		t.Fatalf("open search bar: %+v", m)
	}
}

func TestRenderDrawsDocument(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	state := newTestState(t, 80, 24)

	NewRenderer(screen).Render(state)

	if got := screenLine(screen, 0); got != "lawview 王国基本法" {
		t.Fatalf("header = %q", got)
	}
	if got := screenLine(screen, 1); !strings.HasPrefix(got, " 第一章 総則") || !strings.HasSuffix(got, "王国基本法") {
		t.Fatalf("first row should hold the TOC entry and the title, got %q", got)
	}
	if got := screenLine(screen, 3); !strings.HasSuffix(got, "│ 第一章 総則") {
		t.Fatalf("chapter heading row = %q", got)
	}
	if got := screenLine(screen, 6); !strings.HasSuffix(got, "│   第一条の定め") {
		t.Fatalf("paragraph row = %q", got)
	}
	if got := screenLine(screen, 7); !strings.HasSuffix(got, "│  *第二条の規定") {
		t.Fatalf("annotated paragraph should carry a marker, got %q", got)
	}

	_, _, style, _ := screen.GetContent(0, 1)
	theme := GetColorTheme()
	want := tcell.StyleDefault.Background(theme.SidebarActiveBg).Foreground(theme.SidebarActiveFg)
	if style != want {
		t.Fatalf("active chapter should be highlighted, got %v", style)
	}
	_, _, style, _ = screen.GetContent(0, 2)
	if style == want {
		t.Fatalf("inactive chapter should not be highlighted")
	}
}

func TestRenderHighlightsMatches(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	state := newTestState(t, 80, 24)
	mustReduce(t, state, statepkg.SearchToggleAction{})
	typeQuery(t, state, "条")

	NewRenderer(screen).Render(state)
	theme := GetColorTheme()

	// "第一" is two wide runes, so the match starts four columns into the text.
	x := state.ContentLeft() + statepkg.ParagraphIndent + 4
	mainc, _, style, _ := screen.GetContent(x, 6)
	currentStyle := tcell.StyleDefault.Background(theme.CurrentHitBg).Foreground(theme.CurrentHitFg).Bold(true)
	if mainc != '条' || style != currentStyle {
		t.Fatalf("current match: rune %q style %v", mainc, style)
	}
	mainc, _, style, _ = screen.GetContent(x, 7)
	hitStyle := tcell.StyleDefault.Background(theme.HitBg).Foreground(theme.HitFg)
	if mainc != '条' || style != hitStyle {
		t.Fatalf("other match: rune %q style %v", mainc, style)
	}

	bar := screenLine(screen, state.SearchBarRow())
	if !strings.HasPrefix(bar, "/条") || !strings.HasSuffix(bar, "1/2") {
		t.Fatalf("search bar = %q", bar)
	}

	mustReduce(t, state, statepkg.SearchNextAction{})
	NewRenderer(screen).Render(state)
	if _, _, style, _ = screen.GetContent(x, 7); style != currentStyle {
		t.Fatalf("next should move the current marker")
	}
	if bar := screenLine(screen, state.SearchBarRow()); !strings.HasSuffix(bar, "2/2") {
		t.Fatalf("counter after next = %q", bar)
	}
}

func TestRenderDrawsParagraphTabsAsBlankCells(t *testing.T) {
	doc := sampleDocument()
	doc.Chapters[1].Articles[0].Paragraphs[0].Text = "a\tbc"
	state := statepkg.NewAppState("test.json", doc, config.Default())
	state.ScreenWidth, state.ScreenHeight = 80, 24
	mustReduce(t, state, statepkg.SearchToggleAction{})
	typeQuery(t, state, "bc")

	screen := newSimScreen(t, 80, 24)
	NewRenderer(screen).Render(state)

	w, h := screen.Size()
	row := -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mainc, _, _, _ := screen.GetContent(x, y); mainc == '\t' {
				t.Fatalf("tab drawn at (%d,%d)", x, y)
			}
		}
		if strings.HasSuffix(screenLine(screen, y), "│   a bc") {
			row = y
		}
	}
	if row < 0 {
		t.Fatalf("paragraph row not found:\n%s", screenText(screen))
	}

	x := state.ContentLeft() + statepkg.ParagraphIndent
	theme := GetColorTheme()
	currentStyle := tcell.StyleDefault.Background(theme.CurrentHitBg).Foreground(theme.CurrentHitFg).Bold(true)
	if mainc, _, _, _ := screen.GetContent(x+1, row); mainc != ' ' {
		t.Fatalf("tab cell holds %q", mainc)
	}
	if mainc, _, style, _ := screen.GetContent(x+2, row); mainc != 'b' || style != currentStyle {
		t.Fatalf("match after tab: rune %q style %v", mainc, style)
	}
}

func TestWritePlainReplacesParagraphTabs(t *testing.T) {
	doc := sampleDocument()
	doc.Chapters[1].Articles[0].Paragraphs[0].Text = "a\tb"
	state := statepkg.NewAppState("test.json", doc, config.Default())
	state.ScreenWidth, state.ScreenHeight = 40, 24
	state.TOCVisible = false

	var buf bytes.Buffer
	if err := WritePlain(&buf, state, false); err != nil {
		t.Fatalf("WritePlain: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n  a b\n") {
		t.Fatalf("WritePlain = %q", buf.String())
	}
}

func TestRenderShowsInvalidPatternHint(t *testing.T) {
	screen := newSimScreen(t, 120, 24)
	state := newTestState(t, 120, 24)
	mustReduce(t, state, statepkg.SearchToggleModeAction{}, statepkg.SearchToggleAction{})
	typeQuery(t, state, "(")

	NewRenderer(screen).Render(state)
	bar := screenLine(screen, state.SearchBarRow())
	if !strings.Contains(bar, "invalid pattern") || !strings.HasSuffix(bar, "0/0 · regex") {
		t.Fatalf("search bar = %q", bar)
	}
}

func TestRenderPinnedAnnotations(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	state := newTestState(t, 80, 24)
	mustReduce(t, state, statepkg.PinAction{Paragraph: 1})

	NewRenderer(screen).Render(state)
	text := screenText(screen)
	if !strings.Contains(text, "根拠 王令第三号") || !strings.Contains(text, "王コメント 大事") {
		t.Fatalf("pinned panel missing:\n%s", text)
	}
	if !strings.Contains(text, "1 pinned") {
		t.Fatalf("status line should count pins:\n%s", text)
	}
}

func TestRenderStatusLineShowsError(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	state := newTestState(t, 80, 24)
	state.LastError = errors.New("reload failed: boom")

	NewRenderer(screen).Render(state)
	if got := screenLine(screen, 23); !strings.HasPrefix(got, " reload failed: boom") {
		t.Fatalf("status line = %q", got)
	}
}

func TestRenderHelpOverlay(t *testing.T) {
	screen := newSimScreen(t, 80, 30)
	state := newTestState(t, 80, 30)
	mustReduce(t, state, statepkg.HelpToggleAction{})

	NewRenderer(screen).Render(state)
	if got := screenLine(screen, 0); strings.TrimSpace(got) != "Help" {
		t.Fatalf("help title = %q", got)
	}
	if !strings.Contains(screenText(screen), "Jump to chapter") {
		t.Fatalf("help body missing")
	}
}

func TestWritePlain(t *testing.T) {
	state := newTestState(t, 40, 24)
	state.TOCVisible = false
	mustReduce(t, state, statepkg.PinAction{Paragraph: 1})

	var buf bytes.Buffer
	if err := WritePlain(&buf, state, false); err != nil {
		t.Fatalf("WritePlain: %v", err)
	}
	want := strings.Join([]string{
		"王国基本法",
		"",
		"第一章 総則",
		"",
		"第1条（目的）",
		"  第一条の定め",
		" *第二条の規定",
		"    根拠 王令第三号",
		"    王コメント 大事",
		"",
		"第二章 雑則",
		"",
		"第2条",
		"  plain words here",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("WritePlain:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWritePlainKeepsMarks(t *testing.T) {
	state := newTestState(t, 40, 24)
	mustReduce(t, state, statepkg.SearchToggleAction{})
	typeQuery(t, state, "words")

	var buf bytes.Buffer
	if err := WritePlain(&buf, state, true); err != nil {
		t.Fatalf("WritePlain: %v", err)
	}
	want := "  plain " + search.TerminalCurrentOn + "words" + search.TerminalCurrentOff + " here\n"
	if !strings.HasSuffix(buf.String(), want) {
		t.Fatalf("marked line missing, got %q", buf.String())
	}
}
