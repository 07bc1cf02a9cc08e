package render

import (
	"slices"
	"strings"
	"testing"

	statepkg "github.com/kk-code-lab/lawview/internal/state"
)

func TestBuildFooterHelpSegments_DefaultMode(t *testing.T) {
	state := &statepkg.AppState{ClipboardAvailable: true}

	got := buildFooterHelpSegments(state)
	want := []string{
		"↑↓/Pg: scroll",
		"j/k: paragraph",
		"␣: pin",
		"/: search",
		"t: contents",
		"1-9: chapter",
		"y: yank",
		"?: help",
		"q: quit",
	}

	if !slices.Equal(got, want) {
		t.Fatalf("default help mismatch\nwant: %#v\n got: %#v", want, got)
	}
}

func TestBuildFooterHelpSegments_SearchInput(t *testing.T) {
	state := &statepkg.AppState{SearchActive: true, SearchEditing: true, ClipboardAvailable: true}

	got := buildFooterHelpSegments(state)
	if len(got) == 0 || got[0] != "type: search" {
		t.Fatalf("search input help should lead with typing, got %v", got)
	}
	if slices.Contains(got, "q: quit") || slices.Contains(got, "y: yank") {
		t.Fatalf("letters are typed into the query; no letter hints expected, got %v", got)
	}
}

func TestBuildFooterHelpSegments_SearchOpen(t *testing.T) {
	state := &statepkg.AppState{SearchActive: true}

	got := buildFooterHelpSegments(state)
	if !slices.Contains(got, "n/N: next/prev") || !slices.Contains(got, "Esc: close search") {
		t.Fatalf("open search help mismatch: %v", got)
	}
	if slices.Contains(got, "y: yank") {
		t.Fatalf("yank hint needs a clipboard")
	}
}

func TestBuildFooterHelpTextPadding(t *testing.T) {
	state := &statepkg.AppState{}

	text := buildFooterHelpText(state)
	if !strings.HasPrefix(text, " ") || !strings.HasSuffix(text, " ") {
		t.Fatalf("help text missing padding: %q", text)
	}
}
