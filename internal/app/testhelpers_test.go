package app

import (
	"context"
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/document"
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
						{Text: "第二条の規定", Evidence: "王令第三号", EvidenceKind: document.EvidenceCited},
					}},
				},
			},
			{
				Number: 2,
				Title:  "雑則",
				Articles: []document.Article{
					{Number: "2", Paragraphs: []document.Paragraph{{Text: "plain words here"}}},
				},
			},
		},
	}
}

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	return tcell.NewSimulationScreen("UTF-8")
}

func newTestApplication(t *testing.T, load LoadFunc) *Application {
	t.Helper()
	if load == nil {
		load = func(context.Context, string) (*document.Document, error) {
			return nil, errors.New("no loader in this test")
		}
	}
	app, err := NewApplication(Options{
		Source: "test.json",
		Doc:    sampleDocument(),
		Config: config.Default(),
		Screen: newTestScreen(t),
		Load:   load,
	})
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}
