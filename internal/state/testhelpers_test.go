package state

import (
	"fmt"
	"strings"
	"testing"

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
						{Text: "第二条の規定", Evidence: "王令第三号", EvidenceKind: document.EvidenceCited, Comment: "大事"},
					}},
				},
			},
			{
				Number: 2,
				Title:  "雑則",
				Articles: []document.Article{
					{Number: "2", Paragraphs: []document.Paragraph{
						{Text: "plain words here", Evidence: "broadcast 7", EvidenceKind: document.EvidenceBroadcast},
					}},
				},
			},
		},
	}
}

// longDocument has chapters chapters of articles articles with one short
// paragraph each.
func longDocument(chapters, articles int) *document.Document {
	doc := &document.Document{Title: "long"}
	for c := 1; c <= chapters; c++ {
		ch := document.Chapter{Number: c, Title: fmt.Sprintf("chapter %d", c)}
		for a := 1; a <= articles; a++ {
			ch.Articles = append(ch.Articles, document.Article{
				Number:     document.ArticleNumber(fmt.Sprint((c-1)*articles + a)),
				Paragraphs: []document.Paragraph{{Text: fmt.Sprintf("text %d-%d", c, a)}},
			})
		}
		doc.Chapters = append(doc.Chapters, ch)
	}
	return doc
}

func newTestState(t *testing.T, doc *document.Document) *AppState {
	t.Helper()
	s := NewAppState("test.json", doc, config.Default())
	s.ScreenWidth = 80
	s.ScreenHeight = 24
	s.EnsureLayout()
	return s
}

func mustReduce(t *testing.T, r *StateReducer, s *AppState, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		if _, err := r.Reduce(s, a); err != nil {
			t.Fatalf("Reduce(%T) failed: %v", a, err)
		}
	}
}

func typeQuery(t *testing.T, r *StateReducer, s *AppState, query string) {
	t.Helper()
	for _, ch := range query {
		mustReduce(t, r, s, SearchCharAction{Char: ch})
	}
}

func rowTexts(s *AppState) []string {
	l := s.EnsureLayout()
	out := make([]string, len(l.Rows))
	for i, row := range l.Rows {
		if row.Kind == RowParagraph {
			out[i] = s.Nodes[row.Paragraph].Text()[row.Start:row.End]
			continue
		}
		out[i] = strings.TrimSpace(row.Label + " " + row.Text)
	}
	return out
}
