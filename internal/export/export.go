// Package export writes a document as a standalone HTML page with a table of
// contents, annotation panels and the search controls, optionally with the
// matches of a query already marked.
package export

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/tliron/commonlog"

	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/document"
	"github.com/kk-code-lab/lawview/internal/search"
)

var log = commonlog.GetLogger("lawview.export")

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

// Options controls what the page shows besides the document itself.
type Options struct {
	// Query pre-marks its matches and opens the search bar. Empty leaves
	// the page unmarked.
	Query string
	Mode  search.Mode
	// Labels caption the annotation panels. Zero fields use the defaults.
	Labels config.Labels
	// PinPolicy decides what clicking a paragraph does to the other pinned
	// panels. Empty means toggle.
	PinPolicy config.PinPolicy
}

type page struct {
	Title     string
	PinPolicy config.PinPolicy
	Chapters  []chapterView
	Search    searchView
}

type searchView struct {
	Active bool
	Query  string
	Status string
	Mode   string
	Regex  bool
	Hint   string
}

type chapterView struct {
	Anchor   string
	Heading  string
	Articles []articleView
}

type articleView struct {
	Anchor     string
	Heading    string
	Paragraphs []paragraphView
}

type paragraphView struct {
	Index  int
	Markup template.HTML
	Notes  []noteView
}

type noteView struct {
	Label string
	Text  string
}

// paragraphNode receives the engine's markup for one paragraph. The markup
// is built from escaped text, so it is trusted as HTML.
type paragraphNode struct {
	markup string
}

func (n *paragraphNode) SetMarkup(markup string) { n.markup = markup }

// Render writes the HTML page for doc to w.
func Render(w io.Writer, doc *document.Document, opts Options) error {
	if doc == nil {
		return errors.New("no document to export")
	}
	labels := withDefaultLabels(opts.Labels)

	refs := document.Flatten(doc)
	nodes := make([]*paragraphNode, len(refs))
	records := make([]search.Record, len(refs))
	for i, ref := range refs {
		_, _, p := doc.Resolve(ref)
		nodes[i] = &paragraphNode{markup: search.HTMLMarkup{}.Escape(p.Text)}
		records[i] = search.Record{Text: p.Text, Node: nodes[i]}
	}

	engine := search.NewEngine(records, search.WithMarkup(search.HTMLMarkup{}), search.WithMode(opts.Mode))
	sv := searchView{
		Active: opts.Query != "",
		Query:  opts.Query,
		Mode:   opts.Mode.String(),
		Regex:  opts.Mode == search.ModeRegex,
	}
	if opts.Query != "" {
		engine.Search(opts.Query)
		if err := engine.Err(); err != nil {
			sv.Hint = search.PatternHint(err)
		}
		log.Infof("export query %q: %s", opts.Query, engine.Status())
	}
	sv.Status = engine.Status().String()

	policy := opts.PinPolicy
	if policy != config.PinExclusive {
		policy = config.PinToggle
	}
	pg := page{
		Title:     doc.DisplayTitle(),
		PinPolicy: policy,
		Chapters:  make([]chapterView, 0, len(doc.Chapters)),
		Search:    sv,
	}
	idx := 0
	for _, ch := range doc.Chapters {
		cv := chapterView{Anchor: ch.Anchor(), Heading: ch.Heading()}
		for _, art := range ch.Articles {
			av := articleView{Anchor: document.ArticleAnchor(ch, art), Heading: art.Heading()}
			for _, p := range art.Paragraphs {
				av.Paragraphs = append(av.Paragraphs, paragraphView{
					Index:  idx,
					Markup: template.HTML(nodes[idx].markup),
					Notes:  notes(p, labels),
				})
				idx++
			}
			cv.Articles = append(cv.Articles, av)
		}
		pg.Chapters = append(pg.Chapters, cv)
	}

	bw := bufio.NewWriter(w)
	if err := pageTemplate.Execute(bw, pg); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	log.Debugf("exported %d chapters, %d paragraphs", len(doc.Chapters), len(refs))
	return nil
}

func notes(p document.Paragraph, labels config.Labels) []noteView {
	var out []noteView
	if p.Evidence != "" {
		label := labels.Evidence
		if p.EvidenceKind == document.EvidenceBroadcast {
			label = labels.Broadcast
		}
		out = append(out, noteView{Label: label, Text: p.Evidence})
	}
	if p.Comment != "" {
		out = append(out, noteView{Label: labels.Comment, Text: p.Comment})
	}
	return out
}

func withDefaultLabels(l config.Labels) config.Labels {
	def := config.Default().Labels
	if l.Evidence == "" {
		l.Evidence = def.Evidence
	}
	if l.Broadcast == "" {
		l.Broadcast = def.Broadcast
	}
	if l.Comment == "" {
		l.Comment = def.Comment
	}
	return l
}
