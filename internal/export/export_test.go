package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/document"
	"github.com/kk-code-lab/lawview/internal/search"
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
				Number: 12,
				Title:  "雑則",
				Articles: []document.Article{
					{Number: "2", Paragraphs: []document.Paragraph{
						{Text: `a < b & "c"`, Evidence: "<b>強調</b>", EvidenceKind: document.EvidenceBroadcast},
					}},
				},
			},
		},
	}
}

func render(t *testing.T, doc *document.Document, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, opts))
	return buf.String()
}

func TestRenderStructure(t *testing.T) {
	out := render(t, sampleDocument(), Options{})

	assert.Contains(t, out, `<title>王国基本法</title>`)
	assert.Contains(t, out, `<h1 id="law-title">王国基本法</h1>`)
	assert.Contains(t, out, `<h2 class="chapter-heading" id="chapter-1">第一章 総則</h2>`)
	assert.Contains(t, out, `<h2 class="chapter-heading" id="chapter-12">第十二章 雑則</h2>`)
	assert.Contains(t, out, `<h3 class="article-heading" id="chapter-1-article-1">第1条（目的）</h3>`)
	assert.Contains(t, out, `<h3 class="article-heading" id="chapter-12-article-2">第2条</h3>`)

	// Desktop and mobile navigation both link every chapter.
	assert.Equal(t, 2, strings.Count(out, `<a href="#chapter-1">第一章 総則</a>`))
	assert.Equal(t, 2, strings.Count(out, `<a href="#chapter-12">第十二章 雑則</a>`))

	assert.Equal(t, 3, strings.Count(out, `class="article-paragraph`))
	assert.Contains(t, out, `<span id="search-current">0/0</span>`)
	assert.Contains(t, out, `<div id="search-bar" data-mode="literal">`)
	assert.NotContains(t, out, "<mark")
}

func TestRenderAnnotations(t *testing.T) {
	out := render(t, sampleDocument(), Options{})

	assert.Contains(t, out, `<p><span>根拠</span>王令第三号</p>`)
	assert.Contains(t, out, `<p><span>王コメント</span>大事</p>`)
	assert.Contains(t, out, `<span>放送</span>&lt;b&gt;強調&lt;/b&gt;`)
	assert.Equal(t, 2, strings.Count(out, `article-paragraph annotated`))
}

func TestRenderCustomLabels(t *testing.T) {
	out := render(t, sampleDocument(), Options{Labels: config.Labels{Comment: "注"}})

	assert.Contains(t, out, `<p><span>注</span>大事</p>`)
	assert.Contains(t, out, `<p><span>根拠</span>王令第三号</p>`)
}

func TestRenderEscapesParagraphText(t *testing.T) {
	out := render(t, sampleDocument(), Options{})
	assert.Contains(t, out, `<p>a &lt; b &amp; &#34;c&#34;</p>`)
}

func TestRenderMarksQuery(t *testing.T) {
	out := render(t, sampleDocument(), Options{Query: "条"})

	assert.Contains(t, out, `<p>第一<mark class="hit current">条</mark>の定め</p>`)
	assert.Contains(t, out, `<p>第二<mark class="hit">条</mark>の規定</p>`)
	assert.Contains(t, out, `<span id="search-current">1/2</span>`)
	assert.Contains(t, out, `<div id="search-bar" class="active" data-mode="literal">`)
	assert.Contains(t, out, `value="条"`)
	assert.NotContains(t, out, `id="search-mode"`)
}

func TestRenderMarksInsideEscapedText(t *testing.T) {
	out := render(t, sampleDocument(), Options{Query: "b"})
	assert.Contains(t, out, `<p>a &lt; <mark class="hit current">b</mark> &amp; &#34;c&#34;</p>`)
	// Annotations are not searched.
	assert.Contains(t, out, `<span id="search-current">1/1</span>`)
}

func TestRenderRegexQuery(t *testing.T) {
	out := render(t, sampleDocument(), Options{Query: "第.条", Mode: search.ModeRegex})

	assert.Contains(t, out, `<p><mark class="hit current">第一条</mark>の定め</p>`)
	assert.Contains(t, out, `<span id="search-current">1/2</span>`)
	assert.Contains(t, out, `<span id="search-mode">regex</span>`)
}

func TestRenderInvalidPattern(t *testing.T) {
	out := render(t, sampleDocument(), Options{Query: "(", Mode: search.ModeRegex})

	assert.Contains(t, out, `<span id="search-current">0/0</span>`)
	assert.Contains(t, out, `<span id="search-hint">invalid pattern: missing closing )`)
	assert.NotContains(t, out, "<mark")
}

func TestRenderPinPolicy(t *testing.T) {
	out := render(t, sampleDocument(), Options{})
	assert.Contains(t, out, `<body data-pin-policy="toggle">`)

	out = render(t, sampleDocument(), Options{PinPolicy: config.PinExclusive})
	assert.Contains(t, out, `<body data-pin-policy="exclusive">`)

	out = render(t, sampleDocument(), Options{PinPolicy: "sideways"})
	assert.Contains(t, out, `<body data-pin-policy="toggle">`)
}

func TestRenderSearchScript(t *testing.T) {
	out := render(t, sampleDocument(), Options{Query: "条", Mode: search.ModeRegex})

	assert.Contains(t, out, `data-mode="regex"`)
	// Typing searches again; closing the bar removes the marks and the query.
	assert.Contains(t, out, `input.addEventListener("input", function () { search(input.value); });`)
	assert.Contains(t, out, `m.replaceWith(document.createTextNode(m.textContent));`)
	assert.Contains(t, out, `counter.textContent = "0/0";`)
	assert.Contains(t, out, "    clearMarks();\n    input.value = \"\";")
}

func TestRenderUntitled(t *testing.T) {
	doc := sampleDocument()
	doc.Title = "  "
	out := render(t, doc, Options{})
	assert.Contains(t, out, `<h1 id="law-title">無題の法律</h1>`)
}

func TestRenderNilDocument(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, Options{}))
	assert.Zero(t, buf.Len())
}
