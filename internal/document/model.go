package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UntitledTitle is shown when the document carries no title.
const UntitledTitle = "無題の法律"

// Document is a decoded legal document: chapters → articles → paragraphs.
type Document struct {
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// UnmarshalJSON tolerates a title that is not a string; DisplayTitle then
// falls back to the placeholder.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title    json.RawMessage `json:"title"`
		Chapters []Chapter       `json:"chapters"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Document{Title: optionalString(raw.Title), Chapters: raw.Chapters}
	return nil
}

// Chapter groups articles under a numbered heading.
type Chapter struct {
	Number   int       `json:"chapterNumber"`
	Title    string    `json:"chapterTitle"`
	Articles []Article `json:"articles"`
}

// Article is a numbered provision made of paragraphs.
type Article struct {
	Number     ArticleNumber `json:"articleNumber"`
	Title      string        `json:"articleTitle"`
	Paragraphs []Paragraph   `json:"paragraphs"`
}

// UnmarshalJSON drops a chapterTitle that is not a string.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	type plain Chapter
	var raw struct {
		plain
		Title json.RawMessage `json:"chapterTitle"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Chapter(raw.plain)
	c.Title = optionalString(raw.Title)
	return nil
}

// UnmarshalJSON drops an articleTitle that is not a string.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	var raw struct {
		plain
		Title json.RawMessage `json:"articleTitle"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Article(raw.plain)
	a.Title = optionalString(raw.Title)
	return nil
}

// ArticleNumber accepts both JSON numbers and strings ("3の2").
type ArticleNumber string

func (n *ArticleNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ArticleNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("articleNumber: %w", err)
	}
	*n = ArticleNumber(num.String())
	return nil
}

func (n ArticleNumber) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(string(n)); err == nil {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// EvidenceKind records which JSON field the evidence annotation came from.
// Document variants name the field differently and label it differently.
type EvidenceKind int

const (
	EvidenceNone EvidenceKind = iota
	EvidenceCited
	EvidenceBroadcast
)

// Paragraph is the smallest addressable unit of document text.
type Paragraph struct {
	Text         string
	Evidence     string
	EvidenceKind EvidenceKind
	Comment      string
}

type paragraphJSON struct {
	Text        string `json:"text"`
	Evidence    string `json:"evidence,omitempty"`
	Broadcast   string `json:"broadcast,omitempty"`
	KingComment string `json:"kingComment,omitempty"`
}

// lenientParagraphJSON decodes the optional fields without type checks; a
// value of the wrong type is dropped instead of failing the document.
type lenientParagraphJSON struct {
	Text        json.RawMessage `json:"text"`
	Evidence    json.RawMessage `json:"evidence"`
	Broadcast   json.RawMessage `json:"broadcast"`
	KingComment json.RawMessage `json:"kingComment"`
}

// optionalString returns the string held by raw, or "" when raw is missing,
// null or not a string.
func optionalString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// UnmarshalJSON accepts a bare string (legacy form) or an object with text
// and optional annotations.
func (p *Paragraph) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = Paragraph{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &p.Text)
	}

	var raw lenientParagraphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Text = optionalString(raw.Text)
	p.Comment = optionalString(raw.KingComment)
	if evidence := optionalString(raw.Evidence); evidence != "" {
		p.Evidence = evidence
		p.EvidenceKind = EvidenceCited
	} else if broadcast := optionalString(raw.Broadcast); broadcast != "" {
		p.Evidence = broadcast
		p.EvidenceKind = EvidenceBroadcast
	}
	return nil
}

func (p Paragraph) MarshalJSON() ([]byte, error) {
	if !p.HasAnnotations() {
		return json.Marshal(p.Text)
	}
	raw := paragraphJSON{Text: p.Text, KingComment: p.Comment}
	if p.EvidenceKind == EvidenceBroadcast {
		raw.Broadcast = p.Evidence
	} else {
		raw.Evidence = p.Evidence
	}
	return json.Marshal(raw)
}

// HasAnnotations reports whether the paragraph has an auxiliary panel to show.
func (p Paragraph) HasAnnotations() bool {
	return p.Evidence != "" || p.Comment != ""
}

// DisplayTitle returns the title or the untitled placeholder.
func (d *Document) DisplayTitle() string {
	if d == nil || strings.TrimSpace(d.Title) == "" {
		return UntitledTitle
	}
	return d.Title
}

// Heading formats "第三章 総則".
func (c Chapter) Heading() string {
	label := "第" + KanjiNumber(c.Number) + "章"
	if c.Title == "" {
		return label
	}
	return label + " " + c.Title
}

// Anchor is the in-page id of the chapter heading.
func (c Chapter) Anchor() string {
	return "chapter-" + strconv.Itoa(c.Number)
}

// Heading formats "第5条（目的）".
func (a Article) Heading() string {
	label := "第" + string(a.Number) + "条"
	if a.Title == "" {
		return label
	}
	return label + "（" + a.Title + "）"
}

// ArticleAnchor is the in-page id of an article heading inside chapter c.
func ArticleAnchor(c Chapter, a Article) string {
	return c.Anchor() + "-article-" + string(a.Number)
}
