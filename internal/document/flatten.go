package document

import "fmt"

// ParagraphRef locates one paragraph in document order.
type ParagraphRef struct {
	Chapter   int // index into Document.Chapters
	Article   int // index into Chapter.Articles
	Paragraph int // index into Article.Paragraphs
}

// Flatten lists every paragraph in document order. The position of a ref in
// the returned slice is the paragraph's search index.
func Flatten(doc *Document) []ParagraphRef {
	if doc == nil {
		return nil
	}
	refs := make([]ParagraphRef, 0, doc.ParagraphCount())
	for ci, ch := range doc.Chapters {
		for ai, art := range ch.Articles {
			for pi := range art.Paragraphs {
				refs = append(refs, ParagraphRef{Chapter: ci, Article: ai, Paragraph: pi})
			}
		}
	}
	return refs
}

// ParagraphCount returns the number of paragraphs across all chapters.
func (d *Document) ParagraphCount() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, ch := range d.Chapters {
		for _, art := range ch.Articles {
			total += len(art.Paragraphs)
		}
	}
	return total
}

// Resolve returns the chapter, article and paragraph a ref points at.
func (d *Document) Resolve(ref ParagraphRef) (*Chapter, *Article, *Paragraph) {
	ch := &d.Chapters[ref.Chapter]
	art := &ch.Articles[ref.Article]
	return ch, art, &art.Paragraphs[ref.Paragraph]
}

// Locator formats a short human label such as "第二章 第5条 第1項".
func (d *Document) Locator(ref ParagraphRef) string {
	ch, art, _ := d.Resolve(ref)
	return fmt.Sprintf("第%s章 第%s条 第%d項", KanjiNumber(ch.Number), art.Number, ref.Paragraph+1)
}
