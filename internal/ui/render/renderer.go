package render

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/lawview/internal/document"
	"github.com/kk-code-lab/lawview/internal/search"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
	textutil "github.com/kk-code-lab/lawview/internal/textutil"
)

const (
	appName      = "lawview"
	focusMarker  = '>'
	noteMarker   = '*'
	searchPrompt = "/"
	yankFlash    = 100 * time.Millisecond
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if state == nil {
		r.screen.Show()
		return
	}
	if state.HelpVisible {
		r.screen.HideCursor()
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	state.EnsureLayout()
	m := r.computeLayout(w, h, state)

	r.drawHeader(state, m)
	if m.separatorX >= 0 {
		r.drawSidebar(state, m)
	}
	r.drawContent(state, m)
	if m.searchBarRow >= 0 {
		r.drawSearchBar(state, m)
	} else {
		r.screen.HideCursor()
	}
	r.drawStatusLine(state, m)

	r.screen.Show()
}

// drawHeader renders the top bar with the application name and document title
func (r *Renderer) drawHeader(state *statepkg.AppState, m layoutMetrics) {
	headerStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	endX := r.drawTextLine(0, 0, m.width, appName, headerStyle)
	if endX < m.width {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
	}

	title := document.UntitledTitle
	if state.Doc != nil {
		title = state.Doc.DisplayTitle()
	}
	title = textutil.SanitizeTerminalText(title)
	if endX < m.width {
		title = r.truncateTextToWidth(title, m.width-endX)
		endX = r.drawTextLine(endX, 0, m.width-endX, title, headerStyle.Bold(true))
	}
	r.fillRow(endX, m.width, 0, headerStyle)
}

// drawSidebar renders the table of contents with the chapter being read
// highlighted.
func (r *Renderer) drawSidebar(state *statepkg.AppState, m layoutMetrics) {
	baseStyle := tcell.StyleDefault.Background(r.theme.SidebarBg).Foreground(r.theme.SidebarFg)
	activeStyle := tcell.StyleDefault.Background(r.theme.SidebarActiveBg).Foreground(r.theme.SidebarActiveFg)
	sepStyle := tcell.StyleDefault.Foreground(r.theme.SeparatorFg)

	rows := m.tocRows()
	entries := state.TOCEntries()
	active := state.ActiveChapter()
	start := state.TOCScroll(rows)

	for i := 0; i < rows; i++ {
		y := m.contentTop + i
		r.screen.SetContent(m.separatorX, y, '│', nil, sepStyle)

		idx := start + i
		if idx >= len(entries) {
			r.fillRow(0, m.sidebarWidth, y, baseStyle)
			continue
		}
		style := baseStyle
		if entries[idx].Chapter == active {
			style = activeStyle
		}
		label := r.truncateTextToWidth(entries[idx].Label, m.sidebarWidth-1)
		r.screen.SetContent(0, y, ' ', nil, style)
		endX := r.drawTextLine(1, y, m.sidebarWidth-1, label, style)
		r.fillRow(endX, m.sidebarWidth, y, style)
	}
}

// drawContent renders the visible rows of the document.
func (r *Renderer) drawContent(state *statepkg.AppState, m layoutMetrics) {
	l := state.EnsureLayout()
	for i := 0; i < m.contentRows; i++ {
		idx := state.ScrollOffset + i
		if idx >= len(l.Rows) {
			break
		}
		r.drawRow(state, l.Rows[idx], m.contentLeft, m.contentTop+i, m.contentWidth)
	}
}

func (r *Renderer) drawRow(state *statepkg.AppState, row statepkg.Row, x, y, width int) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	maxX := x + width

	switch row.Kind {
	case statepkg.RowTitle:
		r.drawStyledStringClipped(x, y, maxX, row.Text, base.Foreground(r.theme.TitleFg).Bold(true))
	case statepkg.RowChapter:
		r.drawStyledStringClipped(x, y, maxX, row.Text, base.Foreground(r.theme.ChapterFg).Bold(true))
	case statepkg.RowArticle:
		r.drawStyledStringClipped(x, y, maxX, row.Text, base.Foreground(r.theme.ArticleFg).Bold(true))
	case statepkg.RowParagraph:
		r.drawParagraphRow(state, row, x, y, maxX, base)
	case statepkg.RowAnnotation:
		r.drawAnnotationRow(state, row, x, y, maxX, base)
	}
}

func (r *Renderer) drawParagraphRow(state *statepkg.AppState, row statepkg.Row, x, y, maxX int, base tcell.Style) {
	if row.First {
		if row.Paragraph == state.FocusIndex {
			r.screen.SetContent(x, y, focusMarker, nil, base.Foreground(r.theme.FocusFg).Bold(true))
		}
		if p, ok := state.Paragraph(row.Paragraph); ok && p.HasAnnotations() {
			r.screen.SetContent(x+1, y, noteMarker, nil, base.Foreground(r.theme.MarkerFg))
		}
	}

	hitStyle := base.Background(r.theme.HitBg).Foreground(r.theme.HitFg)
	currentStyle := base.Background(r.theme.CurrentHitBg).Foreground(r.theme.CurrentHitFg).Bold(true)

	cx := x + statepkg.ParagraphIndent
	node := state.Nodes[row.Paragraph]
	for _, seg := range node.SegmentsIn(row.Start, row.End) {
		style := base
		switch seg.Kind {
		case search.SegmentHit:
			style = hitStyle
		case search.SegmentCurrent:
			style = currentStyle
		}
		cx = r.drawStyledStringClipped(cx, y, maxX, paragraphCells(seg.Text), style)
	}
}

func (r *Renderer) drawAnnotationRow(state *statepkg.AppState, row statepkg.Row, x, y, maxX int, base tcell.Style) {
	cx := x + statepkg.AnnotationIndent
	if row.Label != "" {
		cx = r.drawStyledStringClipped(cx, y, maxX, row.Label, base.Foreground(r.theme.LabelFg).Bold(true))
		cx = r.drawStyledStringClipped(cx, y, maxX, " ", base)
	} else {
		cx += r.annotationLabelWidth(state, row) + 1
	}
	r.drawStyledStringClipped(cx, y, maxX, row.Text, base.Foreground(r.theme.AnnotationFg))
}

// annotationLabelWidth finds the caption of the entry a continuation row
// belongs to, so wrapped lines align under the text.
func (r *Renderer) annotationLabelWidth(state *statepkg.AppState, row statepkg.Row) int {
	l := state.EnsureLayout()
	first, _ := l.ParagraphRowRange(row.Paragraph)
	label := ""
	for i := first; i >= 0 && i < len(l.Rows); i++ {
		candidate := l.Rows[i]
		if candidate.Paragraph != row.Paragraph {
			break
		}
		if candidate.Kind == statepkg.RowAnnotation && candidate.Label != "" {
			label = candidate.Label
		}
		if candidate == row {
			break
		}
	}
	return r.measureTextWidth(label)
}

// drawSearchBar renders the query input, the match counter and any hint.
func (r *Renderer) drawSearchBar(state *statepkg.AppState, m layoutMetrics) {
	y := m.searchBarRow
	barStyle := tcell.StyleDefault.Background(r.theme.SearchBarBg).Foreground(r.theme.SearchBarFg)
	r.fillRow(0, m.width, y, barStyle)

	counter := " " + formatSearchCounter(state) + " "
	hint := formatSearchHint(state)
	right := counter
	if hint != "" {
		right = " " + hint + " ·" + counter
	}
	right = r.truncateTextToWidth(textutil.SanitizeTerminalText(right), m.width/2)
	rightWidth := r.measureTextWidth(right)
	rightX := m.width - rightWidth
	rightStyle := barStyle
	if hint != "" {
		rightStyle = barStyle.Foreground(r.theme.ErrorFg)
	}
	r.drawTextLine(rightX, y, rightWidth, right, rightStyle)

	promptStyle := barStyle.Bold(true)
	x := r.drawTextLine(0, y, m.width, searchPrompt, promptStyle)
	avail := rightX - x - 1
	query := r.tailTextToWidth(textutil.SanitizeTerminalText(state.SearchQuery), avail)
	x = r.drawTextLine(x, y, avail, query, barStyle)

	if state.SearchEditing && x < rightX {
		r.screen.ShowCursor(x, y)
	} else {
		r.screen.HideCursor()
	}
}

// drawStatusLine renders errors or contextual help on the last row.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, m layoutMetrics) {
	if m.statusRow < 1 {
		return
	}
	y := m.statusRow
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	flashStyle := tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)

	isFlashing := false
	if !state.LastYankTime.IsZero() {
		isFlashing = time.Since(state.LastYankTime) < yankFlash
	}

	style := normalStyle
	if isFlashing {
		style = flashStyle
	}
	r.fillRow(0, m.width, y, style)

	right := textutil.SanitizeTerminalText(formatPositionStatus(state))
	if right != "" {
		right = " " + right + " "
	}
	right = r.truncateTextToWidth(right, m.width/2)
	rightWidth := r.measureTextWidth(right)
	r.drawTextLine(m.width-rightWidth, y, rightWidth, right, style)

	left := buildFooterHelpText(state)
	leftStyle := style
	if state.LastError != nil {
		left = " " + state.LastError.Error() + " "
		leftStyle = style.Foreground(r.theme.ErrorFg)
	}
	left = textutil.SanitizeTerminalText(left)
	avail := m.width - rightWidth
	left = r.truncateTextToWidth(left, avail)
	r.drawTextLine(0, y, avail, left, leftStyle)
}
