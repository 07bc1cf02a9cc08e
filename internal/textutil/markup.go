package textutil

import "html"

// EscapeMarkup returns text that renders verbatim when inserted into HTML.
// Only & < > " and ' are rewritten, so text without them is returned as is.
func EscapeMarkup(text string) string {
	return html.EscapeString(text)
}

// UnescapeMarkup reverses EscapeMarkup.
func UnescapeMarkup(text string) string {
	return html.UnescapeString(text)
}
