package textutil

import "strings"

// formattingRuneLabels maps invisible bidi and zero-width runes to visible
// placeholders. Legal texts pasted from word processors routinely carry them.
var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x00AD: "⟪SHY⟫",
	0x180E: "⟪MVS⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeTerminalText escapes text for terminal output: control characters
// (ESC included) and formatting runes can never act as terminal markup once
// passed through here. Text without such characters is returned unchanged.
func SanitizeTerminalText(text string) string {
	for _, r := range text {
		if IsTerminalReserved(r) {
			return sanitize(text)
		}
	}
	return text
}

// IsTerminalReserved reports whether r would be rewritten by SanitizeTerminalText.
func IsTerminalReserved(r rune) bool {
	if r == '\t' {
		return false
	}
	if _, ok := formattingRuneLabels[r]; ok {
		return true
	}
	return (r >= 0 && r < 0x20) || r == 0x7f
}

func sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if label, ok := formattingRuneLabels[r]; ok {
			b.WriteString(label)
			continue
		}
		switch {
		case r == '\n', r == '\r':
			b.WriteByte(' ')
		case r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
