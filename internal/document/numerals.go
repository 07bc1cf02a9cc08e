package document

import "strconv"

var kanjiDigits = [...]string{"〇", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// KanjiNumber renders chapter numbers the way statute headings do: 1-9 as
// single numerals, 10-99 with 十, anything else in Arabic digits.
func KanjiNumber(n int) string {
	switch {
	case n < 0:
		return strconv.Itoa(n)
	case n < 10:
		return kanjiDigits[n]
	case n < 100:
		tens, ones := n/10, n%10
		out := ""
		if tens > 1 {
			out += kanjiDigits[tens]
		}
		out += "十"
		if ones > 0 {
			out += kanjiDigits[ones]
		}
		return out
	default:
		return strconv.Itoa(n)
	}
}
