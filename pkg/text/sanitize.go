package text

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Hyphens mark a word wrapped onto the next line.
var Hyphens = []rune{'⸗', '-', '—'}

// badChars are removed by SanitizeChars.
const badChars = `0123456789“„"'?!*.;:-=[]()|`

// SanitizeWraps stitches words wrapped across lines. A line ending in a
// hyphen is joined with the first token of the following line, which
// loses that token. Lines followed by a blank line or by nothing keep
// their hyphen.
func SanitizeWraps(lines []string) []string {
	rest := append([]string(nil), lines...)
	out := make([]string, 0, len(rest))
	for i, line := range rest {
		if i < len(rest)-1 && endsWithHyphen(line) {
			tokens := strings.Fields(rest[i+1])
			if len(tokens) > 0 {
				_, size := utf8.DecodeLastRuneInString(line)
				line = line[:len(line)-size] + tokens[0]
				rest[i+1] = strings.Join(tokens[1:], " ")
			}
		}
		out = append(out, line)
	}
	return out
}

func endsWithHyphen(line string) bool {
	r, _ := utf8.DecodeLastRuneInString(line)
	for _, h := range Hyphens {
		if r == h {
			return true
		}
	}
	return false
}

// SanitizeChars removes digits, quotes and punctuation, collapses spaces
// and drops tokens of a single character.
func SanitizeChars(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped := strings.Map(func(r rune) rune {
			if strings.ContainsRune(badChars, r) {
				return -1
			}
			return r
		}, strings.TrimSpace(line))
		var tokens []string
		for _, tok := range strings.Fields(stripped) {
			if utf8.RuneCountInString(tok) > 1 {
				tokens = append(tokens, tok)
			}
		}
		out = append(out, strings.Join(tokens, " "))
	}
	return out
}

// DictLines prepares lines for spell checkers and dictionaries: blank
// lines are dropped, wraps stitched and characters sanitized. The steps
// repeat until the result is stable, so applying DictLines to its own
// output changes nothing.
func DictLines(lines []string) []string {
	cur := nonBlank(lines)
	for {
		next := nonBlank(SanitizeChars(SanitizeWraps(cur)))
		if slices.Equal(next, cur) {
			return next
		}
		cur = next
	}
}

// DictText is DictLines joined into a single line.
func DictText(lines []string) string {
	return strings.Join(DictLines(lines), " ")
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
