package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

// ErrLigature is returned for a combining small e that does not follow
// one of the vowels a, o or u.
var ErrLigature = errors.New("no vocal ligature conversion")

// ErrUnknownForm is returned by ParseForm for unsupported names.
var ErrUnknownForm = errors.New("unknown normalization form")

// DefaultForm is the normalization form used unless configured otherwise.
const DefaultForm = norm.NFC

const combiningSmallE = '\u0364'

var forms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

// ParseForm maps a form name such as "NFC" or "nfkd" to its form.
// The empty name selects DefaultForm.
func ParseForm(name string) (norm.Form, error) {
	if name == "" {
		return DefaultForm, nil
	}
	f, ok := forms[strings.ToUpper(name)]
	if !ok {
		return DefaultForm, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return f, nil
}

// Normalize converts s to the given Unicode normalization form.
func Normalize(s string, form norm.Form) string {
	return form.String(s)
}

// NormalizeLines normalizes every line.
func NormalizeLines(lines []string, form norm.Form) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = form.String(line)
	}
	return out
}

// NormalizeVocalLigatures replaces a, o and u followed by COMBINING
// SMALL LETTER E with ä, ö and ü. Capitals become Ä, Ö and Ü. The input
// is expected in a composed form.
func NormalizeVocalLigatures(s string) (string, error) {
	if !strings.ContainsRune(s, combiningSmallE) {
		return s, nil
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != combiningSmallE {
			out = append(out, r)
			continue
		}
		if len(out) == 0 {
			return "", fmt.Errorf("%w: no preceding letter in %q", ErrLigature, s)
		}
		prev := out[len(out)-1]
		umlaut, ok := vocalUmlaut(prev)
		if !ok {
			return "", fmt.Errorf("%w: %q in %q", ErrLigature, prev, s)
		}
		out[len(out)-1] = umlaut
	}
	return string(out), nil
}

func vocalUmlaut(r rune) (rune, bool) {
	name := runenames.Name(r)
	var umlaut rune
	switch {
	case strings.Contains(name, "LETTER A"):
		umlaut = 'ä'
	case strings.Contains(name, "LETTER O"):
		umlaut = 'ö'
	case strings.Contains(name, "LETTER U"):
		umlaut = 'ü'
	default:
		return r, false
	}
	if unicode.IsUpper(r) {
		umlaut = unicode.ToUpper(umlaut)
	}
	return umlaut, true
}

// whitespace, punctuation including typographic dashes and quotes, the
// double oblique hyphen and space characters
var punctuations = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" +
	"\u2012\u2013\u2014\u2015\u2016\u2017" +
	"\u2018\u2019\u201a\u201b\u201c\u201d\u201e\u201f" +
	"\u2e17" +
	"\u0020\u00a0\u2000\u2001\u2002\u2003\u2004\u2005\u2006\u2007\u2008\u2009\u200a\u2028\u205f\u3000"

// ASCII, Arabic-Indic and Extended Arabic-Indic digits
var digits = "0123456789" +
	"\u0660\u0661\u0662\u0663\u0664\u0665\u0666\u0667\u0668\u0669" +
	"\u06f0\u06f1\u06f2\u06f3\u06f4\u06f5\u06f6\u06f7\u06f8\u06f9"

// Letters strips whitespace, punctuation and digits from s, leaving the
// letters for character based comparison.
func Letters(s string) string {
	return strings.Map(func(r rune) rune {
		if isASCIISpace(r) || strings.ContainsRune(punctuations, r) || strings.ContainsRune(digits, r) {
			return -1
		}
		return r
	}, s)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Tokens splits s at white space.
func Tokens(s string) []string {
	return strings.Fields(s)
}
