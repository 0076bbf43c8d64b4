// Package slug normalizes bundle and artifact names to filesystem-safe ASCII.
//
// Display names in manifests are frequently non-ASCII (the primary deployment
// uses Turkish product names); frozen bundle directories and installer
// artifacts need a stable ASCII form.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// replacements maps characters that do not decompose to an ASCII base letter.
var replacements = map[rune]string{
	'ı': "i",
	'İ': "I",
	'ß': "ss",
	'ø': "o",
	'Ø': "O",
	'æ': "ae",
	'Æ': "AE",
	'đ': "d",
	'Đ': "D",
	'ł': "l",
	'Ł': "L",
}

// Make converts an arbitrary display name into a lowercase ASCII slug
// suitable for directory and artifact names. Runs of non-alphanumeric
// characters collapse into a single hyphen.
func Make(name string) string {
	folded := foldToASCII(name)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// foldToASCII decomposes accented characters and strips combining marks,
// applying explicit replacements for runes with no ASCII decomposition.
func foldToASCII(s string) string {
	var pre strings.Builder
	pre.Grow(len(s))
	for _, r := range s {
		if rep, ok := replacements[r]; ok {
			pre.WriteString(rep)
			continue
		}
		pre.WriteRune(r)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, pre.String())
	if err != nil {
		return pre.String()
	}
	return out
}
