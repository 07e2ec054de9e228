package component

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KebabCase converts a component name to the tag form Vue expects:
// "AComponent" becomes "a-component" and "my widget" becomes "my-widget".
//
// Words separated by whitespace get an ASCII capital initial and are joined, then a hyphen
// is placed before every ASCII capital that follows another character.
// Existing hyphens are left alone, so "Foo-Bar" yields "foo--bar".
func KebabCase(name string) string {
	if isLowerASCII(name) {
		return name
	}

	var joined strings.Builder
	for _, word := range strings.FieldsFunc(name, isWordSeparator) {
		// only ASCII initials are capitalised, non-ASCII ones stay as written
		if c := word[0]; c >= 'a' && c <= 'z' {
			joined.WriteByte(c - 'a' + 'A')
			joined.WriteString(word[1:])
			continue
		}
		joined.WriteString(word)
	}

	runes := []rune(joined.String())
	var out strings.Builder
	for i, r := range runes {
		out.WriteRune(r)
		if i+1 < len(runes) && runes[i+1] >= 'A' && runes[i+1] <= 'Z' {
			out.WriteByte('-')
		}
	}

	// A Caser is stateful, so each call gets its own.
	return cases.Lower(language.Und).String(out.String())
}

func isLowerASCII(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r)
}
