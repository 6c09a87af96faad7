// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold produces accent- and case-insensitive search keys.
//
// # Usage
//
// Book titles and authors are folded once on write and stored alongside the
// record, and the query term is folded the same way on read, so a plain LIKE
// matches "Gabriel García Márquez" when the user types "garcia".
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String folds s into its search form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents) and recomposes to NFC.
// 3. Converts to lowercase.
// 4. Collapses runs of whitespace into a single space and trims the ends.
func String(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	return strings.Join(strings.Fields(strings.ToLower(result)), " ")
}

// Key joins and folds several fields into one searchable key.
func Key(parts ...string) string {
	return String(strings.Join(parts, " "))
}

// EscapeLike escapes the LIKE wildcards in a folded term so user input is
// matched literally. The escape character is a backslash.
func EscapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
