package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// invalid filename characters are removed outright; this matches the behavior
// expected by downstream collision handling, which assumes candidate names are
// already filesystem safe.
const invalidNameChars = `<>:"/\|?*`

// SanitizeFileName makes a candidate filename filesystem safe: illegal
// characters are stripped, runs of two or more underscores or dashes collapse
// to a single underscore, and leading/trailing separators are trimmed. A lone
// separator is kept as written so dates like 2024-01-01 survive. An empty
// result falls back to "untitled".
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(invalidNameChars, r) || r < ' ' {
			continue
		}
		b.WriteRune(r)
	}

	out := collapseSeparators(b.String())
	out = strings.Trim(out, "_- ")
	if out == "" {
		return "untitled"
	}
	return out
}

func collapseSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		if r != '_' && r != '-' {
			b.WriteRune(r)
			i++
			continue
		}
		run := i
		for run < len(runes) && (runes[run] == '_' || runes[run] == '-') {
			run++
		}
		if run-i == 1 {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		i = run
	}
	return b.String()
}

// ReplaceSpaces substitutes every space with the configured replacement.
// An empty replacement leaves spaces untouched.
func ReplaceSpaces(name, replacement string) string {
	if replacement == "" {
		return name
	}
	return strings.ReplaceAll(name, " ", replacement)
}

// TitleFromStem derives a human-readable title from a filename stem: separator
// characters become spaces, noise is dropped, and the result is title cased.
// Used as the fallback description when no vision service is configured.
func TitleFromStem(stem string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range stem {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled"
	}
	return cases.Title(language.Und).String(title)
}
