package naming

import (
	"fmt"
	"strings"
)

// Known placeholder names accepted in naming patterns. The sequence aliases
// all resolve to the same zero-padded counter value.
var knownFields = map[string]struct{}{
	"date":        {},
	"description": {},
	"sequence":    {},
	"number":      {},
	"counter":     {},
	"project":     {},
	"scene":       {},
	"location":    {},
	"subject":     {},
	"action":      {},
	"original":    {},
}

// UnknownPlaceholderError reports a pattern placeholder with no matching field.
type UnknownPlaceholderError struct {
	Name string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("unknown placeholder {%s}", e.Name)
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenPlaceholder
)

type token struct {
	kind tokenKind
	text string
}

// Pattern is a parsed naming pattern: an ordered sequence of literal text and
// {placeholder} tokens.
type Pattern struct {
	raw    string
	tokens []token
}

// ParsePattern scans a pattern string into tokens. Unbalanced or empty braces
// are rejected here; placeholder names are checked against the known field set
// by Validate.
func ParsePattern(raw string) (Pattern, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Pattern{}, fmt.Errorf("naming pattern must not be empty")
	}

	var tokens []token
	var literal strings.Builder
	rest := raw
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return Pattern{}, fmt.Errorf("naming pattern %q has an unmatched '}'", raw)
			}
			literal.WriteString(rest)
			break
		}
		literal.WriteString(rest[:open])
		rest = rest[open+1:]
		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			return Pattern{}, fmt.Errorf("naming pattern %q has an unmatched '{'", raw)
		}
		name := strings.TrimSpace(rest[:closing])
		if name == "" {
			return Pattern{}, fmt.Errorf("naming pattern %q contains an empty placeholder", raw)
		}
		if literal.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: literal.String()})
			literal.Reset()
		}
		tokens = append(tokens, token{kind: tokenPlaceholder, text: name})
		rest = rest[closing+1:]
	}
	if literal.Len() > 0 {
		tokens = append(tokens, token{kind: tokenLiteral, text: literal.String()})
	}

	return Pattern{raw: raw, tokens: tokens}, nil
}

// String returns the original pattern text.
func (p Pattern) String() string { return p.raw }

// Placeholders returns the placeholder names in pattern order, without
// duplicates removed.
func (p Pattern) Placeholders() []string {
	var names []string
	for _, tok := range p.tokens {
		if tok.kind == tokenPlaceholder {
			names = append(names, tok.text)
		}
	}
	return names
}

// Validate rejects the pattern when any placeholder is not a known field.
// This runs before any asset is processed so a bad pattern aborts the batch
// up front.
func (p Pattern) Validate() error {
	for _, tok := range p.tokens {
		if tok.kind != tokenPlaceholder {
			continue
		}
		if _, ok := knownFields[tok.text]; !ok {
			return &UnknownPlaceholderError{Name: tok.text}
		}
	}
	return nil
}

// Expand substitutes every placeholder with its value from fields. A missing
// key fails with UnknownPlaceholderError; text is never silently dropped.
// The result is not yet filesystem safe; callers run ShapeName on it.
func (p Pattern) Expand(fields FieldMap) (string, error) {
	var b strings.Builder
	b.Grow(len(p.raw))
	for _, tok := range p.tokens {
		if tok.kind == tokenLiteral {
			b.WriteString(tok.text)
			continue
		}
		value, ok := fields[tok.text]
		if !ok {
			return "", &UnknownPlaceholderError{Name: tok.text}
		}
		b.WriteString(value)
	}
	return b.String(), nil
}
