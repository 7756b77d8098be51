package compiler

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
)

// highlighter implements the dictionary-driven word-highlighting pass:
// case-insensitive, whole-word, compiled once per document. An empty
// dictionary costs nothing.
type highlighter struct {
	pattern *regexp.Regexp
	colors  map[string]string // lowercased word -> color
}

func newHighlighter(dictionary []content.HighlightEntry) *highlighter {
	hl := &highlighter{}
	if len(dictionary) == 0 {
		return hl
	}

	hl.colors = make(map[string]string, len(dictionary))
	words := make([]string, 0, len(dictionary))
	for _, entry := range dictionary {
		word := strings.TrimSpace(entry.Word)
		if word == "" {
			continue
		}
		hl.colors[strings.ToLower(word)] = entry.Color
		words = append(words, regexp.QuoteMeta(word))
	}
	if len(words) == 0 {
		return hl
	}

	pattern, err := regexp.Compile(`(?i)\b(` + strings.Join(words, `|`) + `)\b`)
	if err != nil {
		return hl // A pathological dictionary degrades to no highlighting
	}
	hl.pattern = pattern
	return hl
}

// apply wraps every dictionary match in a colored span. A matched word
// composed solely of Latin letters is additionally emphasized, with the
// emphasis wrapping the colored span (nested, not sibling markup). This is
// the loanword treatment for borrowed English terms in non-Latin body text.
func (hl *highlighter) apply(escaped string) string {
	if hl.pattern == nil {
		return escaped
	}

	return hl.pattern.ReplaceAllStringFunc(escaped, func(match string) string {
		color, found := hl.colors[strings.ToLower(match)]
		if !found {
			return match
		}
		span := `<span style="color:` + html.EscapeString(color) + `">` + match + `</span>`
		if isLatinWord(match) {
			return `<em class="loanword">` + span + `</em>`
		}
		return span
	})
}

// isLatinWord reports whether every rune of the word is a Latin letter.
func isLatinWord(word string) bool {
	for _, r := range word {
		if !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return len(word) > 0
}
