package compiler

import (
	"strconv"
	"strings"
	"unicode"
)

// anchorSet derives deterministic, collision-aware anchor ids for headings
// within one document. Duplicate slugs are disambiguated by source order:
// "overview", "overview-2", "overview-3".
type anchorSet struct {
	seen map[string]int
}

func newAnchorSet() *anchorSet {
	return &anchorSet{seen: make(map[string]int)}
}

func (a *anchorSet) idFor(text string) string {
	slug := slugify(text)
	if slug == "" {
		slug = "section"
	}
	a.seen[slug]++
	if n := a.seen[slug]; n > 1 {
		return slug + "-" + strconv.Itoa(n)
	}
	return slug
}

// slugify lowercases and collapses every non-letter, non-digit run into a
// single hyphen. Non-ASCII letters survive; modern browsers accept them in
// fragment ids.
func slugify(text string) string {
	var sb strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			sb.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
