package skills

import (
	"regexp"
	"strings"
)

// tokenClass lists the characters that glue onto a skill name. A skill only
// matches when neither neighbour belongs to it, so "java" is not found inside
// "javascript" and "c" is not found inside "c++" or "c#".
const tokenClass = `\p{L}\p{N}_+#`

// compileTerm turns a canonical name into a case-insensitive pattern. The name
// is quoted literally; whitespace inside multi-word names matches any run of
// whitespace because extracted text often wraps lines mid-phrase.
func compileTerm(name string) (*regexp.Regexp, error) {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}

	expr := `(?i)(?:^|[^` + tokenClass + `])` +
		strings.Join(words, `\s+`) +
		`(?:[^` + tokenClass + `]|$)`

	return regexp.Compile(expr)
}

// Match returns the canonical names of all vocabulary skills present in text,
// sorted and without duplicates.
func Match(text string, vocab *Vocabulary) []string {
	found := make([]string, 0)
	if vocab == nil || strings.TrimSpace(text) == "" {
		return found
	}

	for _, t := range vocab.terms {
		if t.pattern.MatchString(text) {
			found = append(found, t.name)
		}
	}

	return found
}

// Grouped returns matched skills keyed by their vocabulary category.
func Grouped(matched []string, vocab *Vocabulary) map[string][]string {
	groups := make(map[string][]string)
	for _, name := range matched {
		category, ok := vocab.Category(name)
		if !ok {
			continue
		}
		if category == "" {
			category = "uncategorized"
		}
		groups[category] = append(groups[category], name)
	}
	return groups
}
