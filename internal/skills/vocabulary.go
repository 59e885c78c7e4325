package skills

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Vocabulary is an immutable set of canonical skill names. It is safe for
// concurrent use by any number of matchers.
type Vocabulary struct {
	terms []term
	index map[string]int
}

type term struct {
	name     string
	category string
	pattern  *regexp.Regexp
}

// Entry is a canonical skill name with the category it was declared under.
type Entry struct {
	Name     string
	Category string
}

var loadDefault = sync.OnceValues(func() (*Vocabulary, error) {
	return Parse(defaultVocabulary)
})

// Default returns the built-in vocabulary. It is parsed once per process.
func Default() *Vocabulary {
	v, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("built-in skill vocabulary is invalid: %v", err))
	}
	return v
}

// New builds a vocabulary from plain names without categories.
func New(names ...string) (*Vocabulary, error) {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name})
	}
	return FromEntries(entries)
}

// FromEntries builds a vocabulary. Names are trimmed and lowercased; empty
// names are skipped and the first occurrence of a duplicate wins.
func FromEntries(entries []Entry) (*Vocabulary, error) {
	v := &Vocabulary{index: make(map[string]int, len(entries))}

	for _, entry := range entries {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if name == "" {
			continue
		}
		if _, ok := v.index[name]; ok {
			continue
		}

		pattern, err := compileTerm(name)
		if err != nil {
			return nil, fmt.Errorf("compile skill %q: %w", name, err)
		}

		v.index[name] = len(v.terms)
		v.terms = append(v.terms, term{
			name:     name,
			category: strings.TrimSpace(entry.Category),
			pattern:  pattern,
		})
	}

	if len(v.terms) == 0 {
		return nil, errors.New("skill vocabulary is empty")
	}

	slices.SortFunc(v.terms, func(a, b term) int { return strings.Compare(a.name, b.name) })
	for i, t := range v.terms {
		v.index[t.name] = i
	}

	return v, nil
}

// Parse reads a YAML document mapping category names to lists of skills.
// Category order in the document decides which category a repeated skill keeps.
func Parse(data []byte) (*Vocabulary, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	if len(root.Content) == 0 {
		return nil, errors.New("skill vocabulary is empty")
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("vocabulary must be a mapping of categories, got line %d", doc.Line)
	}

	var entries []Entry
	for i := 0; i+1 < len(doc.Content); i += 2 {
		category := doc.Content[i].Value

		var names []string
		if err := doc.Content[i+1].Decode(&names); err != nil {
			return nil, fmt.Errorf("category %q: %w", category, err)
		}

		for _, name := range names {
			entries = append(entries, Entry{Name: name, Category: category})
		}
	}

	return FromEntries(entries)
}

// LoadFile reads a vocabulary in the same YAML layout as the built-in one.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file %q: %w", path, err)
	}
	return Parse(data)
}

// Len returns the number of distinct skills.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Names returns all canonical names in lexical order.
func (v *Vocabulary) Names() []string {
	if v == nil {
		return nil
	}
	names := make([]string, 0, len(v.terms))
	for _, t := range v.terms {
		names = append(names, t.name)
	}
	return names
}

// Category returns the category a skill was declared under.
func (v *Vocabulary) Category(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	i, ok := v.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return v.terms[i].category, true
}
