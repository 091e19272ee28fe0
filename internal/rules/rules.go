// Package rules assigns spending categories to transaction descriptions
// using an ordered keyword table.
package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFallback is the category for descriptions no rule matches.
const DefaultFallback = "Other"

// Rule pairs a keyword with the category it assigns. Rules are
// evaluated in declaration order; the first match wins.
type Rule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// Table is an immutable, ordered rule table plus a fallback category.
// Categorize is a pure function: it never depends on previously
// assigned categories, so re-running it over auto-categorized
// transactions is safe.
type Table struct {
	rules    []Rule
	fallback string
}

// NewTable builds a Table. Rule keywords are normalized once at
// construction; an empty fallback uses DefaultFallback.
func NewTable(rules []Rule, fallback string) *Table {
	if fallback == "" {
		fallback = DefaultFallback
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		normalized = append(normalized, Rule{
			Keyword:  Normalize(r.Keyword),
			Category: r.Category,
		})
	}
	return &Table{rules: normalized, fallback: fallback}
}

// Rules returns a copy of the table in priority order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Fallback returns the category used when nothing matches.
func (t *Table) Fallback() string {
	return t.fallback
}

// Categorize returns the category for a description: the first rule in
// priority order whose keyword is a substring of the normalized
// description, else the fallback.
func (t *Table) Categorize(description string) string {
	desc := Normalize(description)
	for _, r := range t.rules {
		if r.Keyword != "" && strings.Contains(desc, r.Keyword) {
			return r.Category
		}
	}
	return t.fallback
}

// Normalize lowers, trims, and folds common accented letters to ASCII
// so keyword matching is insensitive to case and to the accent-stripped
// descriptions legacy bank exports emit.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !needsFolding(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := accentFold[r]; ok {
			b.WriteRune(folded)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsFolding(s string) bool {
	for _, r := range s {
		if r > 0x7f {
			return true
		}
	}
	return false
}

// accentFold covers the Latin-1 letters that appear in French and
// Iberian bank descriptions.
var accentFold = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a', 'á': 'a', 'ã': 'a',
	'ç': 'c',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'î': 'i', 'ï': 'i', 'í': 'i',
	'ô': 'o', 'ö': 'o', 'ó': 'o', 'õ': 'o',
	'ù': 'u', 'û': 'u', 'ü': 'u', 'ú': 'u',
	'ñ': 'n',
}

// ruleFile is the on-disk YAML shape of a rule table.
type ruleFile struct {
	Fallback string `yaml:"fallback,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Load reads a rule table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return NewTable(rf.Rules, rf.Fallback), nil
}

// Save writes a rule table to a YAML file.
func Save(path string, t *Table) error {
	data, err := yaml.Marshal(ruleFile{Fallback: t.fallback, Rules: t.rules})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
