// Package substitute replaces placeholder tokens with values derived from an
// application name.
//
// A Table maps each placeholder to a derivation. Apply builds one
// strings.Replacer from the table and runs it once over the content, so a
// value produced by one rule is never rewritten by another rule, and rules
// whose placeholders share a prefix are matched longest first.
package substitute

import (
	"sort"
	"strings"

	"github.com/appforge/skelgen/pkg/naming"
	"github.com/appforge/skelgen/pkg/templates"
)

// Derivation computes a replacement from the application tokens.
type Derivation func(naming.Tokens) string

// Rule replaces one placeholder.
type Rule struct {
	Placeholder string
	Derive      Derivation
}

// Table is an ordered set of rules.
type Table []Rule

// Default returns the table covering every placeholder of the Template Set.
func Default() Table {
	return Table{
		{Placeholder: templates.HostnamePlaceholder, Derive: func(t naming.Tokens) string { return t.Hostname }},
		{Placeholder: templates.ChartNamePlaceholder, Derive: func(t naming.Tokens) string { return t.Name }},
		{Placeholder: templates.AppNamePlaceholder, Derive: func(t naming.Tokens) string { return t.Name }},
	}
}

// Placeholders returns the placeholders of the table.
func (t Table) Placeholders() []string {
	out := make([]string, 0, len(t))
	for _, r := range t {
		out = append(out, r.Placeholder)
	}
	return out
}

// Replacer builds the single-pass replacer for tok.
func (t Table) Replacer(tok naming.Tokens) *strings.Replacer {
	rules := make(Table, len(t))
	copy(rules, t)

	// strings.Replacer prefers earlier pairs when several match at the same
	// position, so longer placeholders go first.
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Placeholder) > len(rules[j].Placeholder)
	})

	pairs := make([]string, 0, len(rules)*2)
	for _, r := range rules {
		pairs = append(pairs, r.Placeholder, r.Derive(tok))
	}
	return strings.NewReplacer(pairs...)
}

// Apply substitutes every placeholder in content.
func (t Table) Apply(content []byte, tok naming.Tokens) []byte {
	return []byte(t.Replacer(tok).Replace(string(content)))
}

// Count returns how many replacements Apply would make on content.
func (t Table) Count(content []byte) int {
	placeholders := t.Placeholders()
	sort.SliceStable(placeholders, func(i, j int) bool {
		return len(placeholders[i]) > len(placeholders[j])
	})

	s := string(content)
	n := 0
	for _, p := range placeholders {
		n += strings.Count(s, p)
		s = strings.ReplaceAll(s, p, "\x00")
	}
	return n
}
