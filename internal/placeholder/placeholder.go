// Package placeholder turns a template's placeholder spec and a user-supplied
// item name into ordered substitution rules.
package placeholder

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/driquet/git-template/internal/casing"
)

// Derive names how a placeholder's replacement value is produced.
type Derive string

const (
	// DeriveExact uses the item name as typed.
	DeriveExact Derive = "exact"
	// DerivePascal uses the capitalized concatenation of the item name.
	DerivePascal Derive = "pascal"
	// DeriveKebab uses the kebab-case item name.
	DeriveKebab Derive = "kebab"
	// DeriveSnake uses the lower-snake item name.
	DeriveSnake Derive = "snake"
	// DeriveLiteral uses the entry's fixed Value.
	DeriveLiteral Derive = "literal"
	// DeriveYear uses the current four-digit year.
	DeriveYear Derive = "year"
)

// ErrInvalidSpec is returned when a placeholder entry has no token or an unknown derive.
var ErrInvalidSpec = errors.New("invalid placeholder spec")

// Entry declares one placeholder token and how its value is derived.
type Entry struct {
	Token  string `toml:"token"`
	Derive Derive `toml:"derive"`
	// Value is only used by DeriveLiteral.
	Value string `toml:"value,omitempty"`
}

// Spec is the ordered list of placeholders of one template.
type Spec []Entry

// Table maps template names to their placeholder specs.
type Table map[string]Spec

// Builtin returns the placeholder specs of the bundled templates.
func Builtin() Table {
	return Table{
		"react-component": {
			{Token: "COMPONENT_NAME", Derive: DerivePascal},
			{Token: "component_name_kebab", Derive: DeriveKebab},
		},
		"python-service": {
			{Token: "SERVICE_NAME", Derive: DeriveExact},
			{Token: "service_name_snake", Derive: DeriveSnake},
		},
		"basic": {
			{Token: "PROJECT_NAME", Derive: DeriveExact},
			{Token: "LICENSE_TYPE", Derive: DeriveLiteral, Value: "MIT License"},
			{Token: "YEAR", Derive: DeriveYear},
		},
	}
}

// Merge returns a copy of t where every template present in overrides uses the
// overriding spec instead of its own.
func (t Table) Merge(overrides Table) Table {
	merged := make(Table, len(t)+len(overrides))
	for name, spec := range t {
		merged[name] = spec
	}
	for name, spec := range overrides {
		merged[name] = spec
	}
	return merged
}

// Validate checks every entry of the table.
func (t Table) Validate() error {
	for name, spec := range t {
		for i, entry := range spec {
			if entry.Token == "" {
				return fmt.Errorf("%w: %s entry %d has an empty token", ErrInvalidSpec, name, i)
			}
			switch entry.Derive {
			case DeriveExact, DerivePascal, DeriveKebab, DeriveSnake, DeriveLiteral, DeriveYear:
			default:
				return fmt.Errorf("%w: %s token %q has unknown derive %q", ErrInvalidSpec, name, entry.Token, entry.Derive)
			}
		}
	}
	return nil
}

// value computes the replacement of entry for item at time now.
func (e Entry) value(item string, now time.Time) string {
	switch e.Derive {
	case DerivePascal:
		return casing.Pascal(item)
	case DeriveKebab:
		return casing.Kebab(item)
	case DeriveSnake:
		return casing.Snake(item)
	case DeriveLiteral:
		return e.Value
	case DeriveYear:
		return strconv.Itoa(now.Year())
	default:
		return item
	}
}

// Rule replaces every occurrence of From with To.
type Rule struct {
	From string
	To   string
}

// Rules is an ordered sequence of substitution rules.
type Rules []Rule

// Resolver builds substitution rules from a placeholder table.
type Resolver struct {
	Table Table
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewResolver creates a resolver over table.
func NewResolver(table Table) *Resolver {
	return &Resolver{Table: table, Now: time.Now}
}

// Resolve returns the rules for instantiating templateName as item.
//
// Each entry expands, in order, into the exact token, the kebab-case token and
// the lower-snake token, each mapped to the same derivation of the value.
// Entries keep their declaration order. An unknown template yields no rules.
func (r *Resolver) Resolve(templateName, item string) Rules {
	spec, found := r.Table[templateName]
	if !found {
		return nil
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	at := now()

	rules := make(Rules, 0, 3*len(spec))
	for _, entry := range spec {
		value := entry.value(item, at)
		rules = append(rules,
			Rule{From: entry.Token, To: value},
			Rule{From: casing.Kebab(entry.Token), To: casing.Kebab(value)},
			Rule{From: casing.Snake(entry.Token), To: casing.Snake(value)},
		)
	}

	return rules
}

// Replacer compiles rules into a single-pass replacer.
//
// At each position the longest matching token wins and ties go to the rule
// declared first. Replaced text is never scanned again, so a value can not be
// picked up by a later rule.
func (rs Rules) Replacer() *Replacer {
	ordered := slices.Clone(rs)
	ordered = slices.DeleteFunc(ordered, func(r Rule) bool { return r.From == "" })
	slices.SortStableFunc(ordered, func(a, b Rule) int {
		return cmp.Compare(len(b.From), len(a.From))
	})

	seen := make(map[string]bool, len(ordered))
	pairs := make([]string, 0, 2*len(ordered))
	for _, rule := range ordered {
		if seen[rule.From] {
			continue
		}
		seen[rule.From] = true
		pairs = append(pairs, rule.From, rule.To)
	}

	if len(pairs) == 0 {
		return &Replacer{}
	}
	return &Replacer{r: strings.NewReplacer(pairs...)}
}

// Apply applies rules to s. See Replacer.
func (rs Rules) Apply(s string) string {
	return rs.Replacer().Replace(s)
}

// Replacer applies compiled rules. The zero value replaces nothing.
type Replacer struct {
	r *strings.Replacer
}

// Replace returns s with every token replaced.
func (r *Replacer) Replace(s string) string {
	if r.r == nil {
		return s
	}
	return r.r.Replace(s)
}
