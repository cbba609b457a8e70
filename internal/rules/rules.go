// Package rules builds immutable steno rules from structured definitions.
// Definitions arrive pre-parsed: each names its children explicitly along
// with the letter spans they cover. Rules may reference each other in any
// order; building resolves references recursively, so a child is always fully
// built before any rule that uses it. Reference cycles abort the build.
package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"stenolex/internal/domain"
	"stenolex/internal/keys"
)

// ChildRef names a child rule and the span of the parent's letters it covers.
type ChildRef struct {
	Name   string `yaml:"name"`
	Start  int    `yaml:"start"`
	Length int    `yaml:"length"`
}

// Raw is a rule definition as read from a rules file. Keys are RTFCRE.
type Raw struct {
	Keys     string     `yaml:"keys"`
	Letters  string     `yaml:"letters"`
	Flags    []string   `yaml:"flags,omitempty"`
	Desc     string     `yaml:"desc,omitempty"`
	Children []ChildRef `yaml:"children,omitempty"`
}

var flagNames = map[string]domain.Flag{
	"internal":  domain.Internal,
	"stroke":    domain.Stroke,
	"word":      domain.Word,
	"rare":      domain.Rare,
	"inversion": domain.Inversion,
	"unmatched": domain.Unmatched,
	"generated": domain.Generated,
}

// Collection is an arena of built rules with a name index. Rule IDs are dense
// indices into the arena. Collections are immutable once built and shared
// read-only by every concurrent analysis.
type Collection struct {
	arena  []*domain.Rule
	byName map[string]*domain.Rule
	names  []string // indexed by RuleID
}

// Rules returns the arena in ID order. Callers must not modify it.
func (c *Collection) Rules() []*domain.Rule { return c.arena }

// Get returns the rule built under the given name.
func (c *Collection) Get(name string) (*domain.Rule, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// Name returns the definition name of a rule ID, if it has one.
func (c *Collection) Name(id domain.RuleID) (string, bool) {
	if int(id) < 0 || int(id) >= len(c.names) || c.names[id] == "" {
		return "", false
	}
	return c.names[id], true
}

// Len returns the number of built rules.
func (c *Collection) Len() int { return len(c.arena) }

// Load reads raw rule definitions from a YAML file and builds them.
func Load(path string, conv *keys.Converter) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raws map[string]Raw
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return Build(raws, conv)
}

// Build converts raw definitions into an immutable Collection. Keys are
// converted to s-keys form. A definition referencing an unknown rule, or one
// reachable from itself, fails the whole build naming the offending rule.
func Build(raws map[string]Raw, conv *keys.Converter) (*Collection, error) {
	b := &builder{
		raws: raws,
		conv: conv,
		coll: &Collection{byName: make(map[string]*domain.Rule, len(raws))},
		open: make(map[string]bool),
	}
	// Source order is arbitrary; iterate names sorted so IDs are stable
	// across runs for definitions with no dependency ordering between them.
	names := make([]string, 0, len(raws))
	for name := range raws {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, done := b.coll.byName[name]; !done {
			if err := b.parse(name); err != nil {
				return nil, err
			}
		}
	}
	return b.coll, nil
}

type builder struct {
	raws map[string]Raw
	conv *keys.Converter
	coll *Collection
	open map[string]bool // names currently being built, for cycle detection
}

func (b *builder) parse(name string) error {
	if b.open[name] {
		return fmt.Errorf("rule %q: circular reference", name)
	}
	b.open[name] = true
	defer delete(b.open, name)

	raw := b.raws[name]
	var flags domain.Flag
	for _, fn := range raw.Flags {
		f, ok := flagNames[fn]
		if !ok {
			return fmt.Errorf("rule %q: unknown flag %q", name, fn)
		}
		flags |= f
	}
	rmap := make([]domain.RuleMapItem, 0, len(raw.Children))
	last := 0
	for _, ref := range raw.Children {
		child, ok := b.coll.byName[ref.Name]
		if !ok {
			if _, defined := b.raws[ref.Name]; !defined {
				return fmt.Errorf("rule %q: undefined reference %q", name, ref.Name)
			}
			if err := b.parse(ref.Name); err != nil {
				return err
			}
			child = b.coll.byName[ref.Name]
		}
		if ref.Start < last || ref.Start < 0 || ref.Start+ref.Length > len(raw.Letters) {
			return fmt.Errorf("rule %q: child %q span [%d:%d] out of order or out of range",
				name, ref.Name, ref.Start, ref.Start+ref.Length)
		}
		last = ref.Start
		rmap = append(rmap, domain.RuleMapItem{Child: child, Start: ref.Start, Length: ref.Length})
	}
	if len(rmap) == 0 {
		rmap = nil
	}
	r := &domain.Rule{
		ID:      domain.RuleID(len(b.coll.arena)),
		Keys:    b.conv.ToSKeys(raw.Keys),
		Letters: raw.Letters,
		Flags:   flags,
		Desc:    raw.Desc,
		Map:     rmap,
	}
	b.coll.arena = append(b.coll.arena, r)
	b.coll.names = append(b.coll.names, name)
	b.coll.byName[name] = r
	return nil
}
