// Package keys defines steno key layouts and conversion between the two
// textual encodings of a stroke sequence:
//
//	RTFCRE - the user-facing notation. Keys are all uppercase and a hyphen
//	         delimits the left and right sides of the board. Center keys may
//	         also delimit the sides, in which case the hyphen is omitted.
//	s-keys - the internal notation used by the lexer. Every key is a unique
//	         character; right-side keys are lowercased, so sides are never
//	         ambiguous even when keys are out of order.
//
// Strings from outside sources (dictionaries, user input) are assumed to be
// RTFCRE. Variables holding the internal form are labeled "skeys".
package keys

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout describes every section and character of a steno key layout.
type Layout struct {
	Sep       string            `yaml:"sep"`       // stroke delimiter, same in both encodings
	Split     string            `yaml:"split"`     // RTFCRE board split delimiter
	Special   string            `yaml:"special"`   // special-cased key (the asterisk)
	Unordered string            `yaml:"unordered"` // keys that do not respect steno order within a stroke
	Shift     string            `yaml:"shift"`     // key implied by the presence of any alias character
	Left      string            `yaml:"left"`      // left-side keys
	Center    string            `yaml:"center"`    // center keys
	Right     string            `yaml:"right"`     // right-side keys in RTFCRE (uppercase) form
	Aliases   map[string]string `yaml:"aliases,omitempty"`
}

// Default returns the standard English steno layout. The number key acts as a
// shift: digits stand in for the keys sharing their physical position.
func Default() *Layout {
	return &Layout{
		Sep:       "/",
		Split:     "-",
		Special:   "*",
		Unordered: "*",
		Shift:     "#",
		Left:      "#STKPWHR",
		Center:    "AO*EU",
		Right:     "FRPBLGTSDZ",
		Aliases: map[string]string{
			"0": "O", "1": "S", "2": "T", "3": "P", "4": "H",
			"5": "A", "6": "F", "7": "P", "8": "L", "9": "T",
		},
	}
}

// Load reads a layout from a YAML file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	if err := l.Verify(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return &l, nil
}

// Verify checks the structural invariants of the layout: single-character
// delimiters disjoint from all keys, no duplicate key characters within or
// across the three side groups after casing, and every special, unordered,
// shift, and alias designation referring to a key that actually exists.
func (l *Layout) Verify() error {
	for name, s := range map[string]string{"sep": l.Sep, "split": l.Split} {
		if len(s) != 1 {
			return fmt.Errorf("%s must be a single character, got %q", name, s)
		}
	}
	var seen [256]bool
	for _, group := range []string{l.Left, l.Center, strings.ToLower(l.Right)} {
		for i := 0; i < len(group); i++ {
			k := group[i]
			if seen[k] {
				return fmt.Errorf("duplicate key character %q", string(k))
			}
			seen[k] = true
		}
	}
	if seen[l.Sep[0]] || seen[l.Split[0]] {
		return fmt.Errorf("delimiters %q/%q must not be key characters", l.Sep, l.Split)
	}
	inGroups := func(keys string) bool {
		for i := 0; i < len(keys); i++ {
			k := keys[i]
			if !strings.ContainsRune(l.Left, rune(k)) && !strings.ContainsRune(l.Center, rune(k)) &&
				!strings.ContainsRune(l.Right, rune(k)) {
				return false
			}
		}
		return len(keys) > 0
	}
	if !inGroups(l.Special) {
		return fmt.Errorf("special key %q is not in any key group", l.Special)
	}
	if !inGroups(l.Unordered) {
		return fmt.Errorf("unordered keys %q are not all in a key group", l.Unordered)
	}
	if len(l.Aliases) > 0 {
		if !inGroups(l.Shift) {
			return fmt.Errorf("shift key %q is not in any key group", l.Shift)
		}
		for a, k := range l.Aliases {
			if len(a) != 1 || seen[a[0]] {
				return fmt.Errorf("alias %q must be a single character unused as a key", a)
			}
			if !inGroups(k) {
				return fmt.Errorf("alias %q maps to nonexistent key %q", a, k)
			}
		}
	}
	return nil
}
