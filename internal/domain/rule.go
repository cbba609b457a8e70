package domain

// RuleID is a dense integer identity assigned to each rule at build time.
// All identity-keyed lookups (rarity, reverse name lookup) use it instead of
// structural equality, which could silently collide for distinct rules.
type RuleID int

// Flag marks a property of a rule. The vocabulary is closed.
type Flag uint8

const (
	// Internal rules are only used inside other rules, referenced by name.
	Internal Flag = 1 << iota
	// Stroke rules match exactly one full stroke, never part of one.
	Stroke
	// Word rules match exactly one whitespace-separated word.
	Word
	// Rare rules apply to very few words and are penalized in ranking.
	Rare
	// Inversion rules have child keys out of steno order with respect to the parent.
	Inversion
	// Unmatched marks the synthetic placeholder holding leftover keys.
	Unmatched
	// Generated marks a rule produced by the lexer rather than a definition.
	Generated
)

// Has reports whether all bits in want are set.
func (f Flag) Has(want Flag) bool { return f&want == want }

// RuleMapItem attaches a child rule to a span of the parent's letters.
type RuleMapItem struct {
	Child  *Rule
	Start  int
	Length int
}

// Rule maps a set of steno keys to a span of letters. Rules are built once
// and never mutated afterward; they are shared freely between goroutines.
type Rule struct {
	ID      RuleID
	Keys    string // s-keys internal encoding
	Letters string
	Flags   Flag
	Desc    string
	Map     []RuleMapItem // ordered by non-decreasing Start; empty for leaf rules
}

// IsLeaf reports whether the rule has no child rules.
func (r *Rule) IsLeaf() bool { return len(r.Map) == 0 }

func (r *Rule) String() string { return r.Keys + " → " + r.Letters }

// Translation is a single dictionary entry: RTFCRE keys and the text they produce.
type Translation struct {
	Keys    string
	Letters string
}
