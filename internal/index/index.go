// Package index reduces batches of completed analyses into a reverse lookup
// of rule name to the translations that used it.
package index

import "stenolex/internal/domain"

// Size cutoffs for the translation pre-filter. Longer translations cost the
// most lexer time and produce the least useful examples, so index size is
// controlled by dropping them before analysis.
const (
	SizeMinimum = 1 // below this, the filter blocks everything
	SizeSmall   = 10
	SizeMedium  = 12 // default
	SizeLarge   = 15
	SizeMaximum = 20 // at this size and above, the filter is disabled
)

// Examples maps a rule name to every (keys, letters) translation whose
// analysis used that rule at the top level.
type Examples map[string]map[string]string

// Filter returns the translations where both strings fit within size.
func Filter(translations []domain.Translation, size int) []domain.Translation {
	if size < SizeMinimum {
		return nil
	}
	if size >= SizeMaximum {
		return translations
	}
	out := make([]domain.Translation, 0, len(translations))
	for _, t := range translations {
		if len(t.Keys) <= size && len(t.Letters) <= size {
			out = append(out, t)
		}
	}
	return out
}

// Compile accumulates an examples index from analysis results. name resolves
// a rule ID to its definition name; rules with no resolvable name (generated,
// unmatched, separator) are dropped.
func Compile(results []*domain.Rule, name func(domain.RuleID) (string, bool)) Examples {
	out := make(Examples)
	for _, rs := range results {
		for _, item := range rs.Map {
			n, ok := name(item.Child.ID)
			if !ok {
				continue
			}
			d := out[n]
			if d == nil {
				d = make(map[string]string)
				out[n] = d
			}
			d[rs.Keys] = rs.Letters
		}
	}
	return out
}
