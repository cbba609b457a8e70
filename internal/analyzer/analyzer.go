// Package analyzer wires the key converter, the rule matchers, and the lexer
// into the RTFCRE-facing analysis surface.
package analyzer

import (
	"fmt"
	"strings"

	"stenolex/internal/domain"
	"stenolex/internal/keys"
	"stenolex/internal/lexer"
	"stenolex/internal/rules"
)

// Analyzer answers queries over a fixed rule collection. It is immutable
// after Build and safe for concurrent use.
type Analyzer struct {
	conv  *keys.Converter
	lexer *lexer.StenoLexer
	coll  *rules.Collection
}

// Build verifies the layout and assembles a fully-built analyzer from a rule
// collection. There is no other registration path: everything the matchers
// know comes from this one call.
func Build(coll *rules.Collection, layout *keys.Layout) (*Analyzer, error) {
	if err := layout.Verify(); err != nil {
		return nil, err
	}
	conv := keys.NewConverter(layout)
	sep := conv.Sep()

	prefix := lexer.NewPrefixMatcher(sep, conv.Unordered())
	stroke := lexer.NewStrokeMatcher(sep)
	word := lexer.NewWordMatcher()
	special := lexer.NewSpecialMatcher(sep, conv.Special()[0])
	rare := make(map[domain.RuleID]struct{})

	for _, r := range coll.Rules() {
		if r.Flags.Has(domain.Rare) {
			rare[r.ID] = struct{}{}
		}
		switch {
		case r.Flags.Has(domain.Internal):
			// Internal rules are only reachable by name, below.
		case r.Flags.Has(domain.Stroke):
			stroke.Add(r)
		case r.Flags.Has(domain.Word):
			word.Add(r)
		default:
			prefix.Add(r)
		}
	}
	// The special rule chain is tried in a fixed order; missing entries are
	// simply skipped, leaving the remaining guesses in place.
	specialName := func(kind string) (*domain.Rule, bool) {
		return coll.Get(conv.Special() + ":" + kind)
	}
	if r, ok := specialName("AB"); ok {
		special.AddAbbreviation(r)
	}
	if r, ok := specialName("PR"); ok {
		special.AddProper(r)
	}
	if r, ok := specialName("PS"); ok {
		special.AddAffix(r)
	}
	if r, ok := specialName("??"); ok {
		special.AddFallback(r)
	}

	sepRule := &domain.Rule{
		ID:   domain.RuleID(coll.Len()),
		Keys: string(sep),
		Desc: "stroke separator",
	}
	compound := lexer.CompoundMatcher{prefix, stroke, word, special}
	return &Analyzer{
		conv:  conv,
		lexer: lexer.New(sep, sepRule, compound, rare),
		coll:  coll,
	}, nil
}

// Converter exposes the key converter for display layers.
func (a *Analyzer) Converter() *keys.Converter { return a.conv }

// RuleName resolves a rule ID back to its definition name.
func (a *Analyzer) RuleName(id domain.RuleID) (string, bool) { return a.coll.Name(id) }

// Query returns the best analysis of keys (RTFCRE) against letters as a
// lexer-generated rule whose map is the discovered segmentation. If matchAll
// is set and the best result still has leftover keys, a fully-unmatched
// result is returned instead; batch index builds use this to drop noisy
// partial matches. "No match" is never an error: it comes back as a rule
// carrying the unmatched placeholder.
func (a *Analyzer) Query(keysStr, letters string, matchAll bool) *domain.Rule {
	skeys := a.conv.ToSKeys(keysStr)
	res := a.lexer.Query(skeys, letters)
	var desc string
	switch {
	case res.Unmatched == "":
		desc = fmt.Sprintf("Found %d%% match.", matchPercentEntries(res.Rules, letters))
	case len(res.Rules) > 0:
		desc = "Incomplete match. Not reliable."
	default:
		desc = "No matches found."
	}
	unmatched := res.Unmatched
	entries := res.Rules
	if matchAll && unmatched != "" {
		entries = nil
		unmatched = skeys
	}
	rmap := make([]domain.RuleMapItem, 0, len(entries)+1)
	for _, e := range entries {
		rmap = append(rmap, domain.RuleMapItem{Child: e.Rule, Start: e.Start, Length: e.Length})
	}
	if unmatched != "" {
		// Cover everything after the last match with an unmatched placeholder.
		last := 0
		if n := len(rmap); n > 0 {
			last = rmap[n-1].Start + rmap[n-1].Length
		}
		bad := &domain.Rule{
			ID:    -1, // never resolvable to a definition name
			Keys:  a.conv.ToRTFCRE(unmatched),
			Flags: domain.Unmatched,
			Desc:  "unmatched keys",
		}
		rmap = append(rmap, domain.RuleMapItem{Child: bad, Start: last, Length: len(letters) - last})
	}
	return &domain.Rule{
		ID:      -1,
		Keys:    a.conv.ToRTFCRE(skeys),
		Letters: letters,
		Flags:   domain.Generated,
		Desc:    desc,
		Map:     rmap,
	}
}

// BestTranslation picks the best candidate key string for a single target
// word out of several valid spellings. Candidates are ranked by the lexer;
// ties fall to the earlier candidate.
func (a *Analyzer) BestTranslation(candidates []domain.Translation) domain.Translation {
	internal := make([]domain.Translation, len(candidates))
	for i, c := range candidates {
		internal[i] = domain.Translation{Keys: a.conv.ToSKeys(c.Keys), Letters: c.Letters}
	}
	return candidates[a.lexer.BestTranslation(internal)]
}

// matchPercentEntries is the share of matchable (non-space) letters covered
// by the map. All-whitespace words shouldn't happen, but don't divide by zero.
func matchPercentEntries(entries []lexer.MapEntry, letters string) int {
	matched := 0
	for _, e := range entries {
		matched += len(e.Rule.Letters)
	}
	matchable := len(letters) - strings.Count(letters, " ")
	if matchable == 0 {
		matchable = 1
	}
	return matched * 100 / matchable
}
