package lexer

import (
	"testing"

	"stenolex/internal/domain"
)

// newEngine assembles a lexer over the full matcher chain from hand-built
// s-key rules, routed by flag the same way the production wiring routes them.
func newEngine(rulesList ...*domain.Rule) (*StenoLexer, *domain.Rule) {
	prefix := NewPrefixMatcher('/', "*")
	stroke := NewStrokeMatcher('/')
	word := NewWordMatcher()
	special := NewSpecialMatcher('/', '*')
	rare := make(map[domain.RuleID]struct{})
	for _, r := range rulesList {
		if r.Flags.Has(domain.Rare) {
			rare[r.ID] = struct{}{}
		}
		switch {
		case r.Flags.Has(domain.Internal):
		case r.Flags.Has(domain.Stroke):
			stroke.Add(r)
		case r.Flags.Has(domain.Word):
			word.Add(r)
		default:
			prefix.Add(r)
		}
	}
	sepRule := &domain.Rule{ID: 999, Keys: "/", Desc: "stroke separator"}
	lx := New('/', sepRule, CompoundMatcher{prefix, stroke, word, special}, rare)
	return lx, sepRule
}

func TestQueryFullMatch(t *testing.T) {
	test := mkRule(0, "TEft", "test", 0)
	lx, _ := newEngine(test)

	res := lx.Query("TEft", "test")
	if res.Unmatched != "" {
		t.Fatalf("unmatched = %q", res.Unmatched)
	}
	if len(res.Rules) != 1 || res.Rules[0].Rule != test ||
		res.Rules[0].Start != 0 || res.Rules[0].Length != 4 {
		t.Fatalf("rules = %+v", res.Rules)
	}
}

func TestQueryPrefersFewerRules(t *testing.T) {
	te := mkRule(0, "TE", "te", 0)
	lx, _ := newEngine(mkRule(1, "T", "t", 0), mkRule(2, "E", "e", 0), te)

	// T+E and TE both cover everything; the shorter map wins.
	res := lx.Query("TE", "te")
	if res.Unmatched != "" || len(res.Rules) != 1 || res.Rules[0].Rule != te {
		t.Fatalf("res = %+v", res)
	}
}

func TestQueryAvoidsRareRules(t *testing.T) {
	plain := mkRule(0, "S", "s", 0)
	rare := mkRule(1, "S", "s", domain.Rare)
	lx, _ := newEngine(plain, rare)

	res := lx.Query("S", "s")
	if len(res.Rules) != 1 || res.Rules[0].Rule != plain {
		t.Fatalf("res = %+v", res)
	}
}

func TestQuerySeparator(t *testing.T) {
	test := mkRule(0, "TEft", "test", 0)
	lx, sepRule := newEngine(test)

	res := lx.Query("TEft/TEft", "testtest")
	if res.Unmatched != "" {
		t.Fatalf("unmatched = %q", res.Unmatched)
	}
	want := []MapEntry{{test, 0, 4}, {sepRule, 4, 0}, {test, 4, 4}}
	if len(res.Rules) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(res.Rules), len(want), res.Rules)
	}
	last := 0
	for i, e := range res.Rules {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
		if e.Start < last {
			t.Errorf("entry %d starts at %d, before previous end %d", i, e.Start, last)
		}
		last = e.Start + e.Length
	}
}

func TestQueryNoMatch(t *testing.T) {
	lx, _ := newEngine(mkRule(0, "TEft", "test", 0))

	res := lx.Query("PAOEUgd", "xyz")
	if len(res.Rules) != 0 {
		t.Fatalf("rules = %+v", res.Rules)
	}
	if res.Unmatched != "PAOEUgd" {
		t.Fatalf("unmatched = %q, want the whole input", res.Unmatched)
	}
}

func TestQueryPartialMatch(t *testing.T) {
	test := mkRule(0, "TEft", "test", 0)
	lx, _ := newEngine(test)

	res := lx.Query("TEftz", "test")
	if len(res.Rules) != 1 || res.Rules[0].Rule != test {
		t.Fatalf("rules = %+v", res.Rules)
	}
	if res.Unmatched != "z" {
		t.Fatalf("unmatched = %q", res.Unmatched)
	}
}

func TestQuerySpecialStroke(t *testing.T) {
	test := mkRule(0, "TEft", "test", 0)
	ab := mkRule(10, "*", "", domain.Internal)
	pr := mkRule(11, "*", "", domain.Internal)
	ps := mkRule(12, "*", "", domain.Internal)
	qq := mkRule(13, "*", "", domain.Internal)
	lx, sepRule := newEngine(test, ab, pr, ps, qq)
	// Internal rules bypass flag routing; hook the chain up directly.
	sm := lx.matcher.(CompoundMatcher)[3].(*SpecialMatcher)
	sm.AddAbbreviation(ab)
	sm.AddProper(pr)
	sm.AddAffix(ps)
	sm.AddFallback(qq)

	// A trailing lone asterisk stroke over a period resolves as abbreviation.
	res := lx.Query("TEft/*", "test.")
	if res.Unmatched != "" {
		t.Fatalf("unmatched = %q", res.Unmatched)
	}
	want := []MapEntry{{test, 0, 4}, {sepRule, 4, 0}, {ab, 4, 0}}
	if len(res.Rules) != len(want) {
		t.Fatalf("got %d entries: %+v", len(res.Rules), res.Rules)
	}
	for i, e := range res.Rules {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestBestTranslation(t *testing.T) {
	lx, _ := newEngine(mkRule(0, "TEft", "test", 0))

	// A full match beats a miss.
	got := lx.BestTranslation([]domain.Translation{
		{Keys: "PAOEUgd", Letters: "test"},
		{Keys: "TEft", Letters: "test"},
	})
	if got != 1 {
		t.Fatalf("winner = %d, want 1", got)
	}

	// Leftovers normalize to at most one key before comparing, so the two
	// partials tie there and the shorter key string wins.
	got = lx.BestTranslation([]domain.Translation{
		{Keys: "TEftzz", Letters: "test"},
		{Keys: "TEftz", Letters: "test"},
	})
	if got != 1 {
		t.Fatalf("normalized winner = %d, want 1", got)
	}

	// Exact ties keep the earlier candidate.
	got = lx.BestTranslation([]domain.Translation{
		{Keys: "TEft", Letters: "test"},
		{Keys: "TEft", Letters: "test"},
	})
	if got != 0 {
		t.Fatalf("tie winner = %d, want 0", got)
	}
}
