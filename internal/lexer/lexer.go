package lexer

import "stenolex/internal/domain"

// MapEntry places a matched rule at a span of the query letters.
type MapEntry struct {
	Rule   *domain.Rule
	Start  int
	Length int
}

// Result holds the rules found in one translation, their positions in the
// word, and any leftover keys that could not be matched.
type Result struct {
	Rules     []MapEntry
	Unmatched string // leftover s-keys
}

// state is the lexer at some point in time: the keys not yet matched and the
// rule map built so far. States must stay lightweight; the search creates
// many of them.
type state struct {
	keysLeft string
	rmap     []MapEntry
}

// candidate is a terminal-or-not search state plus the query it came from,
// which the ranking needs for the total-key-count criterion.
type candidate struct {
	state
	allKeys string
}

// StenoLexer drives the matchers over every decomposition of a key string it
// can find, then ranks the possibilities to pick the most likely one. All key
// input must be in s-keys form. The lexer is immutable after construction and
// safe for concurrent queries.
type StenoLexer struct {
	sep     byte
	sepRule *domain.Rule // consumes a stroke separator; maps to no letters
	matcher Matcher
	rare    map[domain.RuleID]struct{}
}

// New builds a lexer from a compound matcher and the set of rare rule IDs.
// sepRule is appended to the rule map whenever a stroke separator is crossed.
func New(sep byte, sepRule *domain.Rule, matcher Matcher, rare map[domain.RuleID]struct{}) *StenoLexer {
	return &StenoLexer{sep: sep, sepRule: sepRule, matcher: matcher, rare: rare}
}

// Query returns the best rule map for skeys over letters, along with any keys
// left unmatched. If nothing matches at all, the result has an empty rule map
// and every key unmatched.
func (lx *StenoLexer) Query(skeys, letters string) Result {
	best := lx.best(lx.search(skeys, letters))
	return Result{Rules: best.rmap, Unmatched: best.keysLeft}
}

// BestTranslation runs the search independently for each (skeys, letters)
// candidate and returns the index of the winner under the usual ranking.
// Leftover-key counts are first normalized down to at most one key so that
// longer key strings are not penalized for having proportionally more
// leftover characters.
func (lx *StenoLexer) BestTranslation(translations []domain.Translation) int {
	bestOfEach := make([]candidate, len(translations))
	for i, t := range translations {
		best := lx.best(lx.search(t.Keys, t.Letters))
		if len(best.keysLeft) > 1 {
			best.keysLeft = best.keysLeft[:1]
		}
		bestOfEach[i] = best
	}
	winner := 0
	for i := 1; i < len(bestOfEach); i++ {
		if lx.better(bestOfEach[i], bestOfEach[winner]) {
			winner = i
		}
	}
	return winner
}

// search enumerates every reachable lexer state breadth-first. The queue is a
// plain slice scanned by index; nothing is ever removed, so every state that
// was ever enqueued remains a ranking candidate, terminal or not. There is no
// pruning or beam limit: worst-case cost is bounded only by how many states
// the matchers generate, and callers control it by input size.
func (lx *StenoLexer) search(skeys, letters string) []candidate {
	q := []candidate{{state{keysLeft: skeys}, skeys}}
	for i := 0; i < len(q); i++ {
		cur := q[i].state
		if cur.keysLeft == "" {
			continue
		}
		wordptr := 0
		if n := len(cur.rmap); n > 0 {
			wordptr = cur.rmap[n-1].Start + cur.rmap[n-1].Length
		}
		// An empty current stroke means a separator is next. Nothing can
		// match across it, so consuming it is the only transition.
		if cur.keysLeft[0] == lx.sep {
			q = append(q, candidate{state{
				keysLeft: cur.keysLeft[1:],
				rmap:     extend(cur.rmap, MapEntry{lx.sepRule, wordptr, 0}),
			}, skeys})
			continue
		}
		for _, m := range lx.matcher.Match(cur.keysLeft, letters[wordptr:], skeys, letters) {
			q = append(q, candidate{state{
				keysLeft: m.KeysLeft,
				rmap:     extend(cur.rmap, MapEntry{m.Rule, wordptr + m.Start, m.Length}),
			}, skeys})
		}
	}
	return q
}

// best folds the ranking over all candidates; earlier states win ties.
func (lx *StenoLexer) best(states []candidate) candidate {
	winner := states[0]
	for _, s := range states[1:] {
		if lx.better(s, winner) {
			winner = s
		}
	}
	return winner
}

// better reports whether a strictly outranks b. The criteria are evaluated
// lazily, first nonzero result wins, in this exact priority order:
// fewest keys unmatched, most letters matched, fewest rare rules, fewest
// total keys in the query, fewest rules in the map.
func (lx *StenoLexer) better(a, b candidate) bool {
	if c := len(b.keysLeft) - len(a.keysLeft); c != 0 {
		return c > 0
	}
	if c := lettersMatched(a.rmap) - lettersMatched(b.rmap); c != 0 {
		return c > 0
	}
	if c := lx.rareCount(b.rmap) - lx.rareCount(a.rmap); c != 0 {
		return c > 0
	}
	if c := len(b.allKeys) - len(a.allKeys); c != 0 {
		return c > 0
	}
	return len(b.rmap)-len(a.rmap) > 0
}

func lettersMatched(rmap []MapEntry) int {
	n := 0
	for _, e := range rmap {
		n += e.Length
	}
	return n
}

func (lx *StenoLexer) rareCount(rmap []MapEntry) int {
	n := 0
	for _, e := range rmap {
		if _, ok := lx.rare[e.Rule.ID]; ok {
			n++
		}
	}
	return n
}

// extend copies the rule map with one more entry. States share nothing, so a
// plain append could alias the backing array between queue branches.
func extend(rmap []MapEntry, e MapEntry) []MapEntry {
	out := make([]MapEntry, len(rmap)+1)
	copy(out, rmap)
	out[len(rmap)] = e
	return out
}
