// Package lexer contains the steno analysis engine: the rule matchers and the
// exhaustive search that decomposes a chord sequence into known rules.
package lexer

import (
	"strings"

	"stenolex/internal/domain"
)

// Match is one candidate continuation proposed by a matcher: the rule, the
// keys that would remain after removing the rule's keys, and the span of the
// remaining letters the rule covers.
type Match struct {
	Rule     *domain.Rule
	KeysLeft string
	Start    int
	Length   int
}

// Matcher proposes candidate next rules for a lexer state. skeys and letters
// are the unmatched remainders; allSKeys and allLetters are the full query.
type Matcher interface {
	Match(skeys, letters, allSKeys, allLetters string) []Match
}

// CompoundMatcher concatenates the matches of every configured matcher, in
// order, with no deduplication. Duplicate proposals are resolved by ranking.
type CompoundMatcher []Matcher

func (cm CompoundMatcher) Match(skeys, letters, allSKeys, allLetters string) []Match {
	var out []Match
	for _, m := range cm {
		out = append(out, m.Match(skeys, letters, allSKeys, allLetters)...)
	}
	return out
}

type prefixEntry struct {
	rule      *domain.Rule
	skeys     string // full key string, unordered keys included
	letters   string // lowercased
	unordered string // unordered keys from the rule's first stroke
}

type orderedEntry struct {
	rule    *domain.Rule
	keyLen  int
	letters string
}

// PrefixMatcher matches rules whose keys start with certain keys in order,
// plus any unordered keys anywhere within the first stroke. Performance
// degrades with the number of unordered keys; one (the asterisk) is typical.
type PrefixMatcher struct {
	sep       byte
	unordered string
	tree      *prefixTree[prefixEntry]  // all prefix rules
	ordered   *prefixTree[orderedEntry] // rules using no unordered keys, for the fast path
}

func NewPrefixMatcher(sep byte, unordered string) *PrefixMatcher {
	return &PrefixMatcher{
		sep:       sep,
		unordered: unordered,
		tree:      newPrefixTree[prefixEntry](),
		ordered:   newPrefixTree[orderedEntry](),
	}
}

// Add indexes a rule under its ordered keys only. The ordered keys are what
// remains after removing the unordered keys of the first stroke one at a time.
func (m *PrefixMatcher) Add(rule *domain.Rule) {
	skeys := rule.Keys
	// Lowercased letters let the rule match sentence beginnings and proper names.
	letters := strings.ToLower(rule.Letters)
	un := intersectKeys(m.unordered, firstStroke(skeys, m.sep))
	if un == "" {
		// Rules with only ordered keys also go in a separate tree where
		// prefixes can be removed by plain slicing.
		m.ordered.add(skeys, orderedEntry{rule, len(skeys), letters})
	}
	m.tree.add(removeKeys(skeys, un), prefixEntry{rule, skeys, letters, un})
}

// Match lists every rule matching a prefix of the ordered keys in skeys, a
// substring of the remaining letters, and a subset of the unordered keys
// available in the current stroke.
func (m *PrefixMatcher) Match(skeys, letters, _, _ string) []Match {
	letters = strings.ToLower(letters)
	un := intersectKeys(m.unordered, firstStroke(skeys, m.sep))
	if un == "" {
		return m.matchOrdered(skeys, letters)
	}
	var out []Match
	for _, e := range m.tree.lookup(removeKeys(skeys, un)) {
		if i := strings.Index(letters, e.letters); i >= 0 && isSubset(e.unordered, un) {
			// The rule's unordered keys have no guaranteed position, so every
			// matched key is removed individually rather than by slicing.
			out = append(out, Match{e.rule, removeKeys(skeys, e.skeys), i, len(e.letters)})
		}
	}
	return out
}

// matchOrdered is the fast path for key strings with no unordered keys in the
// first stroke: nothing with unordered keys can match, and matched prefixes
// come off by slicing.
func (m *PrefixMatcher) matchOrdered(skeys, letters string) []Match {
	var out []Match
	for _, e := range m.ordered.lookup(skeys) {
		if i := strings.Index(letters, e.letters); i >= 0 {
			out = append(out, Match{e.rule, skeys[e.keyLen:], i, len(e.letters)})
		}
	}
	return out
}

type strokeEntry struct {
	rule    *domain.Rule
	letters string // lowercased
}

// StrokeMatcher matches rules against the next full stroke exactly. It is
// only consulted at a stroke boundary.
type StrokeMatcher struct {
	sep   byte
	rules map[string]strokeEntry
}

func NewStrokeMatcher(sep byte) *StrokeMatcher {
	return &StrokeMatcher{sep: sep, rules: make(map[string]strokeEntry)}
}

func (m *StrokeMatcher) Add(rule *domain.Rule) {
	m.rules[rule.Keys] = strokeEntry{rule, strings.ToLower(rule.Letters)}
}

func (m *StrokeMatcher) Match(skeys, letters, allSKeys, _ string) []Match {
	// A complete stroke is next if we just started or a separator was just matched.
	if len(skeys) != len(allSKeys) && allSKeys[len(allSKeys)-len(skeys)-1] != m.sep {
		return nil
	}
	fs := firstStroke(skeys, m.sep)
	e, ok := m.rules[fs]
	if !ok {
		return nil
	}
	letters = strings.ToLower(letters)
	i := strings.Index(letters, e.letters)
	if i < 0 {
		return nil
	}
	return []Match{{e.rule, skeys[len(fs):], i, len(e.letters)}}
}

type wordEntry struct {
	rule  *domain.Rule
	skeys string
}

// WordMatcher matches rules against the next whitespace-separated word
// exactly, requiring the rule's keys to be a prefix of the remaining keys.
type WordMatcher struct {
	rules map[string]wordEntry
}

func NewWordMatcher() *WordMatcher {
	return &WordMatcher{rules: make(map[string]wordEntry)}
}

func (m *WordMatcher) Add(rule *domain.Rule) {
	m.rules[strings.ToLower(rule.Letters)] = wordEntry{rule, rule.Keys}
}

func (m *WordMatcher) Match(skeys, letters, allSKeys, _ string) []Match {
	// A complete word is next if we just started or the pointer sits on a space.
	if len(skeys) != len(allSKeys) && !strings.HasPrefix(letters, " ") {
		return nil
	}
	letters = strings.ToLower(letters)
	words := strings.Fields(letters)
	if len(words) == 0 {
		return nil
	}
	e, ok := m.rules[words[0]]
	if !ok || !strings.HasPrefix(skeys, e.skeys) {
		return nil
	}
	return []Match{{e.rule, skeys[len(e.skeys):], strings.Index(letters, words[0]), len(words[0])}}
}

// firstStroke returns the leading stroke of an s-keys string.
func firstStroke(skeys string, sep byte) string {
	if i := strings.IndexByte(skeys, sep); i >= 0 {
		return skeys[:i]
	}
	return skeys
}

// intersectKeys returns the characters of keys present in s, in keys order.
func intersectKeys(keys, s string) string {
	out := ""
	for i := 0; i < len(keys); i++ {
		if strings.IndexByte(s, keys[i]) >= 0 {
			out += string(keys[i])
		}
	}
	return out
}

// removeKeys removes the first occurrence of each character of keys from s.
func removeKeys(s, keys string) string {
	for i := 0; i < len(keys); i++ {
		if j := strings.IndexByte(s, keys[i]); j >= 0 {
			s = s[:j] + s[j+1:]
		}
	}
	return s
}

// isSubset reports whether every character of sub occurs in super.
func isSubset(sub, super string) bool {
	for i := 0; i < len(sub); i++ {
		if strings.IndexByte(super, sub[i]) < 0 {
			return false
		}
	}
	return true
}
