package lexer

import (
	"strings"

	"stenolex/internal/domain"
)

// specialTest decides whether a special rule applies to the current state.
type specialTest func(skeys, allSKeys, allLetters string) bool

type specialRule struct {
	rule *domain.Rule
	test specialTest
}

// SpecialMatcher guesses the meaning of the special key when it is the only
// key left in the current stroke. Rules are tried strictly in registration
// order and the first passing test wins; the order is semantically load
// bearing and the canonical chain is abbreviation, proper noun, affix,
// then the always-true ambiguous fallback.
type SpecialMatcher struct {
	sep   byte
	rules []specialRule
	// With the special key at the end of a stroke, these are the only
	// possibilities for the next two characters.
	validNextTwo [2]string
}

func NewSpecialMatcher(sep byte, special byte) *SpecialMatcher {
	return &SpecialMatcher{
		sep:          sep,
		validNextTwo: [2]string{string(special), string(special) + string(sep)},
	}
}

// AddAbbreviation registers the rule chosen when the letters contain a period.
func (m *SpecialMatcher) AddAbbreviation(rule *domain.Rule) {
	m.add(rule, func(_, _, allLetters string) bool {
		return strings.Contains(allLetters, ".")
	})
}

// AddProper registers the rule chosen when the letters are not all lowercase.
func (m *SpecialMatcher) AddProper(rule *domain.Rule) {
	m.add(rule, func(_, _, allLetters string) bool {
		return allLetters != strings.ToLower(allLetters)
	})
}

// AddAffix registers the rule chosen on exactly one of the first and last
// strokes of a multi-stroke translation.
func (m *SpecialMatcher) AddAffix(rule *domain.Rule) {
	sep := string(m.sep)
	m.add(rule, func(skeys, allSKeys, _ string) bool {
		isFirst := strings.Count(skeys, sep) == strings.Count(allSKeys, sep)
		isLast := !strings.Contains(skeys, sep)
		return isFirst != isLast
	})
}

// AddFallback registers the rule chosen when no other test passes.
func (m *SpecialMatcher) AddFallback(rule *domain.Rule) {
	m.add(rule, func(_, _, _ string) bool { return true })
}

func (m *SpecialMatcher) add(rule *domain.Rule, test specialTest) {
	m.rules = append(m.rules, specialRule{rule, test})
}

func (m *SpecialMatcher) Match(skeys, _, allSKeys, allLetters string) []Match {
	next := skeys
	if len(next) > 2 {
		next = next[:2]
	}
	if next != m.validNextTwo[0] && next != m.validNextTwo[1] {
		return nil
	}
	for _, sr := range m.rules {
		if sr.test(skeys, allSKeys, allLetters) {
			// Special rules use up the key but no letters.
			return []Match{{sr.rule, skeys[1:], 0, 0}}
		}
	}
	return nil
}
