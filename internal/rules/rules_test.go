package rules

import (
	"strings"
	"testing"

	"stenolex/internal/domain"
	"stenolex/internal/keys"
)

func testConv(t *testing.T) *keys.Converter {
	t.Helper()
	l := keys.Default()
	if err := l.Verify(); err != nil {
		t.Fatalf("default layout: %v", err)
	}
	return keys.NewConverter(l)
}

func TestBuildForwardReference(t *testing.T) {
	// "again" is defined after the rule that uses it; the builder must
	// resolve it on demand.
	raws := map[string]Raw{
		"a.again": {Keys: "TKPWEPB", Letters: "again", Children: []ChildRef{
			{Name: "z.gain", Start: 1, Length: 4},
		}},
		"z.gain": {Keys: "TKPWEPB", Letters: "gain"},
	}
	coll, err := Build(raws, testConv(t))
	if err != nil {
		t.Fatal(err)
	}
	again, ok := coll.Get("a.again")
	if !ok {
		t.Fatal("a.again not built")
	}
	if len(again.Map) != 1 || again.Map[0].Child.Letters != "gain" {
		t.Fatalf("map = %+v", again.Map)
	}
	if again.IsLeaf() {
		t.Error("rule with children reported as leaf")
	}
	if !again.Map[0].Child.IsLeaf() {
		t.Error("childless rule not reported as leaf")
	}
}

func TestBuildConvertsKeys(t *testing.T) {
	raws := map[string]Raw{
		"test": {Keys: "TEFT", Letters: "test"},
	}
	coll, err := Build(raws, testConv(t))
	if err != nil {
		t.Fatal(err)
	}
	r, _ := coll.Get("test")
	if r.Keys != "TEft" {
		t.Fatalf("keys stored as %q, want s-keys form", r.Keys)
	}
}

func TestBuildDenseStableIDs(t *testing.T) {
	raws := map[string]Raw{
		"b": {Keys: "T", Letters: "t"},
		"a": {Keys: "S", Letters: "s"},
		"c": {Keys: "K", Letters: "k"},
	}
	coll, err := Build(raws, testConv(t))
	if err != nil {
		t.Fatal(err)
	}
	if coll.Len() != 3 {
		t.Fatalf("len = %d", coll.Len())
	}
	// IDs index the arena and follow sorted definition names.
	for i, want := range []string{"a", "b", "c"} {
		r := coll.Rules()[i]
		if int(r.ID) != i {
			t.Errorf("rule %d has ID %d", i, r.ID)
		}
		if name, ok := coll.Name(r.ID); !ok || name != want {
			t.Errorf("Name(%d) = %q, %v", r.ID, name, ok)
		}
	}
	if _, ok := coll.Name(domain.RuleID(99)); ok {
		t.Error("Name resolved an ID outside the arena")
	}
	if _, ok := coll.Name(domain.RuleID(-1)); ok {
		t.Error("Name resolved a negative ID")
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		raws map[string]Raw
		want string
	}{
		{
			"cycle",
			map[string]Raw{
				"a": {Keys: "S", Letters: "s", Children: []ChildRef{{Name: "b", Start: 0, Length: 1}}},
				"b": {Keys: "S", Letters: "s", Children: []ChildRef{{Name: "a", Start: 0, Length: 1}}},
			},
			"circular reference",
		},
		{
			"self cycle",
			map[string]Raw{
				"a": {Keys: "S", Letters: "s", Children: []ChildRef{{Name: "a", Start: 0, Length: 1}}},
			},
			"circular reference",
		},
		{
			"undefined reference",
			map[string]Raw{
				"a": {Keys: "S", Letters: "s", Children: []ChildRef{{Name: "ghost", Start: 0, Length: 1}}},
			},
			"undefined reference",
		},
		{
			"unknown flag",
			map[string]Raw{
				"a": {Keys: "S", Letters: "s", Flags: []string{"sparkly"}},
			},
			"unknown flag",
		},
		{
			"span out of range",
			map[string]Raw{
				"a": {Keys: "S", Letters: "s", Children: []ChildRef{{Name: "b", Start: 0, Length: 5}}},
				"b": {Keys: "S", Letters: "s"},
			},
			"out of order or out of range",
		},
		{
			"spans out of order",
			map[string]Raw{
				"a": {Keys: "ST", Letters: "st", Children: []ChildRef{
					{Name: "b", Start: 1, Length: 1},
					{Name: "b", Start: 0, Length: 1},
				}},
				"b": {Keys: "S", Letters: "s"},
			},
			"out of order or out of range",
		},
	}
	for _, tc := range cases {
		_, err := Build(tc.raws, testConv(t))
		if err == nil {
			t.Errorf("%s: build succeeded", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestBuildFlags(t *testing.T) {
	raws := map[string]Raw{
		"a": {Keys: "S", Letters: "s", Flags: []string{"word", "rare"}},
	}
	coll, err := Build(raws, testConv(t))
	if err != nil {
		t.Fatal(err)
	}
	r, _ := coll.Get("a")
	if !r.Flags.Has(domain.Word) || !r.Flags.Has(domain.Rare) {
		t.Fatalf("flags = %v", r.Flags)
	}
	if r.Flags.Has(domain.Stroke) {
		t.Fatal("stroke flag set without being asked for")
	}
}
