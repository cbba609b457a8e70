package index

import (
	"reflect"
	"testing"

	"stenolex/internal/domain"
)

func TestFilter(t *testing.T) {
	translations := []domain.Translation{
		{Keys: "TEFT", Letters: "test"},
		{Keys: "TEFT/TEFT", Letters: "testtest"},
		{Keys: "S", Letters: "extraordinarily"},
	}
	if got := Filter(translations, 0); got != nil {
		t.Fatalf("size below minimum: got %v", got)
	}
	if got := Filter(translations, SizeMaximum); len(got) != 3 {
		t.Fatalf("maximum size must disable the filter: got %v", got)
	}
	got := Filter(translations, SizeSmall)
	if len(got) != 1 || got[0].Keys != "TEFT" {
		t.Fatalf("Filter(10) = %v", got)
	}
	// Either side being too long drops the pair.
	got = Filter(translations, SizeLarge)
	if len(got) != 2 {
		t.Fatalf("Filter(15) = %v", got)
	}
}

func TestCompile(t *testing.T) {
	child := func(id int) *domain.Rule { return &domain.Rule{ID: domain.RuleID(id)} }
	names := map[domain.RuleID]string{0: "t.test", 1: "e.e"}
	name := func(id domain.RuleID) (string, bool) {
		n, ok := names[id]
		return n, ok
	}
	results := []*domain.Rule{
		{Keys: "TEFT", Letters: "test", Map: []domain.RuleMapItem{
			{Child: child(0)},
			{Child: child(-1)}, // unmatched placeholder, no name
		}},
		{Keys: "TEFT/TEFT", Letters: "testtest", Map: []domain.RuleMapItem{
			{Child: child(0)},
			{Child: child(0)}, // same rule twice, one example entry
			{Child: child(1)},
		}},
	}
	got := Compile(results, name)
	want := Examples{
		"t.test": {"TEFT": "test", "TEFT/TEFT": "testtest"},
		"e.e":    {"TEFT/TEFT": "testtest"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Compile = %v, want %v", got, want)
	}
}
