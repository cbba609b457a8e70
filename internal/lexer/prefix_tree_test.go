package lexer

import (
	"reflect"
	"testing"
)

func TestPrefixTreeLookupOrder(t *testing.T) {
	tr := newPrefixTree[string]()
	tr.add("", "root")
	tr.add("A", "a")
	tr.add("AB", "ab1")
	tr.add("AB", "ab2") // duplicate keys keep every value
	tr.add("ABCD", "abcd")

	// Longest matched prefix first; the unmatched "ABCD" entry is unreachable
	// from "ABC" and insertion order is preserved within a node.
	got := tr.lookup("ABC")
	want := []string{"ab1", "ab2", "a", "root"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lookup(ABC) = %v, want %v", got, want)
	}

	got = tr.lookup("")
	if !reflect.DeepEqual(got, []string{"root"}) {
		t.Fatalf("lookup(empty) = %v", got)
	}

	got = tr.lookup("ZZZ")
	if !reflect.DeepEqual(got, []string{"root"}) {
		t.Fatalf("lookup with no match = %v, want root values only", got)
	}
}

func TestPrefixTreeEmpty(t *testing.T) {
	tr := newPrefixTree[int]()
	if got := tr.lookup("ANY"); len(got) != 0 {
		t.Fatalf("empty tree lookup = %v", got)
	}
}
