package lexer

// prefixTree is a trie over s-keys strings with duplicate keys allowed: every
// node holds a list of values rather than a single one. Nodes live in a flat
// arena and reference children by index, keeping the hot lookup path free of
// pointer chasing.
type prefixTree[V any] struct {
	nodes []treeNode[V]
}

type treeNode[V any] struct {
	children map[byte]int32
	values   []V
}

func newPrefixTree[V any]() *prefixTree[V] {
	// The root node matches the empty string, which is a prefix of everything.
	return &prefixTree[V]{nodes: make([]treeNode[V], 1)}
}

// add appends v to the value list under key, creating nodes as needed.
func (t *prefixTree[V]) add(key string, v V) {
	n := int32(0)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if t.nodes[n].children == nil {
			t.nodes[n].children = make(map[byte]int32)
		}
		next, ok := t.nodes[n].children[c]
		if !ok {
			next = int32(len(t.nodes))
			t.nodes[n].children[c] = next
			t.nodes = append(t.nodes, treeNode[V]{})
		}
		n = next
	}
	t.nodes[n].values = append(t.nodes[n].values, v)
}

// lookup returns every value registered under any prefix of key, in order
// from the longest matched prefix to the shortest. Downstream enumeration
// order depends on this, so it must not change.
func (t *prefixTree[V]) lookup(key string) []V {
	path := make([]int32, 1, len(key)+1)
	n := int32(0)
	for i := 0; i < len(key); i++ {
		next, ok := t.nodes[n].children[key[i]]
		if !ok {
			break
		}
		n = next
		path = append(path, n)
	}
	var out []V
	for i := len(path) - 1; i >= 0; i-- {
		out = append(out, t.nodes[path[i]].values...)
	}
	return out
}
