package trie

import "slices"

// Walk visits every node breadth-first, children in insertion order, and
// stops when fn returns false. The order is stable for a given sequence of
// insertions, which makes it suitable for diagnostics and graph renderers.
func (t *Trie[S]) Walk(fn func(Node[S]) bool) {
	if len(t.nodes) == 0 {
		return
	}
	queue := make([]int, 0, len(t.nodes))
	queue = append(queue, rootID)
	for head := 0; head < len(queue); head++ {
		id := queue[head]
		for _, e := range t.nodes[id].children {
			queue = append(queue, e.Child)
		}
		if !fn(t.view(id)) {
			return
		}
	}
}

// Node returns the node with the given arena id.
func (t *Trie[S]) Node(id int) (Node[S], bool) {
	if id < 0 || id >= len(t.nodes) {
		return Node[S]{}, false
	}
	return t.view(id), true
}

// Children returns the outgoing edges of a node in insertion order.
func (t *Trie[S]) Children(id int) []Edge[S] {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// Len returns the number of nodes, root included.
func (t *Trie[S]) Len() int {
	return len(t.nodes)
}

// Keywords returns the keyword table; position i holds keyword id i.
func (t *Trie[S]) Keywords() []string {
	return slices.Clone(t.keywords)
}

func (t *Trie[S]) view(id int) Node[S] {
	n := &t.nodes[id]
	v := Node[S]{
		ID:        id,
		Parent:    n.parent,
		Depth:     n.depth,
		Symbol:    n.symbol,
		KeywordID: n.keyword,
		Failure:   n.failure,
		Output:    n.output,
	}
	if n.keyword != noKeyword {
		v.Keyword = t.keywords[n.keyword]
	}
	return v
}
