package trie

// rootID is the arena index of the root node. The root's parent, failure and
// output links all point at itself.
const rootID = 0

// noKeyword marks a node that does not terminate any keyword.
const noKeyword = -1

// indexThreshold is the fan-out above which a node gets a lookup map in
// addition to its ordered edge list.
const indexThreshold = 8

// node is one arena slot: a distinct prefix of the inserted keywords.
// parent, failure and output are arena indices, never owners.
type node[S Symbol] struct {
	depth   int
	symbol  S
	keyword int
	parent  int
	failure int
	output  int

	children []Edge[S]
	index    map[S]int
}

// Edge is a labelled trie edge to a child node.
type Edge[S Symbol] struct {
	Symbol S
	Child  int
}

// Node is a read-only view of a trie node for diagnostics and renderers.
type Node[S Symbol] struct {
	ID        int
	Parent    int
	Depth     int
	Symbol    S // incoming edge label; zero for the root
	KeywordID int // -1 when the node terminates no keyword
	Keyword   string
	Failure   int
	Output    int // nearest keyword node on the failure chain, or the root
}

// IsRoot reports whether n is the root node.
func (n Node[S]) IsRoot() bool {
	return n.ID == rootID
}

// Terminal reports whether n terminates a keyword.
func (n Node[S]) Terminal() bool {
	return n.KeywordID != noKeyword
}

// child returns the child of n labelled s.
func (n *node[S]) child(s S) (int, bool) {
	if n.index != nil {
		id, ok := n.index[s]
		return id, ok
	}
	for _, e := range n.children {
		if e.Symbol == s {
			return e.Child, true
		}
	}
	return 0, false
}

// attach records a new edge. Insertion order is kept for stable iteration.
func (n *node[S]) attach(s S, id int) {
	n.children = append(n.children, Edge[S]{Symbol: s, Child: id})
	switch {
	case n.index != nil:
		n.index[s] = id
	case len(n.children) > indexThreshold:
		n.index = make(map[S]int, len(n.children)*2)
		for _, e := range n.children {
			n.index[e.Symbol] = e.Child
		}
	}
}
