// Package trie implements an Aho-Corasick keyword automaton: a trie of keyword
// patterns augmented with failure and output links, scanned in a single pass.
//
// A Trie is built once (Insert, InsertBatch, InsertSet), sealed automatically
// by those calls, and then scanned read-only any number of times, including
// concurrently. Further insertions after scanning has started need external
// synchronization.
package trie

import (
	"maps"
	"slices"
)

// Trie is the keyword automaton over the alphabet S. Nodes live in a single
// arena slice and refer to each other by index.
//
// The zero value is an empty, case-sensitive automaton ready for insertion.
type Trie[S Symbol] struct {
	nodes      []node[S]
	keywords   []string
	ignoreCase bool

	fold   func(S) S
	decode func(string) []S
	valid  func(string) bool
}

// Automaton is the byte-oriented automaton: offsets are byte offsets.
type Automaton = Trie[byte]

// New creates a byte automaton. With caseSensitive false, ASCII letters are
// folded to lower case on insertion and scanning.
func New(caseSensitive bool) *Automaton {
	return NewTrie[byte](caseSensitive)
}

// NewRunes creates a code-point automaton: text is decoded as UTF-8 and match
// offsets count runes rather than bytes. Patterns must be valid UTF-8
// (*InvalidPatternError otherwise). Invalid bytes in scanned text decode to
// U+FFFD and match only keywords spelling U+FFFD itself.
func NewRunes(caseSensitive bool) *Trie[rune] {
	return NewTrie[rune](caseSensitive)
}

// NewTrie creates an automaton over the symbol type S.
func NewTrie[S Symbol](caseSensitive bool) *Trie[S] {
	t := &Trie[S]{ignoreCase: !caseSensitive}
	t.init()
	return t
}

func (t *Trie[S]) init() {
	if t.nodes != nil {
		return
	}
	t.nodes = []node[S]{{keyword: noKeyword}}
	t.fold = foldFunc[S]()
	t.decode = decodeFunc[S]()
	t.valid = validFunc[S]()
}

// CaseSensitive reports whether the automaton distinguishes letter case.
func (t *Trie[S]) CaseSensitive() bool {
	return !t.ignoreCase
}

// SetCaseSensitivity fixes the folding mode. It must be called before the
// first keyword is inserted; afterwards it fails with *CaseSensitivityError,
// since existing edges were built with the old folding.
func (t *Trie[S]) SetCaseSensitivity(caseSensitive bool) error {
	if len(t.keywords) > 0 {
		return &CaseSensitivityError{Keywords: len(t.keywords), Requested: caseSensitive}
	}
	t.ignoreCase = !caseSensitive
	return nil
}

// Insert adds a single keyword and recomputes the failure and output links.
// Empty patterns are ignored. A pattern whose folded form is already a
// keyword fails with *DuplicateKeywordError and leaves the automaton as it was.
//
// Linking is O(trie size); use InsertBatch to add many keywords.
func (t *Trie[S]) Insert(pattern string) error {
	t.init()
	return t.insert(pattern, false)
}

// InsertBatch adds keywords in order and links once at the end. The batch is
// validated before anything is inserted: if any pattern is not a valid
// pattern for the alphabet, or collides with an existing keyword or an
// earlier pattern of the same batch, the error names it and the automaton is
// unchanged.
func (t *Trie[S]) InsertBatch(patterns []string) error {
	t.init()

	seen := make(map[string]int, len(patterns))
	for i, p := range patterns {
		if p == "" {
			continue
		}
		if !t.valid(p) {
			return &InvalidPatternError{Pattern: p, Index: i}
		}
		syms := t.prepare(p)
		if kw := t.keywordAt(syms); kw != noKeyword {
			return &DuplicateKeywordError{Pattern: p, Existing: t.keywords[kw], ID: kw, Index: i}
		}
		key := symbolKey(syms)
		if j, ok := seen[key]; ok {
			return &DuplicateKeywordError{Pattern: p, Existing: patterns[j], ID: noKeyword, Index: i}
		}
		seen[key] = i
	}

	for _, p := range patterns {
		if err := t.insert(p, true); err != nil {
			return err
		}
	}
	t.link()
	return nil
}

// InsertSet adds an unordered set of keywords. Keys are inserted in sorted
// order so keyword ids do not depend on map iteration.
func (t *Trie[S]) InsertSet(patterns map[string]struct{}) error {
	return t.InsertBatch(slices.Sorted(maps.Keys(patterns)))
}

// insert walks the (folded) pattern from the root, creating missing nodes,
// and marks the terminal node with the next keyword id.
func (t *Trie[S]) insert(pattern string, deferLinking bool) error {
	if pattern == "" {
		return nil
	}
	if !t.valid(pattern) {
		return &InvalidPatternError{Pattern: pattern, Index: -1}
	}
	syms := t.prepare(pattern)
	if kw := t.keywordAt(syms); kw != noKeyword {
		return &DuplicateKeywordError{Pattern: pattern, Existing: t.keywords[kw], ID: kw, Index: -1}
	}

	cur := rootID
	for _, s := range syms {
		next, ok := t.nodes[cur].child(s)
		if !ok {
			next = t.addChild(cur, s)
		}
		cur = next
	}
	t.nodes[cur].keyword = len(t.keywords)
	t.keywords = append(t.keywords, pattern)

	if !deferLinking {
		t.link()
	}
	return nil
}

// addChild appends a node under parent. Its failure and output links point
// at the root until the next link pass.
func (t *Trie[S]) addChild(parent int, s S) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node[S]{
		depth:   t.nodes[parent].depth + 1,
		symbol:  s,
		keyword: noKeyword,
		parent:  parent,
		failure: rootID,
		output:  rootID,
	})
	t.nodes[parent].attach(s, id)
	return id
}

// prepare decodes a pattern into symbols, folded when case-insensitive.
func (t *Trie[S]) prepare(pattern string) []S {
	syms := t.decode(pattern)
	if t.ignoreCase {
		for i, s := range syms {
			syms[i] = t.fold(s)
		}
	}
	return syms
}

// keywordAt returns the keyword id terminating at the path syms, or noKeyword.
func (t *Trie[S]) keywordAt(syms []S) int {
	cur := rootID
	for _, s := range syms {
		next, ok := t.nodes[cur].child(s)
		if !ok {
			return noKeyword
		}
		cur = next
	}
	if cur == rootID {
		return noKeyword
	}
	return t.nodes[cur].keyword
}

// link computes failure and output links breadth-first. BFS order guarantees
// a node's parent, and every shallower node, is final before the node itself.
func (t *Trie[S]) link() {
	queue := make([]int, 0, len(t.nodes))
	queue = append(queue, rootID)

	for head := 0; head < len(queue); head++ {
		id := queue[head]
		n := &t.nodes[id]
		for _, e := range n.children {
			queue = append(queue, e.Child)
		}
		if id == rootID {
			continue
		}

		// A failure at depth-1 is the longest possible suffix and never changes.
		if t.nodes[n.failure].depth < n.depth-1 {
			n.failure = t.failureTarget(n.parent, n.symbol)
		}

		out := n.failure
		for out != rootID && t.nodes[out].keyword == noKeyword {
			out = t.nodes[out].failure
		}
		n.output = out
	}
}

// failureTarget finds the failure link for the child of parent labelled s:
// the first node on parent's failure chain with an s-edge, else the root.
func (t *Trie[S]) failureTarget(parent int, s S) int {
	if parent == rootID {
		return rootID
	}
	f := t.nodes[parent].failure
	for {
		if c, ok := t.nodes[f].child(s); ok {
			return c
		}
		if f == rootID {
			return rootID
		}
		f = t.nodes[f].failure
	}
}

func symbolKey[S Symbol](syms []S) string {
	switch v := any(syms).(type) {
	case []byte:
		return string(v)
	case []rune:
		return string(v)
	}
	return ""
}
