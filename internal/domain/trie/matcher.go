package trie

import "github.com/corey/kwtrie/internal/ports"

// Scan reports every keyword occurrence in text.
//
// Matches come in non-decreasing End order; matches sharing an End come
// longest first. Scan never mutates the automaton and is safe to call from
// many goroutines at once.
func (t *Trie[S]) Scan(text string) []ports.Match {
	if text == "" || len(t.keywords) == 0 {
		return nil
	}
	return t.ScanSymbols(t.decode(text))
}

// ScanSymbols is Scan over pre-decoded symbols. For byte automatons this
// scans a []byte without copying it.
func (t *Trie[S]) ScanSymbols(text []S) []ports.Match {
	var matches []ports.Match
	t.Each(text, func(m ports.Match) bool {
		matches = append(matches, m)
		return true
	})
	return matches
}

// Each calls fn for every match in the order Scan reports them and stops
// early when fn returns false.
func (t *Trie[S]) Each(text []S, fn func(ports.Match) bool) {
	if len(text) == 0 || len(t.keywords) == 0 {
		return
	}

	cur := rootID
	for i, s := range text {
		if t.ignoreCase {
			s = t.fold(s)
		}
		cur = t.step(cur, s)

		n := &t.nodes[cur]
		if n.keyword != noKeyword {
			if !fn(t.match(n, i)) {
				return
			}
		}
		for out := n.output; out != rootID; out = t.nodes[out].output {
			if !fn(t.match(&t.nodes[out], i)) {
				return
			}
		}
	}
}

// Count returns the number of matches in text without collecting them.
func (t *Trie[S]) Count(text string) int {
	if text == "" || len(t.keywords) == 0 {
		return 0
	}
	count := 0
	t.Each(t.decode(text), func(ports.Match) bool {
		count++
		return true
	})
	return count
}

// step is the goto function: follow a direct edge, else fall back along the
// failure chain, else stay at the root.
func (t *Trie[S]) step(cur int, s S) int {
	for {
		if next, ok := t.nodes[cur].child(s); ok {
			return next
		}
		if cur == rootID {
			return rootID
		}
		cur = t.nodes[cur].failure
	}
}

func (t *Trie[S]) match(n *node[S], end int) ports.Match {
	return ports.Match{
		Keyword: t.keywords[n.keyword],
		ID:      n.keyword,
		Start:   end - n.depth + 1,
		End:     end,
	}
}

// KeywordCount returns the number of inserted keywords.
func (t *Trie[S]) KeywordCount() int {
	return len(t.keywords)
}
