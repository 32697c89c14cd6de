// Package ahocorasick provides a reference ports.PatternMatcher backed by the
// petar-dambovaliev/aho-corasick library. kwtrie uses it to benchmark and
// cross-check its own automaton; results are normalized to the same ordering.
package ahocorasick

import (
	"cmp"
	"slices"

	"github.com/corey/kwtrie/internal/ports"
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Matcher implements ports.PatternMatcher on a DFA-compiled automaton.
// Offsets are byte offsets.
type Matcher struct {
	automaton aho.AhoCorasick
	keywords  []string
	built     bool
}

// New compiles the automaton from keywords. Empty keywords are dropped, the
// remaining ones keep their relative order as ids.
func New(keywords []string, caseSensitive bool) *Matcher {
	m := &Matcher{}
	for _, kw := range keywords {
		if kw != "" {
			m.keywords = append(m.keywords, kw)
		}
	}
	if len(m.keywords) == 0 {
		return m
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		AsciiCaseInsensitive: !caseSensitive,
		MatchKind:            aho.StandardMatch,
		DFA:                  true,
	})
	m.automaton = builder.Build(m.keywords)
	m.built = true
	return m
}

// Scan returns every overlapping match in content, ordered by end position
// and longest first within one end position.
func (m *Matcher) Scan(content string) []ports.Match {
	if !m.built || content == "" {
		return nil
	}

	iter := m.automaton.IterOverlappingByte([]byte(content))
	var matches []ports.Match
	for next := iter.Next(); next != nil; next = iter.Next() {
		hit := *next
		matches = append(matches, ports.Match{
			Keyword: m.keywords[hit.Pattern()],
			ID:      hit.Pattern(),
			Start:   hit.Start(),
			End:     hit.End() - 1, // library ends are exclusive
		})
	}

	slices.SortStableFunc(matches, func(a, b ports.Match) int {
		if c := cmp.Compare(a.End, b.End); c != 0 {
			return c
		}
		return cmp.Compare(b.Len(), a.Len())
	})
	return matches
}

// KeywordCount returns the number of keywords in the automaton.
func (m *Matcher) KeywordCount() int {
	return len(m.keywords)
}
