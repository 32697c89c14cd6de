package ahocorasick

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/corey/kwtrie/internal/domain/trie"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Reference engine: same matches as the kwtrie automaton, byte offsets,
// end-ordered, longest first.
// =============================================================================

var _ ports.PatternMatcher = (*Matcher)(nil)
var _ ports.PatternMatcher = (*trie.Automaton)(nil)

func TestMatcher_OverlappingKeywords(t *testing.T) {
	m := New([]string{"he", "she", "her", "hers"}, true)
	got := m.Scan("ushershe")
	assert.Equal(t, []ports.Match{
		{Keyword: "she", ID: 1, Start: 1, End: 3},
		{Keyword: "he", ID: 0, Start: 2, End: 3},
		{Keyword: "her", ID: 2, Start: 2, End: 4},
		{Keyword: "hers", ID: 3, Start: 2, End: 5},
		{Keyword: "she", ID: 1, Start: 5, End: 7},
		{Keyword: "he", ID: 0, Start: 6, End: 7},
	}, got)
}

func TestMatcher_NoMatch(t *testing.T) {
	m := New([]string{"auth"}, true)
	assert.Nil(t, m.Scan("hello world"))
	assert.Nil(t, m.Scan(""))
}

func TestMatcher_Empty(t *testing.T) {
	m := New([]string{"", ""}, true)
	assert.Equal(t, 0, m.KeywordCount())
	assert.Nil(t, m.Scan("anything"))
}

func TestMatcher_CaseInsensitive(t *testing.T) {
	m := New([]string{"Login"}, false)
	got := m.Scan("user LOGIN flow")
	require.Len(t, got, 1)
	assert.Equal(t, "Login", got[0].Keyword)
	assert.Equal(t, 5, got[0].Start)
	assert.Equal(t, 9, got[0].End)

	assert.Nil(t, New([]string{"Login"}, true).Scan("user login flow"))
}

func TestMatcher_SkipsEmptyPatterns(t *testing.T) {
	m := New([]string{"a", "", "b"}, true)
	assert.Equal(t, 2, m.KeywordCount())
	got := m.Scan("ba")
	require.Len(t, got, 2)
	assert.Equal(t, ports.Match{Keyword: "b", ID: 1, Start: 0, End: 0}, got[0])
	assert.Equal(t, ports.Match{Keyword: "a", ID: 0, Start: 1, End: 1}, got[1])
}

func randomDNA(r *rand.Rand, n int) string {
	var sb strings.Builder
	for range n {
		sb.WriteByte("ACGTacgt"[r.IntN(8)])
	}
	return sb.String()
}

func TestMatcher_AgreesWithAutomaton(t *testing.T) {
	r := rand.New(rand.NewPCG(2016, 7))

	for round := range 100 {
		caseSensitive := round%2 == 0

		seen := make(map[string]bool)
		var patterns []string
		for range 1 + r.IntN(20) {
			p := randomDNA(r, 1+r.IntN(6))
			key := p
			if !caseSensitive {
				key = strings.ToLower(p)
			}
			if !seen[key] {
				seen[key] = true
				patterns = append(patterns, p)
			}
		}

		a := trie.New(caseSensitive)
		require.NoError(t, a.InsertBatch(patterns))
		ref := New(patterns, caseSensitive)

		text := randomDNA(r, 500)
		require.Equal(t, ref.Scan(text), a.Scan(text), "patterns %q", patterns)
	}
}

func BenchmarkReferenceScan(b *testing.B) {
	r := rand.New(rand.NewPCG(42, 42))
	text := randomDNA(r, 1<<20)
	m := New([]string{"AACGTTCA", "ACGT", "GATTACA", "TTTT"}, true)

	b.SetBytes(int64(len(text)))
	for b.Loop() {
		m.Scan(text)
	}
}
