package trie

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/corey/kwtrie/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func m(keyword string, id, start, end int) ports.Match {
	return ports.Match{Keyword: keyword, ID: id, Start: start, End: end}
}

func TestScan_UsherShe(t *testing.T) {
	a := New(true)
	require.NoError(t, a.InsertBatch([]string{"he", "she", "her", "hers"}))

	got := a.Scan("ushershe")
	want := []ports.Match{
		m("she", 1, 1, 3),
		m("he", 0, 2, 3),
		m("her", 2, 2, 4),
		m("hers", 3, 2, 5),
		m("she", 1, 5, 7),
		m("he", 0, 6, 7),
	}
	assert.Equal(t, want, got)
	for _, match := range got {
		assert.Equal(t, len(match.Keyword), match.Len())
	}
}

func TestScan_CaseSensitivity(t *testing.T) {
	patterns := map[string]struct{}{"he": {}, "she": {}, "Her": {}, "hers": {}, "Help": {}, "we": {}}

	sensitive := New(true)
	require.NoError(t, sensitive.InsertSet(patterns))
	for _, match := range sensitive.Scan("ushershe") {
		assert.NotEqual(t, "Her", match.Keyword)
	}
	assert.Len(t, sensitive.Scan("ushershe"), 5)

	folding := New(false)
	require.NoError(t, folding.InsertSet(patterns))
	got := folding.Scan("ushershe")
	assert.Contains(t, got, m("Her", 1, 2, 4))
	assert.Len(t, got, 6)
}

func TestScan_FoldingBothDirections(t *testing.T) {
	a := New(false)
	require.NoError(t, a.Insert("Help"))
	assert.Equal(t, []ports.Match{m("Help", 0, 0, 3)}, a.Scan("help"))
	assert.Equal(t, []ports.Match{m("Help", 0, 4, 7)}, a.Scan("yelpHELP"))

	b := New(false)
	require.NoError(t, b.Insert("help"))
	assert.Len(t, b.Scan("HeLp"), 1)
}

func TestScan_ByteFoldingIsASCIIOnly(t *testing.T) {
	a := New(false)
	require.NoError(t, a.Insert("café"))
	assert.Len(t, a.Scan("CAFé"), 1)
	assert.Empty(t, a.Scan("CAFÉ"))
}

func TestScan_EmptyInputs(t *testing.T) {
	a := New(true)
	assert.Empty(t, a.Scan("ushershe"), "no keywords")

	require.NoError(t, a.Insert("he"))
	assert.Empty(t, a.Scan(""))
	assert.Empty(t, a.ScanSymbols(nil))
	assert.Equal(t, 0, a.Count(""))
}

func TestScan_UnseenSymbolsResetToRoot(t *testing.T) {
	a := New(true)
	require.NoError(t, a.Insert("abc"))
	assert.Empty(t, a.Scan("ab\x00c"))
	assert.Equal(t, []ports.Match{m("abc", 0, 3, 5)}, a.Scan("ab#abc"))
}

func TestScan_SuffixFromDeeperFailureChain(t *testing.T) {
	a := New(true)
	require.NoError(t, a.InsertBatch([]string{"abac", "c"}))
	assert.Equal(t, []ports.Match{m("abac", 0, 0, 3), m("c", 1, 3, 3)}, a.Scan("abac"))
}

func TestScan_OverlappingRepeats(t *testing.T) {
	a := New(true)
	require.NoError(t, a.InsertBatch([]string{"aa", "a", "aaa"}))
	got := a.Scan("aaa")
	want := []ports.Match{
		m("a", 1, 0, 0),
		m("aa", 0, 0, 1),
		m("a", 1, 1, 1),
		m("aaa", 2, 0, 2),
		m("aa", 0, 1, 2),
		m("a", 1, 2, 2),
	}
	assert.Equal(t, want, got)
}

func TestScan_Runes(t *testing.T) {
	a := NewRunes(false)
	require.NoError(t, a.InsertBatch([]string{"ürün", "Ün"}))

	// Offsets count code points: "Bir " is four runes.
	assert.Equal(t, []ports.Match{
		m("ürün", 0, 4, 7),
		m("Ün", 1, 6, 7),
	}, a.Scan("Bir ÜRÜN"))
}

func TestEach_StopsEarly(t *testing.T) {
	a := New(true)
	require.NoError(t, a.InsertBatch([]string{"he", "she"}))

	var seen []ports.Match
	a.Each([]byte("shehe"), func(match ports.Match) bool {
		seen = append(seen, match)
		return len(seen) < 2
	})
	assert.Equal(t, []ports.Match{m("she", 1, 0, 2), m("he", 0, 1, 2)}, seen)
	assert.Equal(t, 3, a.Count("shehe"))
}

// bruteForce finds every occurrence of every pattern by direct comparison.
func bruteForce(patterns []string, text string, fold bool) map[ports.Match]bool {
	norm := func(s string) string {
		if !fold {
			return s
		}
		b := []byte(s)
		for i := range b {
			b[i] = foldByte(b[i])
		}
		return string(b)
	}
	want := make(map[ports.Match]bool)
	ntext := norm(text)
	for id, p := range patterns {
		np := norm(p)
		for start := 0; start+len(np) <= len(ntext); start++ {
			if ntext[start:start+len(np)] == np {
				want[m(p, id, start, start+len(np)-1)] = true
			}
		}
	}
	return want
}

func randomString(r *rand.Rand, alphabet string, n int) string {
	var sb strings.Builder
	for range n {
		sb.WriteByte(alphabet[r.IntN(len(alphabet))])
	}
	return sb.String()
}

func TestScan_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for round := range 200 {
		fold := round%2 == 1
		alphabet := "abc"
		if fold {
			alphabet = "abcABC"
		}

		a := New(!fold)
		var patterns []string
		seen := make(map[string]bool)
		for range 1 + r.IntN(12) {
			p := randomString(r, alphabet, 1+r.IntN(5))
			key := p
			if fold {
				key = strings.ToLower(p)
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			patterns = append(patterns, p)
		}
		require.NoError(t, a.InsertBatch(patterns))

		text := randomString(r, alphabet, r.IntN(60))
		got := a.Scan(text)

		gotSet := make(map[ports.Match]bool, len(got))
		for _, match := range got {
			gotSet[match] = true
		}
		require.Equal(t, len(got), len(gotSet), "duplicate matches for %q in %q", patterns, text)
		require.Equal(t, bruteForce(patterns, text, fold), gotSet, "patterns %q text %q", patterns, text)
	}
}

func TestScan_OrderingLongestFirstPerEnd(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	a := New(true)
	require.NoError(t, a.InsertBatch([]string{"a", "ab", "bab", "abab", "b", "bb", "aabb"}))

	for range 50 {
		got := a.Scan(randomString(r, "ab", 40))
		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			require.LessOrEqual(t, prev.End, cur.End)
			if prev.End == cur.End {
				require.Greater(t, prev.Len(), cur.Len())
			}
		}
	}
}

func TestScan_ConcurrentReaders(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	a := New(false)
	require.NoError(t, a.InsertBatch([]string{"AACGTTCA", "acg", "cgt", "tac", "gtac"}))

	texts := make([]string, 16)
	want := make([][]ports.Match, len(texts))
	for i := range texts {
		texts[i] = randomString(r, "ACGTacgt", 2000)
		want[i] = a.Scan(texts[i])
	}

	var wg sync.WaitGroup
	got := make([][]ports.Match, len(texts))
	for i := range texts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = a.Scan(texts[i])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, want, got)
}

func BenchmarkScan_DNA(b *testing.B) {
	r := rand.New(rand.NewPCG(42, 42))
	text := []byte(randomString(r, "ACGT", 1<<20))

	a := New(true)
	require.NoError(b, a.InsertBatch([]string{"AACGTTCA", "ACGT", "GATTACA", "TTTT"}))

	b.SetBytes(int64(len(text)))
	for b.Loop() {
		a.ScanSymbols(text)
	}
}

func BenchmarkInsertBatch(b *testing.B) {
	r := rand.New(rand.NewPCG(9, 9))
	seen := make(map[string]struct{})
	for len(seen) < 2000 {
		seen[randomString(r, "ACGT", 6+r.IntN(10))] = struct{}{}
	}

	for b.Loop() {
		a := New(true)
		if err := a.InsertSet(seen); err != nil {
			b.Fatal(err)
		}
	}
}
