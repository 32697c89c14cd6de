package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corey/kwtrie/internal/adapters/ahocorasick"
	"github.com/corey/kwtrie/internal/adapters/textsource"
	"github.com/corey/kwtrie/internal/config"
	"github.com/corey/kwtrie/internal/domain/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	patterns := []string{"he", "she", "his", "hers"}

	tests := []struct {
		name    string
		opts    BuildOptions
		wantErr bool
		check   func(t *testing.T, v any)
	}{
		{"default is byte trie", BuildOptions{CaseSensitive: true}, false, func(t *testing.T, v any) {
			assert.IsType(t, &trie.Automaton{}, v)
		}},
		{"rune trie", BuildOptions{Symbols: config.SymbolsRune}, false, func(t *testing.T, v any) {
			assert.IsType(t, &trie.Trie[rune]{}, v)
		}},
		{"reference", BuildOptions{Engine: config.EngineReference}, false, func(t *testing.T, v any) {
			assert.IsType(t, &ahocorasick.Matcher{}, v)
		}},
		{"reference runes", BuildOptions{Engine: config.EngineReference, Symbols: config.SymbolsRune}, true, nil},
		{"unknown engine", BuildOptions{Engine: "regex"}, true, nil},
		{"unknown symbols", BuildOptions{Symbols: "word"}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(patterns, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 4, m.KeywordCount())
			tt.check(t, m)
		})
	}
}

func TestBuild_EnginesAgree(t *testing.T) {
	patterns := []string{"he", "she", "his", "hers"}
	a, err := Build(patterns, BuildOptions{CaseSensitive: false})
	require.NoError(t, err)
	b, err := Build(patterns, BuildOptions{CaseSensitive: false, Engine: config.EngineReference})
	require.NoError(t, err)

	text := "USHERS and his sheep"
	assert.Equal(t, b.Scan(text), a.Scan(text))
}

func TestScanDocuments(t *testing.T) {
	m, err := Build([]string{"he", "she", "her", "hers"}, BuildOptions{CaseSensitive: true})
	require.NoError(t, err)

	docs := []textsource.Document{
		{Name: "a", Text: "ushershe"},
		{Name: "b", Text: "nothing"},
	}

	results, err := ScanDocuments(context.Background(), m, docs, ScanOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, 6, results[0].Count)
	assert.Len(t, results[0].Matches, 6)
	assert.Equal(t, 0, results[1].Count)
	assert.Nil(t, results[1].Matches)
	assert.Equal(t, 6, Total(results))

	limited, err := ScanDocuments(context.Background(), m, docs, ScanOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, limited[0].Count)
	assert.Len(t, limited[0].Matches, 2)
}

func TestScanDocuments_CountOnly(t *testing.T) {
	docs := []textsource.Document{{Name: "a", Text: "ushershe"}, {Name: "b", Text: "USHERS"}}
	for _, engine := range []string{config.EngineKwtrie, config.EngineReference} {
		m, err := Build([]string{"he", "she", "her", "hers"}, BuildOptions{Engine: engine})
		require.NoError(t, err)

		results, err := ScanDocuments(context.Background(), m, docs, ScanOptions{CountOnly: true, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 6, results[0].Count, engine)
		assert.Equal(t, 4, results[1].Count, engine)
		assert.Nil(t, results[0].Matches, engine)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.txt",
		"a.txt",
		filepath.Join("sub", "c.fa"),
		filepath.Join("sub", "notes.swp"),
		filepath.Join(".git", "HEAD"),
		filepath.Join(".kwtrie", "kwtrie.db"),
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	single := filepath.Join(dir, "b.txt")

	got, err := ExpandInputs([]string{textsource.Stdin, single, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		textsource.Stdin,
		single,
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "c.fa"),
	}, got)

	_, err = ExpandInputs([]string{filepath.Join(dir, "absent")})
	assert.Error(t, err)

	empty, err := ExpandInputs([]string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestScanDocuments_ManyInParallel(t *testing.T) {
	m, err := Build([]string{"GATTACA", "TTT"}, BuildOptions{CaseSensitive: true})
	require.NoError(t, err)

	docs := make([]textsource.Document, 64)
	for i := range docs {
		docs[i] = textsource.Document{Name: fmt.Sprintf("r%d", i), Text: strings.Repeat("GATTACA", i)}
	}
	results, err := ScanDocuments(context.Background(), m, docs, ScanOptions{})
	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("r%d", i), r.Name, "input order is kept")
		assert.Equal(t, i, r.Count)
	}
}

func TestScanDocuments_Cancelled(t *testing.T) {
	m, err := Build([]string{"a"}, BuildOptions{CaseSensitive: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ScanDocuments(ctx, m, []textsource.Document{{Name: "x", Text: "a"}}, ScanOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNumberLines(t *testing.T) {
	m, err := Build([]string{"he"}, BuildOptions{CaseSensitive: true})
	require.NoError(t, err)

	text := "he\nno\nshe he"
	r := Result{Matches: m.Scan(text)}
	NumberLines(&r, text, false)
	assert.Equal(t, []int{1, 3, 3}, r.Lines)

	empty := Result{Lines: []int{9}}
	NumberLines(&empty, "", false)
	assert.Nil(t, empty.Lines)
}
