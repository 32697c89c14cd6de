package app

import (
	"github.com/corey/kwtrie/internal/adapters/ahocorasick"
	"github.com/corey/kwtrie/internal/config"
	"github.com/corey/kwtrie/internal/domain/trie"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
)

// BuildOptions selects how a pattern list becomes a sealed matcher.
type BuildOptions struct {
	CaseSensitive bool
	Symbols       string // config.SymbolsByte or config.SymbolsRune
	Engine        string // config.EngineKwtrie or config.EngineReference
}

// OptionsFrom derives build options from configuration.
func OptionsFrom(cfg config.Config) BuildOptions {
	return BuildOptions{
		CaseSensitive: cfg.CaseSensitive,
		Symbols:       cfg.Symbols,
		Engine:        cfg.Engine,
	}
}

// Build constructs a sealed matcher over patterns. The kwtrie engine rejects
// duplicate patterns (after folding) with *trie.DuplicateKeywordError; the
// reference engine matches bytes only.
func Build(patterns []string, opts BuildOptions) (ports.PatternMatcher, error) {
	switch opts.Engine {
	case "", config.EngineKwtrie:
	case config.EngineReference:
		if opts.Symbols == config.SymbolsRune {
			return nil, errors.New("reference engine does not support rune symbols")
		}
		return ahocorasick.New(patterns, opts.CaseSensitive), nil
	default:
		return nil, errors.Errorf("unknown engine %q", opts.Engine)
	}

	switch opts.Symbols {
	case "", config.SymbolsByte:
		a := trie.New(opts.CaseSensitive)
		if err := a.InsertBatch(patterns); err != nil {
			return nil, errors.Wrap(err, "build automaton")
		}
		return a, nil
	case config.SymbolsRune:
		a := trie.NewRunes(opts.CaseSensitive)
		if err := a.InsertBatch(patterns); err != nil {
			return nil, errors.Wrap(err, "build automaton")
		}
		return a, nil
	default:
		return nil, errors.Errorf("unknown symbols %q", opts.Symbols)
	}
}
