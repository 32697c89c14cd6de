package cmd

import (
	"github.com/corey/kwtrie/internal/adapters/textsource"
	"github.com/corey/kwtrie/internal/app"
	"github.com/corey/kwtrie/internal/config"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// adHocName names dictionaries assembled from -e/-f flags.
const adHocName = "(command line)"

// patternSource holds the keyword flags shared by scan, inspect and bench.
type patternSource struct {
	exprs      []string
	file       string
	dict       string
	ignoreCase bool
	runes      bool
}

func (p *patternSource) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&p.exprs, "regexp", "e", nil, "Keyword to match (repeatable)")
	f.StringVarP(&p.file, "file", "f", "", "Read keywords from file, one per line")
	f.StringVarP(&p.dict, "dict", "d", "", "Use a stored dictionary")
	f.BoolVarP(&p.ignoreCase, "ignore-case", "i", false, "Case insensitive")
	f.BoolVar(&p.runes, "runes", false, "Match Unicode code points instead of bytes")
}

// adHoc reports whether keywords were given directly on the command line.
func (p *patternSource) adHoc() bool {
	return len(p.exprs) > 0 || p.file != ""
}

// daemonCompatible rejects flags a daemon scan cannot honour: the daemon
// scans stored dictionaries with its own folding and symbols.
func (p *patternSource) daemonCompatible() error {
	if p.adHoc() {
		return errors.New("--daemon scans stored dictionaries; drop -e/-f")
	}
	if p.ignoreCase || p.runes {
		return errors.New("--daemon uses the daemon's folding and symbols; drop -i/--runes")
	}
	return nil
}

// resolve turns the flags into a dictionary and applies --runes to a's
// config. Keywords from -e/-f take precedence over -d, which takes
// precedence over the configured default dictionary. -i always forces
// case-insensitive matching.
func (p *patternSource) resolve(a *app.App) (*ports.Dictionary, error) {
	if p.runes {
		a.Config.Symbols = config.SymbolsRune
	}

	if p.adHoc() {
		if p.dict != "" {
			return nil, errors.New("use either -e/-f or -d, not both")
		}
		patterns := append([]string(nil), p.exprs...)
		if p.file != "" {
			more, err := textsource.LoadPatterns(p.file)
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, more...)
		}
		return &ports.Dictionary{
			Name:          adHocName,
			CaseSensitive: a.Config.CaseSensitive && !p.ignoreCase,
			Patterns:      patterns,
		}, nil
	}

	name := p.dict
	if name == "" {
		name = a.Config.Dictionary
	}
	if name == "" {
		return nil, errors.New("no keywords: use -e, -f or -d")
	}
	dict, err := a.LoadDictionary(name)
	if err != nil {
		return nil, err
	}
	if p.ignoreCase {
		dict.CaseSensitive = false
	}
	return dict, nil
}
