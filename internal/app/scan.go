package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	fsw "github.com/corey/kwtrie/internal/adapters/fsnotify"
	"github.com/corey/kwtrie/internal/adapters/textsource"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of scanning one document.
type Result struct {
	Name    string        `json:"name"`
	Count   int           `json:"count"`
	Matches []ports.Match `json:"matches,omitempty"`
	Lines   []int         `json:"lines,omitempty"` // Lines[i] is the line of Matches[i]
}

// ScanOptions controls what ScanDocuments keeps per document.
type ScanOptions struct {
	Limit     int  // matches kept per document, 0 for all
	CountOnly bool // count matches without collecting them
}

// counter is implemented by matchers that can count without allocating
// matches (the kwtrie automaton).
type counter interface {
	Count(text string) int
}

// NumberLines fills r.Lines from the text r was scanned from. runes selects
// code-point offsets.
func NumberLines(r *Result, text string, runes bool) {
	if len(r.Matches) == 0 {
		r.Lines = nil
		return
	}
	idx := textsource.NewLineIndex(text, runes)
	r.Lines = make([]int, len(r.Matches))
	for i, m := range r.Matches {
		r.Lines[i] = idx.Line(m.Start)
	}
}

// ScanDocuments scans docs in parallel against the sealed matcher m and
// returns results in input order. Count always reports the full total, even
// when opts.Limit trims the matches kept.
func ScanDocuments(ctx context.Context, m ports.PatternMatcher, docs []textsource.Document, opts ScanOptions) ([]Result, error) {
	results := make([]Result, len(docs))
	c, canCount := m.(counter)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := Result{Name: doc.Name}
			switch {
			case opts.CountOnly && canCount:
				r.Count = c.Count(doc.Text)
			case opts.CountOnly:
				r.Count = len(m.Scan(doc.Text))
			default:
				r.Matches = m.Scan(doc.Text)
				r.Count = len(r.Matches)
				if opts.Limit > 0 && len(r.Matches) > opts.Limit {
					r.Matches = r.Matches[:opts.Limit]
				}
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExpandInputs replaces each directory in inputs with the regular files
// beneath it in lexical order, skipping what the watcher ignores (VCS and
// editor files, .kwtrie). Stdin and files pass through unchanged.
func ExpandInputs(inputs []string) ([]string, error) {
	var out []string
	for _, in := range inputs {
		if in == textsource.Stdin {
			out = append(out, in)
			continue
		}
		info, err := os.Stat(in)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		if !info.IsDir() {
			out = append(out, in)
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != in && fsw.IgnoredDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(in, path)
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && !fsw.IgnoredPath(rel) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", in)
		}
	}
	return out, nil
}

// Total sums match counts across results.
func Total(results []Result) int {
	n := 0
	for _, r := range results {
		n += r.Count
	}
	return n
}
