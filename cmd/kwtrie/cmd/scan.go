package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corey/kwtrie/internal/adapters/socket"
	"github.com/corey/kwtrie/internal/adapters/textsource"
	"github.com/corey/kwtrie/internal/app"
	"github.com/corey/kwtrie/internal/config"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	scanPatterns patternSource
	scanFASTA    bool
	scanFormat   string
	scanJSON     bool
	scanCount    bool
	scanMax      int
	scanLines    bool
	scanEngine   string
	scanWatch    bool
	scanDaemon   bool
	scanColor    string
	scanNoColor  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [file ...]",
	Short: "Report every keyword occurrence in files or stdin",
	Long: "Builds an automaton from -e/-f keywords or a stored dictionary (-d) and scans each input in one pass. " +
		"Exit status is 0 if any keyword matched, 1 if none did, 2 on error.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runScan,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	scanPatterns.register(scanCmd)
	f := scanCmd.Flags()
	f.BoolVar(&scanFASTA, "fasta", false, "Treat inputs as FASTA (one document per record)")
	f.StringVar(&scanFormat, "format", "auto", "Input format: auto, plain or fasta")
	f.BoolVar(&scanJSON, "json", false, "JSON output")
	f.BoolVarP(&scanCount, "count", "c", false, "Count only")
	f.IntVarP(&scanMax, "max-count", "m", 0, "Report at most N matches per input")
	f.BoolVarP(&scanLines, "line-number", "n", false, "Prefix each match with its 1-based line number")
	f.StringVar(&scanEngine, "engine", "", "Matching engine: kwtrie or reference (default from config)")
	f.BoolVar(&scanWatch, "watch", false, "Re-scan inputs when they change")
	f.BoolVar(&scanDaemon, "daemon", false, "Scan through the running daemon (stored dictionaries only)")
	f.StringVar(&scanColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&scanNoColor, "no-color", false, "Suppress color output")
}

// fail reports err on stderr and maps it to exit status 2.
func fail(err error) error {
	fmt.Fprintf(os.Stderr, "kwtrie: %v\n", err)
	return scanExit{2}
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if cmd.Flags().Changed("engine") {
		a.Config.Engine = scanEngine
	}

	format, err := inputFormat(scanFormat, scanFASTA)
	if err != nil {
		return fail(err)
	}

	inputs := args
	if len(inputs) == 0 {
		if scanWatch {
			return fail(errors.New("--watch needs file arguments"))
		}
		inputs = []string{textsource.Stdin}
	}

	color, err := colorMode(scanColor, scanNoColor)
	if err != nil {
		return fail(err)
	}
	out := outputOpts{
		json:      scanJSON,
		countOnly: scanCount,
		color:     color,
		summary:   !scanJSON && stdoutIsTerminal(),
	}

	var scan func(ctx context.Context, inputs []string) ([]app.Result, error)
	opts := docOptions{limit: scanMax, lines: scanLines, countOnly: scanCount}
	if scanDaemon {
		if err := scanPatterns.daemonCompatible(); err != nil {
			return fail(err)
		}
		opts.runes = a.Config.Symbols == config.SymbolsRune
		client := socket.NewClient(a.SockPath())
		if !client.Ping() {
			return fail(errors.New("daemon is not running (kwtrie daemon start)"))
		}
		scan = func(_ context.Context, inputs []string) ([]app.Result, error) {
			return scanViaDaemon(client, scanPatterns.dict, inputs, format, opts)
		}
	} else {
		dict, err := scanPatterns.resolve(a)
		if err != nil {
			return fail(err)
		}
		m, err := a.MatcherFor(dict)
		if err != nil {
			return fail(err)
		}
		opts.runes = a.Config.Symbols == config.SymbolsRune
		scan = func(ctx context.Context, inputs []string) ([]app.Result, error) {
			return scanFiles(ctx, m, inputs, format, opts)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	total, err := scanAndPrint(ctx, scan, inputs, out)
	if err != nil {
		return fail(err)
	}

	if scanWatch {
		err := a.Watch(ctx, inputs, func(path string) {
			if _, err := scanAndPrint(ctx, scan, []string{path}, out); err != nil {
				a.Log.WithError(err).WithField("path", path).Warn("rescan failed")
			}
		})
		if err != nil {
			return fail(err)
		}
		return nil
	}

	if total == 0 {
		return scanExit{1}
	}
	return nil
}

func scanAndPrint(ctx context.Context, scan func(context.Context, []string) ([]app.Result, error), inputs []string, out outputOpts) (int, error) {
	start := time.Now()
	results, err := scan(ctx, inputs)
	if err != nil {
		return 0, err
	}
	text, err := formatResults(results, time.Since(start), out)
	if err != nil {
		return 0, err
	}
	fmt.Print(text)
	return app.Total(results), nil
}

// docOptions controls what is reported for each scanned document.
type docOptions struct {
	limit     int  // matches kept per document, 0 for all
	lines     bool // record line numbers
	runes     bool // offsets are code points
	countOnly bool // counts only, no matches
}

// inputFormat resolves --format, with --fasta as a shorthand for fasta.
func inputFormat(name string, fasta bool) (textsource.Format, error) {
	format, err := textsource.ParseFormat(name)
	if err != nil {
		return "", err
	}
	if fasta {
		if format == textsource.FormatPlain {
			return "", errors.New("--fasta conflicts with --format plain")
		}
		return textsource.FormatFASTA, nil
	}
	return format, nil
}

// loadDocuments expands directory inputs and loads every file as documents.
func loadDocuments(inputs []string, format textsource.Format) ([]textsource.Document, error) {
	files, err := app.ExpandInputs(inputs)
	if err != nil {
		return nil, err
	}
	var docs []textsource.Document
	for _, in := range files {
		d, err := textsource.Load(in, format)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d...)
	}
	return docs, nil
}

// scanFiles loads every input and scans the resulting documents with m.
func scanFiles(ctx context.Context, m ports.PatternMatcher, inputs []string, format textsource.Format, opts docOptions) ([]app.Result, error) {
	docs, err := loadDocuments(inputs, format)
	if err != nil {
		return nil, err
	}
	results, err := app.ScanDocuments(ctx, m, docs, app.ScanOptions{Limit: opts.limit, CountOnly: opts.countOnly})
	if err != nil {
		return nil, err
	}
	if opts.lines {
		for i := range results {
			app.NumberLines(&results[i], docs[i].Text, opts.runes)
		}
	}
	return results, nil
}

// scanViaDaemon sends each document to the daemon. An empty dictionary
// name selects the daemon's configured default.
func scanViaDaemon(client *socket.Client, dictionary string, inputs []string, format textsource.Format, opts docOptions) ([]app.Result, error) {
	docs, err := loadDocuments(inputs, format)
	if err != nil {
		return nil, err
	}
	var results []app.Result
	for _, doc := range docs {
		res, err := client.Scan(socket.ScanParams{
			Dictionary: dictionary,
			Text:       doc.Text,
			CountOnly:  opts.countOnly,
			Max:        opts.limit,
		})
		if err != nil {
			return nil, errors.Wrap(err, doc.Name)
		}
		r := app.Result{Name: doc.Name, Count: res.Count, Matches: res.Matches}
		if opts.lines {
			app.NumberLines(&r, doc.Text, opts.runes)
		}
		results = append(results, r)
	}
	return results, nil
}
