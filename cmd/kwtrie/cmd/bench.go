package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/corey/kwtrie/internal/adapters/textsource"
	"github.com/corey/kwtrie/internal/app"
	"github.com/corey/kwtrie/internal/config"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	benchPatterns patternSource
	benchRounds   int
	benchFASTA    bool
	benchFormat   string
)

var benchCmd = &cobra.Command{
	Use:   "bench [flags] [file ...]",
	Short: "Compare kwtrie against the reference Aho-Corasick engine",
	Long:  "Times automaton construction and scanning for both engines over the inputs and checks that they report identical matches.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runBench,
}

func init() {
	benchPatterns.register(benchCmd)
	f := benchCmd.Flags()
	f.IntVarP(&benchRounds, "rounds", "n", 10, "Scan rounds per engine")
	f.BoolVar(&benchFASTA, "fasta", false, "Treat inputs as FASTA (one document per record)")
	f.StringVar(&benchFormat, "format", "auto", "Input format: auto, plain or fasta")
}

// engineRun is one engine's measurements.
type engineRun struct {
	name    string
	build   time.Duration
	scan    time.Duration // per round
	matches [][]ports.Match
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchRounds < 1 {
		return errors.New("--rounds must be at least 1")
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if benchPatterns.runes {
		return errors.New("the reference engine matches bytes; drop --runes")
	}
	dict, err := benchPatterns.resolve(a)
	if err != nil {
		return err
	}

	format, err := inputFormat(benchFormat, benchFASTA)
	if err != nil {
		return err
	}
	inputs := args
	if len(inputs) == 0 {
		inputs = []string{textsource.Stdin}
	}
	docs, err := loadDocuments(inputs, format)
	if err != nil {
		return err
	}
	size := 0
	for _, doc := range docs {
		size += len(doc.Text)
	}

	var runs []engineRun
	for _, engine := range []string{config.EngineKwtrie, config.EngineReference} {
		run, err := benchEngine(engine, dict, docs, benchRounds)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENGINE\tBUILD\tSCAN/ROUND\tMB/s\tMATCHES")
	for _, r := range runs {
		total := 0
		for _, m := range r.matches {
			total += len(m)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\n", r.name,
			r.build.Round(time.Microsecond), r.scan.Round(time.Microsecond),
			throughput(size, r.scan), total)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if i := disagreement(runs[0].matches, runs[1].matches); i >= 0 {
		return errors.Errorf("engines disagree on %s", docs[i].Name)
	}
	fmt.Printf("⚡ %d keywords │ %d documents │ %d bytes │ engines agree\n", len(dict.Patterns), len(docs), size)
	return nil
}

func benchEngine(engine string, dict *ports.Dictionary, docs []textsource.Document, rounds int) (engineRun, error) {
	run := engineRun{name: engine}

	start := time.Now()
	m, err := app.Build(dict.Patterns, app.BuildOptions{CaseSensitive: dict.CaseSensitive, Engine: engine})
	if err != nil {
		return run, err
	}
	run.build = time.Since(start)

	run.matches = make([][]ports.Match, len(docs))
	start = time.Now()
	for range rounds {
		for i, doc := range docs {
			run.matches[i] = m.Scan(doc.Text)
		}
	}
	run.scan = time.Since(start) / time.Duration(rounds)
	return run, nil
}

// disagreement returns the index of the first document where the engines'
// matches differ, or -1.
func disagreement(a, b [][]ports.Match) int {
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return i
		}
	}
	return -1
}

func throughput(bytes int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(bytes) / d.Seconds() / (1 << 20)
}
