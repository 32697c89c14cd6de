package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/corey/kwtrie/internal/config"
	"github.com/corey/kwtrie/internal/domain/trie"
	"github.com/spf13/cobra"
)

var inspectPatterns patternSource

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the automaton's node table",
	Long:  "Builds the automaton and lists every node breadth-first with its failure and output links.",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	inspectPatterns.register(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	dict, err := inspectPatterns.resolve(a)
	if err != nil {
		return err
	}

	if a.Config.Symbols == config.SymbolsRune {
		t := trie.NewRunes(dict.CaseSensitive)
		if err := t.InsertBatch(dict.Patterns); err != nil {
			return err
		}
		return printNodes(os.Stdout, t, strconv.QuoteRune)
	}
	t := trie.New(dict.CaseSensitive)
	if err := t.InsertBatch(dict.Patterns); err != nil {
		return err
	}
	return printNodes(os.Stdout, t, func(b byte) string { return fmt.Sprintf("%q", b) })
}

// printNodes writes one row per node in breadth-first order.
func printNodes[S trie.Symbol](w io.Writer, t *trie.Trie[S], symbol func(S) string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPARENT\tDEPTH\tSYMBOL\tKEYWORD\tFAILURE\tOUTPUT")
	t.Walk(func(n trie.Node[S]) bool {
		if n.IsRoot() {
			fmt.Fprintf(tw, "%d\t-\t0\t(root)\t-\t-\t-\n", n.ID)
			return true
		}
		kw := "-"
		if n.Terminal() {
			kw = fmt.Sprintf("%q #%d", n.Keyword, n.KeywordID)
		}
		out := "-"
		if n.Output != 0 {
			out = strconv.Itoa(n.Output)
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%d\t%s\n",
			n.ID, n.Parent, n.Depth, symbol(n.Symbol), kw, n.Failure, out)
		return true
	})
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d nodes, %d keywords\n", t.Len(), t.KeywordCount())
	return err
}
