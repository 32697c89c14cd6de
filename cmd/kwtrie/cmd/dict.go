package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/corey/kwtrie/internal/adapters/textsource"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	dictFile       string
	dictIgnoreCase bool
	dictAppend     bool
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage stored keyword dictionaries",
}

var dictAddCmd = &cobra.Command{
	Use:   "add <name> [keyword ...]",
	Short: "Create or replace a dictionary",
	Long:  "Stores keywords from arguments and/or -f under name. Duplicate keywords (after case folding) are rejected.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDictAdd,
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored dictionaries",
	Args:  cobra.NoArgs,
	RunE:  runDictList,
}

var dictShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a dictionary's keywords",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictShow,
}

var dictRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove"},
	Short:   "Delete a dictionary",
	Args:    cobra.ExactArgs(1),
	RunE:    runDictRm,
}

func init() {
	f := dictAddCmd.Flags()
	f.StringVarP(&dictFile, "file", "f", "", "Read keywords from file, one per line")
	f.BoolVarP(&dictIgnoreCase, "ignore-case", "i", false, "Match case-insensitively")
	f.BoolVar(&dictAppend, "append", false, "Add to an existing dictionary instead of replacing it")

	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictShowCmd)
	dictCmd.AddCommand(dictRmCmd)
}

func runDictAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	name := args[0]
	dict := &ports.Dictionary{Name: name, CaseSensitive: !dictIgnoreCase}
	if dictAppend {
		existing, err := a.LoadDictionary(name)
		switch {
		case err == nil:
			dict = existing
		case !errors.Is(err, ports.ErrDictionaryNotFound):
			return err
		}
		if cmd.Flags().Changed("ignore-case") {
			dict.CaseSensitive = !dictIgnoreCase
		}
	}

	dict.Patterns = append(dict.Patterns, args[1:]...)
	if dictFile != "" {
		more, err := textsource.LoadPatterns(dictFile)
		if err != nil {
			return err
		}
		dict.Patterns = append(dict.Patterns, more...)
	}
	if len(dict.Patterns) == 0 {
		return errors.New("no keywords: pass them as arguments or with -f")
	}

	if err := a.SaveDictionary(dict); err != nil {
		return err
	}
	mode := "case-sensitive"
	if !dict.CaseSensitive {
		mode = "case-insensitive"
	}
	fmt.Printf("⚡ saved %s (%d keywords, %s)\n", name, len(dict.Patterns), mode)
	return nil
}

func runDictList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.ListDictionaries()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no dictionaries (kwtrie dict add <name> ...)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKEYWORDS\tCASE\tUPDATED")
	for _, name := range names {
		d, err := a.LoadDictionary(name)
		if err != nil {
			return err
		}
		mode := "sensitive"
		if !d.CaseSensitive {
			mode = "insensitive"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", d.Name, len(d.Patterns), mode, d.Updated.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runDictShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.LoadDictionary(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("# %s: %d keywords, case-sensitive=%t, fingerprint=%016x\n", d.Name, len(d.Patterns), d.CaseSensitive, d.Fingerprint)
	for _, p := range d.Patterns {
		fmt.Println(p)
	}
	return nil
}

func runDictRm(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.DeleteDictionary(args[0]); err != nil {
		return err
	}
	fmt.Printf("⚡ removed %s\n", args[0])
	return nil
}
