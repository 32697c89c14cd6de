package cmd

import (
	"fmt"
	"os"

	"github.com/corey/kwtrie/internal/app"
	"github.com/corey/kwtrie/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagLogLevel string
	flagConfig   string
)

var rootCmd = &cobra.Command{
	Use:   "kwtrie",
	Short: "kwtrie: multi-pattern keyword scanner",
	Long:  "Builds an Aho-Corasick automaton from a keyword list and reports every occurrence, overlaps included, in one pass over the input.",
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	return dir
}

// loadConfig resolves configuration: --config, else .kwtrie/config.yaml,
// with --log-level applied on top.
func loadConfig(root string) (config.Config, error) {
	var cfg config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = app.LoadConfig(root)
	}
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// newApp wires an App for the current directory.
func newApp() (*app.App, error) {
	root := projectRoot()
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	return app.New(root, cfg)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default .kwtrie/config.yaml)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(configCmd)
}
