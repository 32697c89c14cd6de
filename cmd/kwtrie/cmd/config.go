package cmd

import (
	"fmt"
	"os"

	"github.com/corey/kwtrie/internal/adapters/socket"
	"github.com/corey/kwtrie/internal/app"
	"github.com/corey/kwtrie/internal/config"
	"github.com/spf13/cobra"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows resolved settings, project paths, socket path, and daemon status. No daemon required.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write a default .kwtrie/config.yaml if none exists")
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)

	if configInit {
		if _, err := os.Stat(paths.Config); err == nil {
			fmt.Printf("⚡ %s already exists\n", paths.Config)
			return nil
		}
		if err := paths.EnsureDirs(); err != nil {
			return err
		}
		if err := config.Write(paths.Config, config.Default()); err != nil {
			return err
		}
		fmt.Printf("⚡ wrote %s\n", paths.Config)
		return nil
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	sockPath := socket.SocketPath(root)
	daemonStatus := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if socket.NewClient(sockPath).Ping() {
		daemonStatus = fmt.Sprintf("%s✓ running%s", colorGreen, colorReset)
	}

	source := paths.Config
	if flagConfig != "" {
		source = flagConfig
	}
	if _, err := os.Stat(source); err != nil {
		source += " (not found, using defaults)"
	}

	dictionary := cfg.Dictionary
	if dictionary == "" {
		dictionary = "(none)"
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "(stderr)"
	}

	fmt.Printf("%s⚡ kwtrie config%s\n", colorBold, colorReset)
	fmt.Printf("  Root:        %s\n", root)
	fmt.Printf("  Config:      %s\n", source)
	fmt.Printf("  DB:          %s\n", paths.DB)
	fmt.Printf("  Socket:      %s\n", sockPath)
	fmt.Printf("  Daemon:      %s\n", daemonStatus)
	fmt.Println()
	fmt.Printf("  case_sensitive: %t\n", cfg.CaseSensitive)
	fmt.Printf("  symbols:        %s\n", cfg.Symbols)
	fmt.Printf("  engine:         %s\n", cfg.Engine)
	fmt.Printf("  dictionary:     %s\n", dictionary)
	fmt.Printf("  cache_ttl:      %s\n", cfg.CacheTTL)
	fmt.Printf("  log_level:      %s\n", cfg.LogLevel)
	fmt.Printf("  log_file:       %s\n", logFile)
	return nil
}
