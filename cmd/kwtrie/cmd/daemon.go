package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/kwtrie/internal/adapters/socket"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the kwtrie scan daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the daemon in the foreground",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon health",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	a, err := newApp()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer a.Close()

	srv, err := a.StartDaemon()
	if err != nil {
		return err
	}
	fmt.Printf("⚡ kwtrie daemon started at %s\n", srv.Addr())

	// Wait for a signal or a remote shutdown request
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-srv.ShutdownCh():
	}

	fmt.Println("⚡ shutting down...")
	return a.StopDaemon(srv)
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(projectRoot()))

	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return nil
	}
	if err := client.Shutdown(); err != nil {
		return err
	}
	fmt.Println("⚡ daemon stopped")
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(projectRoot()))

	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return scanExit{1}
	}
	h, err := client.Health()
	if err != nil {
		return err
	}
	names, err := client.Dictionaries()
	if err != nil {
		return err
	}
	fmt.Printf("⚡ daemon %s\n", h.Status)
	fmt.Printf("  Socket:        %s\n", h.SockPath)
	fmt.Printf("  Uptime:        %s\n", h.Uptime)
	fmt.Printf("  Scans:         %d\n", h.Scans)
	if h.MiBPerSec > 0 {
		fmt.Printf("  Throughput:    %.1f MiB/s (median)\n", h.MiBPerSec)
	}
	fmt.Printf("  Automatons:    %d cached\n", h.Cached)
	fmt.Printf("  Dictionaries:  %d\n", len(names))
	return nil
}
