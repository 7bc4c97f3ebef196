package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cooldogedev/prism/util"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	versionArg string
	transport  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prism",
		Short: "Minecraft Java Edition protocol client",
		Long: `Prism speaks the Minecraft Java Edition protocol from 1.12.2 to 1.20.4.

Commands:
  status     Query the status of a server
  join       Log in to a server and print every message received`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&versionArg, "version", "", "Protocol version, e.g. 1.20.4 or 765")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "", "Transport: tcp, quic, spectral or kcp")

	rootCmd.AddCommand(
		statusCmd(),
		joinCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// loadOpts loads the configuration file, if any, and applies the persistent flags on top.
func loadOpts() (*util.Opts, error) {
	opts := util.DefaultOpts()
	if configPath != "" {
		loaded, err := util.LoadOpts(configPath)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}
	if versionArg != "" {
		opts.Version = versionArg
	}
	if transport != "" {
		opts.Transport = transport
	}
	return opts, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
