package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aegis-response/playbook/internal/config"
)

var (
	cfgFile string
	verbose bool

	// cfg is populated before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Run emergency-response procedures",
	Long: `Playbook executes emergency-response procedures described as a graph
of typed steps. A run walks the graph from its start step, pauses at
steps that need responder input, and records everything it did along
the way.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = os.Getenv("PLAYBOOK_CONFIG")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".playbook", "config.yaml")
	}

	loaded, err := config.LoadWithDefaults(path)
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Flags().Changed("pacing") {
		pacing, err := cmd.Flags().GetDuration("pacing")
		if err != nil {
			return err
		}
		cfg.Pacing = pacing
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Duration("pacing", 0, "Delay between step executions")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
