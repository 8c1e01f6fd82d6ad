package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/itsmostafa/docdash/internal/config"
	"github.com/itsmostafa/docdash/internal/version"
	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docdash",
	Short: "Dashboard of documentation examples run through a verifier",
	Long: `docdash extracts the code examples of a book, files them by chapter and
section, runs them through the compiler's test suite and shows a pass/fail
tree of the results.

Run it from the root of the compiler checkout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("docdash %s\n", version.String()))

	// Config flag with env var fallback
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("DOCDASH_CONFIG"), "Path to a YAML config file (defaults to the Rust Reference layout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every command and relocated example")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded config", "path", configPath, "summary", cfg.SummaryPath, "suite", cfg.Suite)
	return cfg, nil
}

// Execute runs the root command. An interrupt cancels the running tool.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
