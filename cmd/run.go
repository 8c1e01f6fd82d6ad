package cmd

import (
	"log/slog"
	"os"

	"github.com/itsmostafa/docdash/internal/history"
	"github.com/itsmostafa/docdash/internal/pipeline"
	"github.com/itsmostafa/docdash/internal/runner"
	"github.com/spf13/cobra"
)

var clean bool
var noHistory bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract, organize and test every example, then show the dashboard",
	Long: `Run the whole pipeline: map the table of contents, extract the examples of
every document, file them by section, run the test suite over them and display
the results as a tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p := &pipeline.Pipeline{
			Config: cfg,
			Runner: &runner.ExecRunner{Stderr: cmd.ErrOrStderr()},
			Logger: slog.Default(),
			Output: cmd.OutOrStdout(),
			Clean:  clean,
		}

		if !noHistory && cfg.HistoryDB != "" {
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()
			p.History = store
		}

		_, err = p.Run(cmd.Context())
		return err
	},
}

func init() {
	runCmd.Flags().BoolVar(&clean, "clean", false, "Remove previous extraction output first")

	// History flag with env var fallback
	defaultNoHistory := os.Getenv("DOCDASH_NO_HISTORY") != ""
	runCmd.Flags().BoolVar(&noHistory, "no-history", defaultNoHistory, "Do not record the run in the history database")

	rootCmd.AddCommand(runCmd)
}
