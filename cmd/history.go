package cmd

import (
	"errors"
	"fmt"

	"github.com/itsmostafa/docdash/internal/history"
	"github.com/spf13/cobra"
)

var historyLimit int
var historyRun string
var historyDepth int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded dashboard runs",
	Long: `List recorded runs, most recent first. With --run, show the per-section
counts of one run instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.HistoryDB == "" {
			return errors.New("history_db is not configured")
		}

		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if historyRun != "" {
			nodes, err := store.Nodes(cmd.Context(), historyRun, historyDepth)
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				return fmt.Errorf("no recorded run %q", historyRun)
			}
			history.FormatNodes(cmd.OutOrStdout(), nodes)
			return nil
		}

		runs, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		history.FormatRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "max", "n", 10, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the section counts of this run")
	historyCmd.Flags().IntVar(&historyDepth, "depth", 2, "Deepest section level shown with --run (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
