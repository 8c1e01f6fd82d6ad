package cmd

import (
	"log/slog"

	"github.com/itsmostafa/docdash/internal/pipeline"
	"github.com/itsmostafa/docdash/internal/runner"
	"github.com/spf13/cobra"
)

var extractClean bool

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the examples of every mapped document",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := stagePipeline(cmd)
		if err != nil {
			return err
		}
		p.Clean = extractClean

		pm, err := p.MapHierarchy()
		if err != nil {
			return err
		}
		return p.Extract(cmd.Context(), pm)
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "File extracted examples by chapter and section",
	Long: `File the output of a previous extract under the destination tree, then mark
the examples known to loop forever.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := stagePipeline(cmd)
		if err != nil {
			return err
		}

		pm, err := p.MapHierarchy()
		if err != nil {
			return err
		}
		if _, err := p.Organize(pm); err != nil {
			return err
		}
		return p.Preprocess()
	},
}

func stagePipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return &pipeline.Pipeline{
		Config: cfg,
		Runner: &runner.ExecRunner{Stderr: cmd.ErrOrStderr()},
		Logger: slog.Default(),
		Output: cmd.OutOrStdout(),
	}, nil
}

func init() {
	extractCmd.Flags().BoolVar(&extractClean, "clean", false, "Remove previous extraction output first")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(organizeCmd)
}
