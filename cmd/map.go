package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/itsmostafa/docdash/internal/hierarchy"
	"github.com/itsmostafa/docdash/internal/pipeline"
	"github.com/spf13/cobra"
)

var mapTree bool

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Print where each document's examples will be filed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if mapTree {
			outline, err := hierarchy.ReadOutline(cfg.SummaryPath, cfg.PathMapOptions()...)
			if err != nil {
				return err
			}
			fmt.Fprint(out, hierarchy.PrintOutline(outline))
			return nil
		}

		p := &pipeline.Pipeline{Config: cfg, Logger: slog.Default(), Output: out}
		pm, err := p.MapHierarchy()
		if err != nil {
			return err
		}
		pm.Each(func(doc string, dest []string) {
			fmt.Fprintf(out, "%s\t%s\n", doc, strings.Join(dest, "/"))
		})
		return nil
	},
}

func init() {
	mapCmd.Flags().BoolVar(&mapTree, "tree", false, "Print the table of contents as an indented outline")
	rootCmd.AddCommand(mapCmd)
}
