package cmd

import (
	"github.com/spf13/cobra"
)

var reportLog string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the dashboard of an existing test log",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := stagePipeline(cmd)
		if err != nil {
			return err
		}
		if reportLog != "" {
			p.Config.LogPath = reportLog
		}
		_, err = p.Report(cmd.Context())
		return err
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportLog, "log", "", "Log file to read (defaults to the configured log_path)")
	rootCmd.AddCommand(reportCmd)
}
