package app

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the battery-report command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "battery-report",
		Short:         "Analyze battery telemetry snapshots",
		Long:          "battery-report turns one battery telemetry snapshot into a health report with anomaly flags.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(NewAnalyzeCommand())
	return cmd
}
