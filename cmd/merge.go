package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"logsift.dev/pkg/logsift/internal/domain"
	m "logsift.dev/pkg/logsift/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge sharded reports into a single report",
		Long:  "Merge partial reports from shard_* subdirectories of the output directory into a single report with final artifacts.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Merge(context.Background(), domain.MergeArgs{
				Reports: m.Path(viper.GetString(outputFlagName)),
				HTML:    viper.GetBool(htmlConfigKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
