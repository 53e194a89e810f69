package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"logsift.dev/pkg/logsift/internal/domain"
	m "logsift.dev/pkg/logsift/internal/model"
)

var runParallelFlag int
var runShardFlag string
var runMetadataFlag string
var runHTMLFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [log-dir]",
		Short: "Classify run logs and write report artifacts",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			shardIndex, totalShards := parseShardFlag(runShardFlag)

			return workflow.Run(context.Background(), domain.RunArgs{
				Logs:        m.Path(parseLogDir(args)),
				Metadata:    m.Path(viper.GetString(metadataConfigKey)),
				Reports:     m.Path(viper.GetString(outputFlagName)),
				Exclude:     viper.GetStringSlice(excludeConfigKey),
				Workers:     viper.GetInt(parallelConfigKey),
				ShardIndex:  shardIndex,
				TotalShards: totalShards,
				HTML:        viper.GetBool(htmlConfigKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel classification workers")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().StringVarP(&runMetadataFlag, metadataFlagName, "m", viper.GetString(metadataConfigKey), "suite metadata YAML file (should_fail markers)")
	bindFlagToConfig(cmd.Flags().Lookup(metadataFlagName), metadataConfigKey)

	cmd.Flags().BoolVar(&runHTMLFlag, htmlFlagName, viper.GetBool(htmlConfigKey), "also write an HTML report index")
	bindFlagToConfig(cmd.Flags().Lookup(htmlFlagName), htmlConfigKey)

	cmd.Flags().StringVarP(&runShardFlag, "shard", "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
