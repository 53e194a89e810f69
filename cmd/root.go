// Package cmd provides the root command and CLI setup for logsift.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"logsift.dev/pkg/logsift/internal/adapter"
	"logsift.dev/pkg/logsift/internal/controller"
	"logsift.dev/pkg/logsift/internal/domain"
)

var fsAdapter adapter.LogFSAdapter
var reportStore adapter.ReportStore
var artifactWriter adapter.ArtifactWriter
var ui controller.UI
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters log files for applicable commands.
var excludePatterns []string

// verboseFlag switches file logging to debug level.
var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalLogFSAdapter()
	reportStore = adapter.NewLocalReportStore()
	artifactWriter = adapter.NewLocalArtifactWriter()

	classifier, err := domain.NewClassifier(
		viper.GetStringSlice(crashSignaturesKey),
		viper.GetString(diagnosticPatternKey),
	)
	cobra.CheckErr(err)

	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		artifactWriter,
		ui,
		classifier,
	)
}

const rootLongDescription = `Logsift triages the captured output of a compiler test-suite run.

It scans one log file per test execution, classifies each run as crashed,
unexpectedly diagnostic, or clean, and aggregates the verdicts into a
crash list, a diagnostic list, and a frequency-ranked table of recurring
error messages.`

const runLongDescription = `Classify every run log under the given directory (default: current
directory) and write the report artifacts to the output directory.

Tests marked should_fail in the suite metadata may emit diagnostics
without being reported; a compiler crash is always reported.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logsift",
		Short: "Compiler test-log triage tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for triage reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude logs matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// parseLogDir returns the positional log directory argument, defaulting to
// the current directory.
func parseLogDir(args []string) string {
	if len(args) == 0 {
		return "."
	}

	return args[0]
}
