package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrishacia/ZipDrop/pkg/logging"
	"github.com/chrishacia/ZipDrop/pkg/version"
)

var logger *zap.Logger

var debug bool

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "zipdrop",
	Short: "ZipDrop archives a folder into a single zip, entirely locally",
	Long: `ZipDrop walks a folder, excludes entries by glob patterns and manual
selection, and produces one compressed archive containing the surviving
files plus an embedded integrity manifest. Nothing is uploaded.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			if err := logging.Setup(true, "ZipDrop", version.Get().Version); err != nil {
				logger.Warn("Failed to enable debug logging", zap.Error(err))
				return
			}
			logger = logging.Logger
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(l *zap.Logger) error {
	logger = l
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
