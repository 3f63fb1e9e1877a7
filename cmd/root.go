// Package cmd implements the papergraph command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debugMode bool
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "papergraph",
	Short: "Interactive knowledge-graph layout for papers",
	Long: "papergraph lays out typed entity graphs extracted from research papers\n" +
		"using a force-directed simulation with per-type clustering, and serves\n" +
		"interactive visualization sessions or renders one-shot images.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if debugMode {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
