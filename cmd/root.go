package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/accesskit/accesskit/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "accesskit",
	Short: "Consent banner and accessibility widget delivery service",
	Long: `AccessKit serves an embeddable accessibility widget to registered
host sites: a consent banner plus visual, motor and cognitive
accessibility features, with visitor preferences persisted
server-side.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".accesskit.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the process logger from config and the verbose flag.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zap.InfoLevel
	switch cfg.LogLevel {
	case config.LogDebug:
		level = zap.DebugLevel
	case config.LogWarn:
		level = zap.WarnLevel
	}
	if verbose {
		level = zap.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
