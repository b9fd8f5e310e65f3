package cmd

import (
	"soulsprint/internal/config"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

const configFlag = "config"

// NewRootCommand creates and returns the root cobra command for riskctl
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riskctl",
		Short: "Offline tooling for the risk and routing engine",
		Long: `riskctl runs the questionnaire scorer, risk classifier, chat signal
extractor and task router locally against an engine config file.

Use it to check threshold and catalog changes before deploying them.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String(configFlag, "config/engine.yaml", "Path to the engine YAML config")

	// Add subcommands
	cmd.AddCommand(NewScoreCommand())
	cmd.AddCommand(NewClassifyCommand())
	cmd.AddCommand(NewRouteCommand())
	cmd.AddCommand(NewExtractCommand())
	cmd.AddCommand(NewCatalogCommand())

	return cmd
}

// loadEngineConfig reads the --config file; a missing file yields defaults
func loadEngineConfig(cmd *cobra.Command) (*config.EngineConfig, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, err
	}
	return config.LoadEngineConfig(path)
}
