package cmd

import (
	"fmt"
	"io"
	"soulsprint/internal/config"
	"soulsprint/internal/model"
	"soulsprint/internal/routing"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command group
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate the wellness task catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the engine config and that every tier has at least one task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}
			return runCatalogValidate(cmd.OutOrStdout(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog tasks and the tiers they apply to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cfg.Tasks())
			return nil
		},
	})

	return cmd
}

func runCatalogValidate(w io.Writer, cfg *config.EngineConfig) error {
	green := color.New(color.FgGreen)

	if err := cfg.Validate(); err != nil {
		return err
	}
	router := routing.NewRouter(cfg)
	if err := router.ValidateCatalog(); err != nil {
		return err
	}

	counts := make(map[model.Tier]int)
	for _, t := range router.Catalog() {
		for _, tier := range t.Tiers {
			counts[tier]++
		}
	}
	for _, tier := range model.Tiers {
		fmt.Fprintf(w, "%-6s %d tasks\n", tier, counts[tier])
	}
	green.Fprintf(w, "catalog OK (%s)\n", cfg.String())
	return nil
}

func printCatalog(w io.Writer, tasks []model.Task) {
	for _, t := range tasks {
		tiers := make([]string, len(t.Tiers))
		for i, tier := range t.Tiers {
			tiers[i] = string(tier)
		}
		fmt.Fprintf(w, "%-20s %s %-22s %s\n", t.ID, t.Icon, t.Name, strings.Join(tiers, ","))
	}
}
