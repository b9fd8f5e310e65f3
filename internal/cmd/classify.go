package cmd

import (
	"fmt"
	"soulsprint/internal/risk"
	"strconv"

	"github.com/spf13/cobra"
)

// NewClassifyCommand creates the classify subcommand
func NewClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <score>",
		Short: "Classify a total score (0-21) into a risk tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("score %q is not a number", args[0])
			}
			a, err := risk.NewClassifier(cfg).Classify(score)
			if err != nil {
				return err
			}
			printAssessment(cmd.OutOrStdout(), a)
			return nil
		},
	}
}
