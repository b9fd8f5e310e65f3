package cmd

import (
	"fmt"
	"io"
	"soulsprint/internal/config"
	"soulsprint/internal/model"
	"soulsprint/internal/risk"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewScoreCommand creates the score subcommand
func NewScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score <a1> <a2> <a3> <a4> <a5> <a6> <a7>",
		Short: "Score seven questionnaire answers and classify the result",
		Long: `Score takes the seven questionnaire answers (each 0-3), sums them and
prints the tier, band and rationale the engine would return.`,
		Args: cobra.ExactArgs(model.QuestionCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}
			answers := make([]int, len(args))
			for i, raw := range args {
				v, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("answer %d: %q is not a number", i+1, raw)
				}
				answers[i] = v
			}
			return runScore(cmd.OutOrStdout(), cfg, answers)
		},
	}
}

func runScore(w io.Writer, cfg *config.EngineConfig, answers []int) error {
	assessment, err := risk.NewClassifier(cfg).Assess(answers)
	if err != nil {
		return err
	}
	printAssessment(w, assessment)
	return nil
}

func printAssessment(w io.Writer, a *model.RiskAssessment) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "Score: %d / %d\n", a.Score, model.MaxScore)
	fmt.Fprintf(w, "Tier:  ")
	tierColor(a.Tier).Fprintf(w, "%s\n", a.Tier)
	fmt.Fprintf(w, "Band:  %s\n", a.Band)
	fmt.Fprintf(w, "%s\n", a.Rationale)
}

func tierColor(t model.Tier) *color.Color {
	switch t {
	case model.TierHigh:
		return color.New(color.FgRed, color.Bold)
	case model.TierMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
