package cmd

import (
	"fmt"
	"io"
	"soulsprint/internal/model"
	"soulsprint/internal/routing"
	"soulsprint/internal/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRouteCommand creates the route subcommand
func NewRouteCommand() *cobra.Command {
	var (
		tierFlag   string
		signalFlag string
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Show the action and tasks routed for a tier and chat signal",
		Long: `Route prints what the task router returns for a risk tier, optionally
combined with a chat intensity level. The more severe action wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}
			tier, ok := model.ParseTier(tierFlag)
			if !ok {
				return fmt.Errorf("unknown tier %q (want low, medium or high)", tierFlag)
			}

			var sig *model.IntensitySignal
			if signalFlag != "" {
				level := model.Intensity(signalFlag)
				if level.Rank() == 0 {
					return fmt.Errorf("unknown signal level %q (want low, medium or high)", signalFlag)
				}
				sig = &model.IntensitySignal{
					Level:             level,
					RecommendedAction: model.ActionForIntensity(level),
					Recommendation:    signal.Recommendation(level),
				}
			}

			res, err := routing.NewRouter(cfg).Route(tier, sig)
			if err != nil {
				return err
			}
			printRoute(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&tierFlag, "tier", "low", "Risk tier: low, medium or high")
	cmd.Flags().StringVar(&signalFlag, "signal", "", "Chat intensity level: low, medium or high")

	return cmd
}

func printRoute(w io.Writer, res *model.RouteResult) {
	cyan := color.New(color.FgCyan, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	cyan.Fprintf(w, "Tier %s -> %s\n", res.Tier, res.Action)
	if res.Escalated {
		red.Fprintf(w, "ESCALATED\n")
		fmt.Fprintf(w, "%s\n", res.EscalationNotice)
		return
	}
	for i, t := range res.Tasks {
		fmt.Fprintf(w, "  %d. %s %s (%s)\n", i+1, t.Icon, t.Name, t.ID)
	}
	if len(res.PeerGroups) > 0 {
		fmt.Fprintf(w, "Peer groups:\n")
		for _, g := range res.PeerGroups {
			fmt.Fprintf(w, "  - %s: %s\n", g.Name, g.Description)
		}
	}
}
