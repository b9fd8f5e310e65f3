package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"soulsprint/internal/model"
	"soulsprint/internal/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewExtractCommand creates the extract subcommand
func NewExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [message]...",
		Short: "Run the keyword signal extractor over user messages",
		Long: `Extract treats each argument as one user chat message and prints the
intensity signal the keyword extractor derives. With no arguments it reads
one message per line from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}
			messages := args
			if len(messages) == 0 {
				messages, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			var transcript model.Transcript
			for _, m := range messages {
				transcript = append(transcript, model.ChatTurn{Speaker: model.SpeakerUser, Text: m})
			}
			sig, err := signal.NewKeywordExtractor(cfg.Signal).Extract(context.Background(), transcript)
			if err != nil {
				return err
			}
			printSignal(cmd.OutOrStdout(), sig)
			return nil
		},
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func printSignal(w io.Writer, sig model.IntensitySignal) {
	gray := color.New(color.FgHiBlack)

	fmt.Fprintf(w, "Intensity: ")
	if t, ok := sig.Level.Tier(); ok {
		tierColor(t).Fprintf(w, "%s\n", sig.Level)
	} else {
		fmt.Fprintf(w, "%s\n", sig.Level)
	}
	fmt.Fprintf(w, "Action:    %s\n", sig.RecommendedAction)
	fmt.Fprintf(w, "Score:     %d\n", sig.Score)
	if len(sig.Evidence) > 0 {
		gray.Fprintf(w, "Evidence:  %s\n", strings.Join(sig.Evidence, ", "))
	}
	if sig.Recommendation != "" {
		fmt.Fprintf(w, "%s\n", sig.Recommendation)
	}
}
