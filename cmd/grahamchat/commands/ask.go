package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kylingoround/pocket-graham-chat/internal/logging"
	"github.com/kylingoround/pocket-graham-chat/internal/qa"
	"github.com/kylingoround/pocket-graham-chat/internal/store"
)

// NewAskCmd constructs the `grahamchat ask` command, which answers a single
// question and prints the cited response to stdout.
func NewAskCmd() *cobra.Command {
	var pauseScale int

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about the essays",
		Long: `Ask a single question against the indexed essay corpus.

The question is checked against the relevance gate, the most similar chunks
are retrieved from the vector index, and the answer quotes the top passages
with source citations. Off-topic questions are declined with suggestions.

Examples:
  grahamchat ask "how do I come up with startup ideas?"
  grahamchat ask --pause-scale 3 "what makes a good founder?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			if cmd.Flags().Changed("pause-scale") {
				setPauseScale(pauseScale)
			}

			svc, err := buildService(log)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			history, closeHistory := openHistory(log)
			defer closeHistory()

			question := strings.Join(args, " ")
			answer, err := svc.Ask(ctx, question, qa.Options{})
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(answer.Response.Text)
			if answer.Declined && len(answer.Suggestions) > 0 {
				fmt.Println("\nTry asking:")
				for _, s := range answer.Suggestions[:3] {
					fmt.Printf("  • %s\n", s)
				}
			}

			if history != nil {
				ex := store.Exchange{
					Session:  "ask",
					Question: question,
					Answer:   answer.Response.Text,
					Declined: answer.Declined,
				}
				if err := history.Append(ctx, ex); err != nil {
					log.Warn("history: append failed", slog.Any("error", err))
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&pauseScale, "pause-scale", 0, "Speech pause intensity 0-5 (0 disables)")

	return cmd
}
