package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kylingoround/pocket-graham-chat/internal/logging"
	"github.com/kylingoround/pocket-graham-chat/internal/qa"
	"github.com/kylingoround/pocket-graham-chat/internal/store"
)

// NewChatCmd constructs the `grahamchat chat` command, an interactive
// read-ask-print loop over stdin.
func NewChatCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive Q&A session",
		Long: `Start an interactive session that answers questions one after another.

Each exchange is recorded in the history database under the session name.
Type "quit" or "exit" (or press Ctrl-D) to leave.

Examples:
  grahamchat chat
  grahamchat chat --session research`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			svc, err := buildService(log)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}

			history, closeHistory := openHistory(log)
			defer closeHistory()

			fmt.Println("Ask about startups, programming, or essays. Type 'quit' to leave.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("\n> ")
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "quit" || question == "exit" {
					break
				}

				answer, err := svc.Ask(ctx, question, qa.Options{})
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
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
						Session:  session,
						Question: question,
						Answer:   answer.Response.Text,
						Declined: answer.Declined,
					}
					if err := history.Append(ctx, ex); err != nil {
						log.Warn("history: append failed", slog.Any("error", err))
					}
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("chat: read stdin: %w", err)
			}

			fmt.Println("\nGoodbye!")
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "default", "Session name for history records")

	return cmd
}
