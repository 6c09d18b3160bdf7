package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kylingoround/pocket-graham-chat/internal/logging"
	"github.com/kylingoround/pocket-graham-chat/internal/server"
)

// NewServeCmd constructs the `grahamchat serve` command, which starts the
// HTTP server exposing the Q&A pipeline.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the grahamchat HTTP server",
		Long: `Start the grahamchat HTTP server on localhost.

The server exposes:
  POST /api/ask     Answer a question (JSON {"question": "..."})
  GET  /api/health  Liveness check
  GET  /metrics     Prometheus metrics

Protected routes require a Bearer token when GRAHAM_API_KEY is set.

Examples:
  grahamchat serve
  grahamchat serve --port 9090
  GRAHAM_API_KEY=secret grahamchat serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			svc, err := buildService(log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			if host == "" {
				host = getEnvOrDefault("GRAHAM_HOST", "127.0.0.1")
			}
			if port == 0 {
				port = getEnvInt("GRAHAM_PORT", 8080)
			}

			srv, err := server.New(svc, &server.Config{
				Host:   host,
				Port:   port,
				Logger: log,
				APIKey: os.Getenv("GRAHAM_API_KEY"),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			log.Info("serve starting", slog.String("host", host), slog.Int("port", port))
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address to bind to (default: 127.0.0.1)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "TCP port to listen on (default: 8080)")

	return cmd
}
