// Package commands defines all Cobra CLI commands for the grahamchat binary.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kylingoround/pocket-graham-chat/internal/audit"
	"github.com/kylingoround/pocket-graham-chat/internal/config"
	"github.com/kylingoround/pocket-graham-chat/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "grahamchat",
		Short: "grahamchat — Q&A over Paul Graham's essays with citations",
		Long: `grahamchat answers questions about startups, programming, and writing
using Paul Graham's essays as its knowledge base.

Essays are segmented into overlapping chunks, embedded with a local
deterministic provider (TF-IDF or feature hashing), and indexed in an
in-memory vector index persisted to disk. Answers quote the most relevant
passages and cite their source essays.

Typical workflow:
  grahamchat index                 # build the vector index from ./data + ./meta.csv
  grahamchat ask "how do I find startup ideas?"
  grahamchat chat                  # interactive session
  grahamchat serve                 # HTTP API on localhost

Settings come from env vars or a YAML config file (~/.grahamchat/config.yaml).
See 'grahamchat --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env if present; real env vars still win.
			_ = godotenv.Load()

			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.grahamchat/config.yaml)")

	root.AddCommand(
		NewIndexCmd(),
		NewAskCmd(),
		NewChatCmd(),
		NewServeCmd(),
		NewVersionCmd(),
	)

	return root
}
