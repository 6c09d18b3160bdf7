// Command grahamchat is the entry point for the Paul Graham essay Q&A
// assistant. It provides a CLI interface (via Cobra) for indexing the essay
// corpus, asking questions, interactive chat, and an optional HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/kylingoround/pocket-graham-chat/cmd/grahamchat/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
