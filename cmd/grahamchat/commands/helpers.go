package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/kylingoround/pocket-graham-chat/internal/embedder"
	"github.com/kylingoround/pocket-graham-chat/internal/qa"
	"github.com/kylingoround/pocket-graham-chat/internal/rag"
	"github.com/kylingoround/pocket-graham-chat/internal/store"
	"github.com/kylingoround/pocket-graham-chat/internal/vectorindex"
)

// Default locations, overridable via env vars or the YAML config file.
const (
	defaultDataDir   = "./data"
	defaultMetaCSV   = "./meta.csv"
	defaultIndexPath = "./vector_index.gob"
)

// getEnvOrDefault returns the env var value, or def if unset or empty.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the env var parsed as int, or def if unset or invalid.
func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// setPauseScale promotes a --pause-scale flag value to the PAUSE_SCALE env
// var so it flows through the same layering as every other setting.
func setPauseScale(scale int) {
	os.Setenv("PAUSE_SCALE", strconv.Itoa(scale))
}

// buildService loads the persisted index and the matching embedder state,
// then assembles the QA service shared by ask, chat, and serve.
func buildService(log *slog.Logger) (*qa.Service, error) {
	indexPath := getEnvOrDefault("GRAHAM_INDEX_PATH", defaultIndexPath)

	idx, err := vectorindex.Load(indexPath)
	if err != nil {
		return nil, fmt.Errorf("could not load index from %s (run 'grahamchat index' first): %w", indexPath, err)
	}
	log.Info("index loaded",
		slog.String("path", indexPath),
		slog.Int("chunks", idx.Len()),
		slog.Int("dimension", idx.Dimension()),
	)

	provider := embedder.ProviderFromEnv()
	emb, err := embedder.NewForQuerying(provider, embedder.StatePath(indexPath))
	if err != nil {
		return nil, fmt.Errorf("could not initialise %s embedder: %w", provider, err)
	}
	if emb.Dimension() != idx.Dimension() {
		return nil, fmt.Errorf("embedder dimension %d does not match index dimension %d (re-run 'grahamchat index')",
			emb.Dimension(), idx.Dimension())
	}

	topK := getEnvInt("GRAHAM_TOP_K", 5)
	retriever, err := rag.NewRetriever(emb, idx, topK)
	if err != nil {
		return nil, err
	}

	return qa.New(retriever, qa.Config{
		TopK:       topK,
		PauseScale: getEnvInt("PAUSE_SCALE", 0),
	})
}

// openHistory opens the Q&A history store. GRAHAM_HISTORY_DB overrides the
// default path (~/.grahamchat/history.db); set to "disabled" to disable.
// Returns a nil store (and a no-op closer) when history is unavailable —
// history failures never block answering.
func openHistory(log *slog.Logger) (store.HistoryStore, func()) {
	noop := func() {}

	dbPath := os.Getenv("GRAHAM_HISTORY_DB")
	if dbPath == "disabled" {
		log.Info("history: disabled via GRAHAM_HISTORY_DB=disabled")
		return nil, noop
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			log.Warn("history: could not resolve default DB path, disabling", slog.Any("error", err))
			return nil, noop
		}
	}

	hs, err := store.Open(dbPath)
	if err != nil {
		log.Warn("history: failed to open store, disabling", slog.Any("error", err))
		return nil, noop
	}
	log.Info("history: store opened", slog.String("path", dbPath))
	return hs, func() { _ = hs.Close() }
}
