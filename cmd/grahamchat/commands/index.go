package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kylingoround/pocket-graham-chat/internal/chunking"
	"github.com/kylingoround/pocket-graham-chat/internal/corpus"
	"github.com/kylingoround/pocket-graham-chat/internal/embedder"
	"github.com/kylingoround/pocket-graham-chat/internal/logging"
	"github.com/kylingoround/pocket-graham-chat/internal/vectorindex"
)

// NewIndexCmd constructs the `grahamchat index` command, which runs the
// offline pipeline: load essays, chunk, embed, and persist the vector index.
func NewIndexCmd() *cobra.Command {
	var dataDir string
	var metaCSV string
	var indexPath string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the essay vector index",
		Long: `Build the vector index from the essay corpus.

Reads essay metadata from meta.csv (columns text_id, title, link), loads
each <text_id>.txt file from the data directory, segments essays into
overlapping sentence-aligned chunks, embeds every chunk with the configured
local provider, and writes the index to disk atomically. Stateful providers
(TF-IDF) persist their fitted state next to the index.

Settings (flags override env vars, env vars override YAML config):
  GRAHAM_DATA_DIR        Essay directory (default: ./data)
  GRAHAM_META_CSV        Metadata CSV path (default: ./meta.csv)
  GRAHAM_INDEX_PATH      Output index path (default: ./vector_index.gob)
  CHUNK_SIZE             Target chunk size in bytes (default: 500)
  CHUNK_OVERLAP          Overlap between chunks in bytes (default: 100)
  EMBEDDING_PROVIDER     tfidf or hashing (default: tfidf)
  EMBEDDING_DIMENSIONS   Hashing vector size (default: 256)

Examples:
  grahamchat index
  grahamchat index --data-dir ./essays --meta-csv ./essays/meta.csv
  EMBEDDING_PROVIDER=hashing grahamchat index`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			if dataDir == "" {
				dataDir = getEnvOrDefault("GRAHAM_DATA_DIR", defaultDataDir)
			}
			if metaCSV == "" {
				metaCSV = getEnvOrDefault("GRAHAM_META_CSV", defaultMetaCSV)
			}
			if indexPath == "" {
				indexPath = getEnvOrDefault("GRAHAM_INDEX_PATH", defaultIndexPath)
			}

			metas, err := corpus.LoadMeta(metaCSV)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			log.Info("metadata loaded", slog.String("path", metaCSV), slog.Int("essays", len(metas)))

			essays, err := corpus.LoadEssays(dataDir, metas, log)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			if len(essays) == 0 {
				return fmt.Errorf("index: no essay files found in %s", dataDir)
			}

			chunks := chunking.ChunkEssays(essays, chunking.Config{
				ChunkSize: getEnvInt("CHUNK_SIZE", chunking.DefaultChunkSize),
				Overlap:   getEnvInt("CHUNK_OVERLAP", chunking.DefaultOverlap),
			})
			if len(chunks) == 0 {
				return fmt.Errorf("index: corpus produced no chunks")
			}
			log.Info("corpus chunked", slog.Int("essays", len(essays)), slog.Int("chunks", len(chunks)))

			provider := embedder.ProviderFromEnv()
			emb, err := embedder.NewForIndexing(provider)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			texts := make([]string, len(chunks))
			for i, c := range chunks {
				texts[i] = c.Text
			}

			// Stateful providers fit on the chunk corpus before embedding.
			if fitter, ok := emb.(embedder.Fitter); ok {
				if err := fitter.Fit(texts); err != nil {
					return fmt.Errorf("index: fit embedder: %w", err)
				}
			}

			vectors, err := emb.Embed(ctx, texts)
			if err != nil {
				return fmt.Errorf("index: embed chunks: %w", err)
			}
			log.Info("chunks embedded",
				slog.String("provider", provider),
				slog.Int("dimension", emb.Dimension()),
			)

			idx := vectorindex.New()
			if err := idx.AddEmbeddings(vectors, chunks); err != nil {
				return fmt.Errorf("index: %w", err)
			}

			// Write to a temp file in the target directory, then rename, so a
			// crash mid-write never clobbers an existing index.
			dir := filepath.Dir(indexPath)
			if dir == "" {
				dir = "."
			}
			tmp := filepath.Join(dir, "."+filepath.Base(indexPath)+".tmp")
			if err := idx.Save(tmp); err != nil {
				return fmt.Errorf("index: %w", err)
			}
			if err := os.Rename(tmp, indexPath); err != nil {
				_ = os.Remove(tmp)
				return fmt.Errorf("index: replace %s: %w", indexPath, err)
			}

			if saver, ok := emb.(embedder.StateSaver); ok {
				if err := saver.Save(embedder.StatePath(indexPath)); err != nil {
					return fmt.Errorf("index: save embedder state: %w", err)
				}
			}

			log.Info("index written",
				slog.String("path", indexPath),
				slog.Int("chunks", idx.Len()),
			)
			fmt.Printf("Indexed %d chunks from %d essays into %s\n", idx.Len(), len(essays), indexPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Essay directory (default: ./data)")
	cmd.Flags().StringVar(&metaCSV, "meta-csv", "", "Metadata CSV path (default: ./meta.csv)")
	cmd.Flags().StringVar(&indexPath, "index-path", "", "Output index path (default: ./vector_index.gob)")

	return cmd
}
