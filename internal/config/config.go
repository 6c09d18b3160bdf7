// Package config provides YAML-based configuration for grahamchat.
// Configuration is loaded with a layered precedence: defaults → YAML file →
// env vars. Environment variables always win, so shell-driven workflows are
// unaffected by a config file.
//
// File search order:
//  1. --config CLI flag (explicit path)
//  2. GRAHAM_CONFIG environment variable
//  3. ~/.grahamchat/config.yaml
//  4. ./grahamchat.yaml
//
// If no file is found the system runs entirely from env vars and defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration structure. Field names use
// yaml tags that mirror the env var naming (lowercase, underscored).
type Config struct {
	// Corpus configures where essays and their metadata live.
	Corpus CorpusConfig `yaml:"corpus"`

	// Index configures the persisted vector index.
	Index IndexConfig `yaml:"index"`

	// Chunking configures the chunk builder.
	Chunking ChunkingConfig `yaml:"chunking"`

	// Embedding configures the local embedding provider.
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Server configures the HTTP server.
	Server ServerConfig `yaml:"server"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// History configures Q&A history persistence.
	History HistoryConfig `yaml:"history"`

	// Speech configures the TTS pause post-processor.
	Speech SpeechConfig `yaml:"speech"`
}

// CorpusConfig holds essay corpus locations.
type CorpusConfig struct {
	// DataDir is the directory of <text_id>.txt essay files.
	DataDir string `yaml:"data_dir"`
	// MetaCSV is the path to the meta.csv metadata file.
	MetaCSV string `yaml:"meta_csv"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	// Path is where the persisted index file lives.
	Path string `yaml:"path"`
	// TopK is the default number of chunks retrieved per question.
	TopK int `yaml:"top_k"`
}

// ChunkingConfig holds chunk builder settings.
type ChunkingConfig struct {
	// Size is the target chunk size in bytes.
	Size int `yaml:"size"`
	// Overlap is the byte overlap between consecutive chunks.
	Overlap int `yaml:"overlap"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider selects the local backend: tfidf, hashing.
	Provider string `yaml:"provider"`
	// Dimensions overrides the hashing provider's vector size.
	Dimensions int `yaml:"dimensions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the bind address.
	Host string `yaml:"host"`
	// Port is the TCP port.
	Port int `yaml:"port"`
	// APIKey is the Bearer token for API authentication. Prefer env var GRAHAM_API_KEY.
	APIKey string `yaml:"api_key"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is the log output format: json, text.
	Format string `yaml:"format"`
}

// HistoryConfig holds Q&A history settings.
type HistoryConfig struct {
	// DBPath is the SQLite database path. Set to "disabled" to disable.
	DBPath string `yaml:"db_path"`
}

// SpeechConfig holds TTS pause post-processing settings.
type SpeechConfig struct {
	// PauseScale is the pause intensity (0–5, 0 disables).
	PauseScale int `yaml:"pause_scale"`
}

// envMapping maps YAML config fields to their corresponding env var names.
// Only non-empty YAML values are applied; env vars always take precedence.
var envMapping = []struct {
	envKey string
	value  func(*Config) string
}{
	{"GRAHAM_DATA_DIR", func(c *Config) string { return c.Corpus.DataDir }},
	{"GRAHAM_META_CSV", func(c *Config) string { return c.Corpus.MetaCSV }},
	{"GRAHAM_INDEX_PATH", func(c *Config) string { return c.Index.Path }},
	{"GRAHAM_TOP_K", func(c *Config) string { return intStr(c.Index.TopK) }},
	{"CHUNK_SIZE", func(c *Config) string { return intStr(c.Chunking.Size) }},
	{"CHUNK_OVERLAP", func(c *Config) string { return intStr(c.Chunking.Overlap) }},
	{"EMBEDDING_PROVIDER", func(c *Config) string { return c.Embedding.Provider }},
	{"EMBEDDING_DIMENSIONS", func(c *Config) string { return intStr(c.Embedding.Dimensions) }},
	{"GRAHAM_HOST", func(c *Config) string { return c.Server.Host }},
	{"GRAHAM_PORT", func(c *Config) string { return intStr(c.Server.Port) }},
	{"GRAHAM_API_KEY", func(c *Config) string { return c.Server.APIKey }},
	{"LOG_LEVEL", func(c *Config) string { return c.Logging.Level }},
	{"LOG_FORMAT", func(c *Config) string { return c.Logging.Format }},
	{"GRAHAM_HISTORY_DB", func(c *Config) string { return c.History.DBPath }},
	{"PAUSE_SCALE", func(c *Config) string { return intStr(c.Speech.PauseScale) }},
}

// Load reads a YAML config file and applies non-empty values as environment
// variables. Existing env vars are never overwritten (env always wins).
// Returns the path that was loaded, or empty string if no file was found.
func Load(explicitPath string, log *slog.Logger) (string, error) {
	path := resolveConfigPath(explicitPath)
	if path == "" {
		log.Debug("config: no YAML config file found, using env vars only")
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applied := 0
	for _, m := range envMapping {
		yamlVal := m.value(&cfg)
		if yamlVal == "" || yamlVal == "0" {
			continue
		}
		if os.Getenv(m.envKey) != "" {
			continue // env var already set — do not override
		}
		os.Setenv(m.envKey, yamlVal)
		applied++
	}

	log.Info("config: loaded YAML config",
		slog.String("path", path),
		slog.Int("keys_applied", applied),
	)

	return path, nil
}

// resolveConfigPath returns the first config file path that exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if envPath := os.Getenv("GRAHAM_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		p := filepath.Join(home, ".grahamchat", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat("grahamchat.yaml"); err == nil {
		return "grahamchat.yaml"
	}

	return ""
}

// intStr converts an int to string, returning "" for zero values.
func intStr(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}
