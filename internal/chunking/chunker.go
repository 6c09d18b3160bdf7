package chunking

import (
	"strings"

	"github.com/kylingoround/pocket-graham-chat/internal/corpus"
	"github.com/kylingoround/pocket-graham-chat/internal/rag"
)

// Default chunking parameters, matching the indexing pipeline defaults.
const (
	// DefaultChunkSize is the target chunk size in bytes.
	DefaultChunkSize = 500

	// DefaultOverlap is the number of bytes duplicated between the end of
	// one chunk and the start of the next.
	DefaultOverlap = 100
)

// Config holds chunk builder parameters.
type Config struct {
	// ChunkSize is the target size of each chunk in bytes.
	// Defaults to DefaultChunkSize if zero or negative.
	ChunkSize int

	// Overlap is the number of bytes carried over between consecutive
	// chunks. Defaults to DefaultOverlap if negative; clamped to
	// ChunkSize/10 when it would equal or exceed ChunkSize.
	Overlap int
}

// resolve applies defaults and clamps invalid combinations.
func (c Config) resolve() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Overlap < 0 {
		c.Overlap = DefaultOverlap
	}
	if c.Overlap >= c.ChunkSize {
		c.Overlap = c.ChunkSize / 10
	}
	return c
}

// ChunkEssay splits an essay into overlapping chunks along sentence
// boundaries and tags each chunk with the essay's citation metadata.
// Embedding slots are left empty for the embedding phase.
//
// A buffer grows sentence by sentence; when appending the next sentence
// would push a non-empty buffer past ChunkSize, the buffer closes as a
// chunk and the new buffer is seeded with an overlap suffix of the old one.
// A single sentence longer than ChunkSize is emitted whole, never cut.
// An essay with empty content yields no chunks.
//
// StartPos/EndPos are running offsets advanced by the growth of each new
// buffer. Because the overlap suffix is duplicated verbatim into the next
// chunk while offsets track only the new buffer's growth, the offsets do
// not account for the duplicated overlap text. That bookkeeping is part of
// the persisted metadata contract and is preserved as-is.
func ChunkEssay(essay corpus.Essay, cfg Config) []rag.Chunk {
	cfg = cfg.resolve()

	sentences := SplitSentences(essay.Content)

	var chunks []rag.Chunk

	var current string
	currentPos := 0
	chunkIndex := 0

	for _, sentence := range sentences {
		if len(current)+len(sentence) > cfg.ChunkSize && current != "" {
			chunks = append(chunks, newChunk(essay, strings.TrimSpace(current), chunkIndex, currentPos, currentPos+len(current)))

			overlapText := overlapSuffix(current, cfg.Overlap)
			current = overlapText + sentence
			currentPos += len(current) - len(overlapText)
			chunkIndex++
			continue
		}
		current += sentence
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, newChunk(essay, strings.TrimSpace(current), chunkIndex, currentPos, currentPos+len(current)))
	}

	return chunks
}

// ChunkEssays chunks every essay in order and returns the flattened list.
func ChunkEssays(essays []corpus.Essay, cfg Config) []rag.Chunk {
	var all []rag.Chunk
	for _, essay := range essays {
		all = append(all, ChunkEssay(essay, cfg)...)
	}
	return all
}

// overlapSuffix returns the tail of text used to seed the next chunk.
// If text fits within overlap it is returned whole. Otherwise the last
// overlap bytes are taken and, when an interior space exists, trimmed back
// to that first space so a word is never split mid-way. A suffix with no
// space (or one starting with a space) is used raw.
func overlapSuffix(text string, overlap int) string {
	if len(text) <= overlap {
		return text
	}

	suffix := text[len(text)-overlap:]
	if idx := strings.Index(suffix, " "); idx > 0 {
		return suffix[idx:]
	}
	return suffix
}

// newChunk builds a chunk record carrying the essay's citation metadata.
func newChunk(essay corpus.Essay, text string, index, startPos, endPos int) rag.Chunk {
	return rag.Chunk{
		Text:          text,
		EssayTitle:    essay.Title,
		EssayFilename: essay.Filename,
		EssayURL:      essay.URL,
		TextID:        essay.TextID,
		ChunkIndex:    index,
		StartPos:      startPos,
		EndPos:        endPos,
	}
}
