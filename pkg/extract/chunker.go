package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/soundprediction/ontograph/pkg/embedder"
	"github.com/soundprediction/ontograph/pkg/types"
)

// Chunker splits paper text into overlapping windows and embeds each chunk.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
	embed    embedder.Client
	logger   *slog.Logger
}

// NewChunker creates a Chunker. Non-positive sizes fall back to 512/50.
func NewChunker(chunkSize, chunkOverlap int, embedClient embedder.Client, logger *slog.Logger) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 {
		chunkOverlap = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		embed:  embedClient,
		logger: logger,
	}
}

// ChunkAndEmbed splits content and embeds every chunk. Chunks carry no
// title; the description is the chunk text itself.
func (c *Chunker) ChunkAndEmbed(ctx context.Context, content string) ([]types.ExtractedRecord, error) {
	c.logger.Info("Chunking and embedding")

	chunks, err := c.splitter.SplitText(content)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	records := make([]types.ExtractedRecord, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := c.embed.EmbedSingle(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk: %w", err)
		}
		records = append(records, types.ExtractedRecord{
			Description: chunk,
			Embedding:   embedding,
		})
	}
	return records, nil
}
