package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundprediction/ontograph/pkg/arxiv"
	"github.com/soundprediction/ontograph/pkg/driver"
	"github.com/soundprediction/ontograph/pkg/embedder"
	"github.com/soundprediction/ontograph/pkg/resolver"
	"github.com/soundprediction/ontograph/pkg/types"
)

// Fetcher retrieves paper metadata and PDF bytes from the paper repository.
type Fetcher interface {
	FetchMetadata(ctx context.Context, paperID string) (*arxiv.Metadata, error)
	FetchPDF(ctx context.Context, pdfURL string) ([]byte, error)
}

// Extractor pulls semantic entities out of paper text.
type Extractor interface {
	Extract(ctx context.Context, paperText string) (*types.PaperExtraction, error)
}

// Chunker splits and embeds paper text.
type Chunker interface {
	ChunkAndEmbed(ctx context.Context, content string) ([]types.ExtractedRecord, error)
}

// Report summarizes one ingestion run.
type Report struct {
	PaperID        string `json:"paper_id"`
	Skipped        bool   `json:"skipped"`
	Chunks         int    `json:"chunks"`
	Entities       int    `json:"entities"`
	FailedEntities int    `json:"failed_entities"`
}

// Pipeline ingests papers into the knowledge graph.
type Pipeline struct {
	store     driver.PaperStore
	resolver  *resolver.Resolver
	fetcher   Fetcher
	pdfText   arxiv.TextExtractor
	extractor Extractor
	chunker   Chunker
	embed     embedder.Client
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(store driver.PaperStore, res *resolver.Resolver, fetcher Fetcher, pdfText arxiv.TextExtractor, extractor Extractor, chunker Chunker, embed embedder.Client, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:     store,
		resolver:  res,
		fetcher:   fetcher,
		pdfText:   pdfText,
		extractor: extractor,
		chunker:   chunker,
		embed:     embed,
		logger:    logger,
	}
}

// IngestPaper runs the full pipeline for one paper id: fetch metadata and
// PDF, extract entities and chunks, and persist everything. A paper already
// in the graph is skipped.
func (p *Pipeline) IngestPaper(ctx context.Context, paperID string) (*Report, error) {
	exists, err := p.store.PaperExists(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("check paper %s: %w", paperID, err)
	}
	if exists {
		p.logger.Info("paper already ingested, skipping", "paper_id", paperID)
		return &Report{PaperID: paperID, Skipped: true}, nil
	}

	meta, err := p.fetcher.FetchMetadata(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for %s: %w", paperID, err)
	}

	summaryEmbedding, err := p.embed.EmbedSingle(ctx, meta.Summary)
	if err != nil {
		return nil, fmt.Errorf("embed summary for %s: %w", paperID, err)
	}

	pdf, err := p.fetcher.FetchPDF(ctx, meta.PDFURL)
	if err != nil {
		return nil, fmt.Errorf("fetch PDF for %s: %w", paperID, err)
	}

	text, err := p.pdfText.ExtractText(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("extract text for %s: %w", paperID, err)
	}

	extraction, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract entities for %s: %w", paperID, err)
	}

	extraction.Content, err = p.chunker.ChunkAndEmbed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("chunk text for %s: %w", paperID, err)
	}

	metadata := types.PaperMetadata{
		ID:        meta.ID,
		Title:     meta.Title,
		Authors:   meta.Authors,
		Published: meta.Published,
		Updated:   meta.Updated,
		Summary:   meta.Summary,
		PDFURL:    meta.PDFURL,
		Embedding: summaryEmbedding,
	}
	return p.StorePaper(ctx, metadata, extraction)
}

// StorePaper persists a paper and its extraction. Entity failures are
// isolated: a failed dataset does not abort the models that follow, it is
// logged and counted in the report.
func (p *Pipeline) StorePaper(ctx context.Context, meta types.PaperMetadata, extraction *types.PaperExtraction) (*Report, error) {
	report := &Report{PaperID: meta.ID}

	p.logger.Info("Persisting paper node", "paper_id", meta.ID)
	if err := p.store.MergePaperNode(ctx, meta); err != nil {
		return nil, fmt.Errorf("store paper %s: %w", meta.ID, err)
	}

	for _, author := range meta.Authors {
		if err := p.store.MergeAuthor(ctx, author, meta.ID); err != nil {
			return nil, fmt.Errorf("store author %q: %w", author, err)
		}
	}

	for _, chunk := range extraction.Content {
		if err := p.store.CreateContentChunk(ctx, meta.ID, chunk.Description, chunk.Embedding); err != nil {
			return nil, fmt.Errorf("store content chunk: %w", err)
		}
		report.Chunks++
	}

	for _, label := range types.EntityLabels() {
		records := extraction.ByLabel(label)
		p.logger.Info("Persisting entity nodes", "label", label, "count", len(records))
		for _, rec := range records {
			if err := p.storeEntity(ctx, meta.ID, label, rec); err != nil {
				p.logger.Error("entity storage failed", "label", label, "title", rec.Title, "error", err)
				report.FailedEntities++
				continue
			}
			report.Entities++
		}
	}

	if err := p.resolver.LinkSimilar(ctx, types.LabelPaper, meta.ID, meta.Embedding); err != nil {
		p.logger.Warn("paper similarity linking failed", "paper_id", meta.ID, "error", err)
	}

	return report, nil
}

// storeEntity resolves one extracted record, attaches it to the paper, and
// links its nearest neighbors.
func (p *Pipeline) storeEntity(ctx context.Context, paperID string, label types.Label, rec types.ExtractedRecord) error {
	ref, err := p.resolver.ResolveOrCreate(ctx, label, rec.Title, rec.Title, rec.Description, rec.Embedding, resolver.EntityThreshold)
	if err != nil {
		return err
	}

	if err := p.store.MergeRelation(ctx, paperID, label, ref.Key, label.RelationFor()); err != nil {
		return err
	}

	return p.resolver.LinkSimilar(ctx, label, ref.Key, rec.Embedding)
}
