package ontograph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundprediction/ontograph/pkg/ablation"
	"github.com/soundprediction/ontograph/pkg/arxiv"
	"github.com/soundprediction/ontograph/pkg/cache"
	"github.com/soundprediction/ontograph/pkg/config"
	"github.com/soundprediction/ontograph/pkg/driver"
	"github.com/soundprediction/ontograph/pkg/embedder"
	"github.com/soundprediction/ontograph/pkg/eval"
	"github.com/soundprediction/ontograph/pkg/extract"
	"github.com/soundprediction/ontograph/pkg/ingest"
	"github.com/soundprediction/ontograph/pkg/llm"
	"github.com/soundprediction/ontograph/pkg/query"
	"github.com/soundprediction/ontograph/pkg/resolver"
	"github.com/soundprediction/ontograph/pkg/types"
)

// Fetcher is the paper repository surface the client needs: metadata and PDF
// retrieval for single-paper ingestion, plus topic search for batch ingestion.
// *arxiv.Client satisfies it.
type Fetcher interface {
	ingest.Fetcher
	SearchByTopic(ctx context.Context, topic string, numPapers int) ([]arxiv.Document, error)
}

// EvaluationRecord pairs one evaluated question with the system's answer and
// the judge's scores. Err is set when the query itself failed; the record is
// still emitted so a dataset run reports every question.
type EvaluationRecord struct {
	Pair       types.QAPair     `json:"pair"`
	Evaluation *eval.Evaluation `json:"evaluation,omitempty"`
	Err        string           `json:"error,omitempty"`
}

// Client is the main entry point. It wires the ingestion pipeline and the
// query orchestrator over a shared graph driver and embedder.
type Client struct {
	driver       driver.GraphDriver
	llm          llm.Client
	embedder     embedder.Client
	fetcher      Fetcher
	pipeline     *ingest.Pipeline
	orchestrator *query.Orchestrator
	config       *config.Config
	logger       *slog.Logger
}

// NewClient creates a Client from its external dependencies. The graph
// driver, language model client, embedder, policy, and fetcher are injected
// so callers control providers and credentials; everything internal (caches,
// ablation filter, resolver, pipeline, orchestrator) is built here from cfg.
func NewClient(graphDriver driver.GraphDriver, llmClient llm.Client, embedClient embedder.Client, policy query.Policy, fetcher Fetcher, pdfText arxiv.TextExtractor, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if graphDriver == nil {
		return nil, fmt.Errorf("graph driver is required")
	}
	if embedClient == nil {
		return nil, fmt.Errorf("embedder client is required")
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	filter := ablation.NewFilter(logger)
	queryCache := cache.New(cfg.Query.CacheTTL, cfg.Query.CacheEnabled, logger)
	vectorCache := cache.New(cfg.Query.CacheTTL, cfg.Query.CacheEnabled, logger)

	orchestrator := query.NewOrchestrator(graphDriver, embedClient, filter, queryCache, vectorCache, policy, query.Options{
		MaxToolCalls:  cfg.Query.MaxToolCalls,
		RequestBudget: cfg.Query.RequestBudget,
	}, logger)

	extractor := extract.NewExtractor(llmClient, embedClient, logger)
	chunker := extract.NewChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap, embedClient, logger)
	res := resolver.New(graphDriver, logger)
	pipeline := ingest.NewPipeline(graphDriver, res, fetcher, pdfText, extractor, chunker, embedClient, logger)

	return &Client{
		driver:       graphDriver,
		llm:          llmClient,
		embedder:     embedClient,
		fetcher:      fetcher,
		pipeline:     pipeline,
		orchestrator: orchestrator,
		config:       cfg,
		logger:       logger,
	}, nil
}

// IngestPaper fetches one paper by id and persists it to the graph.
func (c *Client) IngestPaper(ctx context.Context, paperID string) (*ingest.Report, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("no paper fetcher configured")
	}
	return c.pipeline.IngestPaper(ctx, paperID)
}

// IngestTopic searches the repository by topic and ingests up to numPapers
// matches. A failed paper is logged and skipped; the run continues.
func (c *Client) IngestTopic(ctx context.Context, topic string, numPapers int) ([]*ingest.Report, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("no paper fetcher configured")
	}
	docs, err := c.fetcher.SearchByTopic(ctx, topic, numPapers)
	if err != nil {
		return nil, fmt.Errorf("topic search failed: %w", err)
	}

	reports := make([]*ingest.Report, 0, len(docs))
	for _, doc := range docs {
		report, err := c.pipeline.IngestPaper(ctx, doc.ID)
		if err != nil {
			c.logger.Error("paper ingestion failed", "paper_id", doc.ID, "error", err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Query answers a natural language question over the graph under the given
// ablation configuration.
func (c *Client) Query(ctx context.Context, question string, cfg ablation.Config) (*types.QueryResult, error) {
	return c.orchestrator.Query(ctx, question, cfg)
}

// Evaluate runs every question through Query and judges the answers against
// the expected ones. Query failures are recorded, not fatal.
func (c *Client) Evaluate(ctx context.Context, pairs []types.QAPair, cfg ablation.Config) ([]EvaluationRecord, error) {
	records := make([]EvaluationRecord, 0, len(pairs))
	for _, pair := range pairs {
		result, err := c.orchestrator.Query(ctx, pair.Query, cfg)
		if err != nil {
			c.logger.Error("evaluation query failed", "query", pair.Query, "error", err)
			records = append(records, EvaluationRecord{Pair: pair, Err: err.Error()})
			continue
		}

		pair.ActualAnswer = result.Answer
		pair.ActualReasoning = result.Reasoning
		// The expected answer and the system's own reasoning chain are the
		// evidence set: groundedness measures whether the answer's claims
		// appear in either.
		verdict := eval.Judge(pair.Query, result.Answer, []string{pair.ExpectedAnswer, result.Reasoning})
		records = append(records, EvaluationRecord{Pair: pair, Evaluation: &verdict})
	}
	return records, nil
}

// CreateIndices creates key constraints and vector indexes for every label.
func (c *Client) CreateIndices(ctx context.Context) error {
	dims := c.config.Embedding.Dimensions
	if dims <= 0 {
		dims = c.embedder.Dimensions()
	}
	return c.driver.CreateIndices(ctx, dims)
}

// Close closes all connections and cleans up resources.
func (c *Client) Close(ctx context.Context) error {
	var firstErr error

	if c.llm != nil {
		if err := c.llm.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close llm client: %w", err)
		}
	}
	if c.embedder != nil {
		if err := c.embedder.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close embedder client: %w", err)
		}
	}
	if c.driver != nil {
		if err := c.driver.Close(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close graph driver: %w", err)
		}
	}
	return firstErr
}
