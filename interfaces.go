package ontograph

import (
	"context"

	"github.com/soundprediction/ontograph/pkg/ablation"
	"github.com/soundprediction/ontograph/pkg/ingest"
	"github.com/soundprediction/ontograph/pkg/types"
)

// This file defines focused interfaces so consumers can depend on the
// smallest surface that meets their needs. The OntoGraph interface composes
// them for callers that want everything.

// PaperIngester provides operations for adding papers to the knowledge graph.
type PaperIngester interface {
	// IngestPaper fetches one paper by id and persists its metadata,
	// authors, content chunks, and extracted entities.
	IngestPaper(ctx context.Context, paperID string) (*ingest.Report, error)

	// IngestTopic searches the paper repository by topic and ingests up to
	// numPapers matches. Per-paper failures are isolated.
	IngestTopic(ctx context.Context, topic string, numPapers int) ([]*ingest.Report, error)
}

// GraphQuerier answers natural language questions over the graph.
type GraphQuerier interface {
	// Query runs the bounded tool-call loop under the given ablation
	// configuration and returns the structured result.
	Query(ctx context.Context, question string, cfg ablation.Config) (*types.QueryResult, error)
}

// Evaluator scores query answers against expected answers.
type Evaluator interface {
	// Evaluate runs each question through Query and judges the answers.
	Evaluate(ctx context.Context, pairs []types.QAPair, cfg ablation.Config) ([]EvaluationRecord, error)
}

// Admin provides maintenance operations.
type Admin interface {
	// CreateIndices creates constraints and vector indexes for all labels.
	CreateIndices(ctx context.Context) error

	// Close closes all connections and cleans up resources.
	Close(ctx context.Context) error
}

// OntoGraph is the full client surface.
type OntoGraph interface {
	PaperIngester
	GraphQuerier
	Evaluator
	Admin
}

// Compile-time check that Client implements the composed interface.
var _ OntoGraph = (*Client)(nil)
