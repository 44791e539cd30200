package driver

import (
	"context"
	"errors"

	"github.com/soundprediction/ontograph/pkg/types"
)

// This file defines focused interfaces for the graph store. The full
// GraphDriver interface is composed from these smaller interfaces; consumers
// should depend on the smallest interface that meets their needs.

// ErrNotFound is returned when an exact-match lookup finds no node.
var ErrNotFound = errors.New("node not found")

// Tx exposes the operations available inside a single managed write
// transaction. The entity resolution contract requires its read-then-write
// sequence to execute as one unit, so resolution runs entirely within a Tx.
type Tx interface {
	// ExactLookup finds a node by (label, natural key). The boolean reports
	// whether a node was found.
	ExactLookup(ctx context.Context, label types.Label, key string) (map[string]any, bool, error)

	// VectorTopK queries the named vector index for the k nearest neighbors
	// of the embedding, ordered by descending score.
	VectorTopK(ctx context.Context, index string, k int, embedding []float32) ([]types.VectorHit, error)

	// CreateNode creates a fresh node with the given attributes.
	CreateNode(ctx context.Context, label types.Label, key, title, description string, embedding []float32) error
}

// NodeResolver provides the transactional primitives the entity resolution
// engine is built on.
type NodeResolver interface {
	// ExecuteWrite runs fn inside one write transaction.
	ExecuteWrite(ctx context.Context, fn func(tx Tx) error) error

	// MergeSimilarityEdges merges SIMILAR_TO edges from the (label, key) node
	// to up to topK same-label neighbors scoring above threshold, excluding
	// the node itself. Merge-idempotent.
	MergeSimilarityEdges(ctx context.Context, label types.Label, key string, embedding []float32, topK int, threshold float64) error
}

// PaperStore provides the write operations used by paper ingestion.
type PaperStore interface {
	// MergePaperNode creates or updates the Paper node for meta.
	MergePaperNode(ctx context.Context, meta types.PaperMetadata) error

	// MergeAuthor merges an Author node and its WRITTEN_BY edge from the paper.
	MergeAuthor(ctx context.Context, name, paperID string) error

	// CreateContentChunk creates a Content node and links it to the paper.
	CreateContentChunk(ctx context.Context, paperID, description string, embedding []float32) error

	// MergeRelation merges a typed edge from the paper to an entity node.
	MergeRelation(ctx context.Context, paperID string, label types.Label, key string, rel types.EdgeType) error

	// PaperExists reports whether a Paper node with the given id exists.
	PaperExists(ctx context.Context, paperID string) (bool, error)
}

// QueryExecutor provides the read operations used by the query layer.
type QueryExecutor interface {
	// RunQuery executes a declarative Cypher query and returns its rows with
	// values converted to JSON-friendly types.
	RunQuery(ctx context.Context, cypher string) ([]types.Record, error)

	// VectorSearch queries a named vector index, returning matches with their
	// node properties, labels, and scores in descending score order.
	VectorSearch(ctx context.Context, index string, topK int, embedding []float32) ([]types.VectorHit, error)

	// Schema returns a textual description of node labels, relationship
	// types, and vector indexes, for inclusion in system prompts.
	Schema(ctx context.Context) (string, error)
}

// GraphAdmin provides maintenance operations.
type GraphAdmin interface {
	// CreateIndices creates the per-label vector indexes and key constraints.
	CreateIndices(ctx context.Context, dimensions int) error

	// Close releases all resources held by the driver.
	Close(ctx context.Context) error
}

// GraphDriver is the full graph store surface.
type GraphDriver interface {
	NodeResolver
	PaperStore
	QueryExecutor
	GraphAdmin
}
