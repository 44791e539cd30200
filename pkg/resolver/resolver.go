package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundprediction/ontograph/pkg/driver"
	"github.com/soundprediction/ontograph/pkg/types"
)

// Default similarity thresholds. Entity categories use a stricter cutoff
// than the general default because their titles are short and embeddings of
// related-but-distinct terms sit closer together.
const (
	EntityThreshold  = 0.95
	GeneralThreshold = 0.94

	// Similarity edges are cheaper to be wrong about than merges, so
	// linking uses a looser cutoff and a wider candidate set.
	LinkThreshold = 0.9
	LinkTopK      = 5
)

// DefaultThreshold returns the resolution threshold for a label.
func DefaultThreshold(label types.Label) float64 {
	for _, l := range types.EntityLabels() {
		if l == label {
			return EntityThreshold
		}
	}
	return GeneralThreshold
}

// Resolver deduplicates graph nodes. A node is resolved by exact natural
// key first, then by embedding similarity against the label's vector index;
// only when both miss is a new node created. The similarity decision is
// approximate: two entities with different keys but near-identical
// embeddings are merged and the new key is discarded.
type Resolver struct {
	store  driver.NodeResolver
	logger *slog.Logger
}

// New creates a Resolver backed by the given store.
func New(store driver.NodeResolver, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// ResolveOrCreate returns a reference to the node for (label, key), creating
// it if no exact or near-duplicate match exists. The decision and any create
// run in a single write transaction so concurrent resolutions of the same
// entity cannot interleave. A threshold <= 0 selects the label default.
func (r *Resolver) ResolveOrCreate(ctx context.Context, label types.Label, key, title, description string, embedding []float32, threshold float64) (types.NodeRef, error) {
	if !label.Valid() {
		return types.NodeRef{}, fmt.Errorf("invalid label %q", label)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold(label)
	}

	var ref types.NodeRef
	err := r.store.ExecuteWrite(ctx, func(tx driver.Tx) error {
		if _, found, err := tx.ExactLookup(ctx, label, key); err != nil {
			return fmt.Errorf("exact lookup for %s %q: %w", label, key, err)
		} else if found {
			ref = types.NodeRef{Label: label, Key: key}
			return nil
		}

		hits, err := tx.VectorTopK(ctx, label.IndexName(), 1, embedding)
		if err != nil {
			// A missing or cold index should not block ingestion;
			// treat it as no match and let the create proceed.
			r.logger.Warn("vector lookup failed, creating node", "label", label, "key", key, "error", err)
			hits = nil
		}

		if len(hits) > 0 && hits[0].Score >= threshold {
			existingKey, _ := hits[0].Node[label.KeyProperty()].(string)
			r.logger.Debug("resolved to existing node by similarity",
				"label", label, "key", key, "existing", existingKey, "score", hits[0].Score)
			ref = types.NodeRef{Label: label, Key: existingKey}
			return nil
		}

		if err := tx.CreateNode(ctx, label, key, title, description, embedding); err != nil {
			return fmt.Errorf("create %s %q: %w", label, key, err)
		}
		ref = types.NodeRef{Label: label, Key: key, Created: true}
		return nil
	})
	if err != nil {
		return types.NodeRef{}, err
	}
	return ref, nil
}

// LinkSimilar merges SIMILAR_TO edges from the node for (label, key) to up
// to LinkTopK neighbors scoring above LinkThreshold, excluding the node
// itself. Merging makes the operation idempotent. Side effect only.
func (r *Resolver) LinkSimilar(ctx context.Context, label types.Label, key string, embedding []float32) error {
	if err := r.store.MergeSimilarityEdges(ctx, label, key, embedding, LinkTopK, LinkThreshold); err != nil {
		return fmt.Errorf("similarity links for %s %q: %w", label, key, err)
	}
	return nil
}
