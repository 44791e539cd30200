package ablation

// Config controls which graph capabilities and knowledge categories are
// available to a single query invocation. The zero value disables
// everything; use DefaultConfig for the everything-on baseline.
//
// A Config is captured once per invocation and passed down the call chain.
// It must never be stored in shared mutable state: concurrent queries each
// carry their own snapshot.
type Config struct {
	EnableGraphQueries        bool     `json:"enable_graph_queries"`
	EnableVectorSearch        bool     `json:"enable_vector_search"`
	ExcludedNodeTypes         []string `json:"excluded_node_types,omitempty"`
	ExcludedRelationshipTypes []string `json:"excluded_relationship_types,omitempty"`

	// MaxVectorResults caps top_k for vector searches. Zero means no cap.
	MaxVectorResults int `json:"max_vector_results,omitempty"`
}

// DefaultConfig returns the baseline configuration with all capabilities
// enabled and nothing excluded.
func DefaultConfig() Config {
	return Config{
		EnableGraphQueries: true,
		EnableVectorSearch: true,
	}
}

// ExcludesNode reports whether the given node label is excluded.
func (c Config) ExcludesNode(label string) bool {
	for _, t := range c.ExcludedNodeTypes {
		if t == label {
			return true
		}
	}
	return false
}

// ClampTopK applies the MaxVectorResults cap to a requested result count.
func (c Config) ClampTopK(topK int) int {
	if c.MaxVectorResults > 0 && topK > c.MaxVectorResults {
		return c.MaxVectorResults
	}
	return topK
}
