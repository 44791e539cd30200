package dto

import (
	"strings"

	"github.com/soundprediction/ontograph/pkg/ablation"
)

// AblationOptions selects which retrieval capabilities a request may use.
// Omitted boolean fields default to enabled.
type AblationOptions struct {
	EnableGraphQueries        *bool    `json:"enable_graph_queries,omitempty"`
	EnableVectorSearch        *bool    `json:"enable_vector_search,omitempty"`
	ExcludedNodeTypes         []string `json:"excluded_node_types,omitempty"`
	ExcludedRelationshipTypes []string `json:"excluded_relationship_types,omitempty"`
	MaxVectorResults          int      `json:"max_vector_results,omitempty"`
}

// ToConfig converts the request options into an ablation configuration.
func (o *AblationOptions) ToConfig() ablation.Config {
	cfg := ablation.DefaultConfig()
	if o == nil {
		return cfg
	}
	if o.EnableGraphQueries != nil {
		cfg.EnableGraphQueries = *o.EnableGraphQueries
	}
	if o.EnableVectorSearch != nil {
		cfg.EnableVectorSearch = *o.EnableVectorSearch
	}
	if len(o.ExcludedNodeTypes) > 0 {
		cfg.ExcludedNodeTypes = o.ExcludedNodeTypes
	}
	if len(o.ExcludedRelationshipTypes) > 0 {
		cfg.ExcludedRelationshipTypes = o.ExcludedRelationshipTypes
	}
	if o.MaxVectorResults > 0 {
		cfg.MaxVectorResults = o.MaxVectorResults
	}
	return cfg
}

// QueryRequest represents a natural language question over the graph
type QueryRequest struct {
	Question string           `json:"question" binding:"required"`
	Ablation *AblationOptions `json:"ablation,omitempty"`
}

// Validate performs validation on QueryRequest
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return ErrEmptyQuestion
	}
	if len(r.Question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	return nil
}

// QueryResponse represents the answer to a question
type QueryResponse struct {
	Reasoning string `json:"reasoning"`
	Answer    string `json:"answer"`
}
