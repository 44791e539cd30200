package dto

import (
	"fmt"
	"strings"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/types"
)

// EvaluateRequest represents a request to score a question-answer dataset
type EvaluateRequest struct {
	Pairs    []types.QAPair   `json:"pairs" binding:"required,dive"`
	Ablation *AblationOptions `json:"ablation,omitempty"`
}

// Validate performs validation on EvaluateRequest
func (r *EvaluateRequest) Validate() error {
	if len(r.Pairs) == 0 {
		return ErrEmptyPairs
	}
	if len(r.Pairs) > MaxPairsPerRun {
		return ErrTooManyPairs
	}
	for i, pair := range r.Pairs {
		if strings.TrimSpace(pair.Query) == "" {
			return fmt.Errorf("pair %d: %w", i, ErrEmptyQuestion)
		}
	}
	return nil
}

// EvaluateResponse represents the scored dataset
type EvaluateResponse struct {
	Records []ontograph.EvaluationRecord `json:"records"`
}
