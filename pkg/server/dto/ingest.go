package dto

import (
	"strings"

	"github.com/soundprediction/ontograph/pkg/ingest"
)

// IngestPaperRequest represents a request to ingest a single paper by id
type IngestPaperRequest struct {
	PaperID string `json:"paper_id" binding:"required"`
}

// Validate performs validation on IngestPaperRequest
func (r *IngestPaperRequest) Validate() error {
	if strings.TrimSpace(r.PaperID) == "" {
		return ErrEmptyPaperID
	}
	return nil
}

// IngestTopicRequest represents a request to search and ingest papers by topic
type IngestTopicRequest struct {
	Topic     string `json:"topic" binding:"required"`
	NumPapers int    `json:"num_papers,omitempty"`
}

// Validate performs validation on IngestTopicRequest
func (r *IngestTopicRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrEmptyTopic
	}
	if len(r.Topic) > MaxTopicLength {
		return ErrTopicTooLong
	}
	if r.NumPapers > MaxPapersPerTopic {
		return ErrTooManyPapers
	}
	return nil
}

// IngestResponse represents a response from ingest operations. Reports is
// populated for synchronous runs; ProcessID for queued ones.
type IngestResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	ProcessID string           `json:"process_id,omitempty"`
	Reports   []*ingest.Report `json:"reports,omitempty"`
}
