package dto

import "errors"

// Validation errors
var (
	ErrEmptyPaperID    = errors.New("paper_id cannot be empty")
	ErrEmptyTopic      = errors.New("topic cannot be empty")
	ErrEmptyQuestion   = errors.New("question cannot be empty")
	ErrEmptyPairs      = errors.New("pairs cannot be empty")
	ErrQuestionTooLong = errors.New("question exceeds maximum length (8192)")
	ErrTopicTooLong    = errors.New("topic exceeds maximum length (1024)")
	ErrTooManyPapers   = errors.New("num_papers exceeds maximum (50)")
	ErrTooManyPairs    = errors.New("pairs count exceeds maximum (500)")
)

// Field limits to prevent abuse
const (
	MaxQuestionLength = 8192
	MaxTopicLength    = 1024
	MaxPapersPerTopic = 50
	MaxPairsPerRun    = 500
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
