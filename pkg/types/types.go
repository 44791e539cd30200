package types

import "time"

// PaperMetadata holds the bibliographic record fetched from the paper
// repository, plus the embedding of its summary.
type PaperMetadata struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Published time.Time `json:"date_published"`
	Updated   time.Time `json:"date_updated"`
	Summary   string    `json:"summary"`
	PDFURL    string    `json:"pdf_url"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ExtractedRecord is a single extracted term or content chunk. Title is empty
// for content chunks, which are identified by their description alone.
type ExtractedRecord struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// PaperExtraction groups everything pulled out of a paper's full text.
type PaperExtraction struct {
	Content  []ExtractedRecord `json:"content"`
	Datasets []ExtractedRecord `json:"datasets"`
	Models   []ExtractedRecord `json:"models"`
	Methods  []ExtractedRecord `json:"methods"`
	Tasks    []ExtractedRecord `json:"tasks"`
}

// ByLabel returns the extracted records for one of the semantic entity labels.
func (e *PaperExtraction) ByLabel(label Label) []ExtractedRecord {
	switch label {
	case LabelDataset:
		return e.Datasets
	case LabelModel:
		return e.Models
	case LabelMethod:
		return e.Methods
	case LabelTask:
		return e.Tasks
	default:
		return nil
	}
}

// Paper pairs repository metadata with the extraction of its body.
type Paper struct {
	Metadata   PaperMetadata   `json:"metadata"`
	Extraction PaperExtraction `json:"pdf_data"`
}

// Record is one row returned by a declarative graph query. Values are already
// converted to JSON-friendly types by the driver.
type Record map[string]any

// VectorHit is a single approximate-nearest-neighbor match. Labels carries the
// node's graph labels so results can be filtered without a second lookup.
type VectorHit struct {
	Node   map[string]any `json:"node"`
	Labels []string       `json:"labels,omitempty"`
	Score  float64        `json:"score"`
}

// NodeRef identifies a node by its label and natural key. Created reports
// whether the resolution that produced the ref created a fresh node.
type NodeRef struct {
	Label   Label  `json:"label"`
	Key     string `json:"key"`
	Created bool   `json:"created"`
}

// QueryResult is the terminal output of the query orchestrator. Reasoning
// renders multi-hop traversals as an ordered chain of "label (Type)" segments;
// downstream evaluation parses that format, so it is part of the contract.
type QueryResult struct {
	Reasoning string `json:"reasoning"`
	Answer    string `json:"answer"`
}

// QAPair is a question together with its expected and produced answers, used
// by the evaluation pipeline.
type QAPair struct {
	Query           string `json:"query" yaml:"query"`
	ExpectedAnswer  string `json:"expected_answer" yaml:"expected_answer"`
	ActualReasoning string `json:"actual_reasoning" yaml:"actual_reasoning,omitempty"`
	ActualAnswer    string `json:"actual_answer" yaml:"actual_answer,omitempty"`
}

// Context keys used by the HTTP layer and telemetry.
type contextKey string

const (
	ContextKeyRequestID     contextKey = "request_id"
	ContextKeyRequestSource contextKey = "request_source"
)
