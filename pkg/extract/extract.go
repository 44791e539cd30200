package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/ontograph/pkg/embedder"
	"github.com/soundprediction/ontograph/pkg/llm"
	"github.com/soundprediction/ontograph/pkg/types"
)

// extractionOutput mirrors the shape the model is asked to produce.
type extractionOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// wrappedOutput covers models that insist on wrapping the array in an object.
type wrappedOutput struct {
	Items    []extractionOutput `json:"items"`
	Entities []extractionOutput `json:"entities"`
	Results  []extractionOutput `json:"results"`
}

// Extractor pulls semantic entities out of paper full text with a language
// model and embeds each extracted term.
type Extractor struct {
	llm    llm.Client
	embed  embedder.Client
	logger *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(llmClient llm.Client, embedClient embedder.Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{llm: llmClient, embed: embedClient, logger: logger}
}

// Extract runs the four entity extractions over the paper text. Categories
// run in a fixed order so ingestion output is reproducible.
func (e *Extractor) Extract(ctx context.Context, paperText string) (*types.PaperExtraction, error) {
	var out types.PaperExtraction
	var err error

	if out.Datasets, err = e.extractCategory(ctx, "datasets", datasetPrompt(paperText)); err != nil {
		return nil, err
	}
	if out.Models, err = e.extractCategory(ctx, "models", modelPrompt(paperText)); err != nil {
		return nil, err
	}
	if out.Methods, err = e.extractCategory(ctx, "methods", methodPrompt(paperText)); err != nil {
		return nil, err
	}
	if out.Tasks, err = e.extractCategory(ctx, "tasks", taskPrompt(paperText)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *Extractor) extractCategory(ctx context.Context, category, prompt string) ([]types.ExtractedRecord, error) {
	e.logger.Info("Extracting " + category)
	start := time.Now()

	resp, err := e.llm.ChatWithStructuredOutput(ctx, []types.Message{
		llm.NewSystemMessage(extractionSystemPrompt + " " + extractionFormatInstruction),
		llm.NewUserMessage(prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", category, err)
	}

	terms, err := parseExtraction(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse extracted %s: %w", category, err)
	}

	records := make([]types.ExtractedRecord, 0, len(terms))
	for _, term := range terms {
		if term.Name == "" {
			continue
		}
		embedding, err := e.embed.EmbedSingle(ctx, term.Name)
		if err != nil {
			return nil, fmt.Errorf("embed %s term %q: %w", category, term.Name, err)
		}
		records = append(records, types.ExtractedRecord{
			Title:       term.Name,
			Description: term.Description,
			Embedding:   embedding,
		})
	}

	e.logger.Info(fmt.Sprintf("Completed in %.2f seconds", time.Since(start).Seconds()),
		"category", category, "terms", len(records))
	return records, nil
}

// parseExtraction accepts either a bare array or a wrapped object.
func parseExtraction(content string) ([]extractionOutput, error) {
	var direct []extractionOutput
	if err := llm.UnmarshalResponse(content, &direct); err == nil {
		return direct, nil
	}

	var wrapped wrappedOutput
	if err := llm.UnmarshalResponse(content, &wrapped); err != nil {
		return nil, err
	}
	switch {
	case len(wrapped.Items) > 0:
		return wrapped.Items, nil
	case len(wrapped.Entities) > 0:
		return wrapped.Entities, nil
	default:
		return wrapped.Results, nil
	}
}
