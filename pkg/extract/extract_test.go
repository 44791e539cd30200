package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/ontograph/pkg/types"
)

// scriptedLLM returns canned content per prompt keyword.
type scriptedLLM struct {
	responses map[string]string
	calls     []string
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	return s.ChatWithStructuredOutput(ctx, messages)
}

func (s *scriptedLLM) ChatWithStructuredOutput(ctx context.Context, messages []types.Message) (*types.Response, error) {
	prompt := messages[len(messages)-1].Content
	s.calls = append(s.calls, prompt)
	for keyword, content := range s.responses {
		if strings.Contains(prompt, keyword) {
			return &types.Response{Content: content}, nil
		}
	}
	return &types.Response{Content: "[]"}, nil
}

func (s *scriptedLLM) Close() error { return nil }

// countingEmbedder returns a fixed vector and records inputs.
type countingEmbedder struct {
	inputs []string
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		c.inputs = append(c.inputs, t)
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (c *countingEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	c.inputs = append(c.inputs, text)
	return []float32{0.1, 0.2}, nil
}

func (c *countingEmbedder) Dimensions() int { return 2 }
func (c *countingEmbedder) Close() error    { return nil }

func TestExtractAllCategories(t *testing.T) {
	llmClient := &scriptedLLM{responses: map[string]string{
		"datasets and benchmarks": `[{"name": "SQuAD", "description": "QA benchmark"}]`,
		"models referenced":       `[{"name": "BERT", "description": "encoder model"}, {"name": "GPT-2", "description": "decoder model"}]`,
		"techniques used":         `[{"name": "fine-tuning", "description": "adapting a pretrained model"}]`,
		"tasks/use cases":         `[{"name": "question answering", "description": "answering questions over text"}]`,
	}}
	embed := &countingEmbedder{}

	e := NewExtractor(llmClient, embed, nil)
	out, err := e.Extract(context.Background(), "some paper text")
	require.NoError(t, err)

	assert.Len(t, out.Datasets, 1)
	assert.Len(t, out.Models, 2)
	assert.Len(t, out.Methods, 1)
	assert.Len(t, out.Tasks, 1)

	assert.Equal(t, "SQuAD", out.Datasets[0].Title)
	assert.NotEmpty(t, out.Datasets[0].Embedding)

	// Terms are embedded by name, one call each
	assert.Equal(t, []string{"SQuAD", "BERT", "GPT-2", "fine-tuning", "question answering"}, embed.inputs)
}

func TestExtractWrappedResponse(t *testing.T) {
	llmClient := &scriptedLLM{responses: map[string]string{
		"datasets and benchmarks": `{"items": [{"name": "GLUE", "description": "benchmark suite"}]}`,
	}}

	e := NewExtractor(llmClient, &countingEmbedder{}, nil)
	out, err := e.Extract(context.Background(), "text")
	require.NoError(t, err)

	require.Len(t, out.Datasets, 1)
	assert.Equal(t, "GLUE", out.Datasets[0].Title)
}

func TestExtractSkipsUnnamedTerms(t *testing.T) {
	llmClient := &scriptedLLM{responses: map[string]string{
		"datasets and benchmarks": `[{"name": "", "description": "junk"}, {"name": "C4", "description": "web crawl corpus"}]`,
	}}

	e := NewExtractor(llmClient, &countingEmbedder{}, nil)
	out, err := e.Extract(context.Background(), "text")
	require.NoError(t, err)

	require.Len(t, out.Datasets, 1)
	assert.Equal(t, "C4", out.Datasets[0].Title)
}

func TestChunkAndEmbed(t *testing.T) {
	embed := &countingEmbedder{}
	c := NewChunker(40, 5, embed, nil)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 10)
	records, err := c.ChunkAndEmbed(context.Background(), text)
	require.NoError(t, err)

	assert.Greater(t, len(records), 1)
	for _, r := range records {
		assert.Empty(t, r.Title)
		assert.NotEmpty(t, r.Description)
		assert.NotEmpty(t, r.Embedding)
	}
	assert.Len(t, embed.inputs, len(records))
}
