package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vector []float32
}

func (s stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func (s stubEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return s.vector, nil
}

func (s stubEmbedder) Dimensions() int { return len(s.vector) }
func (s stubEmbedder) Close() error    { return nil }

func TestRelevanceScorePicksBestCandidate(t *testing.T) {
	embed := stubEmbedder{vector: []float32{1, 0}}

	score, err := RelevanceScore(context.Background(), embed, "query", [][]float32{
		{0, 1},       // orthogonal
		{1, 0},       // identical
		{0.5, 0.866}, // 60 degrees
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestRelevanceScoreNoCandidates(t *testing.T) {
	embed := stubEmbedder{vector: []float32{1, 0}}

	score, err := RelevanceScore(context.Background(), embed, "query", nil)
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestGroundednessCheck(t *testing.T) {
	evidence := []string{
		"BERT was trained on BooksCorpus and English Wikipedia for pretraining.",
	}
	answer := "BERT was trained on BooksCorpus and English Wikipedia for pretraining. It has ten trillion parameters."

	g := GroundednessCheck(answer, evidence)

	assert.Equal(t, 1, g.SupportedClaims)
	assert.Equal(t, 2, g.TotalClaims)
	assert.InDelta(t, 0.5, g.GroundedRatio, 1e-9)
	require.Len(t, g.UnsupportedExamples, 1)
	assert.Contains(t, g.UnsupportedExamples[0], "ten trillion")
}

func TestGroundednessCheckEmptyAnswer(t *testing.T) {
	g := GroundednessCheck("", nil)
	assert.Equal(t, 0, g.SupportedClaims)
	assert.Equal(t, 1, g.TotalClaims)
	assert.Zero(t, g.GroundedRatio)
}

func TestRelevanceCheck(t *testing.T) {
	r := RelevanceCheck("what datasets does the paper use", "The paper use the ImageNet datasets")

	// query tokens (>2 chars): what, datasets, does, the, paper, use
	// answer covers: datasets, the, paper, use
	assert.InDelta(t, 4.0/6.0, r.Score, 0.001)
	assert.Contains(t, r.Reasoning, "4/6")
}

func TestRelevanceCheckNoQueryTokens(t *testing.T) {
	r := RelevanceCheck("a b", "anything")
	assert.Zero(t, r.Score)
	assert.Equal(t, "no query tokens", r.Reasoning)
}

func TestCompletenessCheck(t *testing.T) {
	c := CompletenessCheck("which datasets evaluate retrieval quality", "The datasets used are MS MARCO for retrieval")

	// keywords (>3 chars): which, datasets, evaluate, retrieval, quality
	// missing: which, evaluate, quality
	assert.InDelta(t, 1-3.0/5.0, c.Score, 0.001)
	assert.ElementsMatch(t, []string{"which", "evaluate", "quality"}, c.Missing)
}

func TestCompletenessCheckPerfectAnswer(t *testing.T) {
	c := CompletenessCheck("transformer architecture", "The transformer architecture is described")
	assert.Equal(t, 1.0, c.Score)
	assert.Empty(t, c.Missing)
}

func TestJudgeCombinesChecks(t *testing.T) {
	ev := Judge(
		"what model is introduced",
		"The Transformer model is introduced.",
		[]string{"the transformer model is introduced."},
	)

	assert.Equal(t, 1.0, ev.Groundedness.GroundedRatio)
	assert.Greater(t, ev.Relevance.Score, 0.5)
	assert.Greater(t, ev.Completeness.Score, 0.5)
}
