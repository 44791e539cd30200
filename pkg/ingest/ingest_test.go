package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/ontograph/pkg/arxiv"
	"github.com/soundprediction/ontograph/pkg/driver"
	"github.com/soundprediction/ontograph/pkg/resolver"
	"github.com/soundprediction/ontograph/pkg/types"
)

// graphFake implements driver.PaperStore and driver.NodeResolver in memory.
type graphFake struct {
	papers    map[string]bool
	nodes     map[string]bool // "label/key"
	relations []string        // "paperID-REL->key"
	links     []string        // "label/key"
	chunks    int
	relErrFor string // key that makes MergeRelation fail
}

func newGraphFake() *graphFake {
	return &graphFake{papers: make(map[string]bool), nodes: make(map[string]bool)}
}

func (g *graphFake) MergePaperNode(ctx context.Context, meta types.PaperMetadata) error {
	g.papers[meta.ID] = true
	return nil
}

func (g *graphFake) MergeAuthor(ctx context.Context, name, paperID string) error {
	g.nodes["Author/"+name] = true
	return nil
}

func (g *graphFake) CreateContentChunk(ctx context.Context, paperID, description string, embedding []float32) error {
	g.chunks++
	return nil
}

func (g *graphFake) MergeRelation(ctx context.Context, paperID string, label types.Label, key string, rel types.EdgeType) error {
	if key == g.relErrFor {
		return errors.New("write failure")
	}
	g.relations = append(g.relations, paperID+"-"+string(rel)+"->"+key)
	return nil
}

func (g *graphFake) PaperExists(ctx context.Context, paperID string) (bool, error) {
	return g.papers[paperID], nil
}

func (g *graphFake) ExecuteWrite(ctx context.Context, fn func(tx driver.Tx) error) error {
	return fn(&graphFakeTx{g})
}

func (g *graphFake) MergeSimilarityEdges(ctx context.Context, label types.Label, key string, embedding []float32, topK int, threshold float64) error {
	g.links = append(g.links, string(label)+"/"+key)
	return nil
}

type graphFakeTx struct {
	g *graphFake
}

func (t *graphFakeTx) ExactLookup(ctx context.Context, label types.Label, key string) (map[string]any, bool, error) {
	if t.g.nodes[string(label)+"/"+key] {
		return map[string]any{label.KeyProperty(): key}, true, nil
	}
	return nil, false, nil
}

func (t *graphFakeTx) VectorTopK(ctx context.Context, index string, k int, embedding []float32) ([]types.VectorHit, error) {
	return nil, nil
}

func (t *graphFakeTx) CreateNode(ctx context.Context, label types.Label, key, title, description string, embedding []float32) error {
	t.g.nodes[string(label)+"/"+key] = true
	return nil
}

type fakeFetcher struct{}

func (fakeFetcher) FetchMetadata(ctx context.Context, paperID string) (*arxiv.Metadata, error) {
	return &arxiv.Metadata{
		ID:        paperID,
		Title:     "Attention Is All You Need",
		Authors:   []string{"Ashish Vaswani"},
		Published: time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC),
		Updated:   time.Date(2023, 8, 2, 0, 0, 0, 0, time.UTC),
		Summary:   "The dominant sequence transduction models...",
		PDFURL:    "https://arxiv.org/pdf/" + paperID,
	}, nil
}

func (fakeFetcher) FetchPDF(ctx context.Context, pdfURL string) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

type fakeTextExtractor struct{}

func (fakeTextExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	return "paper full text", nil
}

type fakeExtractor struct{}

func (fakeExtractor) Extract(ctx context.Context, paperText string) (*types.PaperExtraction, error) {
	return &types.PaperExtraction{
		Datasets: []types.ExtractedRecord{{Title: "WMT 2014", Description: "translation benchmark", Embedding: []float32{0.1}}},
		Models:   []types.ExtractedRecord{{Title: "Transformer", Description: "attention-based model", Embedding: []float32{0.2}}},
		Methods:  []types.ExtractedRecord{{Title: "self-attention", Description: "intra-sequence attention", Embedding: []float32{0.3}}},
		Tasks:    []types.ExtractedRecord{{Title: "machine translation", Description: "", Embedding: []float32{0.4}}},
	}, nil
}

type fakeChunker struct{}

func (fakeChunker) ChunkAndEmbed(ctx context.Context, content string) ([]types.ExtractedRecord, error) {
	return []types.ExtractedRecord{
		{Description: "chunk one", Embedding: []float32{0.5}},
		{Description: "chunk two", Embedding: []float32{0.6}},
	}, nil
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.9}
	}
	return out, nil
}

func (fixedEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.9}, nil
}

func (fixedEmbedder) Dimensions() int { return 1 }
func (fixedEmbedder) Close() error    { return nil }

func newTestPipeline(g *graphFake) *Pipeline {
	res := resolver.New(g, nil)
	return NewPipeline(g, res, fakeFetcher{}, fakeTextExtractor{}, fakeExtractor{}, fakeChunker{}, fixedEmbedder{}, nil)
}

func TestIngestPaperFullRun(t *testing.T) {
	g := newGraphFake()
	p := newTestPipeline(g)

	report, err := p.IngestPaper(context.Background(), "1706.03762")
	require.NoError(t, err)

	assert.False(t, report.Skipped)
	assert.Equal(t, 2, report.Chunks)
	assert.Equal(t, 4, report.Entities)
	assert.Equal(t, 0, report.FailedEntities)

	assert.True(t, g.papers["1706.03762"])
	assert.True(t, g.nodes["Author/Ashish Vaswani"])
	assert.True(t, g.nodes["Dataset/WMT 2014"])
	assert.True(t, g.nodes["Model/Transformer"])

	assert.Contains(t, g.relations, "1706.03762-USES_DATASET->WMT 2014")
	assert.Contains(t, g.relations, "1706.03762-USES_MODEL->Transformer")
	assert.Contains(t, g.relations, "1706.03762-USES_METHOD->self-attention")
	assert.Contains(t, g.relations, "1706.03762-SOLVES_TASK->machine translation")

	// Similarity links for each entity plus the paper itself
	assert.Contains(t, g.links, "Paper/1706.03762")
	assert.Len(t, g.links, 5)
}

func TestIngestPaperSkipsExisting(t *testing.T) {
	g := newGraphFake()
	p := newTestPipeline(g)
	ctx := context.Background()

	first, err := p.IngestPaper(ctx, "1706.03762")
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	second, err := p.IngestPaper(ctx, "1706.03762")
	require.NoError(t, err)
	assert.True(t, second.Skipped)

	// No duplicate relations from the second run
	assert.Len(t, g.relations, 4)
}

func TestStorePaperIsolatesEntityFailures(t *testing.T) {
	g := newGraphFake()
	g.relErrFor = "Transformer"
	p := newTestPipeline(g)

	report, err := p.IngestPaper(context.Background(), "1706.03762")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Entities)
	assert.Equal(t, 1, report.FailedEntities)

	// Siblings after the failed model were still stored
	assert.Contains(t, g.relations, "1706.03762-USES_METHOD->self-attention")
	assert.Contains(t, g.relations, "1706.03762-SOLVES_TASK->machine translation")
}
