package ablation

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soundprediction/ontograph/pkg/types"
)

func TestFilterQueryInsertsWhereClause(t *testing.T) {
	f := NewFilter(nil)
	cfg := Config{ExcludedNodeTypes: []string{"Dataset"}}

	out := f.FilterQuery("MATCH (n) RETURN n", cfg)

	assert.Contains(t, out, "NOT n:Dataset")
	assert.Equal(t, "MATCH (n) WHERE NOT n:Dataset RETURN n", out)
}

func TestFilterQueryAppendsToExistingWhere(t *testing.T) {
	f := NewFilter(nil)
	cfg := Config{ExcludedNodeTypes: []string{"Model"}}

	out := f.FilterQuery("MATCH (n) WHERE n.title = 'BERT' RETURN n", cfg)

	assert.Equal(t, "MATCH (n) WHERE n.title = 'BERT' AND NOT n:Model RETURN n", out)
}

func TestFilterQueryMultipleVariables(t *testing.T) {
	f := NewFilter(nil)
	cfg := Config{ExcludedNodeTypes: []string{"Task"}}

	out := f.FilterQuery("MATCH (p:Paper) MATCH (m:Model) RETURN p, m", cfg)

	assert.Contains(t, out, "NOT p:Task")
	assert.Contains(t, out, "NOT m:Task")
}

func TestFilterQueryMultipleReturnsFailsClosed(t *testing.T) {
	f := NewFilter(nil)
	cfg := Config{ExcludedNodeTypes: []string{"Dataset"}}

	query := "MATCH (n) RETURN n UNION MATCH (m) RETURN m"
	out := f.FilterQuery(query, cfg)

	assert.Equal(t, query, out)
}

func TestFilterQueryNoExclusionsIsIdentity(t *testing.T) {
	f := NewFilter(nil)

	query := "MATCH (n:Paper) RETURN n.title"
	assert.Equal(t, query, f.FilterQuery(query, DefaultConfig()))
}

func TestFilterQueryNewlineBeforeReturnWarnsAndPassesThrough(t *testing.T) {
	// The rewrite anchors on " RETURN", so a newline before RETURN defeats
	// it. The query must still execute, but with a warning on record.
	var buf bytes.Buffer
	f := NewFilter(slog.New(slog.NewTextHandler(&buf, nil)))
	cfg := Config{ExcludedNodeTypes: []string{"Dataset"}}

	query := "MATCH (n)\nRETURN n"
	out := f.FilterQuery(query, cfg)

	assert.Equal(t, query, out)
	assert.Contains(t, buf.String(), "query was not rewritten")
}

func TestFilterQueryExcludedRelationshipExecutesUnmodified(t *testing.T) {
	f := NewFilter(nil)
	cfg := Config{ExcludedRelationshipTypes: []string{"USES_DATASET"}}

	query := "MATCH (p)-[r:USES_DATASET]->(d) RETURN p, d"
	assert.Equal(t, query, f.FilterQuery(query, cfg))
}

func TestFilterResultsDropsExcludedLabels(t *testing.T) {
	f := NewFilter(nil)
	cfg := Config{ExcludedNodeTypes: []string{"Dataset"}}

	hits := []types.VectorHit{
		{Labels: []string{"Model"}, Score: 0.97},
		{Labels: []string{"Dataset"}, Score: 0.95},
		{Labels: []string{"Method"}, Score: 0.93},
	}

	out := f.FilterResults(hits, cfg)

	assert.Len(t, out, 2)
	assert.Equal(t, []string{"Model"}, out[0].Labels)
	assert.Equal(t, []string{"Method"}, out[1].Labels)
}

func TestFilterResultsPreservesAllWhenNothingExcluded(t *testing.T) {
	f := NewFilter(nil)

	hits := []types.VectorHit{
		{Labels: []string{"Paper"}, Score: 0.9},
		{Labels: []string{"Author"}, Score: 0.8},
	}

	out := f.FilterResults(hits, DefaultConfig())
	assert.Equal(t, hits, out)
}

func TestClampTopK(t *testing.T) {
	tests := []struct {
		name     string
		max      int
		topK     int
		expected int
	}{
		{"no cap", 0, 100, 100},
		{"under cap", 10, 5, 5},
		{"at cap", 5, 5, 5},
		{"over cap", 5, 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{MaxVectorResults: tt.max}
			assert.Equal(t, tt.expected, cfg.ClampTopK(tt.topK))
		})
	}
}
