package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/ablation"
	"github.com/soundprediction/ontograph/pkg/ingest"
	"github.com/soundprediction/ontograph/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockGraph is a scriptable ontograph.OntoGraph for handler tests.
type mockGraph struct {
	mu sync.Mutex

	ingestedPaperIDs []string
	ingestedTopics   []string
	queryQuestions   []string
	lastAblation     ablation.Config
	done             chan struct{}

	ingestErr error
	queryErr  error
	indicesErr error

	queryResult types.QueryResult
}

func newMockGraph() *mockGraph {
	return &mockGraph{
		done:        make(chan struct{}, 10),
		queryResult: types.QueryResult{Reasoning: "direct", Answer: "42"},
	}
}

func (m *mockGraph) IngestPaper(ctx context.Context, paperID string) (*ingest.Report, error) {
	m.mu.Lock()
	m.ingestedPaperIDs = append(m.ingestedPaperIDs, paperID)
	m.mu.Unlock()
	defer func() { m.done <- struct{}{} }()
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	return &ingest.Report{PaperID: paperID, Chunks: 3, Entities: 4}, nil
}

func (m *mockGraph) IngestTopic(ctx context.Context, topic string, numPapers int) ([]*ingest.Report, error) {
	m.mu.Lock()
	m.ingestedTopics = append(m.ingestedTopics, topic)
	m.mu.Unlock()
	defer func() { m.done <- struct{}{} }()
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	return []*ingest.Report{{PaperID: "p1"}}, nil
}

func (m *mockGraph) Query(ctx context.Context, question string, cfg ablation.Config) (*types.QueryResult, error) {
	m.mu.Lock()
	m.queryQuestions = append(m.queryQuestions, question)
	m.lastAblation = cfg
	m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	result := m.queryResult
	return &result, nil
}

func (m *mockGraph) Evaluate(ctx context.Context, pairs []types.QAPair, cfg ablation.Config) ([]ontograph.EvaluationRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	records := make([]ontograph.EvaluationRecord, 0, len(pairs))
	for _, pair := range pairs {
		pair.ActualAnswer = m.queryResult.Answer
		records = append(records, ontograph.EvaluationRecord{Pair: pair})
	}
	return records, nil
}

func (m *mockGraph) CreateIndices(ctx context.Context) error {
	return m.indicesErr
}

func (m *mockGraph) Close(ctx context.Context) error {
	return nil
}

var errUnavailable = errors.New("service unavailable")
