package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/ontograph/pkg/server/dto"
)

func queryRouter(graph *mockGraph) *gin.Engine {
	h := NewQueryHandler(graph, nil)
	r := gin.New()
	r.POST("/api/v1/query", h.Query)
	r.POST("/api/v1/evaluate", h.Evaluate)
	return r
}

func TestQueryReturnsAnswer(t *testing.T) {
	graph := newMockGraph()
	router := queryRouter(graph)

	body := `{"question": "What datasets does BERT use?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response dto.QueryResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Answer != "42" {
		t.Errorf("expected answer 42, got %q", response.Answer)
	}
	if response.Reasoning != "direct" {
		t.Errorf("expected reasoning direct, got %q", response.Reasoning)
	}
}

func TestQueryAblationOptionsApplied(t *testing.T) {
	graph := newMockGraph()
	router := queryRouter(graph)

	body := `{
		"question": "What models solve question answering?",
		"ablation": {
			"enable_vector_search": false,
			"excluded_node_types": ["Dataset"],
			"max_vector_results": 3
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	graph.mu.Lock()
	cfg := graph.lastAblation
	graph.mu.Unlock()

	if cfg.EnableVectorSearch {
		t.Error("expected vector search disabled")
	}
	if !cfg.EnableGraphQueries {
		t.Error("expected graph queries to default to enabled")
	}
	if len(cfg.ExcludedNodeTypes) != 1 || cfg.ExcludedNodeTypes[0] != "Dataset" {
		t.Errorf("expected Dataset excluded, got %v", cfg.ExcludedNodeTypes)
	}
	if cfg.MaxVectorResults != 3 {
		t.Errorf("expected max_vector_results 3, got %d", cfg.MaxVectorResults)
	}
}

func TestQueryRejectsEmptyQuestion(t *testing.T) {
	router := queryRouter(newMockGraph())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"question": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestQueryReportsFailure(t *testing.T) {
	graph := newMockGraph()
	graph.queryErr = errUnavailable
	router := queryRouter(graph)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"question": "anything"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error != "query_failed" {
		t.Errorf("expected error query_failed, got %q", response.Error)
	}
}

func TestEvaluateScoresPairs(t *testing.T) {
	graph := newMockGraph()
	router := queryRouter(graph)

	body := `{"pairs": [
		{"query": "What is attention?", "expected_answer": "A weighting mechanism."},
		{"query": "What dataset was used?", "expected_answer": "WMT 2014."}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response dto.EvaluateResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(response.Records))
	}
}

func TestEvaluateRejectsEmptyPairs(t *testing.T) {
	router := queryRouter(newMockGraph())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader(`{"pairs": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
