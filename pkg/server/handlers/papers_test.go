package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/ontograph/pkg/server/dto"
)

func papersRouter(graph *mockGraph) *gin.Engine {
	h := NewPapersHandler(graph, nil)
	r := gin.New()
	r.POST("/api/v1/papers", h.IngestPaper)
	r.POST("/api/v1/papers/topic", h.IngestTopic)
	return r
}

func waitForIngest(t *testing.T, graph *mockGraph) {
	t.Helper()
	select {
	case <-graph.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for background ingestion")
	}
}

func TestIngestPaperQueuesWork(t *testing.T) {
	graph := newMockGraph()
	router := papersRouter(graph)

	body := `{"paper_id": "1706.03762"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d: %s", http.StatusAccepted, w.Code, w.Body.String())
	}

	var response dto.IngestResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true")
	}
	if response.ProcessID == "" {
		t.Error("expected process_id in response")
	}

	waitForIngest(t, graph)
	graph.mu.Lock()
	defer graph.mu.Unlock()
	if len(graph.ingestedPaperIDs) != 1 || graph.ingestedPaperIDs[0] != "1706.03762" {
		t.Errorf("expected paper 1706.03762 ingested, got %v", graph.ingestedPaperIDs)
	}
}

func TestIngestPaperRejectsEmptyID(t *testing.T) {
	router := papersRouter(newMockGraph())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers", strings.NewReader(`{"paper_id": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestIngestPaperRejectsMalformedBody(t *testing.T) {
	router := papersRouter(newMockGraph())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestIngestTopicQueuesWork(t *testing.T) {
	graph := newMockGraph()
	router := papersRouter(graph)

	body := `{"topic": "graph neural networks", "num_papers": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers/topic", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d: %s", http.StatusAccepted, w.Code, w.Body.String())
	}

	waitForIngest(t, graph)
	graph.mu.Lock()
	defer graph.mu.Unlock()
	if len(graph.ingestedTopics) != 1 || graph.ingestedTopics[0] != "graph neural networks" {
		t.Errorf("expected topic ingested, got %v", graph.ingestedTopics)
	}
}

func TestIngestTopicRejectsTooManyPapers(t *testing.T) {
	router := papersRouter(newMockGraph())

	body := `{"topic": "llms", "num_papers": 10000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers/topic", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGenerateProcessIDUnique(t *testing.T) {
	a := generateProcessID()
	b := generateProcessID()

	if a == b {
		t.Errorf("expected distinct process ids, got %s twice", a)
	}
	if !strings.HasPrefix(a, "proc_") {
		t.Errorf("expected proc_ prefix, got %s", a)
	}
}
