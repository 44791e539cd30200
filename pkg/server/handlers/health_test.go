package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func healthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)
	r.GET("/health/detailed", h.DetailedHealthCheck)
	return r
}

func TestHealthCheck(t *testing.T) {
	router := healthRouter(NewHealthHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}

	if response["service"] != "ontograph" {
		t.Errorf("expected service ontograph, got %v", response["service"])
	}

	if _, ok := response["timestamp"]; !ok {
		t.Error("expected timestamp in response")
	}

	if _, ok := response["version"]; !ok {
		t.Error("expected version in response")
	}
}

func TestLivenessCheck(t *testing.T) {
	router := healthRouter(NewHealthHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != "alive" {
		t.Errorf("expected status alive, got %v", response["status"])
	}
}

func TestReadinessCheckWithNilGraph(t *testing.T) {
	router := healthRouter(NewHealthHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != "not_ready" {
		t.Errorf("expected status not_ready, got %v", response["status"])
	}

	checks, ok := response["checks"].(map[string]interface{})
	if !ok {
		t.Fatal("expected checks in response")
	}

	dbCheck, ok := checks["database"].(map[string]interface{})
	if !ok {
		t.Fatal("expected database check in response")
	}

	if dbCheck["status"] != "unhealthy" {
		t.Errorf("expected database status unhealthy, got %v", dbCheck["status"])
	}
}

func TestReadinessCheckHealthyGraph(t *testing.T) {
	router := healthRouter(NewHealthHandler(newMockGraph()))

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestReadinessCheckDatabaseDown(t *testing.T) {
	graph := newMockGraph()
	graph.indicesErr = errUnavailable
	router := healthRouter(NewHealthHandler(graph))

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

func TestDetailedHealthCheckWithNilGraph(t *testing.T) {
	router := healthRouter(NewHealthHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != "unhealthy" {
		t.Errorf("expected status unhealthy, got %v", response["status"])
	}

	if _, ok := response["build_info"]; !ok {
		t.Error("expected build_info in response")
	}

	metrics, ok := response["metrics"].(map[string]interface{})
	if !ok {
		t.Fatal("expected metrics in response")
	}

	if _, ok := metrics["response_time_ms"]; !ok {
		t.Error("expected response_time_ms in metrics")
	}
}

func TestGetSystemMetrics(t *testing.T) {
	handler := NewHealthHandler(nil)

	metrics := handler.getSystemMetrics()

	if metrics.MemoryUsage == "" {
		t.Error("expected memory_usage to be set")
	}

	if metrics.Goroutines < 1 {
		t.Errorf("expected at least 1 goroutine, got %d", metrics.Goroutines)
	}

	if metrics.StackUsage == "" {
		t.Error("expected stack_usage to be set")
	}
}
