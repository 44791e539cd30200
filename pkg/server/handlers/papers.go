package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/ingest"
	"github.com/soundprediction/ontograph/pkg/server/dto"
)

// PapersHandler handles paper ingestion requests
type PapersHandler struct {
	graph  ontograph.OntoGraph
	logger *slog.Logger
}

// NewPapersHandler creates a new papers handler
func NewPapersHandler(g ontograph.OntoGraph, logger *slog.Logger) *PapersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PapersHandler{
		graph:  g,
		logger: logger,
	}
}

// generateProcessID generates a unique process ID for tracking async operations
func generateProcessID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random generation fails
		return fmt.Sprintf("proc_%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("proc_%s", hex.EncodeToString(bytes))
}

// IngestPaper handles POST /api/v1/papers. Fetching, extraction, and graph
// writes take minutes per paper, so the work is queued and a process id
// returned immediately.
func (h *PapersHandler) IngestPaper(c *gin.Context) {
	var req dto.IngestPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	processID := generateProcessID()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("panic recovered in paper ingestion", "process_id", processID, "paper_id", req.PaperID, "panic", r)
			}
		}()

		ctx := context.Background()
		h.logger.Info("paper ingestion started", "process_id", processID, "paper_id", req.PaperID)

		report, err := h.graph.IngestPaper(ctx, req.PaperID)
		if err != nil {
			h.logger.Error("paper ingestion failed", "process_id", processID, "paper_id", req.PaperID, "error", err)
			return
		}
		h.logger.Info("paper ingestion finished",
			"process_id", processID,
			"paper_id", report.PaperID,
			"skipped", report.Skipped,
			"chunks", report.Chunks,
			"entities", report.Entities,
			"failed_entities", report.FailedEntities)
	}()

	c.JSON(http.StatusAccepted, dto.IngestResponse{
		Success:   true,
		Message:   fmt.Sprintf("Queued paper %s for ingestion", req.PaperID),
		ProcessID: processID,
	})
}

// IngestTopic handles POST /api/v1/papers/topic
func (h *PapersHandler) IngestTopic(c *gin.Context) {
	var req dto.IngestTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	numPapers := req.NumPapers
	if numPapers <= 0 {
		numPapers = 5
	}

	processID := generateProcessID()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("panic recovered in topic ingestion", "process_id", processID, "topic", req.Topic, "panic", r)
			}
		}()

		ctx := context.Background()
		h.logger.Info("topic ingestion started", "process_id", processID, "topic", req.Topic, "num_papers", numPapers)

		reports, err := h.graph.IngestTopic(ctx, req.Topic, numPapers)
		if err != nil {
			h.logger.Error("topic ingestion failed", "process_id", processID, "topic", req.Topic, "error", err)
			return
		}
		h.logger.Info("topic ingestion finished", "process_id", processID, "topic", req.Topic, "papers", len(reports), "skipped", countSkipped(reports))
	}()

	c.JSON(http.StatusAccepted, dto.IngestResponse{
		Success:   true,
		Message:   fmt.Sprintf("Queued up to %d papers on %q for ingestion", numPapers, req.Topic),
		ProcessID: processID,
	})
}

func countSkipped(reports []*ingest.Report) int {
	n := 0
	for _, r := range reports {
		if r.Skipped {
			n++
		}
	}
	return n
}
