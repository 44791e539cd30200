package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/server/dto"
)

// QueryHandler handles question answering and evaluation requests
type QueryHandler struct {
	graph  ontograph.OntoGraph
	logger *slog.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(g ontograph.OntoGraph, logger *slog.Logger) *QueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryHandler{
		graph:  g,
		logger: logger,
	}
}

// Query handles POST /api/v1/query
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.graph.Query(c.Request.Context(), req.Question, req.Ablation.ToConfig())
	if err != nil {
		h.logger.Error("query failed", "question", req.Question, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "query_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.QueryResponse{
		Reasoning: result.Reasoning,
		Answer:    result.Answer,
	})
}

// Evaluate handles POST /api/v1/evaluate
func (h *QueryHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	records, err := h.graph.Evaluate(c.Request.Context(), req.Pairs, req.Ablation.ToConfig())
	if err != nil {
		h.logger.Error("evaluation failed", "pairs", len(req.Pairs), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "evaluation_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EvaluateResponse{Records: records})
}
