package ontograph

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/alert"
	"github.com/soundprediction/ontograph/pkg/arxiv"
	"github.com/soundprediction/ontograph/pkg/config"
	"github.com/soundprediction/ontograph/pkg/driver"
	"github.com/soundprediction/ontograph/pkg/embedder"
	"github.com/soundprediction/ontograph/pkg/llm"
	ontographLogger "github.com/soundprediction/ontograph/pkg/logger"
	"github.com/soundprediction/ontograph/pkg/query"
	"github.com/soundprediction/ontograph/pkg/telemetry"
)

// buildLogger creates the application logger, wiring the parquet error
// tracker over the colored console handler when a telemetry path is set.
func buildLogger(cfg *config.Config) *slog.Logger {
	level := ontographLogger.ParseLevel(cfg.Log.Level)
	logger := ontographLogger.NewDefaultLogger(level)

	trackingPath := cfg.Telemetry.ParquetPath
	if trackingPath == "" {
		return logger
	}
	if err := os.MkdirAll(trackingPath, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create telemetry directory: %v\n", err)
		return logger
	}

	parquetHandler, err := telemetry.NewParquetHandler(logger.Handler(), trackingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize error tracking: %v\n", err)
		return logger
	}
	fmt.Printf("Error tracking enabled at: %s\n", trackingPath)
	return slog.New(parquetHandler)
}

// buildLLMClient builds the layered language model client for one config
// role: OpenAI transport, retries, then a circuit breaker.
func buildLLMClient(role string, cfg *config.Config, alerter alert.Alerter, logger *slog.Logger) (llm.Client, error) {
	modelCfg, ok := cfg.LLM.Models[role]
	if !ok {
		return nil, fmt.Errorf("no model configured for role %q", role)
	}
	if modelCfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for role %q", role)
	}

	llmConfig := llm.Config{
		Model:       modelCfg.Model,
		Temperature: &modelCfg.Temperature,
		BaseURL:     modelCfg.BaseURL,
	}
	if modelCfg.MaxTokens > 0 {
		llmConfig.MaxTokens = &modelCfg.MaxTokens
	}

	base, err := llm.NewOpenAIClient(modelCfg.APIKey, llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", role, err)
	}

	retryConfig := llm.DefaultRetryConfig()
	if modelCfg.MaxRetries > 0 {
		retryConfig.MaxRetries = modelCfg.MaxRetries
	}
	var client llm.Client = llm.NewRetryClient(base, retryConfig)

	if cfg.CircuitBreaker.Enabled {
		client = llm.NewCircuitBreakerClient(client, cfg.CircuitBreaker, alerter, role, logger)
	}
	return client, nil
}

// buildEmbedder builds the configured embedding client.
func buildEmbedder(cfg *config.Config) (embedder.Client, error) {
	embedConfig := embedder.Config{
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		BaseURL:    cfg.Embedding.BaseURL,
	}

	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("embedding API key is required for the openai provider")
		}
		return embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedConfig), nil
	case "local":
		return embedder.NewLocalEmbedder(embedConfig)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// initializeClient builds the full client stack from configuration.
func initializeClient(cfg *config.Config) (*ontograph.Client, *slog.Logger, error) {
	logger := buildLogger(cfg)

	var alerter alert.Alerter = &alert.NoOpAlerter{}
	if cfg.Alert.Enabled {
		alerter = alert.NewEmailAlerter(cfg.Alert)
	}

	graphDriver, err := driver.NewNeo4jDriver(cfg.Database.URI, cfg.Database.Username, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	extractClient, err := buildLLMClient("extract", cfg, alerter, logger)
	if err != nil {
		return nil, nil, err
	}

	queryModel := cfg.LLM.Models["query"]
	if queryModel.APIKey == "" {
		return nil, nil, fmt.Errorf("no API key configured for role %q", "query")
	}
	policy, err := query.NewOpenAIPolicy(queryModel.APIKey, llm.Config{
		Model:   queryModel.Model,
		BaseURL: queryModel.BaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create query policy: %w", err)
	}

	embedClient, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	fetcher := arxiv.NewClient(&http.Client{Timeout: 60 * time.Second})
	pdfText := &arxiv.PopplerExtractor{}

	client, err := ontograph.NewClient(graphDriver, extractClient, embedClient, policy, fetcher, pdfText, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Info("client initialized",
		"database", cfg.Database.URI,
		"extract_model", cfg.LLM.Models["extract"].Model,
		"query_model", queryModel.Model,
		"embedding_provider", cfg.Embedding.Provider)
	return client, logger, nil
}
