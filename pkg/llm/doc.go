// Package llm provides language model clients and resilience wrappers.
//
// The base Client interface covers plain chat and JSON-mode completions
// against OpenAI or any OpenAI-compatible endpoint. Production callers wrap
// the base client in layers:
//
//	base, _ := llm.NewOpenAIClient(apiKey, llm.Config{Model: "gpt-4o-mini"})
//	client := llm.NewCircuitBreakerClient(
//	    llm.NewRetryClient(base, nil),
//	    cfg.CircuitBreaker, alerter, "extract", logger,
//	)
//
// RetryClient retries transient failures with exponential backoff.
// CircuitBreakerClient stops calling a failing backend and alerts the
// operator when it trips. UnmarshalResponse recovers structured data from
// the malformed JSON models habitually produce.
package llm
