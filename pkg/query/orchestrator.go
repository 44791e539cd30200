package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/soundprediction/ontograph/pkg/ablation"
	"github.com/soundprediction/ontograph/pkg/cache"
	"github.com/soundprediction/ontograph/pkg/driver"
	"github.com/soundprediction/ontograph/pkg/embedder"
	"github.com/soundprediction/ontograph/pkg/llm"
	"github.com/soundprediction/ontograph/pkg/types"
)

const (
	// DefaultMaxToolCalls bounds tool use per question. The system prompt
	// states the same limit; this is the hard enforcement.
	DefaultMaxToolCalls = 5

	// DefaultRequestBudget bounds model round trips per question.
	DefaultRequestBudget = 100
)

// Options tune the orchestrator's bounds.
type Options struct {
	MaxToolCalls  int
	RequestBudget int
}

// Orchestrator answers natural language questions over the knowledge graph
// by looping a language model policy over two tools: declarative graph
// queries and vector search. Both are subject to the per-invocation
// ablation configuration and backed by TTL caches.
type Orchestrator struct {
	executor    driver.QueryExecutor
	embed       embedder.Client
	filter      *ablation.Filter
	queryCache  *cache.ResultCache
	vectorCache *cache.ResultCache
	policy      Policy
	opts        Options
	logger      *slog.Logger
}

// NewOrchestrator creates an Orchestrator. Zero option fields fall back to
// the defaults.
func NewOrchestrator(executor driver.QueryExecutor, embed embedder.Client, filter *ablation.Filter, queryCache, vectorCache *cache.ResultCache, policy Policy, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.MaxToolCalls <= 0 {
		opts.MaxToolCalls = DefaultMaxToolCalls
	}
	if opts.RequestBudget <= 0 {
		opts.RequestBudget = DefaultRequestBudget
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		executor:    executor,
		embed:       embed,
		filter:      filter,
		queryCache:  queryCache,
		vectorCache: vectorCache,
		policy:      policy,
		opts:        opts,
		logger:      logger,
	}
}

// Query answers a question under the given ablation configuration. The
// configuration is captured for this invocation only; concurrent queries
// with different configurations do not interfere.
func (o *Orchestrator) Query(ctx context.Context, question string, cfg ablation.Config) (*types.QueryResult, error) {
	o.logger.Info("query started", "question", question)

	schema := ""
	if cfg.EnableGraphQueries || cfg.EnableVectorSearch {
		s, err := o.executor.Schema(ctx)
		if err != nil {
			o.logger.Warn("schema fetch failed, continuing without it", "error", err)
		} else {
			schema = s
		}
	}

	tools := enabledTools(cfg)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(cfg, schema)},
		{Role: openai.ChatMessageRoleUser, Content: question},
	}

	o.queryCache.Sweep()
	o.vectorCache.Sweep()

	// The last budgeted request is reserved for a forced no-tools turn, so
	// a policy that burns the whole budget on tool calls still terminates
	// with an answer from whatever was gathered.
	toolCalls := 0
	for requests := 0; requests < o.opts.RequestBudget-1; requests++ {
		msg, err := o.policy.Decide(ctx, messages, tools)
		if err != nil {
			return nil, fmt.Errorf("query model: %w", err)
		}

		if len(msg.ToolCalls) == 0 {
			return parseResult(msg.Content), nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			var output string
			if toolCalls >= o.opts.MaxToolCalls {
				output = "Tool call limit reached. Answer the question now using the information already gathered."
				// Withdraw the tools so the next turn must terminate.
				tools = nil
			} else {
				toolCalls++
				output = o.dispatch(ctx, call, cfg)
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    output,
			})
		}
	}

	o.logger.Warn("request budget exhausted, forcing final answer", "budget", o.opts.RequestBudget)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: "Answer the question now using the information already gathered.",
	})
	msg, err := o.policy.Decide(ctx, messages, nil)
	if err != nil {
		return nil, fmt.Errorf("query model: %w", err)
	}
	return parseResult(msg.Content), nil
}

// dispatch runs one tool call and renders its result for the model. Tool
// failures are reported back to the model as text rather than aborting the
// question.
func (o *Orchestrator) dispatch(ctx context.Context, call openai.ToolCall, cfg ablation.Config) string {
	switch call.Function.Name {
	case toolRunCypherQuery:
		var args cypherArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return "Invalid arguments: " + err.Error()
		}
		return o.runCypherQuery(ctx, args.CypherQuery, cfg)

	case toolVectorSearch:
		var args vectorSearchArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return "Invalid arguments: " + err.Error()
		}
		return o.runVectorSearch(ctx, args, cfg)

	default:
		return fmt.Sprintf("Unknown tool %q.", call.Function.Name)
	}
}

// runCypherQuery rewrites the query for ablation, then serves it from the
// query cache or the graph store.
func (o *Orchestrator) runCypherQuery(ctx context.Context, cypher string, cfg ablation.Config) string {
	if !cfg.EnableGraphQueries {
		return "Cypher queries are disabled for this request."
	}

	modified := o.filter.FilterQuery(cypher, cfg)

	value, hit, err := o.queryCache.GetOrCompute(cache.Key(modified), func() (any, error) {
		return o.executor.RunQuery(ctx, modified)
	})
	if err != nil {
		o.logger.Error("cypher query failed", "query", modified, "error", err)
		return "Query failed: " + err.Error()
	}
	if hit {
		o.logger.Debug("query cache hit", "query", modified)
	}

	return renderJSON(value)
}

// runVectorSearch embeds the query text and searches the named index. The
// raw result set is cached before ablation filtering so future calls under
// a different configuration can reuse it; filtering always runs on the way
// out.
func (o *Orchestrator) runVectorSearch(ctx context.Context, args vectorSearchArgs, cfg ablation.Config) string {
	if !cfg.EnableVectorSearch {
		return "Vector search is disabled for this request."
	}

	topK := args.TopK
	if topK <= 0 {
		topK = defaultVectorTopK
	}
	if clamped := cfg.ClampTopK(topK); clamped != topK {
		o.logger.Info("vector search top_k limited by ablation config", "requested", topK, "limit", clamped)
		topK = clamped
	}

	key := cache.VectorKey(args.QueryText, args.IndexName, topK)
	value, hit, err := o.vectorCache.GetOrCompute(key, func() (any, error) {
		embedding, err := o.embed.EmbedSingle(ctx, args.QueryText)
		if err != nil {
			return nil, err
		}
		return o.executor.VectorSearch(ctx, args.IndexName, topK, embedding)
	})
	if err != nil {
		o.logger.Error("vector search failed", "index", args.IndexName, "error", err)
		return "Vector search failed: " + err.Error()
	}
	if hit {
		o.logger.Debug("vector cache hit", "index", args.IndexName)
	}

	hits, ok := value.([]types.VectorHit)
	if !ok {
		return "Vector search returned an unexpected result shape."
	}
	return renderJSON(o.filter.FilterResults(hits, cfg))
}

// parseResult decodes the terminal {reasoning, answer} object. A model that
// answers in plain text still yields a usable result.
func parseResult(content string) *types.QueryResult {
	var result types.QueryResult
	if err := llm.UnmarshalResponse(content, &result); err == nil && result.Answer != "" {
		return &result
	}
	return &types.QueryResult{Answer: content}
}

func renderJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "Failed to serialize result: " + err.Error()
	}
	return string(data)
}
