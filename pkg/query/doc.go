// Package query answers natural language questions over the knowledge graph.
//
// An Orchestrator drives a language model policy in a bounded loop. Each
// turn the model either invokes one of the registered tools (declarative
// Cypher queries, vector similarity search) or returns a terminal
// {reasoning, answer} object. Tool registration, query rewriting, and
// result filtering all honor the per-invocation ablation configuration, and
// tool results are served through TTL caches.
package query
