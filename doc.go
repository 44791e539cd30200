// Package ontograph builds and queries a knowledge graph of academic papers.
//
// Papers fetched from arXiv are chunked, embedded, and mined for datasets,
// models, methods, and tasks; extracted entities are resolved against the
// graph by exact key and vector similarity before being linked. Questions are
// answered by a bounded language model tool-call loop over declarative graph
// queries and vector search, with per-invocation ablation controls and TTL
// result caching. A heuristic judge scores answers for groundedness,
// relevance, and completeness.
//
// Client is the main entry point; the focused interfaces in interfaces.go
// expose slices of its surface for consumers that need less.
package ontograph
