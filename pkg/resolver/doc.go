// Package resolver implements entity resolution over the knowledge graph.
//
// Papers mention the same dataset, model, method, or task under slightly
// different names. The Resolver collapses these into single graph nodes by
// checking the natural key first and falling back to a nearest-neighbor
// search over the label's vector index. It also maintains the SIMILAR_TO
// edges that connect semantically close nodes of the same label.
package resolver
