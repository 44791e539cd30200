// Package embedder provides text embedding clients for vector representations.
//
// This package defines the Client interface and provides implementations for
// the OpenAI embeddings API and for in-process local models. Embeddings power
// entity resolution, similarity linking, and semantic search over the graph.
//
// # Usage
//
//	// Create an OpenAI embedder
//	client := embedder.NewOpenAIEmbedder(apiKey, embedder.Config{
//	    Model:      "text-embedding-3-small",
//	    Dimensions: 1536,
//	})
//
//	// Embed text
//	vectors, err := client.Embed(ctx, []string{"attention is all you need"})
//
// Implementations handle batching internally based on provider limits. When a
// provider cannot be reached, methods return *UnavailableError so callers can
// decide whether to degrade or abort.
package embedder
