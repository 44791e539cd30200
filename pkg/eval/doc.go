// Package eval scores query answers. Embedding-based relevance compares the
// query against candidate answer embeddings; the judge combines three
// deterministic checks (groundedness against evidence, token-overlap
// relevance, keyword completeness) into one evaluation record.
package eval
