// Package ingest orchestrates the paper ingestion pipeline: fetch metadata
// and PDF from the paper repository, extract semantic entities and content
// chunks, resolve entities against the existing graph, and persist nodes and
// relationships. Entity categories are processed in a fixed order and each
// entity fails independently of its siblings.
package ingest
