// Package types defines the shared data model for the ontograph knowledge
// graph: node labels and their natural-key rules, paper metadata and
// extraction records, graph query rows, and the structured query result.
//
// Labels form a closed set. Each label knows its own key property and vector
// index name, so resolution and linking never switch on raw label strings.
package types
