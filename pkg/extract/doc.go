// Package extract turns paper full text into graph-ready records: semantic
// entity terms (datasets, models, methods, tasks) extracted by a language
// model, and overlapping content chunks for retrieval. Every record carries
// an embedding of its identifying text.
package extract
