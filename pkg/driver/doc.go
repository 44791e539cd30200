// Package driver provides graph store access for ontograph.
//
// The package exposes focused interfaces (NodeResolver, PaperStore,
// QueryExecutor, GraphAdmin) composed into GraphDriver, plus a Neo4j
// implementation. Entity resolution runs through ExecuteWrite so its
// read-then-write sequence is covered by one managed transaction.
//
// The driver owns all Cypher text and value conversion: callers see plain Go
// maps with JSON-friendly values, never dbtype values.
package driver
