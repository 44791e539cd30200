// Package ablation supports controlled experiments over the knowledge graph
// by disabling capabilities or knowledge categories per query invocation.
//
// A Config selects which tools the query layer may use and which node and
// relationship categories are hidden. The Filter enforces node exclusions by
// rewriting outgoing Cypher text and by post-filtering vector search
// results. Relationship exclusions are detection-only.
package ablation
