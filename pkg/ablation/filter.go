package ablation

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/soundprediction/ontograph/pkg/types"
)

var (
	matchVarRe = regexp.MustCompile(`MATCH\s+\((\w+)`)
	returnRe   = regexp.MustCompile(`\bRETURN\b`)
)

// Filter rewrites outgoing Cypher queries and post-filters vector search
// results according to an ablation Config.
type Filter struct {
	logger *slog.Logger
}

// NewFilter creates a Filter.
func NewFilter(logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{logger: logger}
}

// FilterQuery appends negative label conditions for each excluded node type
// to every variable bound in a MATCH clause, inserting a WHERE clause if the
// query has none. The rewrite is syntactic: it assumes a single RETURN
// clause. Queries with multiple RETURN clauses are returned unmodified with
// a warning rather than risking corruption.
//
// Excluded relationship types are detected but not rewritten; a query that
// references one executes as-is and the reference is logged. This is a known
// limitation of the syntactic approach.
func (f *Filter) FilterQuery(query string, cfg Config) string {
	modified := query

	if len(cfg.ExcludedNodeTypes) > 0 {
		if len(returnRe.FindAllStringIndex(query, -1)) > 1 {
			f.logger.Warn("query has multiple RETURN clauses, skipping ablation rewrite", "query", query)
			return query
		}

		vars := matchVariables(modified)
		for _, nodeType := range cfg.ExcludedNodeTypes {
			if strings.Contains(modified, "WHERE") {
				for _, v := range vars {
					cond := fmt.Sprintf(" AND NOT %s:%s", v, nodeType)
					if !strings.Contains(modified, cond) {
						modified = strings.Replace(modified, " RETURN", cond+" RETURN", 1)
					}
				}
			} else if len(vars) > 0 {
				conds := make([]string, len(vars))
				for i, v := range vars {
					conds[i] = fmt.Sprintf("NOT %s:%s", v, nodeType)
				}
				clause := " WHERE " + strings.Join(conds, " AND ")
				modified = strings.Replace(modified, " RETURN", clause+" RETURN", 1)
			}
		}
	}

	for _, relType := range cfg.ExcludedRelationshipTypes {
		pattern := regexp.MustCompile(`\[\w*:` + regexp.QuoteMeta(relType) + `\]`)
		if pattern.MatchString(modified) {
			f.logger.Warn("query references excluded relationship type, executing unmodified", "relationship", relType)
		}
	}

	if modified != query {
		f.logger.Info("query rewritten for ablation", "original", query, "modified", modified)
	} else if len(cfg.ExcludedNodeTypes) > 0 {
		// The rewrite anchors on " RETURN"; a query it cannot rewrite,
		// such as one with a newline before RETURN, executes unmodified.
		f.logger.Warn("excluded node types configured but query was not rewritten, executing unmodified", "query", query)
	}
	return modified
}

// FilterResults drops vector hits whose label set intersects the excluded
// node types, preserving the order of the rest. It is applied to both live
// and cached results, so a cache entry written under one configuration is
// still filtered by the configuration of the current invocation.
func (f *Filter) FilterResults(hits []types.VectorHit, cfg Config) []types.VectorHit {
	if len(cfg.ExcludedNodeTypes) == 0 {
		return hits
	}

	filtered := make([]types.VectorHit, 0, len(hits))
	for _, hit := range hits {
		excluded := false
		for _, label := range hit.Labels {
			if cfg.ExcludesNode(label) {
				excluded = true
				break
			}
		}
		if excluded {
			f.logger.Debug("vector hit dropped by ablation", "labels", hit.Labels)
			continue
		}
		filtered = append(filtered, hit)
	}
	return filtered
}

// matchVariables returns the deduplicated, sorted variable names bound in
// MATCH clauses. Sorting keeps the rewrite deterministic.
func matchVariables(query string) []string {
	seen := make(map[string]struct{})
	var vars []string
	for _, m := range matchVarRe.FindAllStringSubmatch(query, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		vars = append(vars, m[1])
	}
	sort.Strings(vars)
	return vars
}
