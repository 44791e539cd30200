package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/soundprediction/ontograph/pkg/types"
	"github.com/soundprediction/ontograph/pkg/utils"
)

const vectorSearchCypher = `
	CALL db.index.vector.queryNodes($index_name, $top_k, $query_embedding)
	YIELD node, score
	RETURN node, labels(node) AS labels, score
	ORDER BY score DESC
`

// Neo4jDriver implements the GraphDriver interface for Neo4j databases.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

var _ GraphDriver = (*Neo4jDriver)(nil)

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   client,
		database: database,
	}, nil
}

// Close releases all resources held by the driver.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

func (n *Neo4jDriver) session(ctx context.Context) neo4j.SessionWithContext {
	return n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
}

// managedTx adapts a neo4j managed transaction to the Tx interface.
type managedTx struct {
	tx neo4j.ManagedTransaction
}

func (m *managedTx) ExactLookup(ctx context.Context, label types.Label, key string) (map[string]any, bool, error) {
	query := fmt.Sprintf(`MATCH (n:%s {%s: $key}) RETURN n LIMIT 1`, label, label.KeyProperty())
	res, err := m.tx.Run(ctx, query, map[string]any{"key": key})
	if err != nil {
		return nil, false, err
	}

	records, err := res.Collect(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	nodeValue, found := records[0].Get("n")
	if !found {
		return nil, false, nil
	}
	node, ok := nodeValue.(dbtype.Node)
	if !ok {
		return nil, false, fmt.Errorf("unexpected type for node: got %T, expected dbtype.Node", nodeValue)
	}
	return serializeProps(node.Props), true, nil
}

func (m *managedTx) VectorTopK(ctx context.Context, index string, k int, embedding []float32) ([]types.VectorHit, error) {
	res, err := m.tx.Run(ctx, vectorSearchCypher, map[string]any{
		"index_name":      index,
		"top_k":           k,
		"query_embedding": utils.Float32sToFloat64s(embedding),
	})
	if err != nil {
		return nil, err
	}

	records, err := res.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return hitsFromRecords(records)
}

func (m *managedTx) CreateNode(ctx context.Context, label types.Label, key, title, description string, embedding []float32) error {
	query := fmt.Sprintf(`
		CREATE (n:%s {
			%s: $key,
			title: $title,
			description: $description,
			embedding: $embedding
		})
	`, label, label.KeyProperty())

	_, err := m.tx.Run(ctx, query, map[string]any{
		"key":         key,
		"title":       title,
		"description": description,
		"embedding":   utils.Float32sToFloat64s(embedding),
	})
	return err
}

// ExecuteWrite runs fn inside one managed write transaction.
func (n *Neo4jDriver) ExecuteWrite(ctx context.Context, fn func(tx Tx) error) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(&managedTx{tx: tx})
	})
	return err
}

// MergeSimilarityEdges merges SIMILAR_TO edges from the (label, key) node to
// up to topK same-label neighbors scoring above threshold.
func (n *Neo4jDriver) MergeSimilarityEdges(ctx context.Context, label types.Label, key string, embedding []float32, topK int, threshold float64) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	keyProp := label.KeyProperty()
	query := fmt.Sprintf(`
		MATCH (src:%s {%s: $key})
		CALL db.index.vector.queryNodes('%s', $k, $embedding)
		YIELD node, score
		WHERE node.%s <> $key AND score > $threshold
		MERGE (src)-[:SIMILAR_TO {score: score}]->(node)
	`, label, keyProp, label.IndexName(), keyProp)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, map[string]any{
			"key":       key,
			"embedding": utils.Float32sToFloat64s(embedding),
			"k":         topK,
			"threshold": threshold,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to merge similarity edges for %s %q: %w", label, key, err)
	}
	return nil
}

// MergePaperNode creates or updates the Paper node for meta.
func (n *Neo4jDriver) MergePaperNode(ctx context.Context, meta types.PaperMetadata) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (p:Paper {id: $id})
			SET p.title = $title,
				p.summary = $summary,
				p.date_published = $date_published,
				p.date_updated = $date_updated,
				p.embedding = $embedding
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"id":             meta.ID,
			"title":          meta.Title,
			"summary":        meta.Summary,
			"date_published": meta.Published,
			"date_updated":   meta.Updated,
			"embedding":      utils.Float32sToFloat64s(meta.Embedding),
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to merge paper node %q: %w", meta.ID, err)
	}
	return nil
}

// MergeAuthor merges an Author node and links it to the paper.
func (n *Neo4jDriver) MergeAuthor(ctx context.Context, name, paperID string) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (a:Author {title: $name})
			WITH a
			MATCH (p:Paper {id: $paper_id})
			MERGE (p)-[:WRITTEN_BY]->(a)
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"name":     name,
			"paper_id": paperID,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to merge author %q: %w", name, err)
	}
	return nil
}

// CreateContentChunk creates a Content node and links it to the paper.
func (n *Neo4jDriver) CreateContentChunk(ctx context.Context, paperID, description string, embedding []float32) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			CREATE (c:Content {description: $description, embedding: $embedding})
			WITH c
			MATCH (p:Paper {id: $paper_id})
			MERGE (p)-[:CONTAINS_CHUNK]->(c)
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"description": description,
			"embedding":   utils.Float32sToFloat64s(embedding),
			"paper_id":    paperID,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to create content chunk: %w", err)
	}
	return nil
}

// MergeRelation merges a typed edge from the paper to an entity node.
func (n *Neo4jDriver) MergeRelation(ctx context.Context, paperID string, label types.Label, key string, rel types.EdgeType) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (p:Paper {id: $paper_id})
		MATCH (n:%s {%s: $key})
		MERGE (p)-[:%s]->(n)
	`, label, label.KeyProperty(), rel)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, map[string]any{
			"paper_id": paperID,
			"key":      key,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to merge %s relation to %s %q: %w", rel, label, key, err)
	}
	return nil
}

// PaperExists reports whether a Paper node with the given id exists.
func (n *Neo4jDriver) PaperExists(ctx context.Context, paperID string) (bool, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (p:Paper {id: $id}) RETURN p.id LIMIT 1`, map[string]any{"id": paperID})
		if err != nil {
			return false, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return false, err
		}
		return len(records) > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check paper existence: %w", err)
	}
	return result.(bool), nil
}

// RunQuery executes a declarative Cypher query and returns its rows.
func (n *Neo4jDriver) RunQuery(ctx context.Context, cypher string) ([]types.Record, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	records := result.([]*neo4j.Record)
	rows := make([]types.Record, 0, len(records))
	for _, record := range records {
		row := make(types.Record, len(record.Keys))
		for _, k := range record.Keys {
			v, _ := record.Get(k)
			row[k] = serializeValue(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// VectorSearch queries a named vector index.
func (n *Neo4jDriver) VectorSearch(ctx context.Context, index string, topK int, embedding []float32) ([]types.VectorHit, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, vectorSearchCypher, map[string]any{
			"index_name":      index,
			"top_k":           topK,
			"query_embedding": utils.Float32sToFloat64s(embedding),
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("vector search on %q failed: %w", index, err)
	}

	return hitsFromRecords(result.([]*neo4j.Record))
}

// Schema returns a textual description of the graph for system prompts.
func (n *Neo4jDriver) Schema(ctx context.Context) (string, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	var parts []string
	parts = append(parts, "Graph Schema:\n")

	// Node labels with sample properties.
	parts = append(parts, "Node Types:")
	labelsResult, err := session.Run(ctx, "CALL db.labels()", nil)
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}
	labelRecords, err := labelsResult.Collect(ctx)
	if err != nil {
		return "", err
	}
	for _, record := range labelRecords {
		label, ok := record.Values[0].(string)
		if !ok {
			continue
		}
		sample, err := session.Run(ctx, fmt.Sprintf("MATCH (n:%s) RETURN n LIMIT 1", label), nil)
		if err != nil {
			return "", err
		}
		sampleRecords, err := sample.Collect(ctx)
		if err != nil {
			return "", err
		}
		if len(sampleRecords) > 0 {
			if nodeValue, found := sampleRecords[0].Get("n"); found {
				if node, ok := nodeValue.(dbtype.Node); ok {
					props := make([]string, 0, len(node.Props))
					for k := range node.Props {
						props = append(props, k)
					}
					parts = append(parts, fmt.Sprintf("  - %s: {%s}", label, strings.Join(props, ", ")))
					continue
				}
			}
		}
		parts = append(parts, fmt.Sprintf("  - %s", label))
	}

	// Relationship types with endpoint labels.
	parts = append(parts, "\nRelationship Types:")
	relResult, err := session.Run(ctx, `
		MATCH (a)-[r]->(b)
		WITH type(r) AS rel_type, labels(a)[0] AS from_label, labels(b)[0] AS to_label
		RETURN DISTINCT rel_type, from_label, to_label
		ORDER BY rel_type
	`, nil)
	if err != nil {
		return "", fmt.Errorf("failed to list relationships: %w", err)
	}
	relRecords, err := relResult.Collect(ctx)
	if err != nil {
		return "", err
	}
	for _, record := range relRecords {
		relType, _ := record.Get("rel_type")
		fromLabel, _ := record.Get("from_label")
		toLabel, _ := record.Get("to_label")
		parts = append(parts, fmt.Sprintf("  - (%v)-[%v]->(%v)", fromLabel, relType, toLabel))
	}

	// Vector indexes. SHOW INDEXES may not be supported everywhere; skip on error.
	if idxResult, err := session.Run(ctx, "SHOW INDEXES", nil); err == nil {
		if idxRecords, err := idxResult.Collect(ctx); err == nil {
			var vectorIndexes []string
			for _, record := range idxRecords {
				idxType, _ := record.Get("type")
				if idxType != "VECTOR" {
					continue
				}
				name, _ := record.Get("name")
				label := name
				if labelsOrTypes, found := record.Get("labelsOrTypes"); found {
					if lst, ok := labelsOrTypes.([]any); ok && len(lst) > 0 {
						label = lst[0]
					}
				}
				vectorIndexes = append(vectorIndexes, fmt.Sprintf("%v (on %v)", name, label))
			}
			if len(vectorIndexes) > 0 {
				parts = append(parts, "\nVector Indexes:")
				for _, idx := range vectorIndexes {
					parts = append(parts, fmt.Sprintf("  - %s", idx))
				}
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}

// CreateIndices creates the per-label vector indexes and key constraints.
func (n *Neo4jDriver) CreateIndices(ctx context.Context, dimensions int) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	var statements []string
	for _, label := range types.AllLabels() {
		if label != types.LabelContent && label != types.LabelAuthor {
			statements = append(statements, fmt.Sprintf(
				"CREATE CONSTRAINT %s_key IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
				strings.ToLower(string(label)), label, label.KeyProperty()))
		}
		statements = append(statements, fmt.Sprintf(
			"CREATE VECTOR INDEX %s IF NOT EXISTS FOR (n:%s) ON (n.embedding) "+
				"OPTIONS {indexConfig: {`vector.dimensions`: %d, `vector.similarity_function`: 'cosine'}}",
			label.IndexName(), label, dimensions))
	}

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "An equivalent") {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}
	}
	return nil
}

func hitsFromRecords(records []*neo4j.Record) ([]types.VectorHit, error) {
	hits := make([]types.VectorHit, 0, len(records))
	for _, record := range records {
		nodeValue, found := record.Get("node")
		if !found {
			continue
		}
		node, ok := nodeValue.(dbtype.Node)
		if !ok {
			continue
		}

		hit := types.VectorHit{Node: serializeProps(node.Props), Labels: node.Labels}
		if scoreValue, found := record.Get("score"); found {
			if score, ok := scoreValue.(float64); ok {
				hit.Score = score
			}
		}
		if len(hit.Labels) == 0 {
			if labelsValue, found := record.Get("labels"); found {
				if lst, ok := labelsValue.([]any); ok {
					for _, l := range lst {
						if s, ok := l.(string); ok {
							hit.Labels = append(hit.Labels, s)
						}
					}
				}
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
