package query

import (
	"github.com/sashabaranov/go-openai"

	"github.com/soundprediction/ontograph/pkg/ablation"
)

const (
	toolRunCypherQuery = "run_cypher_query"
	toolVectorSearch   = "vector_search"

	defaultVectorTopK = 5
)

// cypherArgs are the arguments of the run_cypher_query tool.
type cypherArgs struct {
	CypherQuery string `json:"cypher_query"`
}

// vectorSearchArgs are the arguments of the vector_search tool.
type vectorSearchArgs struct {
	QueryText string `json:"query_text"`
	IndexName string `json:"index_name"`
	TopK      int    `json:"top_k"`
}

var cypherQueryTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        toolRunCypherQuery,
		Description: "Execute a Cypher query against the Neo4j database and return the matching records.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cypher_query": map[string]any{
					"type":        "string",
					"description": "The Cypher query to execute",
				},
			},
			"required": []string{"cypher_query"},
		},
	},
}

var vectorSearchTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        toolVectorSearch,
		Description: "Search for nodes using vector similarity on their embeddings. Available indexes are shown in the schema.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query_text": map[string]any{
					"type":        "string",
					"description": "The text to search for semantically",
				},
				"index_name": map[string]any{
					"type":        "string",
					"description": "Name of the vector index to search",
				},
				"top_k": map[string]any{
					"type":        "integer",
					"description": "Number of top results to return (default 5)",
				},
			},
			"required": []string{"query_text", "index_name"},
		},
	},
}

// enabledTools returns the tool set the ablation configuration allows.
// An empty set means the model must answer from general knowledge.
func enabledTools(cfg ablation.Config) []openai.Tool {
	var tools []openai.Tool
	if cfg.EnableGraphQueries {
		tools = append(tools, cypherQueryTool)
	}
	if cfg.EnableVectorSearch {
		tools = append(tools, vectorSearchTool)
	}
	return tools
}
