package ontograph

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/ontograph/pkg/ablation"
	"github.com/soundprediction/ontograph/pkg/config"
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Answer a natural language question over the knowledge graph",
	Long: `Answer a natural language question by looping a language model over
graph queries and vector search.

Retrieval capabilities can be switched off per invocation to measure their
contribution, and node types can be hidden from both generated queries and
vector search results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

var (
	queryNoGraph       bool
	queryNoVector      bool
	queryExcludedTypes []string
	queryMaxVector     int
)

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().BoolVar(&queryNoGraph, "no-graph-queries", false, "Disable declarative graph queries")
	queryCmd.Flags().BoolVar(&queryNoVector, "no-vector-search", false, "Disable vector search")
	queryCmd.Flags().StringSliceVar(&queryExcludedTypes, "exclude-node-types", nil, "Node types hidden from retrieval (e.g. Dataset,Model)")
	queryCmd.Flags().IntVar(&queryMaxVector, "max-vector-results", 0, "Cap on vector search results per call")
}

func ablationFromFlags() ablation.Config {
	cfg := ablation.DefaultConfig()
	cfg.EnableGraphQueries = !queryNoGraph
	cfg.EnableVectorSearch = !queryNoVector
	if len(queryExcludedTypes) > 0 {
		cfg.ExcludedNodeTypes = queryExcludedTypes
	}
	if queryMaxVector > 0 {
		cfg.MaxVectorResults = queryMaxVector
	}
	return cfg
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, _, err := initializeClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)

	question := strings.Join(args, " ")
	result, err := client.Query(ctx, question, ablationFromFlags())
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Printf("Reasoning: %s\n\n", result.Reasoning)
	fmt.Printf("Answer: %s\n", result.Answer)
	return nil
}
