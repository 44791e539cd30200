package ontograph

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soundprediction/ontograph/pkg/config"
	"github.com/soundprediction/ontograph/pkg/types"
)

var evalCmd = &cobra.Command{
	Use:   "eval <dataset.yaml>",
	Short: "Score a question-answer dataset against the knowledge graph",
	Long: `Run every question in a YAML dataset through the query pipeline and
score the answers for groundedness, relevance, and completeness.

The dataset is a YAML list of pairs:

  - query: "What datasets does BERT use?"
    expected_answer: "SQuAD and GLUE."

Results are printed as a summary; --output writes the full scored records.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

var evalOutputPath string

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalOutputPath, "output", "", "Write scored records to this YAML file")

	evalCmd.Flags().BoolVar(&queryNoGraph, "no-graph-queries", false, "Disable declarative graph queries")
	evalCmd.Flags().BoolVar(&queryNoVector, "no-vector-search", false, "Disable vector search")
	evalCmd.Flags().StringSliceVar(&queryExcludedTypes, "exclude-node-types", nil, "Node types hidden from retrieval (e.g. Dataset,Model)")
}

func loadDataset(path string) ([]types.QAPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var pairs []types.QAPair
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		// Some datasets wrap the list in a top-level key.
		var wrapped struct {
			Pairs []types.QAPair `yaml:"pairs"`
		}
		if wrapErr := yaml.Unmarshal(data, &wrapped); wrapErr != nil || len(wrapped.Pairs) == 0 {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}
		pairs = wrapped.Pairs
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return pairs, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pairs, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	client, _, err := initializeClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)

	records, err := client.Evaluate(ctx, pairs, ablationFromFlags())
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	var grounded, relevance, completeness float64
	scored, failed := 0, 0
	for _, record := range records {
		if record.Evaluation == nil {
			failed++
			continue
		}
		scored++
		grounded += record.Evaluation.Groundedness.GroundedRatio
		relevance += record.Evaluation.Relevance.Score
		completeness += record.Evaluation.Completeness.Score
	}

	fmt.Printf("Evaluated %d questions (%d failed)\n", len(records), failed)
	if scored > 0 {
		n := float64(scored)
		fmt.Printf("  groundedness: %.3f\n", grounded/n)
		fmt.Printf("  relevance:    %.3f\n", relevance/n)
		fmt.Printf("  completeness: %.3f\n", completeness/n)
	}

	if evalOutputPath != "" {
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		if err := os.WriteFile(evalOutputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("Wrote scored records to %s\n", evalOutputPath)
	}
	return nil
}
