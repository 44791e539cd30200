package ontograph

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/ontograph/pkg/config"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest papers into the knowledge graph",
	Long: `Fetch papers from arXiv and ingest them into the knowledge graph.

Each paper's metadata, authors, and content chunks are stored, and datasets,
models, methods, and tasks extracted from its full text are deduplicated
against existing graph entities before being linked.`,
}

var ingestPaperCmd = &cobra.Command{
	Use:   "paper <arxiv-id>",
	Short: "Ingest a single paper by arXiv id",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestPaper,
}

var ingestTopicCmd = &cobra.Command{
	Use:   "topic <topic>",
	Short: "Search arXiv by topic and ingest the matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestTopic,
}

var ingestNumPapers int

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.AddCommand(ingestPaperCmd)
	ingestCmd.AddCommand(ingestTopicCmd)

	ingestTopicCmd.Flags().IntVar(&ingestNumPapers, "num-papers", 5, "Maximum number of papers to ingest")
}

func runIngestPaper(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, logger, err := initializeClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)

	if err := client.CreateIndices(ctx); err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	report, err := client.IngestPaper(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if report.Skipped {
		fmt.Printf("Paper %s already in graph, skipped\n", report.PaperID)
		return nil
	}
	fmt.Printf("Ingested paper %s: %d chunks, %d entities (%d failed)\n",
		report.PaperID, report.Chunks, report.Entities, report.FailedEntities)
	if report.FailedEntities > 0 {
		logger.Warn("some entities failed to store", "paper_id", report.PaperID, "failed", report.FailedEntities)
	}
	return nil
}

func runIngestTopic(cmd *cobra.Command, args []string) error {
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

	if err := client.CreateIndices(ctx); err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	reports, err := client.IngestTopic(ctx, args[0], ingestNumPapers)
	if err != nil {
		return fmt.Errorf("topic ingestion failed: %w", err)
	}

	for _, report := range reports {
		if report.Skipped {
			fmt.Printf("Paper %s already in graph, skipped\n", report.PaperID)
			continue
		}
		fmt.Printf("Ingested paper %s: %d chunks, %d entities (%d failed)\n",
			report.PaperID, report.Chunks, report.Entities, report.FailedEntities)
	}
	fmt.Printf("Done: %d papers processed\n", len(reports))
	return nil
}
