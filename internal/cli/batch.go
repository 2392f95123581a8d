package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/kri-ruj/readnext/internal/analytics"
	"github.com/kri-ruj/readnext/internal/model"
	"github.com/kri-ruj/readnext/internal/pipeline"
	"github.com/kri-ruj/readnext/internal/recommend"
	"github.com/kri-ruj/readnext/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	withReport   bool
	// noFooter and the HTTP flags are defined in ingest.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze a backlog of articles in parallel",
	Long: `Batch ingests articles from a JSON array or JSONL file:
- Articles without inline content are fetched concurrently (rate limited per domain)
- Each article is scored and linked into a shared knowledge graph
- One JSON record is written per article
- An optional fleet report aggregates scores, concepts, and predictions

Example:
  readnext batch backlog.jsonl
  readnext batch backlog.json --concurrency 8 --output-dir ./records
  readnext batch backlog.jsonl --report --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./readnext-records", "output directory for article records")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&withReport, "report", false, "also write the fleet analytics report")

	// Inherit flags from ingest command
	batchCmd.Flags().StringSliceVar(&interests, "interests", nil, "reader interests for relevance scoring")
	batchCmd.Flags().StringVar(&userAgent, "ua", "readnext/0.1 (+https://github.com/kri-ruj/readnext)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown outputs")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Readnext Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Build configuration
	cfg := model.DefaultConfig()
	cfg.HTTP.UserAgent = userAgent
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.IngestWorkers = concurrency
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline; all articles share one graph and behavior model
	p := pipeline.NewPipeline()
	if len(interests) > 0 {
		p.UserModel().SetInterests(interests)
	}

	// Batch keeps the content cache but always reprocesses records: every
	// article must pass through the shared graph to cross-link with the
	// rest of the backlog.
	processor := worker.NewBatchProcessor(p, newFetchFunc(cfg, newStore(cfg)), concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading articles from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d articles\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	recommender := recommend.NewRecommender()

	successCount := 0
	failureCount := 0
	var records []*model.ArticleRecord

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ article %d: %v\n", result.ID, result.Error)
			continue
		}

		successCount++
		record := result.Record
		record.Tags = recommender.GenerateTags(record.Title, record.AnalysisText())
		records = append(records, record)

		jsonPath := filepath.Join(outputDir, fmt.Sprintf("article-%d.json", record.ID))
		if err := renderer.RenderJSON(record, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ article %d: failed to write JSON: %v\n", record.ID, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (score: %.0f/1000)\n", record.Title, record.QuantumScore)
	}

	// Records arrive in completion order; sort for stable report output
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	if withReport && len(records) > 0 {
		if err := writeFleetReport(renderer, records); err != nil {
			return err
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d articles\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// writeFleetReport aggregates records and writes report.json and report.md
// into the output directory.
func writeFleetReport(renderer *pipeline.Renderer, records []*model.ArticleRecord) error {
	report := analytics.NewAggregator().GenerateReport(records)

	jsonPath := filepath.Join(outputDir, "report.json")
	if err := renderer.RenderJSON(report, jsonPath); err != nil {
		return fmt.Errorf("write report JSON: %w", err)
	}

	mdPath := filepath.Join(outputDir, "report.md")
	md := renderer.RenderReportMarkdown(report)
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("write report Markdown: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Fleet report: %s\n", mdPath)
	return nil
}
