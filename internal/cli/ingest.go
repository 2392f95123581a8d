package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kri-ruj/readnext/internal/llm"
	"github.com/kri-ruj/readnext/internal/model"
	"github.com/kri-ruj/readnext/internal/pipeline"
	"github.com/kri-ruj/readnext/internal/recommend"
	"github.com/kri-ruj/readnext/internal/stream"
	"github.com/spf13/cobra"
)

var (
	articleID   int
	title       string
	contentFile string
	outJSON     string
	outNotes    string
	interests   []string
	streamLive  bool
	completed   bool
	readSeconds float64
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Analyze a single article and score it",
	Long: `Ingest runs one article through the full intelligence pipeline:
- Extract concepts, entities, insights, and action items
- Compute the 0-1000 quantum score with a full sub-score breakdown
- Link the article into the knowledge graph
- Predict impact, optimal read time, and estimated value

Content comes from --content-file when given, otherwise the URL is fetched
(robots.txt permitting).

Example:
  readnext ingest https://example.com/intro-to-ai --id 42
  readnext ingest https://example.com/article --notes notes.md --questions
  readnext ingest https://example.com/article --content-file saved.txt --stream`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Article flags
	ingestCmd.Flags().IntVar(&articleID, "id", 1, "article ID")
	ingestCmd.Flags().StringVar(&title, "title", "", "article title")
	ingestCmd.Flags().StringVar(&contentFile, "content-file", "", "read article text from a local file instead of fetching")
	ingestCmd.Flags().StringSliceVar(&interests, "interests", nil, "reader interests for relevance scoring")

	// Output flags
	ingestCmd.Flags().StringVar(&outJSON, "json", "article.json", "output JSON path")
	ingestCmd.Flags().StringVar(&outNotes, "notes", "", "output Markdown study notes path (optional)")

	// Behavior flags
	ingestCmd.Flags().BoolVar(&streamLive, "stream", false, "simulate live reading with per-chunk metrics")
	ingestCmd.Flags().BoolVar(&completed, "completed", false, "record the article as read to update the behavior model")
	ingestCmd.Flags().Float64Var(&readSeconds, "duration", 0, "reading duration in seconds (with --completed)")

	// HTTP flags
	ingestCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall ingest timeout")
	ingestCmd.Flags().StringVar(&userAgent, "ua", "readnext/0.1 (+https://github.com/kri-ruj/readnext)", "HTTP User-Agent")
	ingestCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	ingestCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	ingestCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown outputs")
	ingestCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")

	// LLM flags
	ingestCmd.Flags().BoolVar(&llmEnabled, "questions", false, "generate study questions (uses LLM when configured, heuristics otherwise)")
	ingestCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, or an OpenAI-compatible endpoint via base URL)")
	ingestCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runIngest(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Ingesting: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	store := newStore(cfg)

	// Resolve content: local file wins, otherwise fetch
	content := ""
	if contentFile != "" {
		data, err := os.ReadFile(contentFile)
		if err != nil {
			return fmt.Errorf("read content file: %w", err)
		}
		content = string(data)
	} else {
		fetch := newFetchFunc(cfg, store)
		text, err := fetch(ctx, url)
		if err != nil {
			return fmt.Errorf("fetch content: %w", err)
		}
		content = text
	}

	p := pipeline.NewPipeline()
	if len(interests) > 0 {
		p.UserModel().SetInterests(interests)
	}

	raw := model.RawArticle{
		ID:      articleID,
		URL:     url,
		Title:   title,
		Content: content,
	}

	// The relevance sub-score varies with the interest set, so records are
	// only reused on the interest-free path.
	var record *model.ArticleRecord
	if len(interests) == 0 {
		if cached, found := loadCachedRecord(store, raw); found {
			record = cached
			if verbose {
				fmt.Fprintln(os.Stderr, "Record served from cache")
			}
		}
	}

	if record == nil {
		processed, err := p.ProcessArticle(raw)
		if err != nil {
			return err
		}
		record = processed

		// Auto-tag from title and body
		record.Tags = recommend.NewRecommender().GenerateTags(record.Title, record.AnalysisText())

		if len(interests) == 0 {
			storeRecord(store, raw, record)
		}
	}

	if streamLive {
		if err := simulateReading(ctx, cfg, record); err != nil {
			return err
		}
	}

	if completed {
		p.RecordEngagement(record, model.EngagementData{Completed: true, Duration: readSeconds})
		if verbose {
			fmt.Fprintf(os.Stderr, "Reading level now %.2f\n", p.UserModel().ReadingLevel())
		}
	}

	var questions []model.StudyQuestion
	if llmEnabled {
		questions = generateQuestions(ctx, cfg, record)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		if err := renderer.RenderJSON(record, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", outJSON)
		}
	}

	if outNotes != "" {
		notes := renderer.RenderStudyNotes(record)
		if len(questions) > 0 {
			notes += renderer.RenderQuestions(questions)
		}
		if err := os.WriteFile(outNotes, []byte(notes), 0644); err != nil {
			return fmt.Errorf("write notes: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", outNotes)
		}
	}

	renderer.RenderSummary(record)
	return nil
}

// buildConfig applies the shared HTTP/cache/LLM flags on top of defaults
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg
}

// simulateReading runs the streaming analyzer and prints per-chunk metrics
func simulateReading(ctx context.Context, cfg *model.Config, record *model.ArticleRecord) error {
	analyzer := stream.NewAnalyzer()
	if cfg.Stream.ChunkSize > 0 {
		analyzer = stream.NewAnalyzerWithConfig(cfg.Stream.ChunkSize, cfg.Stream.ChunkDelay, nil)
	}

	fmt.Println("Streaming analysis:")
	for event := range analyzer.ProcessStream(ctx, record) {
		fmt.Printf("  chunk %d: %d words, %.0f wpm, engagement %.2f, comprehension %.2f\n",
			event.ChunkID, event.Metrics.WordCount, event.Metrics.Velocity,
			event.Metrics.Engagement, event.Metrics.Comprehension)
		for _, insight := range event.Insights {
			fmt.Printf("    %s\n", insight)
		}
	}
	fmt.Println()

	return ctx.Err()
}

// generateQuestions builds study questions, falling back to heuristics when
// no provider is configured or the call fails
func generateQuestions(ctx context.Context, cfg *model.Config, record *model.ArticleRecord) []model.StudyQuestion {
	gen, err := llm.NewQuestionGenerator(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		fmt.Fprintf(os.Stderr, "LLM unavailable (%v), using heuristic questions\n", err)
		return llm.FallbackQuestions(record)
	}

	if verbose && gen.HasProvider() {
		fmt.Fprintf(os.Stderr, "Generating questions with %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}

	return gen.Generate(ctx, record)
}
