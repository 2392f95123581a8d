package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kri-ruj/readnext/internal/model"
)

// Processor defines the interface for analyzing a single article
type Processor interface {
	ProcessArticle(raw model.RawArticle) (*model.ArticleRecord, error)
}

// FetchFunc retrieves article text for a URL. Batch jobs call it for
// articles that arrive without content.
type FetchFunc func(ctx context.Context, url string) (string, error)

// IngestJob analyzes one raw article, fetching its content first if needed
type IngestJob struct {
	Article   model.RawArticle
	Processor Processor
	Fetch     FetchFunc
}

// Execute runs the ingest job
func (j *IngestJob) Execute(ctx context.Context) Result {
	raw := j.Article

	if raw.Content == "" && raw.URL != "" && j.Fetch != nil {
		text, err := j.Fetch(ctx, raw.URL)
		if err != nil {
			return &IngestResult{ID: raw.ID, URL: raw.URL, Error: fmt.Errorf("fetch content: %w", err)}
		}
		raw.Content = text
	}

	record, err := j.Processor.ProcessArticle(raw)
	if err != nil {
		return &IngestResult{ID: raw.ID, URL: raw.URL, Error: err}
	}
	return &IngestResult{ID: raw.ID, URL: raw.URL, Record: record}
}

// IngestResult represents the outcome of one ingest job
type IngestResult struct {
	ID     int
	URL    string
	Record *model.ArticleRecord
	Error  error
}

// GetError returns the error from the ingest result
func (r *IngestResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple articles concurrently
type BatchProcessor struct {
	processor   Processor
	fetch       FetchFunc
	concurrency int
}

// NewBatchProcessor creates a batch processor. fetch may be nil when all
// articles carry inline content.
func NewBatchProcessor(processor Processor, fetch FetchFunc, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		fetch:       fetch,
		concurrency: concurrency,
	}
}

// ProcessArticles analyzes articles concurrently and returns one result per
// input, in completion order.
func (b *BatchProcessor) ProcessArticles(ctx context.Context, articles []model.RawArticle) []*IngestResult {
	if len(articles) == 0 {
		return []*IngestResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// The watcher exits with the batch, not with the caller's context.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-watchCtx.Done()
		pool.Shutdown()
	}()

	for _, raw := range articles {
		pool.Submit(&IngestJob{
			Article:   raw,
			Processor: b.processor,
			Fetch:     b.fetch,
		})
	}

	results := pool.Wait()

	ingestResults := make([]*IngestResult, len(results))
	for i, result := range results {
		ingestResults[i] = result.(*IngestResult)
	}

	return ingestResults
}

// ProcessFile reads articles from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*IngestResult, error) {
	articles, err := ReadArticlesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}

	return b.ProcessArticles(ctx, articles), nil
}

// ReadArticlesFromFile reads raw articles from a JSON array file or a JSONL
// file (one object per line, # comments allowed).
func ReadArticlesFromFile(filePath string) ([]model.RawArticle, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var articles []model.RawArticle
		if err := json.Unmarshal(data, &articles); err != nil {
			return nil, fmt.Errorf("parse JSON array: %w", err)
		}
		return articles, nil
	}

	var articles []model.RawArticle
	seen := make(map[int]bool)

	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var raw model.RawArticle
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("parse line: %w", err)
		}

		// Deduplicate by ID
		if !seen[raw.ID] {
			seen[raw.ID] = true
			articles = append(articles, raw)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return articles, nil
}
