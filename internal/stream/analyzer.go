package stream

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
)

// chunkKeyPhrases are scanned in order inside every chunk; a match
// becomes a chunk insight.
var chunkKeyPhrases = []string{"important", "remember", "key point", "conclusion"}

const (
	defaultChunkSize  = 100 // words per chunk
	defaultChunkDelay = 100 * time.Millisecond
)

// Analyzer produces a lazy, finite, one-shot sequence of per-chunk
// reading metrics for an article. The caller may stop consuming (or
// cancel the context) at any point; no partial-chunk state needs
// cleanup.
type Analyzer struct {
	chunkSize int
	delay     time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewAnalyzer creates an analyzer with the default chunk size and
// inter-chunk delay.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(defaultChunkSize, defaultChunkDelay, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewAnalyzerWithConfig creates an analyzer with explicit chunking
// parameters and a caller-supplied random source, so tests can assert
// exact chunk outputs.
func NewAnalyzerWithConfig(chunkSize int, delay time.Duration, rnd *rand.Rand) *Analyzer {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Analyzer{
		chunkSize: chunkSize,
		delay:     delay,
		rnd:       rnd,
	}
}

// ProcessStream splits the article content into fixed-size word chunks
// and emits one ChunkEvent per chunk. Each emission overwrites the
// article's velocity/engagement/comprehension with that chunk's values;
// the last chunk wins, nothing is averaged. The returned channel is
// closed after the final chunk or when ctx is cancelled; it cannot be
// restarted.
func (a *Analyzer) ProcessStream(ctx context.Context, article *model.ArticleRecord) <-chan model.ChunkEvent {
	events := make(chan model.ChunkEvent)

	go func() {
		defer close(events)

		chunks := chunkWords(article.Content, a.chunkSize)
		for i, chunk := range chunks {
			metrics := a.analyzeChunk(chunk, i)

			article.ReadingVelocity = metrics.Velocity
			article.EngagementScore = metrics.Engagement
			article.ComprehensionLevel = metrics.Comprehension

			event := model.ChunkEvent{
				ChunkID:  i,
				Metrics:  metrics,
				Insights: extractChunkInsights(chunk),
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}

			if i < len(chunks)-1 && a.delay > 0 {
				select {
				case <-time.After(a.delay):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events
}

// analyzeChunk produces the heuristic metrics for one chunk. Velocity
// and engagement/comprehension are randomized within fixed ranges.
func (a *Analyzer) analyzeChunk(chunk string, position int) model.ChunkMetrics {
	a.mu.Lock()
	velocity := float64(200 + a.rnd.Intn(200))
	engagement := 0.5 + a.rnd.Float64()*0.5
	comprehension := 0.6 + a.rnd.Float64()*0.4
	a.mu.Unlock()

	return model.ChunkMetrics{
		Velocity:      velocity,
		Engagement:    engagement,
		Comprehension: comprehension,
		Position:      position,
		WordCount:     len(strings.Fields(chunk)),
	}
}

// chunkWords splits content into chunks of at most size words; the
// final chunk may be shorter.
func chunkWords(content string, size int) []string {
	words := strings.Fields(content)

	var chunks []string
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// extractChunkInsights returns the key phrases present in the chunk, in
// phrase order.
func extractChunkInsights(chunk string) []string {
	lower := strings.ToLower(chunk)

	var insights []string
	for _, phrase := range chunkKeyPhrases {
		if strings.Contains(lower, phrase) {
			insights = append(insights, "Key section detected: "+phrase)
		}
	}
	return insights
}
