package stream

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func collect(events <-chan model.ChunkEvent) []model.ChunkEvent {
	var out []model.ChunkEvent
	for e := range events {
		out = append(out, e)
	}
	return out
}

func TestAnalyzer_ProcessStream_Chunking(t *testing.T) {
	a := NewAnalyzerWithConfig(100, 0, rand.New(rand.NewSource(1)))
	article := &model.ArticleRecord{ID: 1, Content: words(250)}

	events := collect(a.ProcessStream(context.Background(), article))

	if len(events) != 3 {
		t.Fatalf("expected 3 chunks for 250 words, got %d", len(events))
	}

	wantCounts := []int{100, 100, 50}
	for i, e := range events {
		if e.ChunkID != i {
			t.Errorf("expected chunk id %d, got %d", i, e.ChunkID)
		}
		if e.Metrics.Position != i {
			t.Errorf("expected position %d, got %d", i, e.Metrics.Position)
		}
		if e.Metrics.WordCount != wantCounts[i] {
			t.Errorf("chunk %d: expected %d words, got %d", i, wantCounts[i], e.Metrics.WordCount)
		}
	}
}

func TestAnalyzer_ProcessStream_MetricRanges(t *testing.T) {
	a := NewAnalyzerWithConfig(10, 0, rand.New(rand.NewSource(7)))
	article := &model.ArticleRecord{ID: 1, Content: words(100)}

	for _, e := range collect(a.ProcessStream(context.Background(), article)) {
		if e.Metrics.Velocity < 200 || e.Metrics.Velocity >= 400 {
			t.Errorf("velocity %f out of [200, 400)", e.Metrics.Velocity)
		}
		if e.Metrics.Engagement < 0.5 || e.Metrics.Engagement > 1.0 {
			t.Errorf("engagement %f out of [0.5, 1.0]", e.Metrics.Engagement)
		}
		if e.Metrics.Comprehension < 0.6 || e.Metrics.Comprehension > 1.0 {
			t.Errorf("comprehension %f out of [0.6, 1.0]", e.Metrics.Comprehension)
		}
	}
}

func TestAnalyzer_ProcessStream_LastChunkWins(t *testing.T) {
	a := NewAnalyzerWithConfig(10, 0, rand.New(rand.NewSource(3)))
	article := &model.ArticleRecord{ID: 1, Content: words(35)}

	events := collect(a.ProcessStream(context.Background(), article))
	last := events[len(events)-1]

	// Article fields hold the final chunk's values, nothing averaged
	if article.ReadingVelocity != last.Metrics.Velocity {
		t.Errorf("expected velocity %f, got %f", last.Metrics.Velocity, article.ReadingVelocity)
	}
	if article.EngagementScore != last.Metrics.Engagement {
		t.Errorf("expected engagement %f, got %f", last.Metrics.Engagement, article.EngagementScore)
	}
	if article.ComprehensionLevel != last.Metrics.Comprehension {
		t.Errorf("expected comprehension %f, got %f", last.Metrics.Comprehension, article.ComprehensionLevel)
	}
}

func TestAnalyzer_ProcessStream_Insights(t *testing.T) {
	a := NewAnalyzerWithConfig(100, 0, rand.New(rand.NewSource(5)))
	article := &model.ArticleRecord{
		ID:      1,
		Content: "Remember this important detail before the conclusion",
	}

	events := collect(a.ProcessStream(context.Background(), article))
	if len(events) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(events))
	}

	// Phrase order: important, remember, conclusion
	want := []string{
		"Key section detected: important",
		"Key section detected: remember",
		"Key section detected: conclusion",
	}
	got := events[0].Insights
	if len(got) != len(want) {
		t.Fatalf("expected %d insights, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected insight %q at %d, got %q", want[i], i, got[i])
		}
	}
}

func TestAnalyzer_ProcessStream_EmptyContent(t *testing.T) {
	a := NewAnalyzerWithConfig(100, 0, rand.New(rand.NewSource(2)))
	article := &model.ArticleRecord{ID: 1}

	events := collect(a.ProcessStream(context.Background(), article))
	if len(events) != 0 {
		t.Errorf("expected no events for empty content, got %d", len(events))
	}
}

func TestAnalyzer_ProcessStream_Cancellation(t *testing.T) {
	a := NewAnalyzerWithConfig(10, 50*time.Millisecond, rand.New(rand.NewSource(4)))
	article := &model.ArticleRecord{ID: 1, Content: words(100)}

	ctx, cancel := context.WithCancel(context.Background())
	events := a.ProcessStream(ctx, article)

	// Take one event, then cancel; the channel must close
	<-events
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancellation")
		}
	}
}
