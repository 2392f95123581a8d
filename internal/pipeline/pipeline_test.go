package pipeline

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
	"github.com/kri-ruj/readnext/internal/score"
)

func middayScorer() *score.Scorer {
	return score.NewScorerWithClock(func() time.Time {
		return time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)
	})
}

func TestPipeline_ProcessArticle_Validation(t *testing.T) {
	p := NewPipeline()

	_, err := p.ProcessArticle(model.RawArticle{URL: "http://example.com"})
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "id" {
		t.Errorf("expected validation error for missing id, got %v", err)
	}

	_, err = p.ProcessArticle(model.RawArticle{ID: 1})
	if !errors.As(err, &verr) || verr.Field != "url" {
		t.Errorf("expected validation error for missing url, got %v", err)
	}
	if err != nil && err.Error() != "invalid article: missing url" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestPipeline_ProcessArticle_Fields(t *testing.T) {
	p := NewPipelineWithScorer(middayScorer())

	record, err := p.ProcessArticle(model.RawArticle{
		ID:      1,
		URL:     "http://example.com/ai",
		Title:   "Intro",
		Content: "Learn about ai and data. This is important. Build something.",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if record.QuantumScore <= 0 || record.QuantumScore > 1000 {
		t.Errorf("expected score in (0, 1000], got %f", record.QuantumScore)
	}
	if len(record.Concepts) == 0 {
		t.Error("expected concepts extracted")
	}
	if len(record.KeyInsights) == 0 {
		t.Error("expected insights extracted")
	}
	if len(record.ActionItems) == 0 {
		t.Error("expected action items extracted")
	}

	// Graph insertion happened
	if _, ok := p.Graph().ArticleNode(1); !ok {
		t.Error("expected article inserted into the graph")
	}

	// Outcome predictions
	if want := record.QuantumScore / 1000; record.ImpactFactor != want {
		t.Errorf("expected impact factor %f, got %f", want, record.ImpactFactor)
	}
	if record.OptimalReadTime == "" {
		t.Error("expected optimal read time set")
	}

	wantValue := record.KnowledgeDensity*0.3 + record.RetentionProbability*0.3 + record.ImpactFactor*0.4
	if math.Abs(record.EstimatedValue-wantValue) > 1e-9 {
		t.Errorf("expected estimated value %f, got %f", wantValue, record.EstimatedValue)
	}
}

func TestPipeline_ProcessArticle_TitleFallback(t *testing.T) {
	p := NewPipelineWithScorer(middayScorer())

	record, err := p.ProcessArticle(model.RawArticle{
		ID:    1,
		URL:   "http://example.com",
		Title: "All about ai systems",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if len(record.Concepts) == 0 {
		t.Error("expected concepts from the title when content is empty")
	}
}

func TestPipeline_ProcessArticle_OptimalReadTime(t *testing.T) {
	// word count drives cognitive load: words/1000
	tests := []struct {
		words    int
		expected string
	}{
		{800, "Morning (6-10 AM)"},
		{100, "Anytime"},
		{500, "Afternoon (2-5 PM)"},
	}

	for _, tt := range tests {
		p := NewPipelineWithScorer(middayScorer())
		content := strings.Repeat("word ", tt.words)
		record, err := p.ProcessArticle(model.RawArticle{
			ID: 1, URL: "http://example.com", Title: "T", Content: content,
		})
		if err != nil {
			t.Fatalf("process failed: %v", err)
		}
		if record.OptimalReadTime != tt.expected {
			t.Errorf("%d words: expected %q, got %q", tt.words, tt.expected, record.OptimalReadTime)
		}
	}
}

func TestPipeline_ProcessArticle_NextArticles(t *testing.T) {
	p := NewPipelineWithScorer(middayScorer())

	// Seven articles sharing the same concepts: each new insert links to
	// all previous ones with identical strength
	var last *model.ArticleRecord
	for i := 1; i <= 7; i++ {
		record, err := p.ProcessArticle(model.RawArticle{
			ID:      i,
			URL:     "http://example.com",
			Title:   "Same",
			Content: "ai and data all the way down",
		})
		if err != nil {
			t.Fatalf("process failed: %v", err)
		}
		last = record
	}

	if len(last.ConnectedArticles) != 6 {
		t.Fatalf("expected 6 connections, got %d", len(last.ConnectedArticles))
	}
	if len(last.NextArticles) != 5 {
		t.Fatalf("expected next articles capped at 5, got %d", len(last.NextArticles))
	}

	// Equal strengths: ties break by ascending id
	for i, id := range last.NextArticles {
		if id != i+1 {
			t.Errorf("expected id %d at position %d, got %d", i+1, i, id)
		}
	}
}

func TestPipeline_RecordEngagement(t *testing.T) {
	p := NewPipelineWithScorer(middayScorer())

	record, err := p.ProcessArticle(model.RawArticle{
		ID:      1,
		URL:     "http://example.com",
		Title:   "Hard",
		Content: "ai data " + strings.Repeat("word ", 900),
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	before := p.UserModel().ReadingLevel()
	p.RecordEngagement(record, model.EngagementData{Completed: true, Duration: 300})
	after := p.UserModel().ReadingLevel()

	if after <= before {
		t.Errorf("expected reading level to rise, got %f -> %f", before, after)
	}
	if !p.UserModel().KnowsConcept(record.Concepts[0]) {
		t.Error("expected concepts recorded as known")
	}
}
