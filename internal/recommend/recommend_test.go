package recommend

import (
	"math"
	"strings"
	"testing"

	"github.com/kri-ruj/readnext/internal/model"
)

func TestRecommender_SimilarArticles(t *testing.T) {
	r := NewRecommender()

	target := &model.ArticleRecord{ID: 1, Title: "Target", Concepts: []string{"ai", "data"}}
	candidates := []*model.ArticleRecord{
		target,
		{ID: 2, Title: "Twin", Concepts: []string{"ai", "data"}},
		{ID: 3, Title: "Cousin", Concepts: []string{"ai", "model"}},
		{ID: 4, Title: "Stranger", Concepts: []string{"blockchain"}},
	}

	recs := r.SimilarArticles(target, candidates, 5)

	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations (target skipped), got %d", len(recs))
	}

	if recs[0].ID != 2 || recs[0].Similarity != 1.0 {
		t.Errorf("expected twin first with similarity 1.0, got %+v", recs[0])
	}
	if recs[0].Reason != "Highly similar content" {
		t.Errorf("expected highly-similar reason, got %q", recs[0].Reason)
	}

	if recs[1].ID != 3 {
		t.Errorf("expected cousin second, got %+v", recs[1])
	}
	if recs[1].Reason != "You might also like" {
		t.Errorf("expected fallback reason for similarity 1/3, got %q", recs[1].Reason)
	}

	if recs[2].ID != 4 || recs[2].Similarity != 0 {
		t.Errorf("expected stranger last with zero similarity, got %+v", recs[2])
	}
}

func TestRecommender_SimilarArticles_Limit(t *testing.T) {
	r := NewRecommender()
	target := &model.ArticleRecord{ID: 1, Concepts: []string{"ai"}}

	var candidates []*model.ArticleRecord
	for i := 2; i <= 10; i++ {
		candidates = append(candidates, &model.ArticleRecord{ID: i, Concepts: []string{"ai"}})
	}

	if recs := r.SimilarArticles(target, candidates, 3); len(recs) != 3 {
		t.Errorf("expected limit of 3, got %d", len(recs))
	}
}

func TestRecommender_ReasonBands(t *testing.T) {
	tests := []struct {
		similarity float64
		expected   string
	}{
		{0.9, "Highly similar content"},
		{0.71, "Highly similar content"},
		{0.7, "Related topic"},
		{0.5, "Related topic"},
		{0.4, "You might also like"},
		{0.1, "You might also like"},
	}

	for _, tt := range tests {
		if got := reasonFor(tt.similarity); got != tt.expected {
			t.Errorf("similarity %f: expected %q, got %q", tt.similarity, tt.expected, got)
		}
	}
}

func TestRecommender_DetectDuplicates(t *testing.T) {
	r := NewRecommender()

	articles := []*model.ArticleRecord{
		{ID: 1, Concepts: []string{"ai", "data"}},
		{ID: 2, Concepts: []string{"ai", "data"}},
		{ID: 3, Concepts: []string{"blockchain"}},
	}

	pairs := r.DetectDuplicates(articles, 0.8)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 duplicate pair, got %d", len(pairs))
	}
	if pairs[0].A != 1 || pairs[0].B != 2 {
		t.Errorf("expected pair (1,2), got (%d,%d)", pairs[0].A, pairs[0].B)
	}
	if math.Abs(pairs[0].Similarity-1.0) > 1e-9 {
		t.Errorf("expected similarity 1.0, got %f", pairs[0].Similarity)
	}
}

func TestRecommender_DetectDuplicates_Ordering(t *testing.T) {
	r := NewRecommender()

	articles := []*model.ArticleRecord{
		{ID: 1, Concepts: []string{"ai", "data", "system"}},
		{ID: 2, Concepts: []string{"ai", "data", "system"}},
		{ID: 3, Concepts: []string{"ai", "data", "model"}},
	}

	pairs := r.DetectDuplicates(articles, 0.4)

	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	// the perfect pair ranks first
	if pairs[0].A != 1 || pairs[0].B != 2 {
		t.Errorf("expected strongest pair (1,2) first, got (%d,%d)", pairs[0].A, pairs[0].B)
	}
}

func TestRecommender_GenerateTags_Frequency(t *testing.T) {
	r := NewRecommender()

	text := strings.Repeat("kubernetes deployment ", 3) + "once"
	tags := r.GenerateTags("Kubernetes notes", text)

	if !containsTag(tags, "#kubernetes") {
		t.Errorf("expected #kubernetes tag, got %v", tags)
	}
	if !containsTag(tags, "#deployment") {
		t.Errorf("expected #deployment tag, got %v", tags)
	}
	// single-occurrence words never become frequency tags
	if containsTag(tags, "#once") {
		t.Errorf("unexpected #once tag in %v", tags)
	}
}

func TestRecommender_GenerateTags_Patterns(t *testing.T) {
	r := NewRecommender()

	tags := r.GenerateTags("Python tutorial", "how to write python code")
	if !containsTag(tags, "#programming") {
		t.Errorf("expected #programming, got %v", tags)
	}
	if !containsTag(tags, "#tutorial") {
		t.Errorf("expected #tutorial, got %v", tags)
	}

	tags = r.GenerateTags("News", "breaking machine learning news")
	if !containsTag(tags, "#news") {
		t.Errorf("expected #news, got %v", tags)
	}
	if !containsTag(tags, "#AI") {
		t.Errorf("expected #AI, got %v", tags)
	}
}

func TestRecommender_GenerateTags_StripsURLsAndStopWords(t *testing.T) {
	r := NewRecommender()

	text := strings.Repeat("https://example.com/path ", 3) + strings.Repeat("the with from ", 5)
	tags := r.GenerateTags("", text)

	for _, tag := range tags {
		if strings.Contains(tag, "http") || strings.Contains(tag, "example") {
			t.Errorf("URL leaked into tags: %v", tags)
		}
		if tag == "#with" || tag == "#from" {
			t.Errorf("stop word leaked into tags: %v", tags)
		}
	}
}

func TestRecommender_GenerateTags_Cap(t *testing.T) {
	r := NewRecommender()

	var b strings.Builder
	for _, w := range []string{
		"alpha", "bravo", "charlie", "delta", "echo",
		"foxtrot", "golf", "hotel", "india", "juliet",
	} {
		b.WriteString(strings.Repeat(w+" ", 2))
	}
	b.WriteString("python code tutorial news ai")

	tags := r.GenerateTags("", b.String())
	if len(tags) > 7 {
		t.Errorf("expected at most 7 tags, got %d: %v", len(tags), tags)
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
