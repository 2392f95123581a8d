package score

import (
	"math"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
	"github.com/kri-ruj/readnext/internal/user"
)

// Factor weights. Each sub-score is normalized to [0,1] before scaling,
// so the raw total stays within [0,1000].
const (
	weightRelevance     = 200
	weightTiming        = 150
	weightComplexity    = 150
	weightImpact        = 200
	weightNovelty       = 150
	weightNetworkEffect = 150
)

// Scorer computes the bounded multi-factor priority score for an
// article. It is stateless apart from reading the user model, so a
// single instance is safe to call concurrently.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a new scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerWithClock creates a scorer with a fixed clock. Tests use
// this to pin the timing sub-score.
func NewScorerWithClock(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// Breakdown exposes the weighted sub-scores for transparency. Every
// value is already scaled by its weight.
type Breakdown struct {
	Relevance     float64 `json:"relevance"`
	Timing        float64 `json:"timing"`
	Complexity    float64 `json:"complexity_match"`
	Impact        float64 `json:"impact_potential"`
	Novelty       float64 `json:"novelty"`
	NetworkEffect float64 `json:"network_effect"`
	Interference  float64 `json:"interference"`
	Total         float64 `json:"total"`
}

// Score computes the final clamped score in [0, 1000].
func (s *Scorer) Score(article *model.ArticleRecord, m *user.BehaviorModel) float64 {
	return s.Calculate(article, m).Total
}

// Calculate computes the full weighted breakdown. The raw total is
// adjusted by the interference multiplier and clamped to [0, 1000].
func (s *Scorer) Calculate(article *model.ArticleRecord, m *user.BehaviorModel) Breakdown {
	b := Breakdown{
		Relevance:     s.calculateRelevance(article, m) * weightRelevance,
		Timing:        s.calculateTiming(article) * weightTiming,
		Complexity:    s.calculateComplexityMatch(article, m) * weightComplexity,
		Impact:        s.calculateImpact(article) * weightImpact,
		Novelty:       s.calculateNovelty(article, m) * weightNovelty,
		NetworkEffect: s.calculateNetworkEffect(article) * weightNetworkEffect,
	}

	raw := b.Relevance + b.Timing + b.Complexity + b.Impact + b.Novelty + b.NetworkEffect

	b.Interference = s.calculateInterference(article)
	b.Total = clamp(raw*(1+b.Interference), 0, 1000)

	return b
}

// calculateRelevance scores concept overlap with the user's interests
// plus a small boost per existing connection.
func (s *Scorer) calculateRelevance(article *model.ArticleRecord, m *user.BehaviorModel) float64 {
	relevance := 0.5

	if m.HasInterests() {
		relevance += float64(m.InterestMatches(article.Concepts)) * 0.1
	}

	relevance += float64(len(article.ConnectedArticles)) * 0.05

	return math.Min(1.0, relevance)
}

// calculateTiming favors morning and evening reading windows; complex
// articles get a morning boost.
func (s *Scorer) calculateTiming(article *model.ArticleRecord) float64 {
	hour := s.now().Hour()

	var timing float64
	switch {
	case (hour >= 6 && hour <= 9) || (hour >= 19 && hour <= 22):
		timing = 0.9
	case hour >= 10 && hour <= 18:
		timing = 0.6
	default:
		timing = 0.3
	}

	if article.CognitiveLoad > 0.7 && hour >= 6 && hour <= 11 {
		timing *= 1.2
	}

	return math.Min(1.0, timing)
}

// calculateComplexityMatch compares article difficulty against the
// user's reading level; a close match scores highest.
func (s *Scorer) calculateComplexityMatch(article *model.ArticleRecord, m *user.BehaviorModel) float64 {
	distance := math.Abs(m.ReadingLevel() - article.CognitiveLoad)

	switch {
	case distance < 0.1:
		return 1.0
	case distance < 0.3:
		return 0.8
	case distance < 0.5:
		return 0.5
	default:
		return 0.2
	}
}

// calculateImpact rewards actionable content and dense writing.
func (s *Scorer) calculateImpact(article *model.ArticleRecord) float64 {
	impact := 0.5
	impact += float64(len(article.ActionItems)) * 0.1
	impact += float64(len(article.KeyInsights)) * 0.08
	impact += article.KnowledgeDensity * 0.3
	return math.Min(1.0, impact)
}

// calculateNovelty measures how many of the article's concepts the
// user has not seen before. No concepts means neutral novelty.
func (s *Scorer) calculateNovelty(article *model.ArticleRecord, m *user.BehaviorModel) float64 {
	if len(article.Concepts) == 0 {
		return 0.5
	}

	newConcepts := 0
	for _, c := range article.Concepts {
		if !m.KnowsConcept(c) {
			newConcepts++
		}
	}

	// +1 guards the denominator for degenerate concept sets
	return float64(newConcepts) / float64(len(article.Concepts)+1)
}

// calculateNetworkEffect rewards well-connected articles, amplified by
// the mean strength of their relationships.
func (s *Scorer) calculateNetworkEffect(article *model.ArticleRecord) float64 {
	if len(article.ConnectedArticles) == 0 {
		return 0.1
	}

	connection := math.Min(1.0, float64(len(article.ConnectedArticles))*0.15)

	if len(article.RelationshipStrength) > 0 {
		sum := 0.0
		for _, strength := range article.RelationshipStrength {
			sum += strength
		}
		avg := sum / float64(len(article.RelationshipStrength))
		connection *= 1 + avg
	}

	return math.Min(1.0, connection)
}

// calculateInterference models how related articles shift priority:
// strong relationships interfere constructively, concept overload
// destructively.
func (s *Scorer) calculateInterference(article *model.ArticleRecord) float64 {
	interference := 0.0

	for i, id := range article.ConnectedArticles {
		if i >= 5 {
			break
		}
		strength, ok := article.RelationshipStrength[id]
		if !ok {
			strength = 0.1
		}
		interference += strength * 0.1
	}

	if len(article.Concepts) > 10 {
		interference -= 0.05
	}

	return interference
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
