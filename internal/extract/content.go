package extract

import (
	"math"
	"strings"

	"github.com/kri-ruj/readnext/internal/model"
)

// conceptVocabulary is the fixed concept set, matched in this order.
var conceptVocabulary = []string{
	"technology", "ai", "learning", "data", "system",
	"analysis", "intelligence", "algorithm", "model",
}

// insightKeywords mark sentences worth keeping as key insights.
var insightKeywords = []string{"important", "key", "remember"}

// actionKeywords mark sentences that read as actionable items.
var actionKeywords = []string{"implement", "create", "build", "try", "test", "learn"}

const (
	maxConcepts = 10
	maxInsights = 5
	maxActions  = 5
)

// ContentAnalyzer computes the lexical metrics and extracts the
// concept/entity/insight structure of an article. Extraction is a
// fixed-vocabulary heuristic, not a trained model.
type ContentAnalyzer struct{}

// NewContentAnalyzer creates a new content analyzer.
func NewContentAnalyzer() *ContentAnalyzer {
	return &ContentAnalyzer{}
}

// Analyze fills the content-derived fields of the record. Empty content
// falls back to the title; empty input yields neutral defaults and
// never fails.
func (a *ContentAnalyzer) Analyze(article *model.ArticleRecord) {
	text := article.AnalysisText()

	words := strings.Fields(text)
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}

	article.KnowledgeDensity = float64(len(distinct)) / float64(len(words)+1)
	article.CognitiveLoad = math.Min(1.0, float64(len(words))/1000)
	article.RetentionProbability = 0.7 - 0.3*article.CognitiveLoad

	article.Concepts = a.ExtractConcepts(text)
	article.Entities = a.ExtractEntities(text)
	article.KeyInsights = a.ExtractInsights(text)
	article.ActionItems = a.ExtractActions(text)
}

// ExtractConcepts returns the fixed-vocabulary concepts present in the
// text, in vocabulary order, capped at ten.
func (a *ContentAnalyzer) ExtractConcepts(text string) []string {
	lower := strings.ToLower(text)

	var concepts []string
	for _, keyword := range conceptVocabulary {
		if strings.Contains(lower, keyword) {
			concepts = append(concepts, keyword)
		}
	}

	if len(concepts) > maxConcepts {
		concepts = concepts[:maxConcepts]
	}
	return concepts
}

// ExtractEntities runs the fixed substring checks for named entities.
func (a *ContentAnalyzer) ExtractEntities(text string) []string {
	var entities []string
	if strings.Contains(text, "Python") {
		entities = append(entities, "Python")
	}
	if strings.Contains(text, "JavaScript") {
		entities = append(entities, "JavaScript")
	}
	if strings.Contains(text, "AI") || strings.Contains(strings.ToLower(text), "artificial intelligence") {
		entities = append(entities, "Artificial Intelligence")
	}
	return entities
}

// ExtractInsights returns up to five sentences containing an insight
// keyword.
func (a *ContentAnalyzer) ExtractInsights(text string) []string {
	return matchSentences(text, insightKeywords, maxInsights)
}

// ExtractActions returns up to five sentences containing an action
// keyword.
func (a *ContentAnalyzer) ExtractActions(text string) []string {
	return matchSentences(text, actionKeywords, maxActions)
}

// matchSentences splits text on '.' and keeps trimmed sentences that
// contain any of the given keywords, up to limit.
func matchSentences(text string, keywords []string, limit int) []string {
	var matched []string

	for _, sentence := range strings.Split(text, ".") {
		lower := strings.ToLower(sentence)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				trimmed := strings.TrimSpace(sentence)
				if trimmed != "" {
					matched = append(matched, trimmed)
				}
				break
			}
		}
		if len(matched) >= limit {
			break
		}
	}

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}
