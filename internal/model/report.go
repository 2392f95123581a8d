package model

import "time"

// Report is the fleet-level analytics report produced by the
// aggregator over a collection of article records.
type Report struct {
	Timestamp     time.Time `json:"timestamp"`
	TotalArticles int       `json:"total_articles"`

	QuantumMetrics   QuantumMetrics   `json:"quantum_metrics"`
	KnowledgeMetrics KnowledgeMetrics `json:"knowledge_metrics"`
	Predictions      Predictions      `json:"predictions"`

	Recommendations []string `json:"recommendations"`
}

// QuantumMetrics summarizes the score distribution across articles.
type QuantumMetrics struct {
	AverageScore float64 `json:"average_score"`
	TopScore     float64 `json:"top_score"`
	Distribution []int   `json:"distribution,omitempty"` // 10 buckets over [min, max]
}

// ConceptCount pairs a concept with its frequency. Reports keep these
// ordered by frequency, ties broken by first-seen order.
type ConceptCount struct {
	Concept string `json:"concept"`
	Count   int    `json:"count"`
}

// KnowledgeMetrics summarizes concept coverage across articles.
type KnowledgeMetrics struct {
	UniqueConcepts      int            `json:"unique_concepts"`
	TopConcepts         []ConceptCount `json:"top_concepts,omitempty"`
	KnowledgeDensityAvg float64        `json:"knowledge_density_avg"`
}

// ScheduledRead is one slot in the optimal reading schedule.
type ScheduledRead struct {
	Time      string `json:"time"`
	ArticleID int    `json:"article_id"`
	Duration  string `json:"duration"`
}

// Predictions holds forward-looking estimates derived from the fleet.
type Predictions struct {
	NextWeekReading int                        `json:"next_week_reading"`
	KnowledgeGaps   []string                   `json:"knowledge_gaps,omitempty"`
	OptimalSchedule map[string][]ScheduledRead `json:"optimal_schedule,omitempty"`
}

// Recommendation is a similar-article suggestion with a reason label.
type Recommendation struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity_score"`
	Reason     string  `json:"reason"`
}

// DuplicatePair flags two articles whose concept similarity exceeds the
// duplicate threshold.
type DuplicatePair struct {
	A          int     `json:"a"`
	B          int     `json:"b"`
	Similarity float64 `json:"similarity"`
}

// StudyQuestion is one generated comprehension question.
type StudyQuestion struct {
	Question   string   `json:"question"`
	Type       string   `json:"type"`       // multiple_choice, short_answer, true_false
	Difficulty string   `json:"difficulty"` // easy, medium, hard
	Options    []string `json:"options,omitempty"`
	Answer     string   `json:"correct_answer,omitempty"`
}
