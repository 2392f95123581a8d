package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestAggregator() *Aggregator {
	return &Aggregator{now: fixedClock}
}

func TestAggregator_GenerateReport_Empty(t *testing.T) {
	report := newTestAggregator().GenerateReport(nil)

	if report.TotalArticles != 0 {
		t.Errorf("expected 0 articles, got %d", report.TotalArticles)
	}
	if report.Timestamp.IsZero() {
		t.Error("expected timestamp set")
	}
	if report.Recommendations == nil || len(report.Recommendations) != 0 {
		t.Errorf("expected empty recommendations slice, got %v", report.Recommendations)
	}
	if report.QuantumMetrics.AverageScore != 0 {
		t.Errorf("expected zero metrics, got %f", report.QuantumMetrics.AverageScore)
	}
}

func TestAggregator_QuantumMetrics(t *testing.T) {
	articles := []*model.ArticleRecord{
		{ID: 1, QuantumScore: 400},
		{ID: 2, QuantumScore: 600},
		{ID: 3, QuantumScore: 800},
	}

	report := newTestAggregator().GenerateReport(articles)

	if math.Abs(report.QuantumMetrics.AverageScore-600) > 1e-9 {
		t.Errorf("expected average 600, got %f", report.QuantumMetrics.AverageScore)
	}
	if report.QuantumMetrics.TopScore != 800 {
		t.Errorf("expected top 800, got %f", report.QuantumMetrics.TopScore)
	}
	if len(report.QuantumMetrics.Distribution) != 10 {
		t.Errorf("expected 10 buckets, got %d", len(report.QuantumMetrics.Distribution))
	}
}

func TestHistogram(t *testing.T) {
	// Span [0, 100]: width 10, max lands in the last bucket
	counts := histogram([]float64{0, 5, 50, 100}, 10)
	if counts[0] != 2 {
		t.Errorf("expected 2 in first bucket, got %d", counts[0])
	}
	if counts[5] != 1 {
		t.Errorf("expected 1 in bucket 5, got %d", counts[5])
	}
	if counts[9] != 1 {
		t.Errorf("expected max value in last bucket, got %d", counts[9])
	}
}

func TestHistogram_IdenticalValues(t *testing.T) {
	counts := histogram([]float64{42, 42, 42}, 10)
	if counts[5] != 3 {
		t.Errorf("expected all identical values in the middle bucket, got %v", counts)
	}
	for i, n := range counts {
		if i != 5 && n != 0 {
			t.Errorf("expected empty bucket %d, got %d", i, n)
		}
	}
}

func TestAggregator_KnowledgeMetrics(t *testing.T) {
	articles := []*model.ArticleRecord{
		{ID: 1, Concepts: []string{"ai", "data"}, KnowledgeDensity: 0.4},
		{ID: 2, Concepts: []string{"ai"}, KnowledgeDensity: 0.6},
		{ID: 3, Concepts: []string{"system"}, KnowledgeDensity: 0.5},
	}

	report := newTestAggregator().GenerateReport(articles)
	km := report.KnowledgeMetrics

	if km.UniqueConcepts != 3 {
		t.Errorf("expected 3 unique concepts, got %d", km.UniqueConcepts)
	}
	if math.Abs(km.KnowledgeDensityAvg-0.5) > 1e-9 {
		t.Errorf("expected mean density 0.5, got %f", km.KnowledgeDensityAvg)
	}

	// ai appears twice so it ranks first; data and system tie at one and
	// keep first-seen order
	if len(km.TopConcepts) != 3 {
		t.Fatalf("expected 3 top concepts, got %d", len(km.TopConcepts))
	}
	if km.TopConcepts[0].Concept != "ai" || km.TopConcepts[0].Count != 2 {
		t.Errorf("expected ai(2) first, got %+v", km.TopConcepts[0])
	}
	if km.TopConcepts[1].Concept != "data" || km.TopConcepts[2].Concept != "system" {
		t.Errorf("expected stable tie order [data system], got %+v", km.TopConcepts[1:])
	}
}

func TestAggregator_PredictWeeklyReading(t *testing.T) {
	// Ten or fewer recent articles: int(len/7 * 7 * 1.1) truncates
	articles := make([]*model.ArticleRecord, 5)
	for i := range articles {
		articles[i] = &model.ArticleRecord{ID: i + 1}
	}

	if got := predictWeeklyReading(articles); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}

	// More than ten articles: only the last ten count
	articles = make([]*model.ArticleRecord, 30)
	for i := range articles {
		articles[i] = &model.ArticleRecord{ID: i + 1}
	}
	if got := predictWeeklyReading(articles); got != 11 {
		t.Errorf("expected 11 from the ten most recent, got %d", got)
	}
}

func TestAggregator_KnowledgeGaps(t *testing.T) {
	articles := []*model.ArticleRecord{
		{ID: 1, Concepts: []string{"machine learning", "ai"}},
	}

	gaps := knowledgeGaps(articles)

	for _, gap := range gaps {
		if gap == "machine learning" {
			t.Error("covered concept reported as gap")
		}
	}
	if len(gaps) != len(gapTaxonomy)-1 {
		t.Errorf("expected %d gaps, got %d", len(gapTaxonomy)-1, len(gaps))
	}
}

func TestAggregator_OptimalSchedule(t *testing.T) {
	articles := []*model.ArticleRecord{
		{ID: 1, CognitiveLoad: 0.9},
		{ID: 2, CognitiveLoad: 0.3},
		{ID: 3, CognitiveLoad: 0.8},
	}

	schedule := optimalSchedule(articles)

	if len(schedule) != 7 {
		t.Fatalf("expected all 7 weekdays present, got %d", len(schedule))
	}

	monday := schedule["monday"]
	if len(monday) != 1 || monday[0].ArticleID != 1 {
		t.Errorf("expected article 1 on monday, got %v", monday)
	}
	tuesday := schedule["tuesday"]
	if len(tuesday) != 1 || tuesday[0].ArticleID != 3 {
		t.Errorf("expected article 3 on tuesday, got %v", tuesday)
	}
	if len(schedule["wednesday"]) != 0 {
		t.Errorf("expected empty wednesday, got %v", schedule["wednesday"])
	}

	if monday[0].Time != "8:00 AM" || monday[0].Duration != "30 min" {
		t.Errorf("unexpected slot: %+v", monday[0])
	}
}

func TestAggregator_OptimalSchedule_CapsAtSeven(t *testing.T) {
	articles := make([]*model.ArticleRecord, 10)
	for i := range articles {
		articles[i] = &model.ArticleRecord{ID: i + 1, CognitiveLoad: 0.9}
	}

	schedule := optimalSchedule(articles)

	total := 0
	for _, slots := range schedule {
		total += len(slots)
	}
	if total != 7 {
		t.Errorf("expected 7 scheduled reads, got %d", total)
	}
}

func TestAggregator_Recommendations(t *testing.T) {
	// Heavy load fleet triggers the lighter-content advisory
	heavy := []*model.ArticleRecord{
		{ID: 1, CognitiveLoad: 0.8, RetentionProbability: 0.6},
		{ID: 2, CognitiveLoad: 0.9, RetentionProbability: 0.6},
		{ID: 3, CognitiveLoad: 0.75, RetentionProbability: 0.6},
	}
	recs := recommendations(heavy)
	if len(recs) != 1 || recs[0] != adviceLighterContent {
		t.Errorf("expected lighter-content advice, got %v", recs)
	}

	// Low retention triggers spaced repetition
	lowRetention := []*model.ArticleRecord{
		{ID: 1, CognitiveLoad: 0.4, RetentionProbability: 0.3},
	}
	recs = recommendations(lowRetention)
	if len(recs) != 1 || recs[0] != adviceSpacedRepeat {
		t.Errorf("expected spaced-repetition advice, got %v", recs)
	}

	// Slow measured velocity triggers speed reading; unread articles
	// (zero velocity) are excluded from the mean
	slow := []*model.ArticleRecord{
		{ID: 1, CognitiveLoad: 0.4, RetentionProbability: 0.6, ReadingVelocity: 150},
		{ID: 2, CognitiveLoad: 0.4, RetentionProbability: 0.6},
	}
	recs = recommendations(slow)
	if len(recs) != 1 || recs[0] != adviceSpeedReading {
		t.Errorf("expected speed-reading advice, got %v", recs)
	}

	// A healthy fleet gets no advice
	healthy := []*model.ArticleRecord{
		{ID: 1, CognitiveLoad: 0.4, RetentionProbability: 0.6, ReadingVelocity: 300},
	}
	if recs = recommendations(healthy); len(recs) != 0 {
		t.Errorf("expected no advice, got %v", recs)
	}
}
