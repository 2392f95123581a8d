package analytics

import (
	"sort"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
)

// histogramBuckets is the fixed bucket count for score distributions.
const histogramBuckets = 10

// gapTaxonomy is the fixed concept taxonomy checked for coverage gaps.
var gapTaxonomy = []string{
	"machine learning", "data science", "cloud computing",
	"cybersecurity", "blockchain", "quantum computing",
}

// weekdays in schedule order.
var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Advisory strings emitted by fixed thresholds.
const (
	adviceLighterContent = "Consider mixing in lighter content for better retention"
	adviceSpacedRepeat   = "Try spaced repetition for complex articles"
	adviceSpeedReading   = "Practice speed reading techniques to improve velocity"
)

// Aggregator produces fleet-level reports over processed articles.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an aggregator using the wall clock.
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// GenerateReport computes score, knowledge and prediction metrics over
// the given articles. An empty collection yields a report with zero
// counts and empty structures, never an error.
func (a *Aggregator) GenerateReport(articles []*model.ArticleRecord) *model.Report {
	report := &model.Report{
		Timestamp:       a.now().UTC(),
		TotalArticles:   len(articles),
		Recommendations: []string{},
	}

	if len(articles) == 0 {
		return report
	}

	report.QuantumMetrics = quantumMetrics(articles)
	report.KnowledgeMetrics = knowledgeMetrics(articles)
	report.Predictions = model.Predictions{
		NextWeekReading: predictWeeklyReading(articles),
		KnowledgeGaps:   knowledgeGaps(articles),
		OptimalSchedule: optimalSchedule(articles),
	}
	report.Recommendations = recommendations(articles)

	return report
}

// quantumMetrics summarizes the score distribution.
func quantumMetrics(articles []*model.ArticleRecord) model.QuantumMetrics {
	scores := make([]float64, len(articles))
	for i, a := range articles {
		scores[i] = a.QuantumScore
	}

	sum, top := 0.0, scores[0]
	for _, s := range scores {
		sum += s
		if s > top {
			top = s
		}
	}

	return model.QuantumMetrics{
		AverageScore: sum / float64(len(scores)),
		TopScore:     top,
		Distribution: histogram(scores, histogramBuckets),
	}
}

// histogram counts values into equal-width buckets spanning the
// observed [min, max]. A degenerate range widens to [v-0.5, v+0.5],
// so identical values all land in the middle bucket.
func histogram(values []float64, buckets int) []int {
	counts := make([]int, buckets)

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		counts[buckets/2] = len(values)
		return counts
	}

	width := (max - min) / float64(buckets)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		counts[idx]++
	}
	return counts
}

// knowledgeMetrics summarizes concept coverage. Top concepts are
// ordered by frequency; ties keep first-seen order.
func knowledgeMetrics(articles []*model.ArticleRecord) model.KnowledgeMetrics {
	freq := make(map[string]int)
	var firstSeen []string
	densitySum := 0.0

	for _, a := range articles {
		densitySum += a.KnowledgeDensity
		for _, c := range a.Concepts {
			if freq[c] == 0 {
				firstSeen = append(firstSeen, c)
			}
			freq[c]++
		}
	}

	top := append([]string(nil), firstSeen...)
	sort.SliceStable(top, func(i, j int) bool {
		return freq[top[i]] > freq[top[j]]
	})
	if len(top) > 10 {
		top = top[:10]
	}

	topCounts := make([]model.ConceptCount, len(top))
	for i, c := range top {
		topCounts[i] = model.ConceptCount{Concept: c, Count: freq[c]}
	}

	return model.KnowledgeMetrics{
		UniqueConcepts:      len(freq),
		TopConcepts:         topCounts,
		KnowledgeDensityAvg: densitySum / float64(len(articles)),
	}
}

// predictWeeklyReading estimates next week's article count from the
// last ten articles, with ten percent growth. The estimate truncates.
func predictWeeklyReading(articles []*model.ArticleRecord) int {
	recent := articles
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	avgDaily := float64(len(recent)) / 7
	// Truncation, not rounding: a partial projected article does not count.
	return int(avgDaily * 7 * 1.1)
}

// knowledgeGaps returns the taxonomy concepts not covered by any
// article.
func knowledgeGaps(articles []*model.ArticleRecord) []string {
	covered := make(map[string]struct{})
	for _, a := range articles {
		for _, c := range a.Concepts {
			covered[c] = struct{}{}
		}
	}

	var gaps []string
	for _, c := range gapTaxonomy {
		if _, ok := covered[c]; !ok {
			gaps = append(gaps, c)
		}
	}
	return gaps
}

// optimalSchedule assigns up to seven high-load articles to weekday
// morning slots, in input order.
func optimalSchedule(articles []*model.ArticleRecord) map[string][]model.ScheduledRead {
	schedule := make(map[string][]model.ScheduledRead, len(weekdays))
	for _, day := range weekdays {
		schedule[day] = []model.ScheduledRead{}
	}

	assigned := 0
	for _, a := range articles {
		if a.CognitiveLoad <= 0.7 {
			continue
		}
		if assigned >= len(weekdays) {
			break
		}
		day := weekdays[assigned%len(weekdays)]
		schedule[day] = append(schedule[day], model.ScheduledRead{
			Time:      "8:00 AM",
			ArticleID: a.ID,
			Duration:  "30 min",
		})
		assigned++
	}

	return schedule
}

// recommendations emits advisory strings when fleet averages cross
// fixed thresholds.
func recommendations(articles []*model.ArticleRecord) []string {
	recs := []string{}

	loadSum, retentionSum := 0.0, 0.0
	velocitySum, velocityCount := 0.0, 0
	for _, a := range articles {
		loadSum += a.CognitiveLoad
		retentionSum += a.RetentionProbability
		if a.ReadingVelocity > 0 {
			velocitySum += a.ReadingVelocity
			velocityCount++
		}
	}

	n := float64(len(articles))
	if loadSum/n > 0.7 {
		recs = append(recs, adviceLighterContent)
	}
	if retentionSum/n < 0.5 {
		recs = append(recs, adviceSpacedRepeat)
	}
	if velocityCount > 0 && velocitySum/float64(velocityCount) < 200 {
		recs = append(recs, adviceSpeedReading)
	}

	return recs
}
