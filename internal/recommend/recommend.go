package recommend

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kri-ruj/readnext/internal/graph"
	"github.com/kri-ruj/readnext/internal/model"
)

// Reason labels attached to recommendations, by similarity band.
const (
	reasonHighlySimilar = "Highly similar content"
	reasonRelatedTopic  = "Related topic"
	reasonMightLike     = "You might also like"
)

// maxTags caps generated tags per article.
const maxTags = 7

var (
	reURL     = regexp.MustCompile(`https?://\S+`)
	reNonWord = regexp.MustCompile(`[^a-z0-9\s]`)
)

// stopWords are excluded from tag generation.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "can": {},
	"shall": {}, "it": {}, "this": {}, "that": {},
}

// Recommender suggests related reading and labels near-duplicates
// using concept-set similarity.
type Recommender struct{}

// NewRecommender creates a new recommender.
func NewRecommender() *Recommender {
	return &Recommender{}
}

// SimilarArticles ranks candidates by concept similarity to the target
// and attaches a reason label per similarity band. The target itself is
// skipped. Results are ordered by similarity, strongest first.
func (r *Recommender) SimilarArticles(target *model.ArticleRecord, candidates []*model.ArticleRecord, limit int) []model.Recommendation {
	var recs []model.Recommendation

	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		similarity := graph.Jaccard(conceptProfile(target), conceptProfile(c))
		recs = append(recs, model.Recommendation{
			ID:         c.ID,
			Title:      c.Title,
			Similarity: similarity,
			Reason:     reasonFor(similarity),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Similarity > recs[j].Similarity
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// DetectDuplicates returns article pairs whose concept similarity meets
// the threshold, strongest pairs first.
func (r *Recommender) DetectDuplicates(articles []*model.ArticleRecord, threshold float64) []model.DuplicatePair {
	var pairs []model.DuplicatePair

	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			similarity := graph.Jaccard(conceptProfile(articles[i]), conceptProfile(articles[j]))
			if similarity >= threshold {
				pairs = append(pairs, model.DuplicatePair{
					A:          articles[i].ID,
					B:          articles[j].ID,
					Similarity: similarity,
				})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})
	return pairs
}

// GenerateTags produces up to seven hashtags from word frequency plus
// fixed content patterns.
func (r *Recommender) GenerateTags(title, text string) []string {
	combined := strings.ToLower(title + " " + text)
	combined = reURL.ReplaceAllString(combined, "")
	combined = reNonWord.ReplaceAllString(combined, " ")

	freq := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(combined) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > 10 {
		order = order[:10]
	}

	var tags []string
	for _, w := range order {
		if freq[w] > 1 {
			tags = append(tags, "#"+w)
		}
	}

	// Pattern tags
	if strings.Contains(combined, "python") || strings.Contains(combined, "javascript") || strings.Contains(combined, "code") {
		tags = append(tags, "#programming")
	}
	if strings.Contains(combined, "ai") || strings.Contains(combined, "machine learning") {
		tags = append(tags, "#AI")
	}
	if strings.Contains(combined, "tutorial") || strings.Contains(combined, "how to") {
		tags = append(tags, "#tutorial")
	}
	if strings.Contains(combined, "news") || strings.Contains(combined, "breaking") {
		tags = append(tags, "#news")
	}

	tags = dedupe(tags)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// conceptProfile is the text fingerprint used for similarity: concepts
// plus entities plus tags.
func conceptProfile(a *model.ArticleRecord) []string {
	profile := make([]string, 0, len(a.Concepts)+len(a.Entities)+len(a.Tags))
	profile = append(profile, a.Concepts...)
	profile = append(profile, a.Entities...)
	profile = append(profile, a.Tags...)
	return profile
}

func reasonFor(similarity float64) string {
	switch {
	case similarity > 0.7:
		return reasonHighlySimilar
	case similarity > 0.4:
		return reasonRelatedTopic
	default:
		return reasonMightLike
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
