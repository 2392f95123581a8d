package pipeline

import (
	"sort"

	"github.com/kri-ruj/readnext/internal/extract"
	"github.com/kri-ruj/readnext/internal/graph"
	"github.com/kri-ruj/readnext/internal/model"
	"github.com/kri-ruj/readnext/internal/score"
	"github.com/kri-ruj/readnext/internal/user"
)

// maxNextArticles caps the predicted follow-up reading list.
const maxNextArticles = 5

// Pipeline runs the full intelligence pass over raw articles. It owns
// the knowledge graph and the user behavior model, so two pipelines
// never share state; graph and model writes are internally guarded,
// which makes batch ingestion through one pipeline safe.
type Pipeline struct {
	analyzer  *extract.ContentAnalyzer
	scorer    *score.Scorer
	graph     *graph.KnowledgeGraph
	userModel *user.BehaviorModel
}

// NewPipeline creates a pipeline with a fresh graph and user model.
func NewPipeline() *Pipeline {
	return &Pipeline{
		analyzer:  extract.NewContentAnalyzer(),
		scorer:    score.NewScorer(),
		graph:     graph.New(),
		userModel: user.NewBehaviorModel(),
	}
}

// NewPipelineWithScorer creates a pipeline around an explicit scorer.
// Tests use this to pin the timing sub-score.
func NewPipelineWithScorer(scorer *score.Scorer) *Pipeline {
	p := NewPipeline()
	p.scorer = scorer
	return p
}

// Graph exposes the pipeline's knowledge graph.
func (p *Pipeline) Graph() *graph.KnowledgeGraph {
	return p.graph
}

// UserModel exposes the pipeline's behavior model.
func (p *Pipeline) UserModel() *user.BehaviorModel {
	return p.userModel
}

// ProcessArticle runs the five ordered phases over raw input: normalize,
// content analysis, scoring, graph insertion, outcome prediction. It
// fails only when id or url is missing; every other degenerate input
// degrades to neutral defaults.
func (p *Pipeline) ProcessArticle(raw model.RawArticle) (*model.ArticleRecord, error) {
	if raw.ID == 0 {
		return nil, &model.ValidationError{Field: "id"}
	}
	if raw.URL == "" {
		return nil, &model.ValidationError{Field: "url"}
	}

	// 1. Normalize
	article := model.NewArticleRecord(raw)

	// 2. Content analysis
	p.analyzer.Analyze(article)

	// 3. Scoring. The graph has not been consulted yet, so the score
	// sees only caller-supplied connections.
	article.QuantumScore = p.scorer.Score(article, p.userModel)

	// 4. Graph insertion, which mirrors the created edges back onto
	// the record
	p.graph.AddArticle(article)

	// 5. Outcome prediction
	p.predictOutcomes(article)

	return article, nil
}

// RecordEngagement folds a completed (or abandoned) reading event into
// the user model.
func (p *Pipeline) RecordEngagement(article *model.ArticleRecord, engagement model.EngagementData) {
	p.userModel.Update(article, engagement)
}

// predictOutcomes derives the forward-looking fields from the scored,
// graph-linked record.
func (p *Pipeline) predictOutcomes(article *model.ArticleRecord) {
	article.ImpactFactor = article.QuantumScore / 1000

	switch {
	case article.CognitiveLoad > 0.7:
		article.OptimalReadTime = "Morning (6-10 AM)"
	case article.CognitiveLoad < 0.3:
		article.OptimalReadTime = "Anytime"
	default:
		article.OptimalReadTime = "Afternoon (2-5 PM)"
	}

	article.EstimatedValue = article.KnowledgeDensity*0.3 +
		article.RetentionProbability*0.3 +
		article.ImpactFactor*0.4

	article.NextArticles = strongestConnections(article, maxNextArticles)
}

// strongestConnections returns the connected article ids ordered by
// relationship strength, strongest first, ties by id.
func strongestConnections(article *model.ArticleRecord, limit int) []int {
	ids := append([]int(nil), article.ConnectedArticles...)
	sort.SliceStable(ids, func(i, j int) bool {
		si := article.RelationshipStrength[ids[i]]
		sj := article.RelationshipStrength[ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})

	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}
