package llm

import (
	"context"

	"github.com/kri-ruj/readnext/internal/model"
)

// defaultQuestionCount is the number of questions requested per article.
const defaultQuestionCount = 5

// QuestionGenerator produces study questions, using the configured
// provider when available and the heuristic fallback otherwise.
type QuestionGenerator struct {
	provider Provider
}

// NewQuestionGenerator creates a generator from configuration. With no
// provider configured the generator still works, serving the fallback
// set.
func NewQuestionGenerator(config Config) (*QuestionGenerator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &QuestionGenerator{provider: provider}, nil
}

// HasProvider reports whether an LLM provider is configured.
func (g *QuestionGenerator) HasProvider() bool {
	return g.provider != nil
}

// Generate returns study questions for the article. Provider errors
// degrade to the fallback set; this call never fails.
func (g *QuestionGenerator) Generate(ctx context.Context, article *model.ArticleRecord) []model.StudyQuestion {
	if g.provider == nil {
		return FallbackQuestions(article)
	}

	questions, err := g.provider.GenerateQuestions(ctx, article, defaultQuestionCount)
	if err != nil || len(questions) == 0 {
		return FallbackQuestions(article)
	}
	return questions
}
