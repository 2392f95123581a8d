package llm

import (
	"context"
	"fmt"

	"github.com/kri-ruj/readnext/internal/model"
)

// Provider generates study questions for an article. Generated
// questions are presentation-only: they never feed back into scoring.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// GenerateQuestions produces comprehension questions for the
	// article.
	GenerateQuestions(ctx context.Context, article *model.ArticleRecord, count int) ([]model.StudyQuestion, error)

	// IsAvailable checks if the provider is properly configured and
	// reachable.
	IsAvailable(ctx context.Context) bool
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the hosted API
	APIKey string

	// BaseURL for OpenAI-compatible endpoints (e.g. a local Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens limits the response length
	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}

// NewProvider creates a provider from configuration. An empty provider
// name returns (nil, nil): questions fall back to the heuristic set.
func NewProvider(config Config) (Provider, error) {
	switch config.Provider {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// BuildPrompt constructs the question-generation prompt. The content is
// truncated so short context models are not overrun.
func BuildPrompt(article *model.ArticleRecord, count int) string {
	content := article.AnalysisText()
	if len(content) > 1500 {
		content = content[:1500]
	}

	return fmt.Sprintf(`Generate %d comprehension questions for this article:
Title: %s
Content: %s

Return a JSON array of objects with "question", "type" (multiple_choice/short_answer/true_false) and "difficulty" (easy/medium/hard).
For multiple choice, include an "options" array and "correct_answer".
Do not include any text outside the JSON array.`, count, article.Title, content)
}

// FallbackQuestions returns the fixed heuristic question set used when
// no provider is configured or the provider fails.
func FallbackQuestions(article *model.ArticleRecord) []model.StudyQuestion {
	return []model.StudyQuestion{
		{
			Question:   fmt.Sprintf("What is the main topic of '%s'?", article.Title),
			Type:       "short_answer",
			Difficulty: "easy",
		},
		{
			Question:   "What are the key points discussed in this article?",
			Type:       "short_answer",
			Difficulty: "medium",
		},
		{
			Question:   "How would you apply the concepts from this article?",
			Type:       "short_answer",
			Difficulty: "hard",
		},
	}
}
