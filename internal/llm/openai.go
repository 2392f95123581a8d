package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates study questions through the Chat
// Completions API. A custom BaseURL points it at any OpenAI-compatible
// endpoint.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is reachable.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// GenerateQuestions asks the model for comprehension questions and
// parses the JSON array out of the response. A malformed response
// degrades to the heuristic fallback set rather than failing.
func (p *OpenAIProvider) GenerateQuestions(ctx context.Context, article *model.ArticleRecord, count int) ([]model.StudyQuestion, error) {
	chatModel := p.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an educational assessment expert.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(article, count),
			},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	questions, err := parseQuestions(resp.Choices[0].Message.Content)
	if err != nil {
		return FallbackQuestions(article), nil
	}
	return questions, nil
}

// parseQuestions extracts the JSON array from the completion text,
// tolerating prose around it.
func parseQuestions(content string) ([]model.StudyQuestion, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var questions []model.StudyQuestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &questions); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions parsed")
	}
	return questions, nil
}
