package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"recipe_chatbot/config"
)

// ChatCompleter is the part of *openai.Client the generator depends on.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Generator struct {
	client      ChatCompleter
	model       string
	maxAttempts int
	retryDelay  time.Duration
	limiter     *rate.Limiter // nil when unlimited
}

// Option customises a Generator.
type Option func(*Generator)

// WithRetry sets the total number of attempts and the flat delay between them.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(g *Generator) {
		if maxAttempts > 0 {
			g.maxAttempts = maxAttempts
		}
		if delay >= 0 {
			g.retryDelay = delay
		}
	}
}

// WithRequestsPerMinute throttles outbound calls. Zero disables throttling.
func WithRequestsPerMinute(rpm int) Option {
	return func(g *Generator) {
		if rpm <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
	}
}

func NewGenerator(client ChatCompleter, model string, opts ...Option) *Generator {
	g := &Generator{
		client:      client,
		model:       model,
		maxAttempts: 3,
		retryDelay:  time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGeneratorFromConfig builds an OpenAI-backed generator from application config.
func NewGeneratorFromConfig(cfg config.Config) *Generator {
	clientConfig := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	return NewGenerator(client, cfg.ModelName,
		WithRetry(cfg.LLMMaxAttempts, cfg.LLMRetryDelay),
		WithRequestsPerMinute(cfg.LLMRequestsPerMinute),
	)
}

// Model returns the model name sent with every request.
func (g *Generator) Model() string {
	return g.model
}

func (g *Generator) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}
