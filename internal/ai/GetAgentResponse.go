package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"recipe_chatbot/internal/ai/prompts"
	"recipe_chatbot/internal/types"
)

// GetAgentResponse runs one chat turn. The system prompt is prepended when the
// history does not start with a system entry. The returned history is a fresh
// slice ending in the assistant reply; history itself is left untouched.
// Provider errors are returned as-is (wrapped), never retried or swallowed.
func (g *Generator) GetAgentResponse(ctx context.Context, history []types.Message) ([]types.Message, error) {
	current := WithSystemPrompt(history)

	reply, err := g.complete(ctx, current)
	if err != nil {
		return nil, err
	}

	updated := make([]types.Message, len(current), len(current)+1)
	copy(updated, current)
	return append(updated, types.Message{Role: types.RoleAssistant, Content: reply}), nil
}

// GenerateRecipe answers a single query with the chef system prompt.
func (g *Generator) GenerateRecipe(ctx context.Context, query string) (string, error) {
	return g.complete(ctx, []types.Message{
		{Role: types.RoleSystem, Content: prompts.SystemPrompt},
		{Role: types.RoleUser, Content: query},
	})
}

// WithSystemPrompt returns a copy of history that is guaranteed to begin with a
// system entry.
func WithSystemPrompt(history []types.Message) []types.Message {
	if len(history) > 0 && history[0].Role == types.RoleSystem {
		out := make([]types.Message, len(history))
		copy(out, history)
		return out
	}
	out := make([]types.Message, 0, len(history)+1)
	out = append(out, types.Message{Role: types.RoleSystem, Content: prompts.SystemPrompt})
	return append(out, history...)
}

func (g *Generator) complete(ctx context.Context, messages []types.Message) (string, error) {
	if err := g.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		log.Warnf("OpenAI usage for empty response: %+v", resp.Usage)
		return "", errors.New("openai returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
