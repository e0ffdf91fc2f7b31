package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	log "github.com/sirupsen/logrus"

	"recipe_chatbot/internal/types"
	"recipe_chatbot/internal/utils"
)

// ExhaustedRetriesError is returned once every attempt of a structured call failed.
type ExhaustedRetriesError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("structured call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Err
}

// CallStructured sends messages and decodes the reply into T, using a JSON
// schema derived from T as the requested response format. Any failure is
// retried with a flat delay until the attempt budget runs out.
func CallStructured[T any](ctx context.Context, g *Generator, messages []types.Message) (T, error) {
	var zero T

	schema, err := jsonschema.GenerateSchemaForType(zero)
	if err != nil {
		return zero, fmt.Errorf("failed to build response schema: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: toOpenAIMessages(messages),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName[T](),
				Schema: schema,
				Strict: true,
			},
		},
	}

	attempts := 0
	var result T
	operation := func() error {
		attempts++
		if err := g.wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return fmt.Errorf("openai chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return errors.New("openai returned empty response")
		}

		var parsed T
		if err := schema.Unmarshal(utils.CleanJSONOutput(resp.Choices[0].Message.Content), &parsed); err != nil {
			return fmt.Errorf("failed to parse structured output: %w", err)
		}
		result = parsed
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(g.retryDelay), uint64(g.maxAttempts-1)),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		log.WithFields(log.Fields{
			"attempt":   attempts,
			"transient": utils.IsTransient(err),
			"retry_in":  next,
		}).Warnf("Structured LLM call failed, retrying: %v", err)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return zero, &ExhaustedRetriesError{Attempts: attempts, Err: err}
	}
	return result, nil
}

// TryStructured is CallStructured folded into a Result.
func TryStructured[T any](ctx context.Context, g *Generator, messages []types.Message) types.Result[T] {
	value, err := CallStructured[T](ctx, g, messages)
	if err != nil {
		return types.Fail[T](err)
	}
	return types.Ok(value)
}

func schemaName[T any]() string {
	var zero T
	name := fmt.Sprintf("%T", zero)
	// "types.QueriesList" -> "QueriesList"
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

func toOpenAIMessages(messages []types.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
