// Package aitest provides an in-memory ChatCompleter for tests.
package aitest

import (
	"context"
	"encoding/json"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// RespondFunc produces the reply for the n-th call (1-based) of a fake.
type RespondFunc func(n int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

// FakeCompleter records requests and delegates replies to Respond. It is safe
// for concurrent use.
type FakeCompleter struct {
	Respond RespondFunc

	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
}

func (f *FakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return f.Respond(n, req)
}

// Calls returns how many requests were made.
func (f *FakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of every recorded request.
func (f *FakeCompleter) Requests() []openai.ChatCompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]openai.ChatCompletionRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Reply builds a single-choice response carrying content.
func Reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

// JSONReply marshals v and wraps it with Reply.
func JSONReply(v any) openai.ChatCompletionResponse {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Reply(string(data))
}

// LastUserContent returns the content of the last user message in req.
func LastUserContent(req openai.ChatCompletionRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == openai.ChatMessageRoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}
