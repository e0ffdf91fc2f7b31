package ai

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe_chatbot/internal/ai/aitest"
	"recipe_chatbot/internal/ai/prompts"
	"recipe_chatbot/internal/types"
)

func echoCompleter(reply string) *aitest.FakeCompleter {
	return &aitest.FakeCompleter{Respond: func(int, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return aitest.Reply(reply), nil
	}}
}

func TestGetAgentResponsePrependsSystemPrompt(t *testing.T) {
	tests := []struct {
		name    string
		history []types.Message
	}{
		{name: "empty history", history: nil},
		{name: "user first", history: []types.Message{{Role: types.RoleUser, Content: "what's for dinner?"}}},
		{name: "assistant first", history: []types.Message{
			{Role: types.RoleAssistant, Content: "hi!"},
			{Role: types.RoleUser, Content: "pasta please"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := echoCompleter("  Try a lemony orzo.  ")
			g := newTestGenerator(fake)

			got, err := g.GetAgentResponse(context.Background(), tt.history)
			require.NoError(t, err)

			require.Len(t, got, len(tt.history)+2)
			assert.Equal(t, types.Message{Role: types.RoleSystem, Content: prompts.SystemPrompt}, got[0])
			assert.Equal(t, tt.history, nilIfEmpty(got[1:len(got)-1]))
			assert.Equal(t, types.Message{Role: types.RoleAssistant, Content: "Try a lemony orzo."}, got[len(got)-1])

			sent := fake.Requests()[0].Messages
			require.Len(t, sent, len(tt.history)+1)
			assert.Equal(t, openai.ChatMessageRoleSystem, sent[0].Role)
		})
	}
}

func TestGetAgentResponseKeepsExistingSystemPrompt(t *testing.T) {
	history := []types.Message{
		{Role: types.RoleSystem, Content: "You only cook with cabbage."},
		{Role: types.RoleUser, Content: "dinner idea?"},
	}
	fake := echoCompleter("Charred cabbage wedges.")

	got, err := newTestGenerator(fake).GetAgentResponse(context.Background(), history)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "You only cook with cabbage.", got[0].Content)
	systemCount := 0
	for _, m := range got {
		if m.Role == types.RoleSystem {
			systemCount++
		}
	}
	assert.Equal(t, 1, systemCount)
	assert.Len(t, fake.Requests()[0].Messages, 2)
}

func TestGetAgentResponseDoesNotMutateHistory(t *testing.T) {
	// Spare capacity would let a careless append write into the caller's array.
	backing := make([]types.Message, 2, 8)
	backing[0] = types.Message{Role: types.RoleSystem, Content: "sys"}
	backing[1] = types.Message{Role: types.RoleUser, Content: "soup?"}
	history := backing[:2]
	snapshot := append([]types.Message(nil), history...)

	got, err := newTestGenerator(echoCompleter("Miso soup.")).GetAgentResponse(context.Background(), history)
	require.NoError(t, err)

	assert.Equal(t, snapshot, history)
	assert.Len(t, history, 2)
	assert.Equal(t, types.Message{}, backing[:3][2], "caller's spare capacity must stay untouched")

	got[0].Content = "changed"
	assert.Equal(t, "sys", history[0].Content, "result must not alias the caller's slice")
}

func TestGetAgentResponseSurfacesProviderError(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: 401, Message: "invalid api key"}
	fake := &aitest.FakeCompleter{Respond: func(int, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, apiErr
	}}

	got, err := newTestGenerator(fake).GetAgentResponse(context.Background(), []types.Message{{Role: types.RoleUser, Content: "hi"}})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Equal(t, 1, fake.Calls(), "chat turns are not retried")
}

func TestGetAgentResponseNoChoices(t *testing.T) {
	fake := &aitest.FakeCompleter{Respond: func(int, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, nil
	}}

	_, err := newTestGenerator(fake).GetAgentResponse(context.Background(), nil)
	assert.Error(t, err)
}

func TestGenerateRecipe(t *testing.T) {
	fake := echoCompleter("Roasted eggplant with tahini.\n")

	recipe, err := newTestGenerator(fake).GenerateRecipe(context.Background(), "eggplant for a dinner party")
	require.NoError(t, err)
	assert.Equal(t, "Roasted eggplant with tahini.", recipe)

	sent := fake.Requests()[0].Messages
	require.Len(t, sent, 2)
	assert.Equal(t, prompts.SystemPrompt, sent[0].Content)
	assert.Equal(t, "eggplant for a dinner party", sent[1].Content)
}

func nilIfEmpty(m []types.Message) []types.Message {
	if len(m) == 0 {
		return nil
	}
	return m
}
