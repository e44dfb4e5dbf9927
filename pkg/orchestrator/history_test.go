package orchestrator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

func TestToLLMMessagesRoles(t *testing.T) {
	history := []models.Content{
		{Role: models.RoleUser, Parts: []models.Part{{Text: "hi"}}},
		{Role: models.RoleModel, Parts: []models.Part{
			{Text: "checking"},
			{FunctionCall: &models.FunctionCall{ID: "c1", Name: "get_term", Args: json.RawMessage(`{}`)}},
		}},
		{Role: models.RoleUser, Parts: []models.Part{
			{FunctionResponse: &models.FunctionResponse{ID: "c1", Name: "get_term", Response: json.RawMessage(`"2026 Spring"`)}},
		}},
		{Role: models.RoleModel, Parts: []models.Part{{Text: "It's spring."}}},
	}

	messages := toLLMMessages(history)
	require.Len(t, messages, 4)

	assert.Equal(t, llms.ChatMessageTypeHuman, messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeTool, messages[2].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, messages[3].Role)

	// The AI turn carries both its text and the recorded tool call.
	require.Len(t, messages[1].Parts, 2)
	call, ok := messages[1].Parts[1].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "get_term", call.FunctionCall.Name)

	resp, ok := messages[2].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "c1", resp.ToolCallID)
}

func TestToLLMMessagesSkipsEmptyEntries(t *testing.T) {
	messages := toLLMMessages([]models.Content{
		{Role: models.RoleUser, Parts: []models.Part{{}}},
	})
	assert.Empty(t, messages)
}
