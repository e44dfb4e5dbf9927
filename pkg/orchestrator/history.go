package orchestrator

import (
	"github.com/tmc/langchaingo/llms"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// toLLMMessages converts persisted chat history into provider messages.
// User text becomes human messages, function responses become tool
// messages, and model entries become AI messages carrying any recorded
// tool calls.
func toLLMMessages(history []models.Content) []llms.MessageContent {
	var out []llms.MessageContent
	for _, entry := range history {
		var textual []llms.ContentPart
		var toolResponses []llms.ContentPart

		for _, part := range entry.Parts {
			switch {
			case part.FunctionResponse != nil:
				toolResponses = append(toolResponses, llms.ToolCallResponse{
					ToolCallID: part.FunctionResponse.ID,
					Name:       part.FunctionResponse.Name,
					Content:    string(part.FunctionResponse.Response),
				})
			case part.FunctionCall != nil:
				textual = append(textual, llms.ToolCall{
					ID:   part.FunctionCall.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      part.FunctionCall.Name,
						Arguments: string(part.FunctionCall.Args),
					},
				})
			case part.Text != "":
				textual = append(textual, llms.TextContent{Text: part.Text})
			}
		}

		if len(textual) > 0 {
			role := llms.ChatMessageTypeHuman
			if entry.Role == models.RoleModel {
				role = llms.ChatMessageTypeAI
			}
			out = append(out, llms.MessageContent{Role: role, Parts: textual})
		}
		if len(toolResponses) > 0 {
			out = append(out, llms.MessageContent{Role: llms.ChatMessageTypeTool, Parts: toolResponses})
		}
	}
	return out
}
