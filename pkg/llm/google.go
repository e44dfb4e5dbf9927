package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = "gemini-2.5-flash"

// GoogleClient is the Gemini-backed Client.
type GoogleClient struct {
	model llms.Model
}

// NewGoogleClient connects to the Gemini API.
func NewGoogleClient(ctx context.Context, apiKey, model string) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if model == "" {
		model = DefaultChatModel
	}
	m, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create googleai client: %w", err)
	}
	slog.Info("LLM client configured", "model", model)
	return &GoogleClient{model: m}, nil
}

// Generate streams one model turn. Text deltas are forwarded as they
// arrive; tool calls surface after the stream terminates, which is when
// the provider finalizes them.
func (c *GoogleClient) Generate(ctx context.Context, input GenerateInput) <-chan Chunk {
	chunks := make(chan Chunk, 16)

	go func() {
		defer close(chunks)

		streamedAny := false
		opts := []llms.CallOption{
			llms.WithStreamingFunc(func(ctx context.Context, delta []byte) error {
				if len(delta) == 0 {
					return nil
				}
				streamedAny = true
				select {
				case chunks <- TextChunk{Content: string(delta)}:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		}
		if len(input.Tools) > 0 {
			opts = append(opts, llms.WithTools(input.Tools))
		}

		resp, err := c.model.GenerateContent(ctx, input.Messages, opts...)
		if err != nil {
			chunks <- ErrorChunk{Message: err.Error()}
			return
		}
		if len(resp.Choices) == 0 {
			chunks <- ErrorChunk{Message: "model returned no choices"}
			return
		}
		choice := resp.Choices[0]

		// Some turns (tool-call-only, or non-streaming fallback paths)
		// deliver their text only in the final choice.
		if !streamedAny && choice.Content != "" {
			chunks <- TextChunk{Content: choice.Content}
		}
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall == nil {
				continue
			}
			chunks <- ToolCallChunk{
				CallID:    tc.ID,
				Name:      tc.FunctionCall.Name,
				Arguments: tc.FunctionCall.Arguments,
			}
		}
	}()

	return chunks
}

// GenerateJSON runs a single JSON-mode prompt, used by the scraper's
// description extraction.
func (c *GoogleClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("json generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}
