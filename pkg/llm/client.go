// Package llm wraps the Gemini provider behind a channel-based streaming
// client so the orchestrator can interleave model output with tool
// execution without knowing the SDK.
package llm

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// GenerateInput is one model call: the full conversation plus the tools
// the model may invoke. Tools nil means a text-only call.
type GenerateInput struct {
	Messages []llms.MessageContent
	Tools    []llms.Tool
}

// Client is the interface the orchestrator and scrapers program against.
type Client interface {
	// Generate streams one model turn. The channel is closed when the
	// turn completes; errors arrive as ErrorChunk values.
	Generate(ctx context.Context, input GenerateInput) <-chan Chunk

	// GenerateJSON runs a single non-streaming prompt in JSON mode and
	// returns the raw response text.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// ChunkType identifies the kind of streaming chunk.
type ChunkType string

const (
	ChunkTypeText     ChunkType = "text"
	ChunkTypeToolCall ChunkType = "tool_call"
	ChunkTypeError    ChunkType = "error"
)

// Chunk is the interface for all streaming chunk types.
type Chunk interface {
	chunkType() ChunkType
}

// TextChunk is a delta of the model's text response.
type TextChunk struct{ Content string }

// ToolCallChunk signals the model wants to call a tool.
type ToolCallChunk struct{ CallID, Name, Arguments string }

// ErrorChunk signals a provider error; it is always the last chunk.
type ErrorChunk struct{ Message string }

func (c TextChunk) chunkType() ChunkType     { return ChunkTypeText }
func (c ToolCallChunk) chunkType() ChunkType { return ChunkTypeToolCall }
func (c ErrorChunk) chunkType() ChunkType    { return ChunkTypeError }
