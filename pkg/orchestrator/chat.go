package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/B3rK-3/ViewNJIT/pkg/llm"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
	"github.com/B3rK-3/ViewNJIT/pkg/tools"
)

// SessionStore is the per-session persistence the orchestrator needs.
// *session.Store implements it.
type SessionStore interface {
	LoadHistory(ctx context.Context, sessionID string) []models.Content
	SaveHistory(ctx context.Context, sessionID string, history []models.Content) error
	LoadProfile(ctx context.Context, sessionID string) *models.Profile
	SaveProfile(ctx context.Context, sessionID string, p *models.Profile) error
}

// maxIterations bounds the tool round-trips of one turn before the model
// is forced to conclude without tools.
const maxIterations = 16

// scheduleBuffer bounds how many schedules may queue between the
// make_schedule worker and the streaming loop.
const scheduleBuffer = 16

// fallbackPrompt keeps the advisor functional when the prompt file is
// missing; the deployed prompt carries the full advising policy.
const fallbackPrompt = "You are a university course-planning advisor. " +
	"Use the available tools to search courses, check prerequisites, " +
	"maintain the user's academic profile and build schedules. " +
	"A pass in a class is the grade 'C'."

// Orchestrator runs chat turns. One instance serves all sessions; all
// per-session state travels through TurnInput and the session store.
type Orchestrator struct {
	llm      llm.Client
	sessions SessionStore
	deps     tools.Deps

	promptPath string
	promptOnce sync.Once
	promptText string
}

// New creates an orchestrator.
func New(client llm.Client, sessions SessionStore, deps tools.Deps, promptPath string) *Orchestrator {
	return &Orchestrator{llm: client, sessions: sessions, deps: deps, promptPath: promptPath}
}

// TurnInput is one user utterance with its session binding.
type TurnInput struct {
	SessionID   string
	Query       string
	Term        string
	Attachments [][]byte // decoded PDF bytes
}

// RunTurn executes one chat turn, emitting text and schedule frames until
// the model finishes. Session state is written exactly once, after the
// final model response; a cancelled context aborts further model calls.
func (o *Orchestrator) RunTurn(ctx context.Context, in TurnInput, emit EmitFunc) error {
	profile := o.sessions.LoadProfile(ctx, in.SessionID)
	history := o.sessions.LoadHistory(ctx, in.SessionID)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, o.systemInstruction(profile)),
	}
	messages = append(messages, toLLMMessages(history)...)

	userParts := []llms.ContentPart{llms.TextContent{Text: in.Query}}
	for _, pdf := range in.Attachments {
		userParts = append(userParts, llms.BinaryPart("application/pdf", pdf))
	}
	messages = append(messages, llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: userParts})

	// Attachments are not persisted; only the text survives in history.
	history = append(history, models.Content{
		Role:  models.RoleUser,
		Parts: []models.Part{{Text: in.Query}},
	})

	schedCh := make(chan models.Schedule, scheduleBuffer)
	registry := tools.NewRegistry(o.deps, profile, in.Term, func(s models.Schedule) {
		select {
		case schedCh <- s:
		case <-ctx.Done():
		}
	})
	defs := registry.Definitions()

	for iteration := 0; iteration < maxIterations; iteration++ {
		text, calls, err := o.streamModelTurn(ctx, llm.GenerateInput{Messages: messages, Tools: defs}, emit)
		if err != nil {
			return err
		}

		if len(calls) == 0 {
			if text != "" {
				history = append(history, models.Content{
					Role:  models.RoleModel,
					Parts: []models.Part{{Text: text}},
				})
			}
			o.persist(ctx, in.SessionID, history, profile)
			return nil
		}

		messages, history = appendAssistantTurn(messages, history, text, calls)

		for _, call := range calls {
			response := o.executeCall(ctx, registry, call, schedCh, emit)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: call.CallID,
					Name:       call.Name,
					Content:    string(response),
				}},
			})
			history = append(history, models.Content{
				Role: models.RoleUser,
				Parts: []models.Part{{FunctionResponse: &models.FunctionResponse{
					ID:       call.CallID,
					Name:     call.Name,
					Response: response,
				}}},
			})
		}
	}

	// Iteration budget exhausted: one last call without tools forces a
	// text-only conclusion.
	text, _, err := o.streamModelTurn(ctx, llm.GenerateInput{Messages: messages}, emit)
	if err != nil {
		return err
	}
	if text != "" {
		history = append(history, models.Content{
			Role:  models.RoleModel,
			Parts: []models.Part{{Text: text}},
		})
	}
	o.persist(ctx, in.SessionID, history, profile)
	return nil
}

// streamModelTurn runs one model call, forwarding text deltas as frames.
// Returns the accumulated text and any tool calls from the final turn.
func (o *Orchestrator) streamModelTurn(ctx context.Context, input llm.GenerateInput, emit EmitFunc) (string, []llm.ToolCallChunk, error) {
	var text strings.Builder
	var calls []llm.ToolCallChunk

	for chunk := range o.llm.Generate(ctx, input) {
		switch c := chunk.(type) {
		case llm.TextChunk:
			text.WriteString(c.Content)
			if err := emit(Frame{Type: FrameText, Content: c.Content}); err != nil {
				return "", nil, err
			}
		case llm.ToolCallChunk:
			if c.CallID == "" {
				c.CallID = uuid.NewString()
			}
			calls = append(calls, c)
		case llm.ErrorChunk:
			if err := ctx.Err(); err != nil {
				return "", nil, err
			}
			return "", nil, fmt.Errorf("model error: %s", c.Message)
		}
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	return text.String(), calls, nil
}

// executeCall runs one tool call. make_schedule runs on a worker so the
// schedule queue can be drained into frames while the tool is still
// enumerating; every other tool runs to completion directly.
func (o *Orchestrator) executeCall(ctx context.Context, registry *tools.Registry, call llm.ToolCallChunk, schedCh <-chan models.Schedule, emit EmitFunc) json.RawMessage {
	if call.Name != "make_schedule" {
		return registry.Execute(ctx, call.Name, call.Arguments)
	}

	done := make(chan json.RawMessage, 1)
	go func() {
		done <- registry.Execute(ctx, call.Name, call.Arguments)
	}()

	for {
		select {
		case sched := <-schedCh:
			if err := emit(Frame{Type: FrameSchedule, Content: sched}); err != nil {
				// Client gone; the context cancellation stops the
				// producer, we still wait for the worker to finish.
				slog.Debug("Dropping schedule frame after emit failure", "error", err)
			}
		case response := <-done:
			for {
				select {
				case sched := <-schedCh:
					if err := emit(Frame{Type: FrameSchedule, Content: sched}); err != nil {
						return response
					}
				default:
					return response
				}
			}
		}
	}
}

// appendAssistantTurn records the model's tool-calling turn in both the
// provider conversation and the persistable history.
func appendAssistantTurn(messages []llms.MessageContent, history []models.Content, text string, calls []llm.ToolCallChunk) ([]llms.MessageContent, []models.Content) {
	var providerParts []llms.ContentPart
	var historyParts []models.Part

	if text != "" {
		providerParts = append(providerParts, llms.TextContent{Text: text})
		historyParts = append(historyParts, models.Part{Text: text})
	}
	for _, call := range calls {
		providerParts = append(providerParts, llms.ToolCall{
			ID:   call.CallID,
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		})
		historyParts = append(historyParts, models.Part{FunctionCall: &models.FunctionCall{
			ID:   call.CallID,
			Name: call.Name,
			Args: json.RawMessage(call.Arguments),
		}})
	}

	messages = append(messages, llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: providerParts})
	history = append(history, models.Content{Role: models.RoleModel, Parts: historyParts})
	return messages, history
}

// persist writes history and profile back to the session store. Failures
// are logged, not fatal: the turn already streamed to the user.
func (o *Orchestrator) persist(ctx context.Context, sessionID string, history []models.Content, profile *models.Profile) {
	if err := o.sessions.SaveHistory(ctx, sessionID, history); err != nil {
		slog.Error("Failed to persist chat history", "session_id", sessionID, "error", err)
	}
	if err := o.sessions.SaveProfile(ctx, sessionID, profile); err != nil {
		slog.Error("Failed to persist profile", "session_id", sessionID, "error", err)
	}
}

// systemInstruction assembles the fixed prompt plus the serialized profile.
func (o *Orchestrator) systemInstruction(profile *models.Profile) string {
	o.promptOnce.Do(func() {
		raw, err := os.ReadFile(o.promptPath)
		if err != nil {
			slog.Warn("Prompt file not readable, using fallback prompt",
				"path", o.promptPath, "error", err)
			o.promptText = fallbackPrompt
			return
		}
		o.promptText = strings.TrimSpace(string(raw))
	})

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		profileJSON = []byte("{}")
	}
	return o.promptText + "\n\nUser's current profile: " + string(profileJSON)
}
