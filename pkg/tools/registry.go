// Package tools builds the per-request tool surface the model may invoke.
// Every tool is bound to the calling session's profile and the request's
// term; execution failures are returned as structured values inside the
// function response, never as errors that cross the orchestrator boundary.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
	"github.com/B3rK-3/ViewNJIT/pkg/schedule"
	"github.com/B3rK-3/ViewNJIT/pkg/semantic"
)

// Deps are the process-global stores the tools read.
type Deps struct {
	Catalog   *catalog.Store
	Lecturers *catalog.LecturerMap
	Index     *semantic.Index
	Builder   *schedule.Builder
}

// Tool is one named operation with its JSON schema and handler.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Run         func(ctx context.Context, args json.RawMessage) (any, error)
}

// Registry is the tool set for a single chat turn.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry binds all six tools to the session profile and term.
// emitSchedule receives partial schedules while make_schedule runs; it may
// be nil when streaming is not wired (tests, scripts).
func NewRegistry(deps Deps, profile *models.Profile, term string, emitSchedule func(models.Schedule)) *Registry {
	r := &Registry{tools: map[string]*Tool{}}
	r.add(newCourseQueryTool(deps, profile, term))
	r.add(newUpdateProfileTool(deps, profile))
	r.add(newCourseDescriptionTool(deps))
	r.add(newCanTakeCourseTool(deps, profile))
	r.add(newMakeScheduleTool(deps, term, emitSchedule))
	r.add(newGetTermTool(term))
	return r
}

func (r *Registry) add(t *Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions renders the tool set for the model, in registration order.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}

// Execute runs one tool call and returns the JSON function response.
// Unknown tools, argument decode failures and handler errors all come
// back as {"error": ...} so the model can decide how to recover.
func (r *Registry) Execute(ctx context.Context, name, rawArgs string) json.RawMessage {
	t, ok := r.tools[name]
	if !ok {
		return errorResponse(fmt.Sprintf("Unknown tool: %s", name))
	}

	args := UnwrapEnvelope([]byte(rawArgs))
	result, err := t.Run(ctx, args)
	if err != nil {
		slog.Warn("Tool execution failed", "tool", name, "error", err)
		return errorResponse(err.Error())
	}

	raw, err := json.Marshal(result)
	if err != nil {
		slog.Error("Tool result not serializable", "tool", name, "error", err)
		return errorResponse("internal error")
	}
	return raw
}

// UnwrapEnvelope removes the single {"args": {...}} wrapper some provider
// responses put around tool arguments. Exactly one level is unwrapped and
// only when "args" is the lone key holding an object.
func UnwrapEnvelope(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return raw
	}
	inner, ok := outer["args"]
	if !ok || len(outer) != 1 {
		return raw
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(inner, &probe); err != nil {
		return raw
	}
	return inner
}

func errorResponse(msg string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"error": msg})
	return raw
}

func decodeArgs(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
