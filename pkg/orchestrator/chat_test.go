package orchestrator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/llm"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
	"github.com/B3rK-3/ViewNJIT/pkg/schedule"
	"github.com/B3rK-3/ViewNJIT/pkg/tools"
)

const testTerm = "202610"

// fakeLLM plays back scripted turns.
type fakeTurn struct {
	text  []string
	calls []llm.ToolCallChunk
}

type fakeLLM struct {
	turns []fakeTurn
	calls []llm.GenerateInput
}

func (f *fakeLLM) Generate(_ context.Context, input llm.GenerateInput) <-chan llm.Chunk {
	f.calls = append(f.calls, input)
	turn := fakeTurn{}
	if len(f.turns) > 0 {
		turn = f.turns[0]
		f.turns = f.turns[1:]
	}
	ch := make(chan llm.Chunk, len(turn.text)+len(turn.calls))
	for _, t := range turn.text {
		ch <- llm.TextChunk{Content: t}
	}
	for _, c := range turn.calls {
		ch <- c
	}
	close(ch)
	return ch
}

func (f *fakeLLM) GenerateJSON(context.Context, string) (string, error) { return "{}", nil }

// memorySessions is an in-memory SessionStore.
type memorySessions struct {
	histories map[string][]models.Content
	profiles  map[string]*models.Profile
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		histories: map[string][]models.Content{},
		profiles:  map[string]*models.Profile{},
	}
}

func (m *memorySessions) LoadHistory(_ context.Context, id string) []models.Content {
	return m.histories[id]
}

func (m *memorySessions) SaveHistory(_ context.Context, id string, h []models.Content) error {
	m.histories[id] = h
	return nil
}

func (m *memorySessions) LoadProfile(_ context.Context, id string) *models.Profile {
	if p, ok := m.profiles[id]; ok {
		return p
	}
	return models.NewProfile()
}

func (m *memorySessions) SaveProfile(_ context.Context, id string, p *models.Profile) error {
	m.profiles[id] = p
	return nil
}

func testDeps() tools.Deps {
	sections := func(id, days string) models.SectionEntry {
		return models.SectionEntry{id, "1" + id, days, "10:00 AM - 11:20 AM",
			"Room 1", "Open", "30", "10", "Doe, Jane", "Face-to-Face", "3", "", ""}
	}
	store := catalog.NewStore()
	store.ReplaceAll(map[string]*models.Course{
		"CS 101": {Title: "Intro", Desc: "d", Sections: map[string]models.SectionInfo{
			testTerm: {"001": sections("001", "MW")},
		}},
		"MATH 111": {Title: "Calc", Desc: "d", Sections: map[string]models.SectionInfo{
			testTerm: {"001": sections("001", "TR")},
		}},
	})
	return tools.Deps{
		Catalog:   store,
		Lecturers: catalog.NewLecturerMap(),
		Builder:   schedule.NewBuilder(store, catalog.NewLecturerMap()),
	}
}

func collectFrames(frames *[]Frame) EmitFunc {
	return func(f Frame) error {
		*frames = append(*frames, f)
		return nil
	}
}

func TestRunTurnTextOnly(t *testing.T) {
	sessions := newMemorySessions()
	model := &fakeLLM{turns: []fakeTurn{
		{text: []string{"Hello ", "there."}},
	}}
	orch := New(model, sessions, testDeps(), "missing-prompt.txt")

	var frames []Frame
	err := orch.RunTurn(context.Background(), TurnInput{
		SessionID: "s1", Query: "hi", Term: testTerm,
	}, collectFrames(&frames))
	require.NoError(t, err)

	require.Len(t, frames, 2)
	assert.Equal(t, FrameText, frames[0].Type)
	assert.Equal(t, "Hello ", frames[0].Content)

	history := sessions.histories["s1"]
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Parts[0].Text)
	assert.Equal(t, models.RoleModel, history[1].Role)
	assert.Equal(t, "Hello there.", history[1].Parts[0].Text)
}

func TestRunTurnScheduleStreamingOrder(t *testing.T) {
	sessions := newMemorySessions()
	model := &fakeLLM{turns: []fakeTurn{
		{
			text: []string{"Building your schedule."},
			calls: []llm.ToolCallChunk{{
				CallID:    "c1",
				Name:      "make_schedule",
				Arguments: `{"courses":["CS 101","MATH 111"],"max_days":5}`,
			}},
		},
		{text: []string{"Done, one schedule found."}},
	}}
	orch := New(model, sessions, testDeps(), "missing-prompt.txt")

	var frames []Frame
	err := orch.RunTurn(context.Background(), TurnInput{
		SessionID: "s1", Query: "make me a schedule", Term: testTerm,
	}, collectFrames(&frames))
	require.NoError(t, err)

	// Wire order: text, then every schedule frame, then text.
	var kinds []string
	scheduleCount := 0
	for _, f := range frames {
		kinds = append(kinds, f.Type)
		if f.Type == FrameSchedule {
			scheduleCount++
		}
	}
	assert.Equal(t, []string{FrameText, FrameSchedule, FrameText}, kinds)
	assert.Equal(t, 1, scheduleCount)

	// The tool round-trip is recorded in history: user text, model call,
	// function response, final model text.
	history := sessions.histories["s1"]
	require.Len(t, history, 4)
	assert.NotNil(t, history[1].Parts[1].FunctionCall)
	assert.Equal(t, "make_schedule", history[1].Parts[1].FunctionCall.Name)
	require.NotNil(t, history[2].Parts[0].FunctionResponse)
	assert.Equal(t, "make_schedule", history[2].Parts[0].FunctionResponse.Name)

	var result schedule.Result
	require.NoError(t, json.Unmarshal(history[2].Parts[0].FunctionResponse.Response, &result))
	assert.Len(t, result.Schedules, 1)
}

func TestRunTurnProfileMutationPersisted(t *testing.T) {
	sessions := newMemorySessions()
	model := &fakeLLM{turns: []fakeTurn{
		{calls: []llm.ToolCallChunk{{
			CallID: "c1",
			Name:   "update_user_profile",
			// Provider envelope quirk: arguments wrapped in args.
			Arguments: `{"args":{"courses":[{"name":"cs101","grade":"A"}]}}`,
		}}},
		{text: []string{"Noted."}},
	}}
	orch := New(model, sessions, testDeps(), "missing-prompt.txt")

	var frames []Frame
	err := orch.RunTurn(context.Background(), TurnInput{
		SessionID: "s1", Query: "I got an A in cs101", Term: testTerm,
	}, collectFrames(&frames))
	require.NoError(t, err)

	profile := sessions.profiles["s1"]
	require.NotNil(t, profile)
	assert.Equal(t, "A", profile.Courses["CS 101"].Grade)
	assert.False(t, profile.NewUser)
}

func TestRunTurnSecondTurnSeesHistory(t *testing.T) {
	sessions := newMemorySessions()
	sessions.histories["s1"] = []models.Content{
		{Role: models.RoleUser, Parts: []models.Part{{Text: "earlier question"}}},
		{Role: models.RoleModel, Parts: []models.Part{{Text: "earlier answer"}}},
	}
	model := &fakeLLM{turns: []fakeTurn{{text: []string{"ok"}}}}
	orch := New(model, sessions, testDeps(), "missing-prompt.txt")

	var frames []Frame
	err := orch.RunTurn(context.Background(), TurnInput{
		SessionID: "s1", Query: "follow-up", Term: testTerm,
	}, collectFrames(&frames))
	require.NoError(t, err)

	// system + 2 history entries + new user message.
	require.Len(t, model.calls, 1)
	assert.Len(t, model.calls[0].Messages, 4)
	assert.Len(t, sessions.histories["s1"], 4)
}

func TestRunTurnUnknownToolSurfacesError(t *testing.T) {
	sessions := newMemorySessions()
	model := &fakeLLM{turns: []fakeTurn{
		{calls: []llm.ToolCallChunk{{CallID: "c1", Name: "not_a_tool", Arguments: "{}"}}},
		{text: []string{"sorry"}},
	}}
	orch := New(model, sessions, testDeps(), "missing-prompt.txt")

	var frames []Frame
	err := orch.RunTurn(context.Background(), TurnInput{
		SessionID: "s1", Query: "hi", Term: testTerm,
	}, collectFrames(&frames))
	require.NoError(t, err)

	history := sessions.histories["s1"]
	var found bool
	for _, entry := range history {
		for _, part := range entry.Parts {
			if part.FunctionResponse != nil && part.FunctionResponse.Name == "not_a_tool" {
				found = true
				assert.Contains(t, string(part.FunctionResponse.Response), "Unknown tool")
			}
		}
	}
	assert.True(t, found, "error function response must be recorded")
}
