package models

import "encoding/json"

// Chat history roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// FunctionCall is a model request to invoke a tool.
type FunctionCall struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// FunctionResponse carries a tool result back to the model.
type FunctionResponse struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Response json.RawMessage `json:"response,omitempty"`
}

// Part is exactly one of text, function_call or function_response.
// No other part fields are ever persisted; provider-internal fields
// (thought signatures etc.) are dropped at serialization time.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"function_call,omitempty"`
	FunctionResponse *FunctionResponse `json:"function_response,omitempty"`
}

// Content is one entry of the chat history.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}
