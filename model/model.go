package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/calagent/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by the agent.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt
	Contents     []core.Content   `json:"contents"`     // Conversation history converted to provider messages
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the complete output of one generation call. Content may carry
// text parts, function call parts, or both.
type Response struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the agent to drive generation.
// Each user chat turn triggers at most one reasoning cycle; generation is a
// single blocking call, no streaming, no partial results.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests. Responses are
// scripted in order; each Generate call pops the next one and records the
// request it received.
type MockModel struct {
	info     Info
	scripted []Response
	Requests []Request
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{Name: name, Provider: "mock", SupportsTools: true},
	}
}

// EnqueueText scripts a plain text assistant response.
func (m *MockModel) EnqueueText(text string) {
	m.scripted = append(m.scripted, Response{
		Content:      core.NewAssistantContent(text),
		FinishReason: "stop",
	})
}

// EnqueueFunctionCall scripts a response requesting one tool invocation.
func (m *MockModel) EnqueueFunctionCall(id, name, arguments string) {
	m.scripted = append(m.scripted, Response{
		Content: core.Content{
			Role: "assistant",
			Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        id,
				Name:      name,
				Arguments: arguments,
			}}},
		},
		FinishReason: "tool_calls",
	})
}

// EnqueueResponse scripts an arbitrary response.
func (m *MockModel) EnqueueResponse(resp Response) {
	m.scripted = append(m.scripted, resp)
}

// Generate implements Model; returns the next scripted response.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.Requests = append(m.Requests, req)

	if len(m.scripted) == 0 {
		if len(req.Contents) == 0 {
			return nil, fmt.Errorf("no contents provided")
		}
		last := req.Contents[len(req.Contents)-1]
		resp := Response{
			Content:      core.NewAssistantContent(fmt.Sprintf("Mock response to: %s", last.Text())),
			FinishReason: "stop",
		}
		return &resp, nil
	}

	resp := m.scripted[0]
	m.scripted = m.scripted[1:]
	return &resp, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
