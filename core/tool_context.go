package core

import (
	"context"

	"github.com/hupe1980/calagent/logging"
)

// ToolContext provides a constrained, auditable surface for tool / function
// implementations invoked by an agent. Tools receive the invocation context,
// a correlation id for the originating function call, and a logger. Tools
// hold no reference to the conversation itself; everything they need arrives
// through their explicit arguments.
type ToolContext struct {
	ctx            context.Context
	sessionID      string
	functionCallID string
	logger         logging.Logger
}

// NewToolContext constructs a tool context bound to an invocation.
func NewToolContext(ctx context.Context, sessionID, functionCallID string, logger logging.Logger) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:            ctx,
		sessionID:      sessionID,
		functionCallID: functionCallID,
		logger:         logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context {
	if tc.ctx == nil {
		return context.Background()
	}
	return tc.ctx
}

// SessionID returns the session ID associated with the tool invocation.
func (tc *ToolContext) SessionID() string { return tc.sessionID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
