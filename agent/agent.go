// Package agent implements the reasoning loop that connects a model to the
// registered tools: generate, execute requested function calls, feed results
// back, repeat until the model produces a plain text answer.
package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/calagent/core"
	"github.com/hupe1980/calagent/logging"
	"github.com/hupe1980/calagent/model"
	"github.com/hupe1980/calagent/tool"
)

// DefaultMaxToolRounds bounds how many generate/execute cycles a single user
// turn may trigger before the agent gives up.
const DefaultMaxToolRounds = 8

// Options configures the agent.
type Options struct {
	// Instruction is the system prompt prepended to every model request.
	Instruction string

	// MaxToolRounds limits generate/execute cycles per Run call.
	MaxToolRounds int

	// Logger is used for structured diagnostics.
	Logger logging.Logger
}

// Agent orchestrates one model and a set of tools. It holds no conversation
// state of its own; callers pass the transcript into Run.
type Agent struct {
	name          string
	instruction   string
	model         model.Model
	tools         map[string]tool.Tool
	maxToolRounds int
	logger        logging.Logger
}

// New creates an agent around the given model.
func New(name string, m model.Model, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxToolRounds: DefaultMaxToolRounds,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = DefaultMaxToolRounds
	}

	return &Agent{
		name:          name,
		instruction:   opts.Instruction,
		model:         m,
		tools:         make(map[string]tool.Tool),
		maxToolRounds: opts.MaxToolRounds,
		logger:        opts.Logger,
	}
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.name
}

// RegisterTool makes a tool available to the model. Registering a second tool
// with the same name replaces the first.
func (a *Agent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools registers multiple tools at once.
func (a *Agent) RegisterTools(tools []tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// Result is the outcome of one Run call: the final assistant text plus every
// content produced along the way (assistant turns and tool responses) in order.
type Result struct {
	Text     string
	Produced []core.Content
}

// Run drives the reasoning loop over the given conversation history. The
// history must end with the user content being answered. Run returns once the
// model responds without requesting any function calls, or errs when the
// round bound is exceeded.
func (a *Agent) Run(ctx context.Context, sessionID string, history []core.Content) (*Result, error) {
	contents := make([]core.Content, len(history))
	copy(contents, history)

	result := &Result{}

	for round := 0; round < a.maxToolRounds; round++ {
		resp, err := a.model.Generate(ctx, model.Request{
			Instructions: a.instruction,
			Contents:     contents,
			Tools:        a.toolDefinitions(),
		})
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}

		contents = append(contents, resp.Content)
		result.Produced = append(result.Produced, resp.Content)

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			result.Text = resp.Content.Text()
			return result, nil
		}

		a.logger.Debug("agent.tool_round", "agent", a.name, "round", round, "calls", len(calls))

		toolContent := core.Content{Role: "tool"}
		for _, call := range calls {
			toolContent.Parts = append(toolContent.Parts, a.execute(ctx, sessionID, call))
		}

		contents = append(contents, toolContent)
		result.Produced = append(result.Produced, toolContent)
	}

	return nil, fmt.Errorf("agent %q exceeded %d tool rounds without a final answer", a.name, a.maxToolRounds)
}

// execute runs a single function call and wraps the outcome as a response
// part. Tool failures are reported back to the model rather than aborting the
// run, so the model can explain the problem to the user.
func (a *Agent) execute(ctx context.Context, sessionID string, call core.FunctionCall) core.FunctionResponsePart {
	fr := core.FunctionResponse{ID: call.ID, Name: call.Name}

	t, ok := a.tools[call.Name]
	if !ok {
		a.logger.Warn("agent.unknown_tool", "agent", a.name, "tool", call.Name)
		fr.Error = fmt.Sprintf("unknown tool %q", call.Name)
		return core.FunctionResponsePart{FunctionResponse: fr}
	}

	args, err := call.ParsedArguments()
	if err != nil {
		fr.Error = fmt.Sprintf("invalid tool arguments: %s", err)
		return core.FunctionResponsePart{FunctionResponse: fr}
	}

	toolCtx := core.NewToolContext(ctx, sessionID, call.ID, a.logger)

	out, err := t.Call(toolCtx, args)
	if err != nil {
		a.logger.Warn("agent.tool_error", "agent", a.name, "tool", call.Name, "error", err)
		fr.Error = err.Error()
		return core.FunctionResponsePart{FunctionResponse: fr}
	}

	fr.Response = out

	return core.FunctionResponsePart{FunctionResponse: fr}
}

// toolDefinitions renders the registered tools in the generic definition
// format, sorted by name for deterministic requests.
func (a *Agent) toolDefinitions() []model.ToolDefinition {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]model.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := a.tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return defs
}
