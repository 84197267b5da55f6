package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/calagent/core"
	"github.com/hupe1980/calagent/internal/util"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")

	// Required only includes non-pointer, non-omitempty exported fields.
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// []any mirrors a schema round-tripped through JSON.
		"required": []any{"x"},
	}

	assert.NoError(t, util.ValidateParameters(map[string]any{"x": 5}, schema))

	err := util.ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "x", vErr.Field)

	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	require.Error(t, err)
	vErr, ok = err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Message, "expected type integer")

	// JSON numbers arrive as float64; whole values count as integers.
	assert.NoError(t, util.ValidateParameters(map[string]any{"x": float64(7)}, schema))
	assert.Error(t, util.ValidateParameters(map[string]any{"x": 7.5}, schema))
}

// -------------------- FunctionTool Tests --------------------

func newTestContext() *core.ToolContext {
	return core.NewToolContext(context.Background(), "sess", "fc_1", nil)
}

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}

	ft := NewFunctionTool("greet", "Greets a person", params,
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return "Hello, " + args["name"].(string), nil
		},
	)

	assert.Equal(t, "greet", ft.Name())
	assert.Equal(t, "Greets a person", ft.Description())

	out, err := ft.Call(newTestContext(), map[string]any{"name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Jane", out)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}

	ft := NewFunctionTool("greet", "Greets a person", params,
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			t.Fatal("function must not run on validation failure")
			return nil, nil
		},
	)

	_, err := ft.Call(newTestContext(), map[string]any{})
	require.Error(t, err)

	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "greet", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	ft := NewFunctionTool("boom", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return nil, errors.New("kaput")
		},
	)

	_, err := ft.Call(newTestContext(), map[string]any{})
	require.Error(t, err)

	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "kaput", toolErr.Message)
}

func TestFunctionTool_PreservesCustomToolError(t *testing.T) {
	custom := NewToolError("custom", "quota exceeded", "RATE_LIMITED")

	ft := NewFunctionTool("custom", "Returns a typed error",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return nil, custom
		},
	)

	_, err := ft.Call(newTestContext(), map[string]any{})
	require.Error(t, err)
	assert.Same(t, custom, err)
}

func TestFunctionTool_FromStruct(t *testing.T) {
	type echoArgs struct {
		Message string `json:"message" description:"Text to echo"`
	}

	ft := NewFunctionToolFromStruct("echo", "Echoes input", echoArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return args["message"], nil
		},
	)

	out, err := ft.Call(newTestContext(), map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	_, err = ft.Call(newTestContext(), map[string]any{})
	assert.Error(t, err)
}
