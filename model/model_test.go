package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/calagent/core"
)

func TestMockModel_ScriptedResponses(t *testing.T) {
	mock := NewMockModel("scripted")
	mock.EnqueueFunctionCall("fc_1", "list_scheduled_events", `{"user_email":"a@b.c"}`)
	mock.EnqueueText("All done")

	resp, err := mock.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserContent("list my events")},
	})
	require.NoError(t, err)
	calls := resp.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "list_scheduled_events", calls[0].Name)
	assert.Equal(t, "tool_calls", resp.FinishReason)

	resp, err = mock.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserContent("thanks")},
	})
	require.NoError(t, err)
	assert.Equal(t, "All done", resp.Content.Text())

	assert.Len(t, mock.Requests, 2)
}

func TestMockModel_DefaultEcho(t *testing.T) {
	mock := NewMockModel("echo")

	resp, err := mock.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserContent("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hello", resp.Content.Text())

	_, err = mock.Generate(context.Background(), Request{})
	assert.Error(t, err)
}

func TestMockModel_HonorsContextCancellation(t *testing.T) {
	mock := NewMockModel("cancelled")
	mock.EnqueueText("never returned")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{Contents: []core.Content{core.NewUserContent("hi")}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModel_Info(t *testing.T) {
	mock := NewMockModel("m1")
	info := mock.Info()
	assert.Equal(t, "m1", info.Name)
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}
