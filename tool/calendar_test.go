package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/calagent/calcom"
	"github.com/hupe1980/calagent/core"
)

// calServer fakes the v2 API surface the calendar tools exercise.
type calServer struct {
	bookings   []map[string]any
	eventTypes []map[string]any

	listStatus   int
	cancelStatus int

	createdPayload map[string]any
}

func (s *calServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bookings" && r.Method == http.MethodGet:
			if s.listStatus != 0 {
				w.WriteHeader(s.listStatus)
				_, _ = w.Write([]byte(`{"message":"service unavailable"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": s.bookings})
		case r.URL.Path == "/bookings" && r.Method == http.MethodPost:
			_ = json.NewDecoder(r.Body).Decode(&s.createdPayload)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"uid": "bk_new", "title": s.createdPayload["title"]},
			})
		case r.URL.Path == "/event-types":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": s.eventTypes})
		case r.URL.Path == "/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "Jane Doe"}})
		case strings.HasSuffix(r.URL.Path, "/cancel"):
			if s.cancelStatus != 0 {
				w.WriteHeader(s.cancelStatus)
				_, _ = w.Write([]byte(`{"message":"booking not found"}`))
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	})
}

func newToolClient(t *testing.T, s *calServer) *calcom.Client {
	t.Helper()

	srv := httptest.NewServer(s.handler())
	t.Cleanup(srv.Close)

	client, err := calcom.New(calcom.Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func testToolCtx() *core.ToolContext {
	return core.NewToolContext(context.Background(), "sess", "fc_1", nil)
}

func TestNewCalendarTools_NamesAndSchemas(t *testing.T) {
	tools := NewCalendarTools(newToolClient(t, &calServer{}))
	require.Len(t, tools, 3)

	names := make([]string, 0, len(tools))
	for _, tl := range tools {
		names = append(names, tl.Name())
		assert.NotEmpty(t, tl.Description())
		assert.Equal(t, "object", tl.Parameters()["type"])
	}
	assert.ElementsMatch(t, []string{ToolListScheduledEvents, ToolBookEvent, ToolCancelEvent}, names)
}

func TestListScheduledEvents_TwoBookings(t *testing.T) {
	client := newToolClient(t, &calServer{bookings: []map[string]any{
		{"uid": "bk_1", "title": "Standup", "start": "2024-08-15T14:00:00.000Z"},
		{"uid": "bk_2", "title": "Review", "start": "2024-08-16T10:00:00.000Z"},
	}})
	listTool := NewListScheduledEventsTool(client)

	out, err := listTool.Call(testToolCtx(), map[string]any{"user_email": "jane@example.com"})
	require.NoError(t, err)

	text, ok := out.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "Here are your scheduled events:"))

	lines := strings.Split(text, "\n")[1:]
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Title: Standup")
	assert.Contains(t, lines[0], "Booking ID: bk_1")
	assert.Contains(t, lines[1], "Title: Review")
	assert.Contains(t, lines[1], "Booking ID: bk_2")
}

func TestListScheduledEvents_Empty(t *testing.T) {
	listTool := NewListScheduledEventsTool(newToolClient(t, &calServer{}))

	out, err := listTool.Call(testToolCtx(), map[string]any{"user_email": "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "No scheduled events found for jane@example.com.", out)
}

func TestListScheduledEvents_RemoteFailure(t *testing.T) {
	listTool := NewListScheduledEventsTool(newToolClient(t, &calServer{listStatus: 503}))

	out, err := listTool.Call(testToolCtx(), map[string]any{"user_email": "jane@example.com"})
	require.NoError(t, err)

	text, ok := out.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "API Error: Failed to retrieve events."))
	assert.Contains(t, text, "service unavailable")
}

func TestListScheduledEvents_MissingEmailFailsValidation(t *testing.T) {
	listTool := NewListScheduledEventsTool(newToolClient(t, &calServer{}))

	_, err := listTool.Call(testToolCtx(), map[string]any{})
	require.Error(t, err)

	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestBookEvent_Success(t *testing.T) {
	server := &calServer{eventTypes: []map[string]any{
		{"id": 42, "slug": "30min", "title": "30 Min Meeting", "length": 30},
	}}
	bookTool := NewBookEventTool(newToolClient(t, server), "30min")

	out, err := bookTool.Call(testToolCtx(), map[string]any{
		"start_time": "2024-08-15T14:00:00.000Z",
		"name":       "John Smith",
		"email":      "john@example.com",
		"time_zone":  "America/New_York",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"Success! Event '30 Min Meeting between Jane Doe and John Smith' has been booked for John Smith (john@example.com). Booking ID is bk_new.",
		out,
	)

	// The derived end time mirrors the shape of the supplied start time.
	assert.Equal(t, "2024-08-15T14:30:00.000Z", server.createdPayload["end"])
}

func TestBookEvent_InvalidStartTime(t *testing.T) {
	bookTool := NewBookEventTool(newToolClient(t, &calServer{}), "30min")

	out, err := bookTool.Call(testToolCtx(), map[string]any{
		"start_time": "next tuesday",
		"name":       "John",
		"email":      "john@example.com",
		"time_zone":  "UTC",
	})
	require.NoError(t, err)

	text, ok := out.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "Error: Invalid start_time format."))
	assert.Contains(t, text, "next tuesday")
}

func TestBookEvent_UnknownSlug(t *testing.T) {
	server := &calServer{eventTypes: []map[string]any{
		{"id": 42, "slug": "30min", "title": "30 Min Meeting", "length": 30},
	}}
	bookTool := NewBookEventTool(newToolClient(t, server), "30min")

	out, err := bookTool.Call(testToolCtx(), map[string]any{
		"start_time":      "2024-08-15T14:00:00.000Z",
		"name":            "John",
		"email":           "john@example.com",
		"time_zone":       "UTC",
		"event_type_slug": "90min",
	})
	require.NoError(t, err)

	text, ok := out.(string)
	require.True(t, ok)
	assert.Contains(t, text, `"90min"`)
	assert.Contains(t, text, "Please check the event type slug.")
	// No booking was attempted with a fallback event type.
	assert.Nil(t, server.createdPayload)
}

func TestBookEvent_DefaultsSlug(t *testing.T) {
	server := &calServer{eventTypes: []map[string]any{
		{"id": 7, "slug": "15min", "title": "Quick Chat", "length": 15},
	}}
	bookTool := NewBookEventTool(newToolClient(t, server), "15min")

	out, err := bookTool.Call(testToolCtx(), map[string]any{
		"start_time": "2024-08-15T14:00:00Z",
		"name":       "John",
		"email":      "john@example.com",
		"time_zone":  "UTC",
	})
	require.NoError(t, err)
	assert.Contains(t, fmt.Sprint(out), "Quick Chat")
	assert.Equal(t, "2024-08-15T14:15:00Z", server.createdPayload["end"])
}

func TestCancelEvent_Success(t *testing.T) {
	cancelTool := NewCancelEventTool(newToolClient(t, &calServer{}))

	out, err := cancelTool.Call(testToolCtx(), map[string]any{"booking_id": "bk_9"})
	require.NoError(t, err)
	assert.Equal(t, "Success! Booking with ID bk_9 has been cancelled.", out)
}

func TestCancelEvent_NotFoundIsDistinct(t *testing.T) {
	cancelTool := NewCancelEventTool(newToolClient(t, &calServer{cancelStatus: 404}))

	out, err := cancelTool.Call(testToolCtx(), map[string]any{"booking_id": "missing"})
	require.NoError(t, err)
	assert.Equal(t, "Error: No booking found with ID missing.", out)
}

func TestCancelEvent_OtherFailure(t *testing.T) {
	cancelTool := NewCancelEventTool(newToolClient(t, &calServer{cancelStatus: 500}))

	out, err := cancelTool.Call(testToolCtx(), map[string]any{"booking_id": "bk_9"})
	require.NoError(t, err)

	text, ok := out.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "API Error: Failed to cancel event."))
	assert.NotContains(t, text, "No booking found")
}
