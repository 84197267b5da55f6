package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/calagent/calcom"
	"github.com/hupe1980/calagent/core"
)

// Tool names exposed to the agent. These, together with the argument schemas
// below, are the only coupling surface between the assistant and any external
// agent; they must stay stable.
const (
	ToolListScheduledEvents = "list_scheduled_events"
	ToolBookEvent           = "book_event"
	ToolCancelEvent         = "cancel_event"
)

// CalendarToolsOptions configure the calendar tool set.
type CalendarToolsOptions struct {
	// DefaultEventTypeSlug is used when the agent omits event_type_slug.
	DefaultEventTypeSlug string
}

// NewCalendarTools builds the three booking tools over one Cal.com client.
// Every tool returns a string-shaped result for all outcomes, success or
// failure, so the agent's reasoning loop always has something to show the
// user. Nothing from the error taxonomy propagates past this layer.
func NewCalendarTools(client *calcom.Client, optFns ...func(o *CalendarToolsOptions)) []Tool {
	opts := CalendarToolsOptions{DefaultEventTypeSlug: "30min"}
	for _, fn := range optFns {
		fn(&opts)
	}

	return []Tool{
		NewListScheduledEventsTool(client),
		NewBookEventTool(client, opts.DefaultEventTypeSlug),
		NewCancelEventTool(client),
	}
}

// NewListScheduledEventsTool lists the account's active, scheduled events.
func NewListScheduledEventsTool(client *calcom.Client) *FunctionTool {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_email": map[string]any{
				"type":        "string",
				"description": "The email address of the user whose events should be listed.",
			},
		},
		"required": []string{"user_email"},
	}

	return NewFunctionTool(
		ToolListScheduledEvents,
		"Lists all active, scheduled events for a given user's email. "+
			"Returns the event details including the booking ID, which is needed for cancellations.",
		schema,
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			email, _ := args["user_email"].(string)

			bookings, err := client.ListUpcoming(toolCtx.Context())
			if err != nil {
				return fmt.Sprintf("API Error: Failed to retrieve events. Details: %s", errorDetail(err)), nil
			}

			if len(bookings) == 0 {
				return fmt.Sprintf("No scheduled events found for %s.", email), nil
			}

			lines := make([]string, 0, len(bookings))
			for _, b := range bookings {
				lines = append(lines, fmt.Sprintf(
					"- Title: %s, Start Time: %s, Booking ID: %s",
					b.Title, displayTime(b.Start), b.Identifier(),
				))
			}

			return "Here are your scheduled events:\n" + strings.Join(lines, "\n"), nil
		},
	)
}

// NewBookEventTool books a new event. The start_time must be ISO-8601; values
// without timezone information are treated as UTC.
func NewBookEventTool(client *calcom.Client, defaultSlug string) *FunctionTool {
	if defaultSlug == "" {
		defaultSlug = "30min"
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"start_time": map[string]any{
				"type":        "string",
				"description": "Start of the meeting in ISO 8601 format, e.g. '2024-08-15T14:00:00.000Z'. Treated as UTC when no timezone is given.",
			},
			"name": map[string]any{
				"type":        "string",
				"description": "Full name of the attendee.",
			},
			"email": map[string]any{
				"type":        "string",
				"description": "Email address of the attendee.",
			},
			"time_zone": map[string]any{
				"type":        "string",
				"description": "IANA timezone of the attendee, e.g. 'America/New_York'.",
			},
			"event_type_slug": map[string]any{
				"type":        "string",
				"description": fmt.Sprintf("Slug of the event type to book. Defaults to '%s'.", defaultSlug),
			},
			"notes": map[string]any{
				"type":        "string",
				"description": "Optional notes attached to the booking.",
			},
		},
		"required": []string{"start_time", "name", "email", "time_zone"},
	}

	return NewFunctionTool(
		ToolBookEvent,
		"Books a new event/meeting. The start_time must be in ISO 8601 format "+
			"(e.g., '2024-08-15T14:00:00.000Z'). The default event type is a '"+defaultSlug+"'.",
		schema,
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			params := calcom.BookParams{
				StartTime:     stringArg(args, "start_time", ""),
				Name:          stringArg(args, "name", ""),
				Email:         stringArg(args, "email", ""),
				TimeZone:      stringArg(args, "time_zone", ""),
				EventTypeSlug: stringArg(args, "event_type_slug", defaultSlug),
				Notes:         stringArg(args, "notes", ""),
			}

			booking, err := client.Book(toolCtx.Context(), params)
			if err != nil {
				switch calcom.KindOf(err) {
				case calcom.KindInvalidInput:
					return fmt.Sprintf("Error: Invalid start_time format. Details: %s", errorDetail(err)), nil
				case calcom.KindNotFound:
					return fmt.Sprintf("Error: %s. Please check the event type slug.", errorDetail(err)), nil
				case calcom.KindMissingConfig:
					return "Error: Cal.com API key is not configured.", nil
				case calcom.KindRemoteRejection:
					return fmt.Sprintf("API Error: Failed to book event. The time slot might be unavailable. Details: %s", errorDetail(err)), nil
				default:
					return fmt.Sprintf("API Error: Failed to book event. Details: %s", errorDetail(err)), nil
				}
			}

			return fmt.Sprintf(
				"Success! Event '%s' has been booked for %s (%s). Booking ID is %s.",
				booking.Title, params.Name, params.Email, booking.Identifier(),
			), nil
		},
	)
}

// NewCancelEventTool cancels a specific event using its booking ID.
func NewCancelEventTool(client *calcom.Client) *FunctionTool {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"booking_id": map[string]any{
				"type":        "string",
				"description": "Identifier of the booking to cancel, as returned by list_scheduled_events.",
			},
		},
		"required": []string{"booking_id"},
	}

	return NewFunctionTool(
		ToolCancelEvent,
		"Cancels a specific event using its booking ID. "+
			"To get the booking ID, first list the scheduled events.",
		schema,
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			id, _ := args["booking_id"].(string)

			if err := client.Cancel(toolCtx.Context(), id); err != nil {
				if calcom.IsNotFound(err) {
					return fmt.Sprintf("Error: No booking found with ID %s.", id), nil
				}
				return fmt.Sprintf("API Error: Failed to cancel event. Details: %s", errorDetail(err)), nil
			}

			return fmt.Sprintf("Success! Booking with ID %s has been cancelled.", id), nil
		},
	)
}

// stringArg reads an optional string argument, falling back to def when the
// argument is absent or empty.
func stringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// displayTime converts a stored ISO-8601 timestamp to the local timezone for
// presentation. The stored value is never mutated.
func displayTime(value string) string {
	t, err := calcom.ParseStart(value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 03:04 PM MST")
}

// errorDetail extracts the user-facing detail of a client error: the typed
// message with status code when available, the plain error text otherwise.
func errorDetail(err error) string {
	var apiErr *calcom.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode > 0 {
			return fmt.Sprintf("status %d, %s", apiErr.StatusCode, apiErr.Message)
		}
		return apiErr.Message
	}
	return err.Error()
}
