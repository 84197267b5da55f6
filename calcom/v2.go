package calcom

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hupe1980/calagent/logging"
)

// DefaultBaseURLV2 is the production v2 API root.
const DefaultBaseURLV2 = "https://api.cal.com/v2"

// apiVersionHeader pins the v2 wire format this transport understands.
const apiVersionHeader = "2024-08-13"

// transportV2 speaks the v2 dialect: key in the Authorization header, a
// cal-api-version header on every request, and response bodies wrapped in a
// "data" envelope.
type transportV2 struct {
	apiKey string
	doer   *httpDoer
}

func newTransportV2(apiKey, base string, client *http.Client, logger logging.Logger) *transportV2 {
	if base == "" {
		base = DefaultBaseURLV2
	}
	return &transportV2{
		apiKey: apiKey,
		doer:   newHTTPDoer(base, client, logger),
	}
}

func (t *transportV2) headers() http.Header {
	h := http.Header{}
	h.Set("Authorization", t.apiKey)
	h.Set("cal-api-version", apiVersionHeader)
	return h
}

// ListBookings requests upcoming, recurring and unconfirmed bookings; the
// status filter is applied server-side using the caller's authenticated scope.
func (t *transportV2) ListBookings(ctx context.Context) ([]Booking, error) {
	q := url.Values{
		"take":   {"100"},
		"status": {"upcoming", "recurring", "unconfirmed"},
	}

	var payload struct {
		Data []Booking `json:"data"`
	}
	if err := t.doer.do(ctx, http.MethodGet, "/bookings", q, t.headers(), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// CreateBooking posts the v2 booking payload.
func (t *transportV2) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	payload := map[string]any{
		"start":       req.Start,
		"end":         req.End,
		"eventTypeId": req.EventTypeID,
		"timeZone":    req.TimeZone,
		"language":    req.Language,
		"title":       req.Title,
		"description": req.Description,
		"responses": map[string]string{
			"name":  req.AttendeeName,
			"email": req.AttendeeEmail,
		},
	}

	var created struct {
		Data Booking `json:"data"`
	}
	if err := t.doer.do(ctx, http.MethodPost, "/bookings", nil, t.headers(), payload, &created); err != nil {
		return nil, err
	}
	return &created.Data, nil
}

// CancelBooking posts the cancel sub-action with a cancellation reason.
func (t *transportV2) CancelBooking(ctx context.Context, id, reason string) error {
	payload := map[string]string{"cancellationReason": reason}
	path := "/bookings/" + url.PathEscape(id) + "/cancel"
	return t.doer.do(ctx, http.MethodPost, path, nil, t.headers(), payload, nil)
}

// EventTypes fetches the account's event types from the "data" envelope.
func (t *transportV2) EventTypes(ctx context.Context) ([]EventType, error) {
	var payload struct {
		Data []EventType `json:"data"`
	}
	if err := t.doer.do(ctx, http.MethodGet, "/event-types", nil, t.headers(), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Me fetches the authenticated profile from the "data" envelope.
func (t *transportV2) Me(ctx context.Context) (*UserProfile, error) {
	var payload struct {
		Data UserProfile `json:"data"`
	}
	if err := t.doer.do(ctx, http.MethodGet, "/me", nil, t.headers(), nil, &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}
