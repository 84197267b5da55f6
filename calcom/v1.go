package calcom

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/hupe1980/calagent/logging"
)

// DefaultBaseURLV1 is the production v1 API root.
const DefaultBaseURLV1 = "https://api.cal.com/v1"

// transportV1 speaks the v1 dialect: the API key travels as an apiKey query
// parameter on every request and collection bodies are keyed by resource name.
type transportV1 struct {
	apiKey string
	userID string
	doer   *httpDoer
}

func newTransportV1(apiKey, userID, base string, client *http.Client, logger logging.Logger) *transportV1 {
	if base == "" {
		base = DefaultBaseURLV1
	}
	return &transportV1{
		apiKey: apiKey,
		userID: userID,
		doer:   newHTTPDoer(base, client, logger),
	}
}

func (t *transportV1) query(extra url.Values) url.Values {
	q := url.Values{"apiKey": {t.apiKey}}
	for k, vs := range extra {
		q[k] = vs
	}
	return q
}

type v1Booking struct {
	ID        int64  `json:"id"`
	UID       string `json:"uid"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

func (b v1Booking) toBooking() Booking {
	return Booking{
		ID:     b.ID,
		UID:    b.UID,
		Title:  b.Title,
		Start:  b.StartTime,
		End:    b.EndTime,
		Status: b.Status,
	}
}

// ListBookings fetches all bookings and drops cancelled/rejected ones; the v1
// collection endpoint has no server-side status filter worth relying on.
func (t *transportV1) ListBookings(ctx context.Context) ([]Booking, error) {
	var payload struct {
		Bookings []v1Booking `json:"bookings"`
	}
	if err := t.doer.do(ctx, http.MethodGet, "/bookings", t.query(nil), nil, nil, &payload); err != nil {
		return nil, err
	}

	bookings := make([]Booking, 0, len(payload.Bookings))
	for _, b := range payload.Bookings {
		switch strings.ToUpper(b.Status) {
		case "CANCELLED", "REJECTED":
			continue
		}
		bookings = append(bookings, b.toBooking())
	}
	return bookings, nil
}

// CreateBooking posts the v1 booking payload. The derived end time and the
// composed title are part of the request in this dialect.
func (t *transportV1) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	payload := map[string]any{
		"eventTypeId": req.EventTypeID,
		"start":       req.Start,
		"end":         req.End,
		"responses": map[string]string{
			"name":  req.AttendeeName,
			"email": req.AttendeeEmail,
		},
		"timeZone":    req.TimeZone,
		"language":    req.Language,
		"title":       req.Title,
		"description": req.Description,
		"status":      "ACCEPTED",
		"metadata":    map[string]any{},
	}

	var created v1Booking
	if err := t.doer.do(ctx, http.MethodPost, "/bookings", t.query(nil), nil, payload, &created); err != nil {
		return nil, err
	}

	booking := created.toBooking()
	return &booking, nil
}

// CancelBooking issues the v1 cancel sub-action with a cancellation reason.
func (t *transportV1) CancelBooking(ctx context.Context, id, reason string) error {
	q := t.query(url.Values{"cancellationReason": {reason}})
	return t.doer.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id)+"/cancel", q, nil, nil, nil)
}

// EventTypes fetches the account's event types (body key "event_types"),
// scoped to the configured user when one is set.
func (t *transportV1) EventTypes(ctx context.Context) ([]EventType, error) {
	extra := url.Values{}
	if t.userID != "" {
		extra.Set("userId", t.userID)
	}

	var payload struct {
		EventTypes []EventType `json:"event_types"`
	}
	if err := t.doer.do(ctx, http.MethodGet, "/event-types", t.query(extra), nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.EventTypes, nil
}

// Me fetches the authenticated profile (body key "user").
func (t *transportV1) Me(ctx context.Context) (*UserProfile, error) {
	var payload struct {
		User UserProfile `json:"user"`
	}
	if err := t.doer.do(ctx, http.MethodGet, "/me", t.query(nil), nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload.User, nil
}
