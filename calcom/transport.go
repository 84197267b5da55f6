package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hupe1980/calagent/logging"
)

// Transport is the stable operation contract implemented once per API version
// dialect. Every method performs a single synchronous remote call.
type Transport interface {
	// ListBookings returns bookings in service-defined order, filtered to
	// non-cancelled/upcoming statuses as far as the dialect allows.
	ListBookings(ctx context.Context) ([]Booking, error)

	// CreateBooking creates exactly one remote booking per successful call.
	// No idempotency key is used; duplicate calls create duplicate bookings.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error)

	// CancelBooking transitions a booking to cancelled. A 404 surfaces as a
	// not-found error distinct from other remote failures.
	CancelBooking(ctx context.Context, id, reason string) error

	// EventTypes returns all event types visible to the account.
	EventTypes(ctx context.Context) ([]EventType, error)

	// Me returns the authenticated account's profile.
	Me(ctx context.Context) (*UserProfile, error)
}

// httpDoer executes JSON requests against one base URL. Shared by both
// transport dialects; auth decoration is left to the dialect.
type httpDoer struct {
	base   string
	client *http.Client
	logger logging.Logger
}

func newHTTPDoer(base string, client *http.Client, logger logging.Logger) *httpDoer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &httpDoer{base: base, client: client, logger: logger}
}

// do executes one request. Query values and headers may be nil. A non-nil in
// is JSON-encoded; a non-nil out receives the decoded response body.
func (h *httpDoer) do(ctx context.Context, method, path string, query url.Values, headers http.Header, in, out any) error {
	u := h.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &APIError{Kind: KindUnexpected, Message: fmt.Sprintf("encode request: %v", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &APIError{Kind: KindUnexpected, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("calcom.request.failed", "method", method, "path", path, "error", err.Error())
		return newTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(err)
	}

	h.logger.Debug("calcom.request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= 400 {
		return newStatusError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Kind: KindUnexpected, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}

	return nil
}
