package calcom

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hupe1980/calagent/logging"
)

// DefaultCancellationReason is attached to cancellations when the caller
// supplies none.
const DefaultCancellationReason = "Cancelled by user via chatbot."

// Config selects the API version dialect and carries the credential. The
// only validation performed is presence of the key.
type Config struct {
	APIKey  string
	UserID  string // optional account identifier, v1 dialect only
	Version string // "v1" or "v2" (default)
	BaseURL string // override for tests / self-hosted instances
	Timeout time.Duration
}

// Options configure optional client behavior.
type Options struct {
	// Logger receives request/response telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
	// HTTPClient overrides the default client (and its timeout).
	HTTPClient *http.Client
	// CacheEventTypes enables the per-client event-type cache. Event types
	// change rarely; InvalidateEventTypes discards the cache explicitly.
	CacheEventTypes bool
}

// Client exposes the scheduling operations against one Cal.com account. The
// memoized profile and optional event-type cache are scoped to the client
// instance, never to the package, so concurrent clients with different
// credentials cannot leak identities into each other's booking titles.
type Client struct {
	transport Transport
	logger    logging.Logger

	mu         sync.Mutex
	profile    *UserProfile
	eventTypes []EventType

	cacheEventTypes bool
}

// New builds a client for the configured API version.
func New(cfg Config, optFns ...func(o *Options)) (*Client, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	if cfg.APIKey == "" {
		return nil, newMissingConfigError("Cal.com API key is not configured")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var transport Transport
	switch cfg.Version {
	case "", "v2":
		transport = newTransportV2(cfg.APIKey, cfg.BaseURL, httpClient, opts.Logger)
	case "v1":
		transport = newTransportV1(cfg.APIKey, cfg.UserID, cfg.BaseURL, httpClient, opts.Logger)
	default:
		return nil, newMissingConfigError(fmt.Sprintf("unsupported Cal.com API version %q", cfg.Version))
	}

	return NewFromTransport(transport, optFns...), nil
}

// NewFromTransport builds a client around an existing transport. Useful for
// tests that fake the remote service.
func NewFromTransport(transport Transport, optFns ...func(o *Options)) *Client {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{
		transport:       transport,
		logger:          opts.Logger,
		cacheEventTypes: opts.CacheEventTypes,
	}
}

// ListUpcoming returns the account's upcoming bookings in service order.
// Entries without a start time are skipped, not fatal. An empty result is
// not an error.
func (c *Client) ListUpcoming(ctx context.Context) ([]Booking, error) {
	bookings, err := c.transport.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Start == "" {
			c.logger.Warn("calcom.booking.skipped", "reason", "missing start time", "id", b.Identifier())
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

// ResolveEventType finds the event type matching slug by linear search over
// the account's event types. The two failure modes are distinguishable: an
// account with nothing configured versus an unknown slug. The result never
// falls back to a default or previously resolved identifier.
func (c *Client) ResolveEventType(ctx context.Context, slug string) (*EventType, error) {
	eventTypes, err := c.fetchEventTypes(ctx)
	if err != nil {
		return nil, err
	}

	if len(eventTypes) == 0 {
		return nil, &APIError{Kind: KindNotFound, Message: "the account has no event types configured"}
	}

	for _, et := range eventTypes {
		if et.Slug == slug {
			c.logger.Debug("calcom.eventtype.resolved", "slug", slug, "id", et.ID, "length", et.Length)
			return &et, nil
		}
	}

	return nil, &APIError{Kind: KindNotFound, Message: fmt.Sprintf("no event type with slug %q", slug)}
}

func (c *Client) fetchEventTypes(ctx context.Context) ([]EventType, error) {
	if c.cacheEventTypes {
		c.mu.Lock()
		cached := c.eventTypes
		c.mu.Unlock()
		if cached != nil {
			return cached, nil
		}
	}

	eventTypes, err := c.transport.EventTypes(ctx)
	if err != nil {
		return nil, err
	}

	if c.cacheEventTypes {
		c.mu.Lock()
		c.eventTypes = eventTypes
		c.mu.Unlock()
	}
	return eventTypes, nil
}

// InvalidateEventTypes discards the event-type cache so the next resolution
// refetches from the remote service.
func (c *Client) InvalidateEventTypes() {
	c.mu.Lock()
	c.eventTypes = nil
	c.mu.Unlock()
}

// Profile returns the authenticated account's profile. The first successful
// fetch is memoized for the lifetime of the client; use RefreshProfile to
// pick up remote changes.
func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	c.mu.Lock()
	cached := c.profile
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	return c.RefreshProfile(ctx)
}

// RefreshProfile refetches and re-memoizes the profile.
func (c *Client) RefreshProfile(ctx context.Context) (*UserProfile, error) {
	profile, err := c.transport.Me(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Info("calcom.profile.cached", "username", profile.Username)

	c.mu.Lock()
	c.profile = profile
	c.mu.Unlock()
	return profile, nil
}

// Book creates one booking. The end time is derived from the resolved event
// type's duration and expressed in the same ISO-8601 shape as the supplied
// start time; the title reads "<EventTitle> between <Organizer> and
// <Attendee>". Repeating the call with identical arguments creates a second
// booking; idempotency is the calling agent's responsibility.
func (c *Client) Book(ctx context.Context, p BookParams) (*Booking, error) {
	start, err := ParseStart(p.StartTime)
	if err != nil {
		return nil, newInvalidInputError(fmt.Sprintf("invalid start_time %q: %v", p.StartTime, err))
	}

	eventType, err := c.ResolveEventType(ctx, p.EventTypeSlug)
	if err != nil {
		return nil, err
	}

	organizer, err := c.Profile(ctx)
	if err != nil {
		return nil, err
	}

	end := FormatLike(p.StartTime, start.Add(time.Duration(eventType.Length)*time.Minute))
	title := fmt.Sprintf("%s between %s and %s", eventType.Title, organizer.DisplayName(), p.Name)

	req := CreateBookingRequest{
		EventTypeID:   eventType.ID,
		Start:         p.StartTime,
		End:           end,
		TimeZone:      p.TimeZone,
		Language:      "en",
		Title:         title,
		Description:   p.Notes,
		AttendeeName:  p.Name,
		AttendeeEmail: p.Email,
	}

	booking, err := c.transport.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Info("calcom.booking.created", "id", booking.Identifier(), "title", booking.Title)
	return booking, nil
}

// Cancel cancels a booking with the default cancellation reason.
func (c *Client) Cancel(ctx context.Context, id string) error {
	return c.CancelWithReason(ctx, id, DefaultCancellationReason)
}

// CancelWithReason cancels a booking, passing the reason to the service.
func (c *Client) CancelWithReason(ctx context.Context, id, reason string) error {
	if err := c.transport.CancelBooking(ctx, id, reason); err != nil {
		return err
	}
	c.logger.Info("calcom.booking.cancelled", "id", id)
	return nil
}
