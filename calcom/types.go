package calcom

import "strconv"

// Booking is a scheduled meeting record owned by the remote service. The
// identifier is assigned exclusively by Cal.com; the client never invents or
// predicts it. Start and End stay in the ISO-8601 form the service returned;
// conversion to a display timezone happens only at presentation time.
type Booking struct {
	ID       int64  `json:"id,omitempty"`
	UID      string `json:"uid,omitempty"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Status   string `json:"status,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Identifier returns the booking's external identifier: the UID where the
// API version assigns one, the numeric id otherwise.
func (b Booking) Identifier() string {
	if b.UID != "" {
		return b.UID
	}
	return strconv.FormatInt(b.ID, 10)
}

// EventType is a template (slug, duration, title) bookings are instantiated
// from. Slug is the human label; ID is the opaque identifier the creation
// endpoint requires.
type EventType struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Length int    `json:"length"` // duration in minutes
}

// UserProfile is the authenticated account's profile, used to build the
// organizer part of a booking title.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
}

// DisplayName returns the best available organizer name.
func (p UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return "Organizer"
}

// CreateBookingRequest is the version-neutral create payload handed to a
// transport, which maps it onto its dialect's wire format.
type CreateBookingRequest struct {
	EventTypeID   int64
	Start         string // as supplied by the caller
	End           string // derived: start + event type duration
	TimeZone      string
	Language      string
	Title         string
	Description   string
	AttendeeName  string
	AttendeeEmail string
}

// BookParams are the caller-facing arguments for Client.Book. Duration is
// never supplied here; it is sourced from the resolved event type.
type BookParams struct {
	StartTime     string
	Name          string
	Email         string
	TimeZone      string
	EventTypeSlug string
	Notes         string
}
