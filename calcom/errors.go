package calcom

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a failed Cal.com operation so callers can decide how to
// phrase the outcome without parsing message text.
type Kind string

const (
	// KindMissingConfig indicates required configuration (API key) is absent.
	KindMissingConfig Kind = "missing_configuration"
	// KindInvalidInput indicates a caller-supplied value could not be used,
	// e.g. an unparseable timestamp.
	KindInvalidInput Kind = "invalid_input"
	// KindNotFound indicates the remote service knows nothing matching the
	// request (unknown booking, unknown event type slug).
	KindNotFound Kind = "not_found"
	// KindRemoteRejection indicates the remote service refused the request
	// for business reasons (4xx, e.g. slot unavailable).
	KindRemoteRejection Kind = "remote_rejection"
	// KindRemoteFault indicates a server-side or transport failure (5xx,
	// connection errors, timeouts).
	KindRemoteFault Kind = "remote_fault"
	// KindUnexpected covers everything else.
	KindUnexpected Kind = "unexpected"
)

// APIError is the only error type produced by this package. Message carries
// enough remote-supplied detail (status code, body message) for the user or
// agent to decide on a retry or correction. The credential is never included.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("cal.com api error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("cal.com api error (%s): %s", e.Kind, e.Message)
}

// KindOf returns the failure kind of err, or KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// IsNotFound reports whether err represents a not-found outcome.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func newMissingConfigError(msg string) *APIError {
	return &APIError{Kind: KindMissingConfig, Message: msg}
}

func newInvalidInputError(msg string) *APIError {
	return &APIError{Kind: KindInvalidInput, Message: msg}
}

// newStatusError classifies an HTTP error response. The body's "message"
// field is preferred over the raw body for readability.
func newStatusError(status int, body []byte) *APIError {
	kind := KindRemoteRejection
	switch {
	case status == 404:
		kind = KindNotFound
	case status >= 500:
		kind = KindRemoteFault
	}

	return &APIError{Kind: kind, StatusCode: status, Message: messageFromBody(body)}
}

// newTransportError wraps connection-level failures including timeouts.
func newTransportError(err error) *APIError {
	return &APIError{Kind: KindRemoteFault, Message: err.Error()}
}

func messageFromBody(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error.Message != "" {
			return payload.Error.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 512 {
		text = text[:512]
	}
	if text == "" {
		text = "no response body"
	}
	return text
}
