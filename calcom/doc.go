// Package calcom implements the client for the Cal.com scheduling API.
//
// The package defines one stable operation contract (list, create, cancel,
// event-type lookup, profile lookup) and two transport implementations, one
// per remote API version dialect:
//
//   - v1: key passed as an apiKey query parameter, resources under /v1
//   - v2: key passed in the Authorization header together with a
//     cal-api-version header, resources under /v2
//
// The transport is selected by configuration; callers only see the Client.
// All failures are typed *APIError values carrying a failure kind so the tool
// layer can translate every outcome into a user-facing message. The client
// performs no retries; a failed remote call surfaces immediately.
package calcom
