// Package core contains the shared conversational primitives used across
// calagent: role-based content with heterogeneous parts (text, function calls
// and function responses), the session transcript container, and the
// constrained context handed to tool implementations.
package core
