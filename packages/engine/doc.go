// Package engine dispatches requests through an injected Transport and
// normalizes whatever comes back into an execution result.
//
// The Transport boundary has exactly one operation, Send, which is what
// lets a real HTTP client and a canned-response simulator (for protocols
// without a live backend, e.g. gRPC or GraphQL without an endpoint) swap
// freely without touching the engine's contracts.
//
// Execute never returns an error for runtime failures: transport errors are
// captured into the result so callers can render failed states without
// wrapping every call in error handling. Wall-clock duration is recorded
// regardless of outcome.
package engine
