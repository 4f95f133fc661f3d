// Package runner sequences the requests of a Postman collection through the
// execution engine with configurable iteration, delay, pause, and
// stop-on-error semantics.
//
// The runner is a cooperative state machine: Idle, Running, Paused, and
// the terminal Stopped and Completed. Items execute strictly one at a time
// in document order, repeated per iteration, so result index i always maps
// to a deterministic (iteration, requestIndex) pair. Pause and stop signals
// are observed at the checkpoint before each item; an in-flight execution
// always completes first, there is no mid-request cancellation.
package runner
