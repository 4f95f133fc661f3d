// Package env manages named variable sets and {{variable}} substitution.
//
// It provides functionality for:
//   - Named environments, exactly one of which is current at a time
//   - Single-pass textual replacement of {{KEY}} placeholders
//   - Loading environments from config sections and .env files
//
// Unresolved placeholders are left verbatim rather than treated as errors;
// an optional warn callback surfaces them to the caller. Resolution happens
// at dispatch time, so the same template can be replayed against different
// environments.
package env
