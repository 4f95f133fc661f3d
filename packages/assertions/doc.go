// Package assertions evaluates pass/fail checks against an execution
// result: status codes, response time bounds, JSON body paths (gjson
// syntax), and JSON Schema validation.
//
// Evaluation never stops a run by itself; it only produces named results
// that the collection runner and the CLI render. An assertion result is
// read-only once produced.
package assertions
