// Package output renders execution results and collection runs for the
// terminal.
//
// Supported output formats:
//   - Console: human-readable colored terminal output
//   - JSON: machine-readable output for scripting
package output
