// Package config loads the apiprobe configuration file: transport
// defaults, history database location, and the named environments used for
// {{variable}} substitution.
package config
