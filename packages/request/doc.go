// Package request holds the canonical representation of a single API call
// and the builders that seed one from a parsed descriptor operation.
//
// A Request is owned by whoever is editing or dispatching it. Manual edits
// are first-class: the builder never validates or rejects anything, so a
// partially typed URL or invalid JSON body survives verbatim until dispatch.
// Placeholders like {{BASE_URL}} stay in the template; the execution engine
// resolves them against the current environment when the request is sent.
package request
