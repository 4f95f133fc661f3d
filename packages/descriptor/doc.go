// Package descriptor normalizes heterogeneous API artifacts into a single
// protocol-agnostic description.
//
// Supported formats:
//   - OpenAPI: structured parse (JSON or YAML) via kin-openapi
//   - GraphQL: best-effort textual extraction of the Query type
//   - gRPC/proto: best-effort line-oriented extraction of services and rpcs
//   - Postman: Collection v2 JSON parsed into a folder/request tree
//
// Normalize never fails: malformed input yields a descriptor with zero
// operations, the raw source preserved, and Error describing what went wrong.
// The GraphQL and proto extractors are intentionally not grammar-level
// parsers; they only pull out enough structure to seed requests.
package descriptor
