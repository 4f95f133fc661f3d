package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apiprobe/apiprobe/packages/descriptor"
)

// Seed builds a request pre-filled from a descriptor operation. The result
// is a starting point for manual editing, never a validated call.
func Seed(op descriptor.Operation) *Request {
	switch o := op.(type) {
	case *descriptor.RESTOperation:
		return seedREST(o)
	case *descriptor.GraphQLOperation:
		return seedGraphQL(o)
	case *descriptor.GrpcMethod:
		return seedGrpc(o)
	case *descriptor.PostmanRequest:
		return seedPostman(o)
	}
	return New("GET", "")
}

func seedREST(op *descriptor.RESTOperation) *Request {
	server := op.ServerURL
	if server == "" {
		server = "{{BASE_URL}}"
	}
	r := New(strings.ToUpper(op.Method), server+op.Path)
	r.SetHeader("Content-Type", "application/json")
	return r
}

func seedGraphQL(op *descriptor.GraphQLOperation) *Request {
	r := New("POST", "{{BASE_URL}}/graphql")
	r.SetHeader("Content-Type", "application/json")
	r.SetBody(SampleQuery(op.Fields))
	return r
}

// SampleQuery synthesizes a query from the first three extracted field
// names. Three is a deliberate cap: the extractor is not an SDL parser and
// the seeded body is only a starting point.
func SampleQuery(fields []string) string {
	if len(fields) > 3 {
		fields = fields[:3]
	}
	var sb strings.Builder
	sb.WriteString("query {\n")
	for _, f := range fields {
		sb.WriteString("  ")
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func seedGrpc(op *descriptor.GrpcMethod) *Request {
	url := fmt.Sprintf("{{GRPC_ENDPOINT}}/%s/%s", op.FullService(), op.Name)
	r := New("POST", url)
	r.SetHeader("Content-Type", "application/json")
	r.SetMetadata("service", op.FullService())
	r.SetMetadata("method", op.Name)
	r.SetBody(SampleBody(op.RequestType))
	return r
}

// Canned shapes for common request-type suffixes. This is name matching,
// not schema-driven generation: the proto extractor does not read message
// definitions, so the body is at best a plausible guess.
var sampleShapes = []struct {
	suffix string
	body   map[string]any
}{
	{"GetRequest", map[string]any{"id": "123"}},
	{"ListRequest", map[string]any{"page": 1, "pageSize": 10}},
	{"CreateRequest", map[string]any{"name": "Example", "description": "Sample data"}},
	{"UpdateRequest", map[string]any{"id": "123", "name": "Updated"}},
	{"DeleteRequest", map[string]any{"id": "123"}},
}

// SampleBody synthesizes a JSON body for a gRPC request type by suffix
// matching; unmatched types get a generic three-field placeholder.
func SampleBody(requestType string) string {
	for _, shape := range sampleShapes {
		if strings.HasSuffix(requestType, shape.suffix) {
			return marshalIndent(shape.body)
		}
	}
	return marshalIndent(map[string]any{
		"field1": "value1",
		"field2": 123,
		"field3": true,
	})
}

func marshalIndent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func seedPostman(op *descriptor.PostmanRequest) *Request {
	r := New(op.Method, op.URL)
	for _, h := range op.Headers {
		r.SetHeader(h.Key, h.Value)
	}
	r.SetBody(op.Body)
	return r
}
