package descriptor

import "fmt"

// Kind identifies the source format of a parsed artifact.
type Kind string

const (
	KindOpenAPI Kind = "openapi"
	KindGraphQL Kind = "graphql"
	KindGrpc    Kind = "grpc"
	KindPostman Kind = "postman"
)

// ParseKind maps a user-supplied format name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "openapi", "swagger", "rest":
		return KindOpenAPI, nil
	case "graphql", "gql":
		return KindGraphQL, nil
	case "grpc", "proto", "protobuf":
		return KindGrpc, nil
	case "postman", "collection":
		return KindPostman, nil
	}
	return "", fmt.Errorf("unknown artifact kind %q", s)
}

// Descriptor is the normalized representation of a parsed API artifact.
// It is immutable after parse; re-parsing produces a replacement.
type Descriptor struct {
	Name        string
	SourcePath  string
	Kind        Kind
	Version     string
	Description string
	Operations  []Operation

	// Raw preserves the source text for fallback display when parsing
	// fails or extracts nothing.
	Raw string

	// Error holds the parse failure detail. A non-empty Error always pairs
	// with zero operations; it is informational, never propagated.
	Error string
}

// Operation is one callable unit extracted from a descriptor: a REST
// path+method, a GraphQL query set, a gRPC method, or a Postman request.
type Operation interface {
	OperationName() string
}

// RESTOperation is a single (path, method) pair from an OpenAPI document.
type RESTOperation struct {
	Method    string
	Path      string
	Summary   string
	ServerURL string
}

func (o *RESTOperation) OperationName() string {
	return o.Method + " " + o.Path
}

// GraphQLOperation carries the query field names extracted from the
// schema's Query type.
type GraphQLOperation struct {
	Fields []string
}

func (o *GraphQLOperation) OperationName() string {
	if len(o.Fields) == 0 {
		return "query"
	}
	return "query " + o.Fields[0]
}

// GrpcMethod is one rpc extracted from a service block.
type GrpcMethod struct {
	Package        string
	Service        string
	Name           string
	RequestType    string
	ResponseType   string
	RequestStream  bool
	ResponseStream bool
}

func (o *GrpcMethod) OperationName() string {
	return o.Service + "/" + o.Name
}

// FullService returns the package-qualified service name.
func (o *GrpcMethod) FullService() string {
	if o.Package == "" {
		return o.Service
	}
	return o.Package + "." + o.Service
}

// Header is an ordered key/value pair on a Postman request.
type Header struct {
	Key   string
	Value string
}

// PostmanRequest is a request leaf from a collection, flattened out of the
// folder tree. ID encodes the leaf's pre-order position ("0", "1-0", ...)
// so selections remain stable across re-parses of the same document.
type PostmanRequest struct {
	ID      string
	Name    string
	Method  string
	URL     string
	Headers []Header
	Body    string
}

func (o *PostmanRequest) OperationName() string {
	return o.Name
}

// Normalize parses sourceText as the given kind. It never returns an error:
// malformed input produces a descriptor with zero operations, the raw text
// preserved, and Error set. Callers decide how to render the degraded state.
func Normalize(kind Kind, name, sourcePath, sourceText string) *Descriptor {
	d := &Descriptor{
		Name:       name,
		SourcePath: sourcePath,
		Kind:       kind,
		Raw:        sourceText,
	}

	switch kind {
	case KindOpenAPI:
		parseOpenAPI(d, sourceText)
	case KindGraphQL:
		parseGraphQL(d, sourceText)
	case KindGrpc:
		parseProto(d, sourceText)
	case KindPostman:
		parsePostman(d, sourceText)
	default:
		d.Error = fmt.Sprintf("unsupported artifact kind %q", kind)
	}

	return d
}
