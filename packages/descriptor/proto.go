package descriptor

import "regexp"

var (
	protoPackagePattern = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	protoServicePattern = regexp.MustCompile(`service\s+(\w+)\s*\{([^}]*)\}`)
	protoRPCPattern     = regexp.MustCompile(`rpc\s+(\w+)\s*\(\s*(stream\s+)?([\w.]+)\s*\)\s*returns\s*\(\s*(stream\s+)?([\w.]+)\s*\)`)
)

// parseProto extracts services and rpc signatures from a .proto file.
// Best-effort textual extraction: nested messages, imports, and options
// are ignored, and service bodies containing nested braces (rpc blocks
// with options) are only scanned up to the first closing brace.
func parseProto(d *Descriptor, sourceText string) {
	pkg := ""
	if m := protoPackagePattern.FindStringSubmatch(sourceText); m != nil {
		pkg = m[1]
	}

	found := false
	for _, svc := range protoServicePattern.FindAllStringSubmatch(sourceText, -1) {
		serviceName := svc[1]
		body := svc[2]

		for _, rpc := range protoRPCPattern.FindAllStringSubmatch(body, -1) {
			found = true
			d.Operations = append(d.Operations, &GrpcMethod{
				Package:        pkg,
				Service:        serviceName,
				Name:           rpc[1],
				RequestType:    rpc[3],
				ResponseType:   rpc[5],
				RequestStream:  rpc[2] != "",
				ResponseStream: rpc[4] != "",
			})
		}
	}

	if !found {
		d.Error = "no gRPC services found"
	}
}
