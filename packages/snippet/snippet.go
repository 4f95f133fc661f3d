// Package snippet renders a request as ready-to-paste client code. Pure
// string generation; nothing here executes anything.
package snippet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apiprobe/apiprobe/packages/request"
)

// Languages lists the supported snippet targets.
func Languages() []string {
	return []string{"curl", "javascript", "python", "go"}
}

// Generate renders req in the named language.
func Generate(language string, req *request.Request) (string, error) {
	switch language {
	case "curl":
		return Curl(req), nil
	case "javascript", "js":
		return JavaScript(req), nil
	case "python", "py":
		return Python(req), nil
	case "go", "golang":
		return Go(req), nil
	}
	return "", fmt.Errorf("unsupported snippet language %q", language)
}

func Curl(req *request.Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("curl -X %s %q", req.Method, req.URL))
	for _, h := range req.Headers() {
		sb.WriteString(fmt.Sprintf(" \\\n  -H %q", h.Key+": "+h.Value))
	}
	if req.Body != "" {
		sb.WriteString(fmt.Sprintf(" \\\n  -d '%s'", strings.ReplaceAll(req.Body, "'", `'\''`)))
	}
	return sb.String()
}

func JavaScript(req *request.Request) string {
	headers := make(map[string]string)
	for _, h := range req.Headers() {
		headers[h.Key] = h.Value
	}
	headersJSON, _ := json.MarshalIndent(headers, "  ", "  ")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("fetch(%q, {\n", req.URL))
	sb.WriteString(fmt.Sprintf("  method: %q,\n", req.Method))
	sb.WriteString(fmt.Sprintf("  headers: %s,\n", headersJSON))
	if req.Body != "" {
		body, _ := json.Marshal(req.Body)
		sb.WriteString(fmt.Sprintf("  body: %s,\n", body))
	}
	sb.WriteString("})\n")
	sb.WriteString("  .then(response => response.json())\n")
	sb.WriteString("  .then(data => console.log(data));")
	return sb.String()
}

func Python(req *request.Request) string {
	var sb strings.Builder
	sb.WriteString("import requests\n\n")
	sb.WriteString("response = requests.request(\n")
	sb.WriteString(fmt.Sprintf("    %q,\n", req.Method))
	sb.WriteString(fmt.Sprintf("    %q,\n", req.URL))
	if headers := req.Headers(); len(headers) > 0 {
		sb.WriteString("    headers={\n")
		for _, h := range headers {
			sb.WriteString(fmt.Sprintf("        %q: %q,\n", h.Key, h.Value))
		}
		sb.WriteString("    },\n")
	}
	if req.Body != "" {
		sb.WriteString(fmt.Sprintf("    data=%q,\n", req.Body))
	}
	sb.WriteString(")\n")
	sb.WriteString("print(response.status_code, response.text)")
	return sb.String()
}

func Go(req *request.Request) string {
	var sb strings.Builder
	sb.WriteString("req, err := http.NewRequest(")
	if req.Body != "" {
		sb.WriteString(fmt.Sprintf("%q, %q, strings.NewReader(%q))\n", req.Method, req.URL, req.Body))
	} else {
		sb.WriteString(fmt.Sprintf("%q, %q, nil)\n", req.Method, req.URL))
	}
	sb.WriteString("if err != nil {\n\tlog.Fatal(err)\n}\n")
	for _, h := range req.Headers() {
		sb.WriteString(fmt.Sprintf("req.Header.Set(%q, %q)\n", h.Key, h.Value))
	}
	sb.WriteString("resp, err := http.DefaultClient.Do(req)\n")
	sb.WriteString("if err != nil {\n\tlog.Fatal(err)\n}\n")
	sb.WriteString("defer resp.Body.Close()")
	return sb.String()
}
