package assertions

import (
	"fmt"

	"github.com/apiprobe/apiprobe/packages/engine"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// Spec is one declared check against an execution result. Exactly one of
// the check fields is meant to be set; Name labels the check in output.
type Spec struct {
	Name string `json:"name"`

	// Status is the expected HTTP status code. 0 leaves the check unset.
	Status int `json:"status,omitempty"`

	// MaxDurationMs bounds the response time. 0 leaves the check unset.
	MaxDurationMs int64 `json:"maxDurationMs,omitempty"`

	// BodyPath is a gjson path into the response body. With Equals set the
	// value must match textually; otherwise the path only has to exist.
	BodyPath string `json:"bodyPath,omitempty"`
	Equals   string `json:"equals,omitempty"`
	Exists   bool   `json:"exists,omitempty"`

	// Schema is a JSON Schema document the body must validate against.
	Schema string `json:"schema,omitempty"`
}

// Result is the outcome of one assertion. Never mutated after creation.
type Result struct {
	Name    string
	Passed  bool
	Message string
}

// Defaults is the implicit check applied when an item declares nothing:
// the dispatch succeeded and the status is 2xx.
func Defaults() []Spec {
	return []Spec{{Name: "status is success"}}
}

// AllPassed reports whether every assertion in results passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// Evaluate runs every spec against the result. A transport-level failure
// short-circuits into a single failed assertion carrying the error, since
// there is no response to check anything else against.
func Evaluate(res *engine.Result, specs []Spec) []Result {
	if res.Failed() {
		return []Result{{
			Name:    "request completed",
			Passed:  false,
			Message: res.Error,
		}}
	}

	if len(specs) == 0 {
		specs = Defaults()
	}

	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		results = append(results, evaluateOne(res, spec))
	}
	return results
}

func evaluateOne(res *engine.Result, spec Spec) Result {
	out := Result{Name: spec.Name}

	switch {
	case spec.Status != 0:
		if out.Name == "" {
			out.Name = fmt.Sprintf("status is %d", spec.Status)
		}
		if res.StatusCode == spec.Status {
			out.Passed = true
		} else {
			out.Message = fmt.Sprintf("expected status %d, got %d", spec.Status, res.StatusCode)
		}

	case spec.MaxDurationMs > 0:
		if out.Name == "" {
			out.Name = fmt.Sprintf("response time under %dms", spec.MaxDurationMs)
		}
		if res.DurationMs() <= spec.MaxDurationMs {
			out.Passed = true
		} else {
			out.Message = fmt.Sprintf("expected duration <= %dms, got %dms", spec.MaxDurationMs, res.DurationMs())
		}

	case spec.BodyPath != "":
		if out.Name == "" {
			out.Name = "body " + spec.BodyPath
		}
		evaluateBodyPath(res, spec, &out)

	case spec.Schema != "":
		if out.Name == "" {
			out.Name = "body matches schema"
		}
		evaluateSchema(res, spec, &out)

	default:
		if out.Name == "" {
			out.Name = "status is success"
		}
		if res.StatusCode >= 200 && res.StatusCode < 300 {
			out.Passed = true
		} else {
			out.Message = fmt.Sprintf("expected 2xx status, got %d", res.StatusCode)
		}
	}

	return out
}

func evaluateBodyPath(res *engine.Result, spec Spec, out *Result) {
	if !gjson.ValidBytes(res.Body) {
		out.Message = "response body is not valid JSON"
		return
	}

	value := gjson.GetBytes(res.Body, spec.BodyPath)
	if !value.Exists() {
		out.Message = fmt.Sprintf("path %q not found in body", spec.BodyPath)
		return
	}

	if spec.Equals == "" {
		out.Passed = true
		return
	}

	if value.String() == spec.Equals {
		out.Passed = true
		return
	}
	out.Message = fmt.Sprintf("expected %q at %s, got %q", spec.Equals, spec.BodyPath, value.String())
}

func evaluateSchema(res *engine.Result, spec Spec, out *Result) {
	schemaLoader := gojsonschema.NewStringLoader(spec.Schema)
	documentLoader := gojsonschema.NewBytesLoader(res.Body)

	validation, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		out.Message = fmt.Sprintf("schema validation: %v", err)
		return
	}

	if validation.Valid() {
		out.Passed = true
		return
	}

	for _, desc := range validation.Errors() {
		if out.Message != "" {
			out.Message += "; "
		}
		out.Message += desc.String()
	}
}
