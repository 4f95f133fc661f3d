package assertions

import (
	"testing"
	"time"

	"github.com/apiprobe/apiprobe/packages/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult() *engine.Result {
	return &engine.Result{
		StatusCode: 200,
		Status:     "200 OK",
		Body:       []byte(`{"user": {"id": 42, "name": "Ada"}, "items": [1, 2, 3]}`),
		Duration:   40 * time.Millisecond,
	}
}

func TestEvaluate_DefaultCheck(t *testing.T) {
	results := Evaluate(okResult(), nil)
	require.Len(t, results, 1)
	assert.Equal(t, "status is success", results[0].Name)
	assert.True(t, results[0].Passed)
	assert.True(t, AllPassed(results))
}

func TestEvaluate_DefaultCheckFailsOnErrorStatus(t *testing.T) {
	res := okResult()
	res.StatusCode = 404

	results := Evaluate(res, nil)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "404")
}

func TestEvaluate_TransportFailureShortCircuits(t *testing.T) {
	res := &engine.Result{Error: "dial tcp: connection refused"}

	results := Evaluate(res, []Spec{
		{Status: 200},
		{BodyPath: "user.id"},
	})
	require.Len(t, results, 1)
	assert.Equal(t, "request completed", results[0].Name)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "dial tcp: connection refused", results[0].Message)
	assert.False(t, AllPassed(results))
}

func TestEvaluate_StatusCheck(t *testing.T) {
	results := Evaluate(okResult(), []Spec{{Status: 200}, {Status: 201}})
	require.Len(t, results, 2)

	assert.Equal(t, "status is 200", results[0].Name)
	assert.True(t, results[0].Passed)

	assert.False(t, results[1].Passed)
	assert.Equal(t, "expected status 201, got 200", results[1].Message)
}

func TestEvaluate_MaxDuration(t *testing.T) {
	results := Evaluate(okResult(), []Spec{
		{MaxDurationMs: 100},
		{MaxDurationMs: 10},
	})
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.Contains(t, results[1].Message, "got 40ms")
}

func TestEvaluate_BodyPath(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		passed  bool
		message string
	}{
		{"exists", Spec{BodyPath: "user.id"}, true, ""},
		{"equals matches", Spec{BodyPath: "user.name", Equals: "Ada"}, true, ""},
		{"equals numeric", Spec{BodyPath: "user.id", Equals: "42"}, true, ""},
		{"equals mismatch", Spec{BodyPath: "user.name", Equals: "Bob"}, false, `expected "Bob"`},
		{"missing path", Spec{BodyPath: "user.email"}, false, "not found"},
		{"array index", Spec{BodyPath: "items.1", Equals: "2"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Evaluate(okResult(), []Spec{tt.spec})
			require.Len(t, results, 1)
			assert.Equal(t, tt.passed, results[0].Passed)
			if tt.message != "" {
				assert.Contains(t, results[0].Message, tt.message)
			}
		})
	}
}

func TestEvaluate_BodyPathOnNonJSON(t *testing.T) {
	res := okResult()
	res.Body = []byte("<html>hello</html>")

	results := Evaluate(res, []Spec{{BodyPath: "user.id"}})
	assert.False(t, results[0].Passed)
	assert.Equal(t, "response body is not valid JSON", results[0].Message)
}

func TestEvaluate_Schema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["user"],
		"properties": {
			"user": {
				"type": "object",
				"required": ["id", "name"]
			}
		}
	}`

	results := Evaluate(okResult(), []Spec{{Schema: schema}})
	require.Len(t, results, 1)
	assert.Equal(t, "body matches schema", results[0].Name)
	assert.True(t, results[0].Passed)

	strict := `{"type": "object", "required": ["missing_field"]}`
	results = Evaluate(okResult(), []Spec{{Schema: strict}})
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "missing_field")
}

func TestEvaluate_CustomNamePreserved(t *testing.T) {
	results := Evaluate(okResult(), []Spec{{Name: "login works", Status: 200}})
	assert.Equal(t, "login works", results[0].Name)
}
