package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/apiprobe/apiprobe/packages/core/env"
	"github.com/apiprobe/apiprobe/packages/request"
)

// Result is the normalized outcome of one dispatch. Immutable once created.
// A zero StatusCode with Error set marks a transport-level failure; an HTTP
// error status is still a transport-level success.
type Result struct {
	Request    *request.Request
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
	Error      string
}

// Failed reports a transport-level failure, not an HTTP error status.
func (r *Result) Failed() bool {
	return r.Error != ""
}

func (r *Result) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

func (r *Result) BodyString() string {
	return string(r.Body)
}

// MarshalJSON gives results a stable export shape, shared by history
// persistence and the CLI's JSON output.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Request    *request.Request  `json:"request"`
		StatusCode int               `json:"status_code"`
		Status     string            `json:"status,omitempty"`
		Headers    map[string]string `json:"headers,omitempty"`
		Body       string            `json:"body,omitempty"`
		DurationMs int64             `json:"duration_ms"`
		Error      string            `json:"error,omitempty"`
	}{
		Request:    r.Request,
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Headers:    r.Headers,
		Body:       string(r.Body),
		DurationMs: r.DurationMs(),
		Error:      r.Error,
	})
}

// Engine executes requests through an injected transport. It holds no
// ambient state: the transport and environment manager arrive at
// construction time.
type Engine struct {
	transport Transport
	envs      *env.Manager
}

func New(transport Transport, envs *env.Manager) *Engine {
	if envs == nil {
		envs = env.NewManager()
	}
	return &Engine{
		transport: transport,
		envs:      envs,
	}
}

// Environments exposes the manager so callers share one variable store.
func (e *Engine) Environments() *env.Manager {
	return e.envs
}

// Execute resolves placeholders against the current environment, dispatches
// the request, and captures the outcome. Transport failures land in
// Result.Error; Execute itself never fails, and duration is measured with
// wall clock whichever way the dispatch goes.
func (e *Engine) Execute(ctx context.Context, req *request.Request) *Result {
	return e.ExecuteIn(ctx, req, e.envs.Snapshot())
}

// ExecuteIn is Execute against an explicit environment. Collection runs use
// it with a snapshot taken at run start, so switching the current
// environment mid-run cannot change an active run's resolution.
func (e *Engine) ExecuteIn(ctx context.Context, req *request.Request, environment *env.Environment) *Result {
	resolved := resolveRequest(req, environment)
	result := &Result{Request: resolved}

	start := time.Now()
	resp, err := e.transport.Send(ctx, resolved)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.StatusCode = resp.StatusCode
	result.Status = resp.Status
	result.Headers = resp.Headers
	result.Body = resp.Body
	resp.Duration = result.Duration
	return result
}

// resolveRequest substitutes placeholders in the URL, header values, and
// body. The original request is left untouched so the same template can be
// replayed against other environments.
func resolveRequest(req *request.Request, environment *env.Environment) *request.Request {
	resolved := req.Clone()
	resolved.URL = env.Resolve(req.URL, environment)
	resolved.Body = env.Resolve(req.Body, environment)
	for _, h := range req.Headers() {
		resolved.SetHeader(h.Key, env.Resolve(h.Value, environment))
	}
	return resolved
}
