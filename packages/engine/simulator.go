package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/apiprobe/apiprobe/packages/request"
	"github.com/google/uuid"
)

// SimulatedTransport answers every request with a canned response instead
// of touching the network. It stands in for protocols without a live
// backend (gRPC methods, GraphQL schemas with no endpoint) and satisfies
// the same Transport contract as the real client.
type SimulatedTransport struct {
	// Latency is slept before answering, so durations look plausible.
	Latency time.Duration

	// Handler, when set, scripts the response per request. Used by tests
	// and by protocol-specific simulators.
	Handler func(req *request.Request) (*Response, error)
}

func NewSimulatedTransport() *SimulatedTransport {
	return &SimulatedTransport{Latency: 50 * time.Millisecond}
}

func (s *SimulatedTransport) Send(ctx context.Context, req *request.Request) (*Response, error) {
	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.Handler != nil {
		return s.Handler(req)
	}

	payload := map[string]any{
		"message":   "simulated response",
		"method":    req.Method,
		"endpoint":  req.URL,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	body, _ := json.Marshal(payload)

	return &Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Headers: map[string]string{
			"Content-Type": "application/json",
			"X-Request-Id": uuid.NewString(),
		},
		Body: body,
	}, nil
}
