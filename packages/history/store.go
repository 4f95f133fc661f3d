package history

import (
	"time"

	"github.com/apiprobe/apiprobe/packages/descriptor"
	"github.com/apiprobe/apiprobe/packages/engine"
	"github.com/google/uuid"
)

// Capacity is the per-repository entry bound. Appends beyond it evict the
// oldest entry.
const Capacity = 50

// Entry is one recorded execution. Immutable once created.
type Entry struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	APIKind    descriptor.Kind `json:"api_kind"`
	Method     string          `json:"method"`
	URL        string          `json:"url"`
	StatusCode int             `json:"status_code"`
	DurationMs int64           `json:"duration_ms"`
	Body       string          `json:"body,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// NewEntry snapshots an execution result into a history entry.
func NewEntry(kind descriptor.Kind, res *engine.Result) Entry {
	e := Entry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		APIKind:    kind,
		StatusCode: res.StatusCode,
		DurationMs: res.DurationMs(),
		Body:       res.BodyString(),
		Error:      res.Error,
	}
	if res.Request != nil {
		e.Method = res.Request.Method
		e.URL = res.Request.URL
	}
	return e
}

// Store is the persistence boundary. List returns newest-first; Append
// enforces the capacity bound by dropping the oldest entries.
type Store interface {
	Append(repoKey string, entry Entry) error
	List(repoKey string) ([]Entry, error)
	Clear(repoKey string) error
}
