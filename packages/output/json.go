package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/apiprobe/apiprobe/packages/core/runner"
	"github.com/apiprobe/apiprobe/packages/engine"
)

const timeRounding = time.Millisecond

type JSONFormatter struct {
	writer io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONFormatter{writer: w}
}

func (f *JSONFormatter) FormatExecution(res *engine.Result) error {
	return f.write(res)
}

func (f *JSONFormatter) FormatRun(run *runner.RunResult) error {
	type assertionJSON struct {
		Name    string `json:"name"`
		Passed  bool   `json:"passed"`
		Message string `json:"message,omitempty"`
	}
	type resultJSON struct {
		ItemID      string          `json:"item_id"`
		RequestName string          `json:"request_name"`
		Iteration   int             `json:"iteration"`
		Status      string          `json:"status"`
		StatusCode  int             `json:"status_code,omitempty"`
		DurationMs  int64           `json:"duration_ms"`
		Error       string          `json:"error,omitempty"`
		Assertions  []assertionJSON `json:"assertions,omitempty"`
	}

	out := struct {
		State   string       `json:"state"`
		Total   int          `json:"total"`
		Passed  int          `json:"passed"`
		Failed  int          `json:"failed"`
		Elapsed int64        `json:"elapsed_ms"`
		P50     int64        `json:"p50_ms"`
		P95     int64        `json:"p95_ms"`
		P99     int64        `json:"p99_ms"`
		Results []resultJSON `json:"results"`
	}{
		State:   run.State.String(),
		Total:   run.Stats.Total,
		Passed:  run.Stats.Passed,
		Failed:  run.Stats.Failed,
		Elapsed: run.Stats.Elapsed.Milliseconds(),
		P50:     run.Stats.P50.Milliseconds(),
		P95:     run.Stats.P95.Milliseconds(),
		P99:     run.Stats.P99.Milliseconds(),
	}

	for _, tr := range run.Results {
		rj := resultJSON{
			ItemID:      tr.ItemID,
			RequestName: tr.RequestName,
			Iteration:   tr.Iteration,
			Status:      string(tr.Status),
			StatusCode:  tr.StatusCode,
			DurationMs:  tr.DurationMs,
			Error:       tr.Error,
		}
		for _, a := range tr.Assertions {
			rj.Assertions = append(rj.Assertions, assertionJSON{
				Name:    a.Name,
				Passed:  a.Passed,
				Message: a.Message,
			})
		}
		out.Results = append(out.Results, rj)
	}

	return f.write(out)
}

func (f *JSONFormatter) write(v any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
