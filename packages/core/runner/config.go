package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/apiprobe/apiprobe/packages/assertions"
)

// Config parameterizes one collection run. It is validated once when the
// run starts and immutable for the run's duration.
type Config struct {
	// Iterations repeats the selected requests; must be at least 1.
	Iterations int

	// Delay is waited between items (only while more items remain).
	Delay time.Duration

	// StopOnError halts the run after the first failed item. Later items
	// are left pending.
	StopOnError bool

	// RateLimit caps dispatches per second. 0 means unlimited.
	RateLimit float64

	// Assertions declares per-item checks, keyed by flattened item ID.
	// Items without an entry get the default status check.
	Assertions map[string][]assertions.Spec

	// DataFile points to a JSON array of variable rows; iteration i is
	// resolved with row i (mod row count) overlaid on the environment.
	DataFile string
}

func (c *Config) validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must be >= 0, got %v", c.Delay)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be >= 0, got %v", c.RateLimit)
	}
	return nil
}

// loadDataRows reads the config's data file. Values are stringified since
// substitution is textual.
func (c *Config) loadDataRows() ([]map[string]string, error) {
	if c.DataFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.DataFile)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing data file: %w", err)
	}

	rows := make([]map[string]string, len(raw))
	for i, row := range raw {
		rows[i] = make(map[string]string, len(row))
		for k, v := range row {
			if s, ok := v.(string); ok {
				rows[i][k] = s
			} else {
				rows[i][k] = fmt.Sprintf("%v", v)
			}
		}
	}
	return rows, nil
}
