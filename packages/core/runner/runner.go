package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/apiprobe/apiprobe/packages/assertions"
	"github.com/apiprobe/apiprobe/packages/core/env"
	"github.com/apiprobe/apiprobe/packages/descriptor"
	"github.com/apiprobe/apiprobe/packages/engine"
	"github.com/apiprobe/apiprobe/packages/history"
	"github.com/apiprobe/apiprobe/packages/request"
	"golang.org/x/time/rate"
)

// TestResult tracks one (request × iteration) through the run. Created
// pending when the run starts and mutated in place as it progresses; the
// final state is terminal.
type TestResult struct {
	ItemID      string
	RequestName string
	Iteration   int
	Status      Status
	StatusCode  int
	DurationMs  int64
	Error       string
	Assertions  []assertions.Result
}

// RunResult is the aggregate outcome of one collection run.
type RunResult struct {
	State   State
	Results []*TestResult
	Stats   Stats
}

// ResultFunc observes a test result transition. The pointer is shared with
// the runner; treat it as read-only.
type ResultFunc func(index int, result *TestResult)

// ProgressFunc observes the running counters after every item.
type ProgressFunc func(stats Stats)

type Option func(*Runner)

// WithHistory appends every dispatch of a run to the store under repoKey.
func WithHistory(store history.Store, repoKey string) Option {
	return func(r *Runner) {
		r.histStore = store
		r.histKey = repoKey
	}
}

func WithOnResult(fn ResultFunc) Option {
	return func(r *Runner) {
		r.onResult = fn
	}
}

func WithOnProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.onProgress = fn
	}
}

// Runner drives collection runs. One run may be active at a time; Pause,
// Resume, and Stop may be called from other goroutines and take effect at
// the checkpoint before the next item.
type Runner struct {
	eng *engine.Engine

	mu        sync.Mutex
	cond      *sync.Cond
	state     State
	results   []*TestResult
	stats     Stats
	histogram *hdrhistogram.Histogram

	histStore  history.Store
	histKey    string
	onResult   ResultFunc
	onProgress ProgressFunc
}

func New(eng *engine.Engine, opts ...Option) *Runner {
	r := &Runner{
		eng:       eng,
		state:     StateIdle,
		histogram: newLatencyHistogram(),
	}
	r.cond = sync.NewCond(&r.mu)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Stats returns a copy of the live counters.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Results returns value copies of the current test results.
func (r *Runner) Results() []TestResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TestResult, len(r.results))
	for i, tr := range r.results {
		out[i] = *tr
	}
	return out
}

// Pause suspends the run before the next item. The in-flight item, if any,
// completes first.
func (r *Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return fmt.Errorf("cannot pause from state %s", r.state)
	}
	r.state = StatePaused
	return nil
}

// Resume continues a paused run.
func (r *Runner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePaused {
		return fmt.Errorf("cannot resume from state %s", r.state)
	}
	r.state = StateRunning
	r.cond.Broadcast()
	return nil
}

// Stop aborts the run at the next checkpoint. Remaining items keep whatever
// state they are in, typically pending.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning && r.state != StatePaused {
		return fmt.Errorf("cannot stop from state %s", r.state)
	}
	r.state = StateStopped
	r.cond.Broadcast()
	return nil
}

// Run executes the selected requests of a Postman collection. A nil
// selection runs every request leaf; folders are never selectable. Invalid
// arguments fail synchronously; everything that happens after the run
// starts is captured in the returned RunResult instead.
func (r *Runner) Run(ctx context.Context, coll *descriptor.Descriptor, selected []string, cfg Config) (*RunResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, fmt.Errorf("collection is nil")
	}
	if coll.Kind != descriptor.KindPostman {
		return nil, fmt.Errorf("collection runs require a Postman descriptor, got %s", coll.Kind)
	}

	items := selectItems(coll, selected)
	if len(items) == 0 {
		return nil, fmt.Errorf("no requests selected")
	}

	dataRows, err := cfg.loadDataRows()
	if err != nil {
		return nil, err
	}

	if err := r.begin(cfg.Iterations, items); err != nil {
		return nil, err
	}

	// The environment is snapshotted once: switching the current
	// environment mid-run takes effect on the next run only.
	baseEnv := r.eng.Environments().Snapshot()

	// Map context cancellation onto the regular stop path so it is
	// observed at the next checkpoint like any other stop.
	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = r.Stop()
		case <-watcherDone:
		}
	}()

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	start := time.Now()

	for iter := 0; iter < cfg.Iterations; iter++ {
		iterEnv := overlayEnv(baseEnv, dataRows, iter)

		for i, item := range items {
			// Sole suspension points of the run: the pause/stop
			// checkpoint here and the delay below.
			if !r.awaitRunnable() {
				return r.finish(start), nil
			}
			if limiter != nil && limiter.Wait(ctx) != nil && !r.awaitRunnable() {
				return r.finish(start), nil
			}

			idx := iter*len(items) + i
			r.markRunning(idx)

			res := r.eng.ExecuteIn(ctx, request.Seed(item), iterEnv)
			checks := assertions.Evaluate(res, cfg.Assertions[item.ID])
			passed := assertions.AllPassed(checks)

			r.record(idx, res, checks, passed, time.Since(start))

			if r.histStore != nil {
				_ = r.histStore.Append(r.histKey, history.NewEntry(descriptor.KindPostman, res))
			}

			if !passed && cfg.StopOnError {
				r.mu.Lock()
				if r.state == StateRunning || r.state == StatePaused {
					r.state = StateStopped
					r.cond.Broadcast()
				}
				r.mu.Unlock()
				return r.finish(start), nil
			}

			last := iter == cfg.Iterations-1 && i == len(items)-1
			if cfg.Delay > 0 && !last {
				select {
				case <-time.After(cfg.Delay):
				case <-ctx.Done():
					// Stop lands via the watcher; the checkpoint
					// at the top of the loop observes it.
				}
			}
		}
	}

	return r.finish(start), nil
}

// begin transitions into Running, resets per-run state, and creates one
// pending result per (request × iteration) in iteration-major order. It
// fails when a run is already active.
func (r *Runner) begin(iterations int, items []*descriptor.PostmanRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRunning || r.state == StatePaused {
		return fmt.Errorf("a run is already in progress")
	}

	r.state = StateRunning
	r.histogram = newLatencyHistogram()
	r.stats = Stats{Total: iterations * len(items)}
	r.results = make([]*TestResult, 0, r.stats.Total)
	for iter := 0; iter < iterations; iter++ {
		for _, item := range items {
			r.results = append(r.results, &TestResult{
				ItemID:      item.ID,
				RequestName: item.Name,
				Iteration:   iter,
				Status:      StatusPending,
			})
		}
	}
	return nil
}

// awaitRunnable blocks while paused and reports whether execution may
// proceed. False means the run was stopped.
func (r *Runner) awaitRunnable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.state == StatePaused {
		r.cond.Wait()
	}
	return r.state == StateRunning
}

func (r *Runner) markRunning(idx int) {
	r.mu.Lock()
	tr := r.results[idx]
	tr.Status = StatusRunning
	fn := r.onResult
	r.mu.Unlock()

	if fn != nil {
		fn(idx, tr)
	}
}

func (r *Runner) record(idx int, res *engine.Result, checks []assertions.Result, passed bool, elapsed time.Duration) {
	r.mu.Lock()
	tr := r.results[idx]
	tr.StatusCode = res.StatusCode
	tr.DurationMs = res.DurationMs()
	tr.Error = res.Error
	tr.Assertions = checks
	if passed {
		tr.Status = StatusPassed
		r.stats.Passed++
	} else {
		tr.Status = StatusFailed
		r.stats.Failed++
	}
	r.stats.Dispatched++
	r.stats.Elapsed = elapsed

	_ = r.histogram.RecordValue(res.Duration.Microseconds())
	r.stats.P50, r.stats.P95, r.stats.P99 = percentiles(r.histogram)

	stats := r.stats
	onResult := r.onResult
	onProgress := r.onProgress
	r.mu.Unlock()

	if onResult != nil {
		onResult(idx, tr)
	}
	if onProgress != nil {
		onProgress(stats)
	}
}

// finish settles the terminal state (a stopped run stays Stopped) and
// assembles the run result.
func (r *Runner) finish(start time.Time) *RunResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRunning {
		r.state = StateCompleted
	}
	r.stats.Elapsed = time.Since(start)

	results := make([]*TestResult, len(r.results))
	copy(results, r.results)
	return &RunResult{
		State:   r.state,
		Results: results,
		Stats:   r.stats,
	}
}

// selectItems filters the collection's flattened request leaves by ID,
// preserving document order. Folder nodes are already discarded by the
// normalizer's flattening.
func selectItems(coll *descriptor.Descriptor, selected []string) []*descriptor.PostmanRequest {
	var wanted map[string]bool
	if selected != nil {
		wanted = make(map[string]bool, len(selected))
		for _, id := range selected {
			wanted[id] = true
		}
	}

	var items []*descriptor.PostmanRequest
	for _, op := range coll.Operations {
		pr, ok := op.(*descriptor.PostmanRequest)
		if !ok {
			continue
		}
		if wanted == nil || wanted[pr.ID] {
			items = append(items, pr)
		}
	}
	return items
}

// overlayEnv merges the iteration's data row over the snapshot environment.
func overlayEnv(base *env.Environment, rows []map[string]string, iteration int) *env.Environment {
	if len(rows) == 0 {
		return base
	}
	row := rows[iteration%len(rows)]

	merged := base.Clone()
	if merged == nil {
		merged = env.NewEnvironment("data", nil)
	}
	for k, v := range row {
		merged.Variables[k] = v
	}
	return merged
}
