package runner

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/apiprobe/apiprobe/packages/assertions"
	"github.com/apiprobe/apiprobe/packages/core/env"
	"github.com/apiprobe/apiprobe/packages/descriptor"
	"github.com/apiprobe/apiprobe/packages/engine"
	"github.com/apiprobe/apiprobe/packages/history"
	"github.com/apiprobe/apiprobe/packages/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runnerCollection = `{
  "info": {"name": "Run Fixture"},
  "item": [
    {"name": "ping", "request": {"method": "GET", "url": "{{BASE_URL}}/ping"}},
    {
      "name": "Users",
      "item": [
        {"name": "list users", "request": {"method": "GET", "url": "{{BASE_URL}}/users"}}
      ]
    },
    {"name": "health", "request": {"method": "GET", "url": "{{BASE_URL}}/health"}}
  ]
}`

func fixtureCollection(t *testing.T) *descriptor.Descriptor {
	t.Helper()
	d := descriptor.Normalize(descriptor.KindPostman, "fixture", "fixture.json", runnerCollection)
	require.Empty(t, d.Error)
	require.Len(t, d.Operations, 3)
	return d
}

// okEngine answers every request with 200 through the simulator, resolving
// against the given base URL.
func okEngine(handler func(req *request.Request) (*engine.Response, error)) *engine.Engine {
	if handler == nil {
		handler = func(req *request.Request) (*engine.Response, error) {
			return &engine.Response{StatusCode: 200, Status: "200 OK", Body: []byte(`{"ok": true}`)}, nil
		}
	}
	transport := &engine.SimulatedTransport{Handler: handler}
	envs := env.NewManager(env.NewEnvironment("test", map[string]string{
		"BASE_URL": "https://run.test",
	}))
	return engine.New(transport, envs)
}

func TestRun_AllItemsAllIterations(t *testing.T) {
	var mu sync.Mutex
	var urls []string
	eng := okEngine(func(req *request.Request) (*engine.Response, error) {
		mu.Lock()
		urls = append(urls, req.URL)
		mu.Unlock()
		return &engine.Response{StatusCode: 200}, nil
	})

	r := New(eng)
	res, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 2})
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, res.State)
	require.Len(t, res.Results, 6)
	assert.Equal(t, 6, res.Stats.Total)
	assert.Equal(t, 6, res.Stats.Dispatched)
	assert.Equal(t, 6, res.Stats.Passed)
	assert.Zero(t, res.Stats.Failed)

	// Iteration-major order: all of iteration 0, then iteration 1.
	for i, tr := range res.Results {
		assert.Equal(t, i/3, tr.Iteration)
		assert.Equal(t, StatusPassed, tr.Status)
	}
	assert.Equal(t, []string{"0", "1-0", "2", "0", "1-0", "2"},
		[]string{res.Results[0].ItemID, res.Results[1].ItemID, res.Results[2].ItemID,
			res.Results[3].ItemID, res.Results[4].ItemID, res.Results[5].ItemID})

	// Placeholders resolve at dispatch time for every item.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "https://run.test/ping", urls[0])
	assert.Equal(t, "https://run.test/users", urls[1])
	assert.Equal(t, "https://run.test/health", urls[2])
}

func TestRun_Selection(t *testing.T) {
	r := New(okEngine(nil))
	res, err := r.Run(context.Background(), fixtureCollection(t), []string{"2", "0"}, Config{Iterations: 1})
	require.NoError(t, err)

	// Selection filters but never reorders.
	require.Len(t, res.Results, 2)
	assert.Equal(t, "0", res.Results[0].ItemID)
	assert.Equal(t, "2", res.Results[1].ItemID)
}

func TestRun_InvalidArguments(t *testing.T) {
	r := New(okEngine(nil))
	coll := fixtureCollection(t)

	_, err := r.Run(context.Background(), coll, nil, Config{Iterations: 0})
	assert.Error(t, err)

	_, err = r.Run(context.Background(), nil, nil, Config{Iterations: 1})
	assert.Error(t, err)

	openapi := &descriptor.Descriptor{Kind: descriptor.KindOpenAPI}
	_, err = r.Run(context.Background(), openapi, nil, Config{Iterations: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Postman")

	_, err = r.Run(context.Background(), coll, []string{"99"}, Config{Iterations: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no requests selected")

	// A failed validation never touches the runner state.
	assert.Equal(t, StateIdle, r.State())
}

func TestRun_StopOnErrorLeavesRestPending(t *testing.T) {
	eng := okEngine(func(req *request.Request) (*engine.Response, error) {
		if req.URL == "https://run.test/users" {
			return &engine.Response{StatusCode: 500, Status: "500 Internal Server Error"}, nil
		}
		return &engine.Response{StatusCode: 200}, nil
	})

	r := New(eng)
	res, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{
		Iterations:  2,
		StopOnError: true,
	})
	require.NoError(t, err)

	assert.Equal(t, StateStopped, res.State)
	require.Len(t, res.Results, 6)
	assert.Equal(t, StatusPassed, res.Results[0].Status)
	assert.Equal(t, StatusFailed, res.Results[1].Status)
	for _, tr := range res.Results[2:] {
		assert.Equal(t, StatusPending, tr.Status)
	}
	assert.Equal(t, 2, res.Stats.Dispatched)
	assert.Equal(t, 1, res.Stats.Failed)
}

func TestRun_TransportFailureCountsAsFailed(t *testing.T) {
	eng := okEngine(func(req *request.Request) (*engine.Response, error) {
		return nil, errors.New("connection refused")
	})

	r := New(eng)
	res, err := r.Run(context.Background(), fixtureCollection(t), []string{"0"}, Config{Iterations: 1})
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, res.State)
	require.Len(t, res.Results, 1)
	tr := res.Results[0]
	assert.Equal(t, StatusFailed, tr.Status)
	assert.Equal(t, "connection refused", tr.Error)
	assert.Zero(t, tr.StatusCode)
	require.Len(t, tr.Assertions, 1)
	assert.Equal(t, "request completed", tr.Assertions[0].Name)
}

func TestRun_PauseAndResume(t *testing.T) {
	eng := okEngine(nil)

	var r *Runner
	paused := make(chan struct{})
	once := sync.Once{}
	r = New(eng, WithOnResult(func(index int, result *TestResult) {
		if index == 0 && result.Status == StatusPassed {
			once.Do(func() {
				require.NoError(t, r.Pause())
				close(paused)
			})
		}
	}))

	go func() {
		<-paused
		// While paused nothing past the first item has started.
		results := r.Results()
		for _, tr := range results[1:] {
			assert.Equal(t, StatusPending, tr.Status)
		}
		assert.Equal(t, StatePaused, r.State())
		require.NoError(t, r.Resume())
	}()

	res, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 1})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, 3, res.Stats.Passed)
}

func TestRun_StopMidRun(t *testing.T) {
	eng := okEngine(nil)

	var r *Runner
	once := sync.Once{}
	r = New(eng, WithOnResult(func(index int, result *TestResult) {
		if index == 0 && result.Status == StatusPassed {
			once.Do(func() { require.NoError(t, r.Stop()) })
		}
	}))

	res, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 3})
	require.NoError(t, err)

	assert.Equal(t, StateStopped, res.State)
	assert.Equal(t, 1, res.Stats.Dispatched)
	assert.Equal(t, StatusPending, res.Results[1].Status)
}

func TestRun_ContextCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	eng := okEngine(nil)
	var r *Runner
	once := sync.Once{}
	r = New(eng, WithOnResult(func(index int, result *TestResult) {
		if result.Status == StatusPassed {
			once.Do(func() {
				cancel()
				// Give the cancellation watcher time to flip the state
				// before the next checkpoint looks at it.
				time.Sleep(50 * time.Millisecond)
			})
		}
	}))

	res, err := r.Run(ctx, fixtureCollection(t), nil, Config{
		Iterations: 2,
		Delay:      50 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, StateStopped, res.State)
	assert.Less(t, res.Stats.Dispatched, res.Stats.Total)
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startOnce sync.Once
	eng := okEngine(func(req *request.Request) (*engine.Response, error) {
		startOnce.Do(func() { close(started) })
		<-release
		return &engine.Response{StatusCode: 200}, nil
	})

	r := New(eng)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 1})
		assert.NoError(t, err)
	}()

	<-started
	_, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")

	close(release)
	<-done
	assert.Equal(t, StateCompleted, r.State())
}

func TestRun_PerItemAssertions(t *testing.T) {
	eng := okEngine(func(req *request.Request) (*engine.Response, error) {
		return &engine.Response{
			StatusCode: 200,
			Body:       []byte(`{"status": "healthy"}`),
		}, nil
	})

	r := New(eng)
	res, err := r.Run(context.Background(), fixtureCollection(t), []string{"0", "2"}, Config{
		Iterations: 1,
		Assertions: map[string][]assertions.Spec{
			"2": {
				{BodyPath: "status", Equals: "healthy"},
				{BodyPath: "status", Equals: "down"},
			},
		},
	})
	require.NoError(t, err)

	// Item 0 falls back to the default status check.
	require.Len(t, res.Results[0].Assertions, 1)
	assert.Equal(t, "status is success", res.Results[0].Assertions[0].Name)

	require.Len(t, res.Results[1].Assertions, 2)
	assert.True(t, res.Results[1].Assertions[0].Passed)
	assert.False(t, res.Results[1].Assertions[1].Passed)
	assert.Equal(t, StatusFailed, res.Results[1].Status)
	assert.Equal(t, 1, res.Stats.Failed)
}

func TestRun_DataRowsOverlayEnvironment(t *testing.T) {
	dataFile := t.TempDir() + "/rows.json"
	writeFile(t, dataFile, `[
		{"BASE_URL": "https://row0.test"},
		{"BASE_URL": "https://row1.test"}
	]`)

	var mu sync.Mutex
	var urls []string
	eng := okEngine(func(req *request.Request) (*engine.Response, error) {
		mu.Lock()
		urls = append(urls, req.URL)
		mu.Unlock()
		return &engine.Response{StatusCode: 200}, nil
	})

	r := New(eng)
	_, err := r.Run(context.Background(), fixtureCollection(t), []string{"0"}, Config{
		Iterations: 3,
		DataFile:   dataFile,
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	// Rows cycle per iteration; the snapshot environment is the fallback.
	assert.Equal(t, []string{
		"https://row0.test/ping",
		"https://row1.test/ping",
		"https://row0.test/ping",
	}, urls)
}

func TestRun_AppendsHistory(t *testing.T) {
	store := history.NewMemoryStore()
	r := New(okEngine(nil), WithHistory(store, "/tmp/fixture.json"))

	_, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 1})
	require.NoError(t, err)

	entries, err := store.List("/tmp/fixture.json")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first: the last dispatched request leads.
	assert.Equal(t, "https://run.test/health", entries[0].URL)
	assert.Equal(t, descriptor.KindPostman, entries[0].APIKind)
}

func TestRun_ProgressCallback(t *testing.T) {
	var mu sync.Mutex
	var dispatched []int
	r := New(okEngine(nil), WithOnProgress(func(stats Stats) {
		mu.Lock()
		dispatched = append(dispatched, stats.Dispatched)
		mu.Unlock()
	}))

	_, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 1})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, dispatched)
}

func TestRunnerTransitions_FromIdle(t *testing.T) {
	r := New(okEngine(nil))
	assert.Error(t, r.Pause())
	assert.Error(t, r.Resume())
	assert.Error(t, r.Stop())
}

func TestRun_Reusable(t *testing.T) {
	r := New(okEngine(nil))

	for i := 0; i < 2; i++ {
		res, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 1})
		require.NoError(t, err, "run %d", i)
		assert.Equal(t, StateCompleted, res.State)
		assert.Equal(t, 3, res.Stats.Dispatched)
	}
}

func TestStats_Percentiles(t *testing.T) {
	eng := okEngine(nil)
	r := New(eng)

	res, err := r.Run(context.Background(), fixtureCollection(t), nil, Config{Iterations: 2})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Stats.P95, res.Stats.P50)
	assert.GreaterOrEqual(t, res.Stats.P99, res.Stats.P95)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
