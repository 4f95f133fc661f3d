package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/apiprobe/apiprobe/packages/assertions"
	"github.com/apiprobe/apiprobe/packages/core/runner"
	"github.com/apiprobe/apiprobe/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// WatchDebounceDelay is the debounce delay for file watch events
// to avoid re-running on rapid successive writes.
const WatchDebounceDelay = 300 * time.Millisecond

var (
	runIterationsFlag  int
	runDelayFlag       time.Duration
	runStopOnErrorFlag bool
	runSelectFlag      []string
	runRateFlag        float64
	runDataFlag        string
	runAssertFlag      string
	runEnvFlag         string
	runEnvFileFlag     string
	runConfigFlag      string
	runSimulateFlag    bool
	runOutputFlag      string
	runVerboseFlag     bool
	runWatchFlag       bool
)

var runCmd = &cobra.Command{
	Use:   "run <collection>",
	Short: "Replay a Postman collection as a batch run",
	Long: `Execute every request of a Postman collection in document order,
optionally repeated over multiple iterations with a delay between
items. Each response is checked against its assertions and the run
ends with pass/fail totals and latency percentiles.

Examples:
  apiprobe run api.postman.json
  apiprobe run api.postman.json -n 3 --delay 500ms
  apiprobe run api.postman.json --select 0,1-0 --stop-on-error
  apiprobe run api.postman.json --env staging --output json
  apiprobe run api.postman.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runCommand,
}

func init() {
	runCmd.Flags().IntVarP(&runIterationsFlag, "iterations", "n", 1, "Number of times to repeat the selection")
	runCmd.Flags().DurationVar(&runDelayFlag, "delay", 0, "Pause between items (e.g. 500ms)")
	runCmd.Flags().BoolVar(&runStopOnErrorFlag, "stop-on-error", false, "Halt the run after the first failed item")
	runCmd.Flags().StringSliceVarP(&runSelectFlag, "select", "s", nil, "Item IDs to run (default: all)")
	runCmd.Flags().Float64Var(&runRateFlag, "rate", 0, "Max dispatches per second (0 = unlimited)")
	runCmd.Flags().StringVar(&runDataFlag, "data", "", "JSON array of variable rows, one per iteration")
	runCmd.Flags().StringVar(&runAssertFlag, "assertions", "", "JSON file mapping item IDs to assertion specs")
	runCmd.Flags().StringVarP(&runEnvFlag, "env", "e", getEnvString("APIPROBE_ENV", ""), "Environment to resolve against (env: APIPROBE_ENV)")
	runCmd.Flags().StringVar(&runEnvFileFlag, "env-file", "", "Path to .env file with variables")
	runCmd.Flags().StringVar(&runConfigFlag, "config", getEnvString("APIPROBE_CONFIG", ""), "Path to config file (env: APIPROBE_CONFIG)")
	runCmd.Flags().BoolVar(&runSimulateFlag, "simulate", false, "Use the simulated transport instead of real HTTP")
	runCmd.Flags().StringVarP(&runOutputFlag, "output", "o", "console", "Output format: console, json")
	runCmd.Flags().BoolVarP(&runVerboseFlag, "verbose", "v", false, "Show every result line, not just failures")
	runCmd.Flags().BoolVarP(&runWatchFlag, "watch", "w", false, "Watch the collection file and re-run on changes")
}

func runCommand(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfigFlag(runConfigFlag)
	if err != nil {
		return err
	}

	runCfg := runner.Config{
		Iterations:  runIterationsFlag,
		Delay:       runDelayFlag,
		StopOnError: runStopOnErrorFlag,
		RateLimit:   runRateFlag,
		DataFile:    runDataFlag,
	}
	if runAssertFlag != "" {
		specs, err := loadAssertionSpecs(runAssertFlag)
		if err != nil {
			return err
		}
		runCfg.Assertions = specs
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	runOnce := func() (*runner.RunResult, error) {
		coll, err := loadArtifact(path, "postman")
		if err != nil {
			return nil, err
		}
		if len(coll.Operations) == 0 && coll.Error != "" {
			return nil, fmt.Errorf("loading collection: %s", coll.Error)
		}

		envs, err := buildEnvironments(cfg, runEnvFlag, runEnvFileFlag)
		if err != nil {
			return nil, err
		}
		eng := buildEngine(cfg, envs, runSimulateFlag)

		r := runner.New(eng, runner.WithHistory(store, repoKey(path)))
		res, err := r.Run(ctx, coll, runSelectFlag, runCfg)
		if err != nil {
			return nil, err
		}

		if strings.ToLower(runOutputFlag) == "json" {
			if err := output.NewJSONFormatter(cmd.OutOrStdout()).FormatRun(res); err != nil {
				return nil, err
			}
		} else {
			formatter := output.NewConsoleFormatter(
				output.WithWriter(cmd.OutOrStdout()),
				output.WithVerbose(runVerboseFlag),
				output.WithNoColor(cfg.GetNoColor()),
			)
			formatter.FormatRun(res)
		}
		return res, nil
	}

	res, err := runOnce()
	if err != nil {
		return err
	}

	if !runWatchFlag {
		if res.Stats.Failed > 0 {
			os.Exit(1)
		}
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	abs := repoKey(path)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && repoKey(event.Name) == abs {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-running...\n\n", event.Name)
					if _, err := runOnce(); err != nil {
						fmt.Fprintf(os.Stderr, "error: %v\n", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", werr)
		}
	}
}

// loadAssertionSpecs reads a JSON object mapping flattened item IDs to
// assertion spec arrays.
func loadAssertionSpecs(path string) (map[string][]assertions.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading assertions: %w", err)
	}
	var specs map[string][]assertions.Spec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing assertions: %w", err)
	}
	return specs, nil
}
