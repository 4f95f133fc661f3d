package output

import (
	"fmt"
	"io"
	"os"

	"github.com/apiprobe/apiprobe/packages/core/runner"
	"github.com/apiprobe/apiprobe/packages/descriptor"
	"github.com/apiprobe/apiprobe/packages/engine"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatDescriptor prints the operations extracted from an artifact, or the
// degraded state when parsing found nothing.
func (f *ConsoleFormatter) FormatDescriptor(d *descriptor.Descriptor) {
	bold := color.New(color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	title := d.Name
	if title == "" {
		title = d.SourcePath
	}
	fmt.Fprintf(f.writer, "\n%s (%s)", bold(title), d.Kind)
	if d.Version != "" {
		fmt.Fprintf(f.writer, " v%s", d.Version)
	}
	fmt.Fprintln(f.writer)

	if len(d.Operations) == 0 {
		msg := "no operations found"
		if d.Error != "" {
			msg += ": " + d.Error
		}
		fmt.Fprintf(f.writer, "  %s\n", yellow(msg))
		return
	}

	for _, op := range d.Operations {
		switch o := op.(type) {
		case *descriptor.RESTOperation:
			fmt.Fprintf(f.writer, "  %-7s %s", o.Method, o.Path)
			if f.verbose && o.Summary != "" {
				fmt.Fprintf(f.writer, "  - %s", o.Summary)
			}
			fmt.Fprintln(f.writer)
		case *descriptor.GraphQLOperation:
			for _, field := range o.Fields {
				fmt.Fprintf(f.writer, "  query %s\n", field)
			}
		case *descriptor.GrpcMethod:
			streamNote := ""
			if o.RequestStream || o.ResponseStream {
				streamNote = " [stream]"
			}
			fmt.Fprintf(f.writer, "  rpc %s/%s(%s) returns (%s)%s\n",
				o.Service, o.Name, o.RequestType, o.ResponseType, streamNote)
		case *descriptor.PostmanRequest:
			fmt.Fprintf(f.writer, "  [%s] %-7s %s  %s\n", o.ID, o.Method, o.Name, o.URL)
		}
	}
}

// FormatExecution prints a single dispatch outcome. Transport failures
// render the error in place of a response body.
func (f *ConsoleFormatter) FormatExecution(res *engine.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if res.Failed() {
		fmt.Fprintf(f.writer, "%s %s (%dms)\n", red("✗"), res.Error, res.DurationMs())
		return
	}

	statusColor := green
	if res.StatusCode >= 400 {
		statusColor = red
	} else if res.StatusCode >= 300 {
		statusColor = yellow
	}

	fmt.Fprintf(f.writer, "%s %s (%dms)\n", statusColor("●"), res.Status, res.DurationMs())
	if f.verbose {
		for k, v := range res.Headers {
			fmt.Fprintf(f.writer, "  %s: %s\n", k, v)
		}
	}
	if len(res.Body) > 0 {
		fmt.Fprintf(f.writer, "%s\n", res.BodyString())
	}
}

// FormatRun prints a collection run's results and summary counters.
func (f *ConsoleFormatter) FormatRun(run *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintln(f.writer)
	for _, tr := range run.Results {
		switch tr.Status {
		case runner.StatusPassed:
			fmt.Fprintf(f.writer, "  %s %s (%dms)\n", green("✓"), tr.RequestName, tr.DurationMs)
		case runner.StatusFailed:
			fmt.Fprintf(f.writer, "  %s %s (%dms)\n", red("✗"), tr.RequestName, tr.DurationMs)
			for _, a := range tr.Assertions {
				if a.Passed {
					continue
				}
				fmt.Fprintf(f.writer, "      %s: %s\n", a.Name, a.Message)
			}
			if tr.Error != "" {
				fmt.Fprintf(f.writer, "      %s\n", tr.Error)
			}
		default:
			fmt.Fprintf(f.writer, "  %s %s (%s)\n", yellow("-"), tr.RequestName, tr.Status)
		}

		if f.verbose {
			for _, a := range tr.Assertions {
				mark := green("✓")
				if !a.Passed {
					mark = red("✗")
				}
				fmt.Fprintf(f.writer, "      %s %s\n", mark, a.Name)
			}
		}
	}

	s := run.Stats
	fmt.Fprintf(f.writer, "\n%s %s\n", bold("Run "+run.State.String()+":"),
		fmt.Sprintf("%d dispatched, %s, %s in %v",
			s.Dispatched,
			green(fmt.Sprintf("%d passed", s.Passed)),
			red(fmt.Sprintf("%d failed", s.Failed)),
			s.Elapsed.Round(timeRounding)))
	if s.Dispatched > 0 {
		fmt.Fprintf(f.writer, "%s p50=%v p95=%v p99=%v\n", cyan("Latency:"),
			s.P50.Round(timeRounding), s.P95.Round(timeRounding), s.P99.Round(timeRounding))
	}
}
