// FILE: faultline/src/cmd/faultline/commands/demo.go
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"faultline/src/internal/aggregate"
	"faultline/src/internal/core"
	"faultline/src/internal/fault"
	"faultline/src/internal/pipeline"
	"faultline/src/internal/retry"
)

// DemoCommand walks through the pipeline against a temporary log directory
type DemoCommand struct {
	out io.Writer
}

// NewDemoCommand creates a new demo command
func NewDemoCommand(out io.Writer) *DemoCommand {
	return &DemoCommand{out: out}
}

func (c *DemoCommand) Execute(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		logDir string
		mode   string
		keep   bool
	)
	fs.StringVar(&logDir, "log-dir", "", "")
	fs.StringVar(&mode, "mode", "plain", "")
	fs.BoolVar(&keep, "keep", false, "")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse demo flags: %w", err)
	}

	if logDir == "" {
		dir, err := os.MkdirTemp("", "faultline-demo-")
		if err != nil {
			return fmt.Errorf("failed to create demo directory: %w", err)
		}
		logDir = dir
		if !keep {
			defer os.RemoveAll(dir)
		}
	}

	lc, err := pipeline.ConfigureSinks(logDir, mode, pipeline.WithLoggerName("demo"))
	if err != nil {
		return err
	}

	summary := runDemo(context.Background(), lc)

	if err := lc.Close(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Log directory: %s\n", logDir)
	entries, _ := os.ReadDir(logDir)
	for _, e := range entries {
		if info, err := e.Info(); err == nil {
			fmt.Fprintf(c.out, "  %-28s %d bytes\n", e.Name(), info.Size())
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\nError report:\n%s\n", data)
	return nil
}

// runDemo exercises every pipeline operation once and returns the report.
func runDemo(ctx context.Context, lc *pipeline.LoggingContext) aggregate.Summary {
	log := lc.Logger("demo.users")

	validation := fault.Validation("Invalid email format",
		fault.WithCode("INVALID_EMAIL"),
		fault.WithContext("email", "invalid-email"),
	)
	log.LogError(core.SeverityWarning, validation)
	lc.RecordError("validate_user", validation, core.SeverityWarning, "email", "invalid-email")

	dbErr := fault.Database("Query timeout",
		fault.WithCode("DB_TIMEOUT"),
		fault.WithContext("query", "SELECT * FROM users", "timeout", 30),
	)
	lc.ReportError("database_query", dbErr, "table", "users")

	calls := 0
	_ = lc.Retry(ctx, "fetch_profile", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fault.Timeout("profile service did not answer", fault.WithContext("attempt", calls))
		}
		return nil
	}, retry.Policy{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond, BackoffFactor: 2})

	guard := lc.WithOperationScope("rebuild_index")
	func() {
		var err error
		defer guard.End(&err)
		err = errors.New("index shard unavailable")
	}()

	_ = lc.Timed(ctx, "export_report", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	return lc.Report()
}

func (c *DemoCommand) Description() string {
	return "Run a walkthrough of error capture, retry and reporting"
}

func (c *DemoCommand) Help() string {
	return `Demo Command - Run a walkthrough of error capture, retry and reporting

Usage:
  faultline demo [options]

Options:
  --log-dir <dir>   Write logs here instead of a temporary directory
  --mode <mode>     Topology preset: plain, structured (default: plain)
  --keep            Keep the temporary directory after the run

The walkthrough logs a validation error, reports a database failure,
retries a flaky call, tracks a failing scoped operation and prints the
aggregated error report.
`
}
