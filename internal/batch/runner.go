package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/badno/letterbox/internal/images"
	"github.com/badno/letterbox/internal/logging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseIndex     = 1000
	DefaultOutputDirName = "converted"
)

// Transformer converts one input image into one output PNG.
type Transformer interface {
	Transform(ctx context.Context, inputPath, outputPath string, size int) (images.Result, error)
}

// Options configures a batch run.
type Options struct {
	InputDir  string
	OutputDir string // defaults to <InputDir>/converted
	Size      int
	BaseIndex int
	Workers   int // defaults to 1, which processes files strictly in order
	KeepGoing bool
}

// NewOptions returns options for a sequential, fail-fast run over inputDir
// numbering outputs from DefaultBaseIndex. A zero Options value numbers
// from 0 instead.
func NewOptions(inputDir string, size int) Options {
	return Options{
		InputDir:  inputDir,
		Size:      size,
		BaseIndex: DefaultBaseIndex,
		Workers:   1,
	}
}

// Validate fills in defaults and rejects unusable settings.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.InputDir) == "" {
		return fmt.Errorf("%w: input directory is required", images.ErrConfig)
	}
	if o.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", images.ErrConfig, o.Size)
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", images.ErrConfig, o.Workers)
	}
	if strings.TrimSpace(o.OutputDir) == "" {
		o.OutputDir = filepath.Join(o.InputDir, DefaultOutputDirName)
	}
	return nil
}

// Status of a single task after a run.
type Status string

const (
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "not run"
)

// TaskResult pairs a planned task with its outcome.
type TaskResult struct {
	Task
	Result images.Result
	Status Status
	Err    error
}

// Summary reports the outcome of a run. Results are in plan order.
type Summary struct {
	RunID     string
	Plan      *Plan
	Results   []TaskResult
	Processed int
	Failed    int
	NotRun    int
	Bytes     int64
	Duration  time.Duration
}

// Runner drives a Transformer over every qualifying file of a directory.
type Runner struct {
	fs          FileSystem
	transformer Transformer
	observer    Observer

	mu sync.Mutex
}

// NewRunner creates a runner. A nil fs selects OSFileSystem and a nil
// observer selects NopObserver.
func NewRunner(fsys FileSystem, transformer Transformer, observer Observer) *Runner {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Runner{
		fs:          fsys,
		transformer: transformer,
		observer:    observer,
	}
}

// Run scans the input directory, creates the output directory and
// transforms every planned task.
//
// By default the first failure stops scheduling of further tasks; outputs
// already written are left in place. With KeepGoing every task is attempted
// and all failures are returned together. The summary is returned whenever
// the plan was built, even alongside an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := uuid.NewString()
	log := logging.L().With("run_id", runID)

	plan, err := Scan(r.fs, opts.InputDir, opts.OutputDir, opts.BaseIndex)
	if err != nil {
		return nil, err
	}
	if err := r.fs.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output directory: %w", images.ErrIO, err)
	}

	log.Info("batch started",
		"input", opts.InputDir,
		"output", opts.OutputDir,
		"size", opts.Size,
		"files", len(plan.Tasks),
		"skipped", len(plan.Skipped),
		"workers", opts.Workers,
	)
	r.observer.Planned(plan)

	summary := &Summary{
		RunID:   runID,
		Plan:    plan,
		Results: make([]TaskResult, len(plan.Tasks)),
	}
	for i, task := range plan.Tasks {
		summary.Results[i] = TaskResult{Task: task, Status: StatusSkipped}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, task := range plan.Tasks {
		if gctx.Err() != nil {
			break
		}
		i, task := i, task
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			res, err := r.transformer.Transform(gctx, task.Source, task.Output, opts.Size)
			if err != nil && errors.Is(err, context.Canceled) && gctx.Err() != nil {
				// stopped by another task's failure or by the caller
				return nil
			}

			r.record(summary, i, res, err)
			if err == nil {
				log.Debug("file converted", "index", task.Index, "source", task.Name, "bytes", res.Bytes)
				return nil
			}

			err = fmt.Errorf("%s: %w", task.Source, err)
			log.Error("file failed", "index", task.Index, "source", task.Name, "error", err)
			if opts.KeepGoing {
				return nil
			}
			return err
		})
	}

	err = g.Wait()
	if opts.KeepGoing {
		err = keepGoingError(summary, ctx.Err())
	} else if err == nil {
		err = ctx.Err()
	}

	for _, tr := range summary.Results {
		switch tr.Status {
		case StatusDone:
			summary.Processed++
			summary.Bytes += tr.Result.Bytes
		case StatusFailed:
			summary.Failed++
		default:
			summary.NotRun++
		}
	}
	summary.Duration = time.Since(started)
	log.Info("batch finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"not_run", summary.NotRun,
		"duration", summary.Duration.Round(time.Millisecond),
	)

	return summary, err
}

// keepGoingError aggregates task failures in plan order, followed by the
// cancellation cause if the run was interrupted.
func keepGoingError(summary *Summary, cause error) error {
	var failures *multierror.Error
	for _, tr := range summary.Results {
		if tr.Status == StatusFailed {
			failures = multierror.Append(failures, fmt.Errorf("%s: %w", tr.Source, tr.Err))
		}
	}
	if cause != nil {
		failures = multierror.Append(failures, cause)
	}
	return failures.ErrorOrNil()
}

func (r *Runner) record(summary *Summary, i int, res images.Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tr := &summary.Results[i]
	tr.Result = res
	tr.Err = err
	if err != nil {
		tr.Status = StatusFailed
	} else {
		tr.Status = StatusDone
	}
	r.observer.Completed(tr.Task, res, err)
}
