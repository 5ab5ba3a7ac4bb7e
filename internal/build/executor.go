package build

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mridgway/shaker/internal/logging"
	"github.com/mridgway/shaker/internal/metadata"
)

// Executor drains build tasks with a fixed maximum number of simultaneously
// in-flight tasks. One executor instance serves one run.
//
// There is no cancellation of in-flight tasks: after a failure, siblings
// already running complete and their sink writes land. A shared abort flag
// makes queued-but-unstarted tasks short-circuit instead, and the first
// failure is surfaced as the run-level error.
type Executor struct {
	// MaxConcurrent bounds in-flight tasks. Values below 1 mean 1.
	MaxConcurrent int
	// Delay is an artificial pause before each task is dispatched, for
	// exercising slow-backend behavior. Zero disables it.
	Delay time.Duration

	Logger logging.Logger
}

// NewExecutor creates an executor with the given concurrency bound and
// per-task delay.
func NewExecutor(maxConcurrent int, delay time.Duration, logger logging.Logger) *Executor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = logging.NewTestLogger()
	}
	return &Executor{MaxConcurrent: maxConcurrent, Delay: delay, Logger: logger}
}

// Run submits the tasks in order, waits for every one of them to complete,
// then invokes onDrain exactly once with the first failure (or nil). Each
// completing task writes its produced URL into its sink on the tree.
func (e *Executor) Run(ctx context.Context, tree *metadata.Tree, tasks []Task, onDrain func(error)) {
	var (
		wg       sync.WaitGroup
		aborted  atomic.Bool
		errOnce  sync.Once
		firstErr error
	)

	sem := make(chan struct{}, e.MaxConcurrent)
	logger := e.Logger.WithComponent("executor")

	for _, task := range tasks {
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if aborted.Load() {
				logger.Debug(ctx, "skipping task after abort", "bundle", task.Options.Name)
				return
			}

			if e.Delay > 0 {
				time.Sleep(e.Delay)
			}

			url, skipped, err := task.Backend.Build(ctx, task.Inputs, task.Options)
			if err != nil {
				aborted.Store(true)
				errOnce.Do(func() { firstErr = err })
				logger.Error(ctx, err, "bundle build failed", "bundle", task.Options.Name)
				return
			}

			tree.Append(task.Sink, url)
			if skipped {
				logger.Debug(ctx, "bundle unchanged, push skipped", "url", url)
			} else {
				logger.Info(ctx, "bundle pushed", "url", url)
			}
		}(task)
	}

	wg.Wait()
	onDrain(firstErr)
}
