// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Job is a task run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner runs registered jobs in the background until stopped.
type Runner struct {
	logger   *zap.Logger
	jobs     []Job
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	running  atomic.Int32
	jobNames sync.Map // names of jobs mid-run
}

func New(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Register adds a job. Call before Start.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Jobs returns the registered job names.
func (r *Runner) Jobs() []string {
	names := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		names[i] = j.Name
	}
	return names
}

// Start runs every job once immediately and then on its interval. Jobs
// stop when parent is cancelled or Stop is called.
func (r *Runner) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.logger.Info("background task runner started",
		zap.Strings("jobs", r.Jobs()))
}

// Stop cancels the jobs and waits for them until ctx is done.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped gracefully")
		return nil
	case <-ctx.Done():
		var stillRunning []string
		r.jobNames.Range(func(key, _ any) bool {
			stillRunning = append(stillRunning, key.(string))
			return true
		})
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("jobs_still_running", stillRunning),
			zap.Int32("running_count", r.running.Load()))
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("job stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			r.execute(ctx, job)
		}
	}
}

func (r *Runner) execute(ctx context.Context, job Job) {
	r.running.Add(1)
	r.jobNames.Store(job.Name, struct{}{})
	defer func() {
		r.running.Add(-1)
		r.jobNames.Delete(job.Name)
	}()

	start := time.Now()
	err := safeRun(ctx, job)
	switch {
	case err == nil:
		r.logger.Debug("job completed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)))
	case ctx.Err() != nil:
		r.logger.Debug("job cancelled during shutdown",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)))
	default:
		r.logger.Error("job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	}
}

// safeRun turns a panicking job into an error so one bad run does not end
// the loop.
func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, p)
		}
	}()
	return job.Run(ctx)
}

// RunOnce runs the named job now, outside its schedule.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return safeRun(ctx, job)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}
