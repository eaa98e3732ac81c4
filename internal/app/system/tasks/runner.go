// internal/app/system/tasks/runner.go

// Package tasks runs periodic maintenance jobs in the background.
//
// Each registered job gets its own goroutine: it runs once at Start, then on
// every tick of its interval. Runs of the same job never overlap. The runner
// remembers the outcome of each job's last run for the health endpoint.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/metrics"
	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("tasks: unknown job")

// Job is a scheduled background task.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero leaves the run bounded only by
	// shutdown.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// JobStatus is the last known state of a registered job.
type JobStatus struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	Running   bool      `json:"running"`
	Runs      int64     `json:"runs"`
	Failures  int64     `json:"failures"`
	LastRun   time.Time `json:"lastRun"`
	LastError string    `json:"lastError,omitempty"`
}

// Runner executes registered jobs until stopped.
type Runner struct {
	logger *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.Mutex
	status map[string]*JobStatus
}

// New creates a task runner.
func New(logger *zap.Logger) *Runner {
	return &Runner{
		logger: logger,
		status: make(map[string]*JobStatus),
	}
}

// Register adds a job. Registering after Start has no effect on the running
// schedule.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
	r.mu.Lock()
	r.status[job.Name] = &JobStatus{Name: job.Name, Interval: job.Interval.String()}
	r.mu.Unlock()
}

// Start launches every registered job. Call Stop to shut down.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.logger.Info("background task runner started",
		zap.Int("job_count", len(r.jobs)))
}

// Stop cancels all jobs and waits for them within ctx's deadline. When the
// deadline passes first it returns ctx.Err() and logs the jobs still busy.
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
		r.logger.Info("background task runner stopped")
		return nil
	case <-ctx.Done():
		var busy []string
		for _, s := range r.Status() {
			if s.Running {
				busy = append(busy, s.Name)
			}
		}
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("jobs_still_running", busy))
		return ctx.Err()
	}
}

// Status returns a snapshot of every job in registration order.
func (r *Runner) Status() []JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]JobStatus, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *r.status[job.Name])
	}
	return out
}

// RunOnce executes the named job now, outside its schedule.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return r.execute(ctx, job)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	_ = r.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("job stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			_ = r.execute(ctx, job)
		}
	}
}

// execute runs job once, recording its outcome in the status table and in
// metrics. A run cut short by shutdown is not counted as a failure.
func (r *Runner) execute(ctx context.Context, job Job) error {
	r.setRunning(job.Name, true)
	defer r.setRunning(job.Name, false)

	runCtx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(runCtx)
	elapsed := time.Since(start)

	if err != nil && ctx.Err() != nil {
		r.logger.Debug("job cancelled during shutdown",
			zap.String("job", job.Name),
			zap.Duration("duration", elapsed))
		return err
	}

	r.record(job.Name, start, err)
	metrics.JobRun(job.Name, err == nil)
	if err != nil {
		r.logger.Error("job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return err
	}
	r.logger.Debug("job completed",
		zap.String("job", job.Name),
		zap.Duration("duration", elapsed))
	return nil
}

func (r *Runner) setRunning(name string, running bool) {
	r.mu.Lock()
	if s, ok := r.status[name]; ok {
		s.Running = running
	}
	r.mu.Unlock()
}

func (r *Runner) record(name string, at time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.status[name]
	if !ok {
		return
	}
	s.Runs++
	s.LastRun = at.UTC()
	s.LastError = ""
	if err != nil {
		s.Failures++
		s.LastError = err.Error()
	}
}
