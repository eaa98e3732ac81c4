package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/tasks"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	calledAt time.Time
	n        int64
	err      error
}

func (f *fakeCompleter) CompleteElapsed(_ context.Context, now time.Time) (int64, error) {
	f.calledAt = now
	return f.n, f.err
}

type fakePruner struct {
	cutoff time.Time
	err    error
}

func (f *fakePruner) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestBookingCompletionJob(t *testing.T) {
	fc := &fakeCompleter{n: 2}
	job := tasks.BookingCompletionJob(fc, zap.NewNop())

	if job.Name != "booking-completion" || job.Interval <= 0 {
		t.Fatalf("job = %+v", job)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if time.Since(fc.calledAt) > time.Minute {
		t.Errorf("CompleteElapsed called with %v, want about now", fc.calledAt)
	}

	fc.err = errors.New("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Error("Run() should surface store errors")
	}
}

func TestAuditRetentionJob_Cutoff(t *testing.T) {
	fp := &fakePruner{}
	retention := 90 * 24 * time.Hour
	job := tasks.AuditRetentionJob(fp, retention, zap.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := time.Now().UTC().Add(-retention)
	if d := fp.cutoff.Sub(want); d > time.Minute || d < -time.Minute {
		t.Errorf("cutoff = %v, want about %v", fp.cutoff, want)
	}
}

func TestRunner_RunOnce_RegisteredJob(t *testing.T) {
	fc := &fakeCompleter{}
	runner := tasks.New(zap.NewNop())
	runner.Register(tasks.BookingCompletionJob(fc, zap.NewNop()))

	if err := runner.RunOnce(context.Background(), "booking-completion"); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if fc.calledAt.IsZero() {
		t.Error("job did not run")
	}
}
