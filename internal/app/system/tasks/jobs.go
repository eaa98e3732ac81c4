// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BookingCompleter is satisfied by the booking store.
type BookingCompleter interface {
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

// AuditPruner is satisfied by the audit store.
type AuditPruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// BookingCompletionJob moves confirmed bookings whose return date has passed
// to completed.
func BookingCompletionJob(bookings BookingCompleter, logger *zap.Logger) Job {
	return Job{
		Name:     "booking-completion",
		Interval: 15 * time.Minute,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			n, err := bookings.CompleteElapsed(ctx, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("completed elapsed bookings", zap.Int64("updated", n))
			}
			return nil
		},
	}
}

// AuditRetentionJob deletes audit events older than retention.
func AuditRetentionJob(events AuditPruner, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-retention",
		Interval: 24 * time.Hour,
		Timeout:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().UTC().Add(-retention)
			n, err := events.DeleteBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned audit log",
					zap.Int64("deleted", n),
					zap.Time("cutoff", cutoff))
			}
			return nil
		},
	}
}
