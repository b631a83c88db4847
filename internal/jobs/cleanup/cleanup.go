package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type sessionPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type staleTripPurger interface {
	DeleteStaleOpen(ctx context.Context, cutoff time.Time) (int64, error)
}

// Job removes expired sessions and abandoned open trips. It runs on a
// timer owned by the application, one pass per Run call.
type Job struct {
	sessions          sessionPurger
	trips             staleTripPurger
	openTripRetention time.Duration
	now               func() time.Time
	logger            *zap.Logger
}

func New(sessions sessionPurger, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		sessions:          sessions,
		openTripRetention: 24 * time.Hour,
		now:               time.Now,
		logger:            logger,
	}
}

func (j *Job) AttachStaleTripCleanup(trips staleTripPurger, retention time.Duration) {
	j.trips = trips
	if retention > 0 {
		j.openTripRetention = retention
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.sessions != nil {
		rows, err := j.sessions.DeleteExpired(ctx)
		if err != nil {
			return fmt.Errorf("delete expired sessions: %w", err)
		}
		if rows > 0 {
			j.logger.Info("expired sessions purged", zap.Int64("deleted", rows))
		}
	}

	if j.trips != nil && j.openTripRetention > 0 {
		cutoff := j.now().Add(-j.openTripRetention)
		rows, err := j.trips.DeleteStaleOpen(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("delete stale open trips: %w", err)
		}
		if rows > 0 {
			j.logger.Info("stale open trips purged", zap.Int64("deleted", rows))
		}
	}

	return nil
}
