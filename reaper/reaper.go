// Package reaper deletes expired session rows on a fixed interval. A
// session past its expiry can never be refreshed again, so removing the
// row only reclaims storage; it never changes auth decisions.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/sr198/motorghar-auth/metrics"
	"github.com/sr198/motorghar-auth/session"
)

// Job runs the periodic cleanup of expired sessions. One run is
// idempotent; running with nothing to delete is not an error.
type Job struct {
	sessions *session.Manager
	logger   *slog.Logger
	Interval time.Duration
}

// NewJob wires a Job over the session manager. The default interval is
// one hour.
func NewJob(sessions *session.Manager, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		sessions: sessions,
		logger:   logger,
		Interval: time.Hour,
	}
}

// RunOnce performs a single cleanup pass.
func (j *Job) RunOnce(ctx context.Context) error {
	start := time.Now()
	n, err := j.sessions.ReapExpired(ctx)
	if err != nil {
		j.logger.Error("session cleanup failed", "error", err)
		return err
	}

	metrics.SessionsReapedTotal.Add(float64(n))
	j.logger.Info("session cleanup completed",
		"deleted_count", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Run loops RunOnce on the job interval until ctx is cancelled. Failures
// are logged and the loop keeps going. A non-positive interval falls back
// to the one-hour default; time.NewTicker panics on zero.
func (j *Job) Run(ctx context.Context) {
	interval := j.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = j.RunOnce(ctx)
		}
	}
}
