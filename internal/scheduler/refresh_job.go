package scheduler

import (
	"context"
	"errors"
	"time"

	"SwingPull/internal/usecase"
)

// cron triggers have no caller to cancel them; this bounds a wedged cycle
const cycleTimeout = 5 * time.Minute

// RefreshJob adapts the dashboard cycle to the scheduler. A trigger that
// lands while a cycle is still running is dropped silently; the next one
// picks up fresh data anyway.
type RefreshJob struct {
	job       *usecase.DashboardJob
	sendEmail bool
}

func NewRefreshJob(job *usecase.DashboardJob, sendEmail bool) *RefreshJob {
	return &RefreshJob{job: job, sendEmail: sendEmail}
}

func (j *RefreshJob) Name() string { return "dashboard-refresh" }

func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	err := j.job.Run(ctx, j.sendEmail)
	if errors.Is(err, usecase.ErrRefreshInProgress) {
		return nil
	}
	return err
}
