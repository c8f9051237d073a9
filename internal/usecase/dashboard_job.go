package usecase

import (
	"context"
	"errors"

	drepo "SwingPull/internal/domain/repository"
	"SwingPull/pkg/logger"
)

// DashboardJob is the unit of work shared by the cron scheduler, the manual
// API trigger and the one-shot CLI mode: refresh, render the workbook, and
// optionally email it. Export and email failures do not undo the published
// snapshot; they are reported and the dashboard keeps serving fresh data.
type DashboardJob struct {
	refresher *Refresher
	exporter  drepo.Exporter
	mailer    drepo.Mailer // nil when email is disabled
	metrics   drepo.Metrics
	log       *logger.Logger
}

func NewDashboardJob(refresher *Refresher, exporter drepo.Exporter, mailer drepo.Mailer, metrics drepo.Metrics, log *logger.Logger) *DashboardJob {
	return &DashboardJob{
		refresher: refresher,
		exporter:  exporter,
		mailer:    mailer,
		metrics:   metrics,
		log:       log,
	}
}

// Run executes one cycle. sendEmail=false skips delivery (web-triggered
// refreshes and the -no-email flag).
func (j *DashboardJob) Run(ctx context.Context, sendEmail bool) error {
	snap, err := j.refresher.Refresh(ctx)
	if err != nil {
		if errors.Is(err, ErrRefreshInProgress) {
			j.log.Info("refresh trigger skipped, cycle already running")
		}
		return err
	}

	path, err := j.exporter.Export(snap)
	if err != nil {
		j.log.Error("spreadsheet export failed", logger.Error(err))
		return err
	}
	j.log.Info("spreadsheet saved", logger.String("path", path))

	if !sendEmail || j.mailer == nil {
		return nil
	}
	if err := j.mailer.Send(snap, path); err != nil {
		j.metrics.RecordEmail("error")
		j.log.Error("email delivery failed", logger.Error(err))
		return err
	}
	j.metrics.RecordEmail("ok")
	return nil
}

// Refresher exposes the coordinator for handlers that only need a refresh.
func (j *DashboardJob) Refresher() *Refresher { return j.refresher }
