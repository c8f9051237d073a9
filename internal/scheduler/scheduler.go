package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"SwingPull/pkg/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs jobs on cron triggers in a fixed market timezone, so
// "45 14 * * MON-FRI" means 14:45 exchange time regardless of host clock.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

func New(loc *time.Location, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		log:  log,
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", logger.Int("jobs", len(s.cron.Entries())))
}

// Stop halts trigger dispatch and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers a job for one cron trigger. Standard five-field
// expressions ("45 14 * * MON-FRI") and descriptors ("@hourly") are accepted.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug("job triggered", logger.String("job", job.Name()))
		if err := job.Run(); err != nil {
			s.log.Error("job failed",
				logger.String("job", job.Name()),
				logger.Error(err))
			return
		}
		s.log.Debug("job completed", logger.String("job", job.Name()))
	})
	if err != nil {
		return err
	}

	s.log.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("schedule", schedule))
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info("running job immediately", logger.String("job", job.Name()))
	return job.Run()
}
