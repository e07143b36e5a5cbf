// Package scheduler runs periodic background jobs — the cache sweep and
// the tool-server health ping — on a cron schedule, grounded on the same
// robfig/cron/v3 Scheduler/Job shape used elsewhere in the retrieval
// pack, adapted to the teacher's zap logger instead of zerolog.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run() error
}

// Scheduler manages background jobs registered on cron expressions.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New creates a Scheduler. logger may be nil.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop waits for any in-flight job runs to finish, then returns.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// AddJob registers job on the given cron schedule, e.g. "0 */5 * * * *"
// for every 5 minutes or "@every 30s".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", job.Name()), zap.Error(err))
			return
		}
		s.logger.Debug("scheduled job completed", zap.String("job", job.Name()))
	})
	if err != nil {
		return err
	}
	s.logger.Info("job registered", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}

// RunNow executes job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.logger.Info("running job immediately", zap.String("job", job.Name()))
	return job.Run()
}
