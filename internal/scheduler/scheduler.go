// Package scheduler drives the recurring transaction batch run on a cron
// schedule.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"moneyflow/internal/logger"
	"moneyflow/internal/services"
)

// Scheduler periodically materializes due recurring transactions. Runs are
// idempotent with respect to each due date: a run that overlaps another (or a
// crashed predecessor's retry) cannot double-materialize a template, so
// re-running after a failure is always safe.
type Scheduler struct {
	cron      *cron.Cron
	recurring services.RecurringServicer
	spec      string
}

// New creates a scheduler that invokes the recurring batch run on the given
// cron spec.
func New(recurring services.RecurringServicer, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		recurring: recurring,
		spec:      spec,
	}
}

// Start registers the batch job and starts the cron loop. It returns an error
// if the cron spec does not parse.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	logger.Get().Infow("recurring scheduler started", "spec", s.spec)
	return nil
}

// RunNow triggers one batch run immediately, outside the cron schedule.
func (s *Scheduler) RunNow() {
	s.runOnce()
}

// Stop halts the cron loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Infow("recurring scheduler stopped")
}

func (s *Scheduler) runOnce() {
	log := logger.Get()
	started := time.Now()

	processed, failed, err := s.recurring.ProcessDue(time.Now())
	if err != nil {
		log.Errorw("recurring batch run aborted", "error", err)
		return
	}

	log.Infow("recurring batch run finished",
		"processed", processed,
		"failed", failed,
		"duration", time.Since(started).String())
}
