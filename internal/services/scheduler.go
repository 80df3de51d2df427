package services

import (
	"auction-settlement/pkg/logger"
	"context"
	"errors"
	"sync"

	"github.com/robfig/cron/v3"
)

type CronSettlementScheduler struct {
	cron       *cron.Cron
	job        *SettlementJob
	spec       string
	runOnStart bool
	log        logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCronSettlementScheduler triggers job on spec, which is either a cron
// expression with a seconds field or a descriptor such as "@every 1m".
func NewCronSettlementScheduler(job *SettlementJob, spec string, runOnStart bool, log logger.Logger) *CronSettlementScheduler {
	cronLog := logger.NewCronLogger(log)
	return &CronSettlementScheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
		job:        job,
		spec:       spec,
		runOnStart: runOnStart,
		log:        log,
	}
}

func (s *CronSettlementScheduler) Start(ctx context.Context) error {
	s.log.Info("Starting settlement scheduler", "schedule", s.spec)

	passCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(s.spec, func() { s.trigger(passCtx) }); err != nil {
		cancel()
		return err
	}

	s.cron.Start()

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.trigger(passCtx)
		}()
	}
	return nil
}

// Stop halts the schedule, interrupts the running pass between auctions and
// waits for it to return.
func (s *CronSettlementScheduler) Stop() error {
	s.log.Info("Stopping settlement scheduler")

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.wg.Wait()
	return nil
}

func (s *CronSettlementScheduler) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	_, err := s.job.Run(ctx)
	switch {
	case errors.Is(err, ErrPassInProgress), errors.Is(err, ErrNotLeader):
	case err != nil:
		s.log.Debug("Scheduled settlement pass returned error", "error", err)
	}
}
