// Package jobs runs the periodic motivation and badge jobs. Every run takes
// a Redis lock first, so several scheduler instances never run the same job
// at the same time.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/metrics"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Locker interface {
	Lock(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error)
}

type entry struct {
	job      Job
	interval time.Duration
}

type Scheduler struct {
	cron    *cron.Cron
	locker  Locker
	logger  *zap.SugaredLogger
	entries []entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(loc *time.Location, locker Locker, logger *zap.SugaredLogger) *Scheduler {
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		locker: locker,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add schedules job every interval.
func (s *Scheduler) Add(job Job, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name())
	}
	_, err := s.cron.AddFunc("@every "+interval.String(), func() {
		s.RunOnce(s.ctx, job, interval)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name(), err)
	}
	s.entries = append(s.entries, entry{job: job, interval: interval})
	s.logger.Infow("Scheduled job", "job", job.Name(), "interval", interval.String())
	return nil
}

// Start starts the cron loop. With runOnStart every job also runs once
// right away, in the background.
func (s *Scheduler) Start(runOnStart bool) {
	s.cron.Start()
	if !runOnStart {
		return
	}
	for _, e := range s.entries {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.RunOnce(s.ctx, e.job, e.interval)
		}()
	}
}

// Stop stops scheduling and waits for running jobs until ctx is done.
// Jobs still running at that point have their context cancelled.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// lockTTL keeps the lock slightly shorter than the interval so the holder's
// own next tick is never blocked by its previous lock.
func lockTTL(interval time.Duration) time.Duration {
	return interval - interval/10
}

// RunOnce runs job under the job:<name> lock. A failed run releases the
// lock so the next tick, on any instance, can retry. A successful run keeps
// it until it expires.
func (s *Scheduler) RunOnce(ctx context.Context, job Job, interval time.Duration) {
	name := job.Name()

	release, ok, err := s.locker.Lock(ctx, "job:"+name, lockTTL(interval))
	if err != nil {
		s.logger.Errorw("Failed to take job lock", "job", name, "error", err)
		metrics.RecordJobRun(name, "failed", 0)
		return
	}
	if !ok {
		s.logger.Infow("Job already ran or is running elsewhere, skipping", "job", name)
		metrics.RecordJobRun(name, "skipped", 0)
		return
	}

	start := time.Now()
	s.logger.Infow("Job started", "job", name)
	err = job.Run(ctx)
	duration := time.Since(start)

	if err != nil {
		s.logger.Errorw("Job failed", "job", name, "duration", duration, "error", err)
		metrics.RecordJobRun(name, "failed", duration)
		if rerr := release(context.Background()); rerr != nil {
			s.logger.Warnw("Failed to release job lock", "job", name, "error", rerr)
		}
		return
	}
	s.logger.Infow("Job finished", "job", name, "duration", duration)
	metrics.RecordJobRun(name, "success", duration)
}

// cronLogger routes cron's own messages to zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
