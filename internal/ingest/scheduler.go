package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the ingestion pipeline once a day inside the API server,
// for deployments without an external cron. The target day is picked with
// the same cutover rule the CLI uses without arguments.
type Scheduler struct {
	log      *logrus.Logger
	pipeline *Pipeline
	runAt    string // "HH:MM" local time
	cutover  string
	// mu guards sched: the ctx watcher goroutine and the caller's own
	// deferred Shutdown both reach it on shutdown.
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	at, err := time.Parse("15:04", s.runAt)
	if err != nil {
		return err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	job := func(jobCtx context.Context) {
		day, dayErr := SelectDay(time.Now(), s.cutover, "")
		if dayErr != nil {
			s.log.Errorf("Scheduled ingestion skipped, day selection failed: %v", dayErr)
			return
		}
		if runErr := s.pipeline.Run(jobCtx, day); runErr != nil {
			s.log.Errorf("Scheduled ingestion for %s failed: %v", day, runErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(at.Hour()), uint(at.Minute()), 0))),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			s.log.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// Shutdown is safe to call from multiple goroutines; only the first call
// after Start actually stops the scheduler.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func NewScheduler(log *logrus.Logger, pipeline *Pipeline, runAt, cutover string) *Scheduler {
	return &Scheduler{log: log, pipeline: pipeline, runAt: runAt, cutover: cutover}
}
