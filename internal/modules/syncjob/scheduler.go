package syncjob

import (
	"context"
	"log"
	"time"
)

// Runner performs one sync pass.
type Runner interface {
	Run(ctx context.Context) RunReport
}

// Scheduler triggers a Runner on a fixed interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration
}

func NewScheduler(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval}
}

// Start blocks until ctx is cancelled. A run in progress is allowed to finish;
// ticks that fire meanwhile are dropped.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("sync: scheduler started, every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sync: scheduler stopped")
			return
		case <-ticker.C:
			report := s.runner.Run(ctx)
			log.Printf("sync[%s]: finished %d stores, %d failed in %s",
				report.RunID, len(report.Stores), report.Failed(), report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
		}
	}
}
