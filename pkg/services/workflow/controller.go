package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Controller interface {
	Start(ctx context.Context) error
	Stop()
}

// Scheduler triggers a run on a fixed interval. A tick that fires while a
// run is in progress is skipped.
type Scheduler struct {
	runner   *Runner
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(runner *Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
	}
}

// Start launches the schedule loop. The first run starts immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("schedule interval must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return errors.New("scheduler already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	return nil
}

// Stop cancels the schedule and waits for an in-flight run to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	logger := zerolog.Ctx(ctx)
	logger.Info().Dur("interval", s.interval).Msg("compliance schedule started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("compliance schedule stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, _, err := s.runner.Execute(ctx, TriggerSchedule, nil); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("scheduled run not started")
	}
}

var _ Controller = (*Scheduler)(nil)
