package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	TriggerSchedule = "schedule"
	TriggerAPI      = "api"
	TriggerCLI      = "cli"
)

var ErrRunInProgress = errors.New("compliance check already in progress")

// Invoker runs one compliance check invocation.
type Invoker interface {
	Run(ctx context.Context, event json.RawMessage) api.Response
}

// Recorder persists run state transitions.
type Recorder interface {
	SaveRun(ctx context.Context, run domain.Run) error
}

type RunnerConfig struct {
	Timeout time.Duration
	// Recorder is optional; without it only the last run is kept in memory.
	Recorder Recorder
}

// Runner executes invocations one at a time and remembers the last one.
type Runner struct {
	invoker Invoker
	config  RunnerConfig

	mu      sync.Mutex
	running bool
	last    *domain.Run

	now   func() time.Time
	newID func() string
}

func NewRunner(invoker Invoker, config RunnerConfig) *Runner {
	return &Runner{
		invoker: invoker,
		config:  config,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Execute runs one invocation under the configured timeout. It returns
// ErrRunInProgress without running anything when another invocation has not
// finished yet.
func (r *Runner) Execute(ctx context.Context, trigger string, event json.RawMessage) (api.Response, domain.Run, error) {
	run, ok := r.begin(trigger)
	if !ok {
		zerolog.Ctx(ctx).Warn().Str("trigger", trigger).Msg("compliance check skipped, previous run still in progress")
		return api.Response{}, domain.Run{Trigger: trigger, Status: domain.RunStatusSkipped, StartedAt: r.now()}, ErrRunInProgress
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", run.ID).Str("trigger", trigger).Logger()
	ctx = logger.WithContext(ctx)
	r.record(ctx, run)

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	resp := r.invoker.Run(ctx, event)

	run.FinishedAt = r.now()
	run.Compliant = resp.Body.Compliant
	if resp.StatusCode == http.StatusOK {
		run.Status = domain.RunStatusFinished
	} else {
		run.Status = domain.RunStatusFailed
		msg := resp.Body.Error
		run.Error = &msg
	}
	r.finish(run)
	r.record(ctx, run)

	logger.Info().
		Str("status", string(run.Status)).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("compliance check run finished")
	return resp, run, nil
}

// LastRun returns the most recent run, including one still in progress.
func (r *Runner) LastRun() (domain.Run, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return domain.Run{}, false
	}
	return *r.last, true
}

func (r *Runner) record(ctx context.Context, run domain.Run) {
	if r.config.Recorder == nil {
		return
	}
	// The run context may already be expired when the run finishes.
	if err := r.config.Recorder.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to record run")
	}
}

func (r *Runner) begin(trigger string) (domain.Run, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return domain.Run{}, false
	}
	r.running = true

	run := domain.Run{
		ID:        r.newID(),
		Trigger:   trigger,
		Status:    domain.RunStatusRunning,
		StartedAt: r.now(),
	}
	r.last = &run
	return run, true
}

func (r *Runner) finish(run domain.Run) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.last = &run
}
