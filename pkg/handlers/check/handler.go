package check

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/de-tools/compliance-monitor/pkg/adapters"
	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/services/workflow"
	"github.com/rs/zerolog"
)

const (
	maxEventSize     = 1 << 20
	defaultListLimit = 50
	maxListLimit     = 500
)

// Runner is the subset of workflow.Runner used by the handler.
type Runner interface {
	Execute(ctx context.Context, trigger string, event json.RawMessage) (api.Response, domain.Run, error)
	LastRun() (domain.Run, bool)
}

// History lists past runs, most recent first.
type History interface {
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

type Handler struct {
	runner  Runner
	history History
}

func NewHandler(runner Runner, history History) *Handler {
	return &Handler{runner: runner, history: history}
}

// RunCheck runs a compliance check synchronously. The request body, if any,
// is passed through as the invocation event.
func (h *Handler) RunCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventSize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	var event json.RawMessage
	if len(body) > 0 {
		if !json.Valid(body) {
			http.Error(w, "request body must be a JSON document", http.StatusBadRequest)
			return
		}
		event = body
	}

	resp, run, err := h.runner.Execute(ctx, workflow.TriggerAPI, event)
	if errors.Is(err, workflow.ErrRunInProgress) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to run compliance check")
		http.Error(w, "failed to run compliance check", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Run-ID", run.ID)
	w.WriteHeader(resp.StatusCode)
	if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
		logger.Error().
			Err(err).
			Str("run_id", run.ID).
			Msg("failed to encode check response")
	}
}

func (h *Handler) GetLastRun(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	run, ok := h.runner.LastRun()
	if !ok {
		http.Error(w, "no compliance check has run yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapRunDomainToApi(run)); err != nil {
		logger.Error().
			Err(err).
			Str("run_id", run.ID).
			Msg("failed to encode last run")
	}
}

// ListRuns returns the run history. Without a history store only the last
// run is known.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var runs []domain.Run
	if h.history != nil {
		var err error
		runs, err = h.history.ListRuns(ctx, limit)
		if err != nil {
			logger.Error().Err(err).Msg("failed to list runs")
			http.Error(w, "failed to list runs", http.StatusInternalServerError)
			return
		}
	} else if run, ok := h.runner.LastRun(); ok {
		runs = []domain.Run{run}
	}

	response := make([]api.Run, 0, len(runs))
	for _, run := range runs {
		response = append(response, adapters.MapRunDomainToApi(run))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode runs")
	}
}
