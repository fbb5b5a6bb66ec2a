package domain

import "time"

type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
	RunStatusSkipped  RunStatus = "skipped"
)

// Run records one scheduled or on-demand invocation of the monitor.
type Run struct {
	ID         string
	Trigger    string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Compliant  bool
	Error      *string
}
