package api

import "time"

const (
	MessageSuccess = "Compliance check completed successfully"
	MessageFailure = "Compliance check failed"
)

// ResponseBody is the body of an invocation response. Report is set on
// success and Error on failure.
type ResponseBody struct {
	Message   string            `json:"message"`
	Compliant bool              `json:"compliant"`
	Report    *ComplianceReport `json:"report,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type Response struct {
	StatusCode int          `json:"statusCode"`
	Body       ResponseBody `json:"body"`
}

type Run struct {
	ID         string     `json:"id"`
	Trigger    string     `json:"trigger"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Compliant  bool       `json:"compliant"`
	Error      *string    `json:"error,omitempty"`
}
