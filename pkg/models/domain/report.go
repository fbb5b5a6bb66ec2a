package domain

import "time"

// ComplianceReport is the aggregated outcome of one monitoring invocation.
// It is built once and never mutated after it has been stored.
type ComplianceReport struct {
	Timestamp        time.Time
	Resource         string
	Infrastructure   ComplianceResult
	Section508       ComplianceResult
	FilesChecked     int
	OverallCompliant bool
	ChecksPerformed  []string
	// Invocation is set when the check ran inside a function runtime.
	Invocation *Invocation
}

// Invocation identifies the function invocation that produced a report.
type Invocation struct {
	FunctionName    string
	FunctionVersion string
	RequestID       string
}

// ViolationCount is the total number of violations across both rulesets.
func (r ComplianceReport) ViolationCount() int {
	return len(r.Infrastructure.Violations) + len(r.Section508.Violations)
}

// AlertMessage summarises a non-compliant report for a notification channel.
type AlertMessage struct {
	Timestamp                time.Time
	Resource                 string
	ViolationCount           int
	InfrastructureViolations int
	Section508Violations     int
	SeverityCounts           map[Severity]int
	InfrastructureCompliant  bool
	Section508Compliant      bool
	Summary                  string
}
