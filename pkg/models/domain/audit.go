package domain

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity maps a policy verdict severity onto Severity. Unknown values
// are treated as HIGH so that a malformed rule never downgrades a finding.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return SeverityLow
	case "MEDIUM":
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// Violation is one non-compliance finding reported by a ruleset.
type Violation struct {
	Type     string
	Message  string
	Severity Severity
	File     string // originating document, empty for infrastructure findings
}

// ComplianceResult is the verdict of one ruleset. A result is compliant
// exactly when it carries no violations.
type ComplianceResult struct {
	Violations []Violation
}

func Compliant() ComplianceResult {
	return ComplianceResult{Violations: []Violation{}}
}

func NonCompliant(violations ...Violation) ComplianceResult {
	return ComplianceResult{Violations: append([]Violation{}, violations...)}
}

func (r ComplianceResult) Compliant() bool {
	return len(r.Violations) == 0
}

// CountBySeverity returns the number of violations per severity.
func (r ComplianceResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range r.Violations {
		counts[v.Severity]++
	}
	return counts
}
