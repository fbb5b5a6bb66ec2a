package compliance

import (
	"fmt"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
)

// Combine merges the infrastructure verdict and the per-document section508
// verdicts into one report. Document violations keep their order and are
// tagged with the originating file name. Sampling violations describe a
// document set that could not be determined; they lead the section508
// violations and carry no file name.
func Combine(
	timestamp time.Time,
	resourceID string,
	infra domain.ComplianceResult,
	sampling domain.ComplianceResult,
	docs []domain.DocumentResult,
) domain.ComplianceReport {
	violations := make([]domain.Violation, 0, len(sampling.Violations))
	violations = append(violations, sampling.Violations...)
	checks := []string{string(domain.RulesetInfrastructure)}

	for _, doc := range docs {
		for _, v := range doc.Result.Violations {
			v.File = doc.FileName
			violations = append(violations, v)
		}
		checks = append(checks, fmt.Sprintf("%s:%s", domain.RulesetSection508, doc.FileName))
	}

	section508 := domain.NonCompliant(violations...)
	infraCopy := domain.NonCompliant(infra.Violations...)

	return domain.ComplianceReport{
		Timestamp:        timestamp,
		Resource:         resourceID,
		Infrastructure:   infraCopy,
		Section508:       section508,
		FilesChecked:     len(docs),
		OverallCompliant: infraCopy.Compliant() && section508.Compliant(),
		ChecksPerformed:  checks,
	}
}
