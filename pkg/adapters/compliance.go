package adapters

import (
	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityLow:
		return api.SeverityLow
	case domain.SeverityMedium:
		return api.SeverityMedium
	case domain.SeverityHigh:
		return api.SeverityHigh
	default:
		return api.SeverityHigh
	}
}

func MapResourceConfigDomainToApi(c domain.ResourceConfig) api.ResourceConfig {
	tags := make(map[string]string, len(c.Tags))
	for k, v := range c.Tags {
		tags[k] = v
	}
	return api.ResourceConfig{
		ResourceType:      c.ResourceType,
		Name:              c.Name,
		Tags:              tags,
		VersioningEnabled: c.VersioningEnabled,
		EncryptionEnabled: c.EncryptionEnabled,
	}
}

func MapViolationDomainToApi(v domain.Violation) api.Violation {
	return api.Violation{
		Type:     v.Type,
		Message:  v.Message,
		Severity: MapSeverityDomainToApi(v.Severity),
		File:     v.File,
	}
}

func MapComplianceResultDomainToApi(r domain.ComplianceResult) api.ComplianceResult {
	res := api.ComplianceResult{
		Compliant:  r.Compliant(),
		Violations: make([]api.Violation, 0, len(r.Violations)),
	}
	for _, v := range r.Violations {
		res.Violations = append(res.Violations, MapViolationDomainToApi(v))
	}
	return res
}

func MapComplianceReportDomainToApi(r domain.ComplianceReport) api.ComplianceReport {
	checks := make([]string, len(r.ChecksPerformed))
	copy(checks, r.ChecksPerformed)

	report := api.ComplianceReport{
		Timestamp:        r.Timestamp.UTC(),
		Bucket:           r.Resource,
		Infrastructure:   MapComplianceResultDomainToApi(r.Infrastructure),
		Section508:       MapComplianceResultDomainToApi(r.Section508),
		FilesChecked:     r.FilesChecked,
		OverallCompliant: r.OverallCompliant,
		ChecksPerformed:  checks,
	}
	if r.Invocation != nil {
		report.LambdaInfo = &api.LambdaInfo{
			FunctionName:    r.Invocation.FunctionName,
			FunctionVersion: r.Invocation.FunctionVersion,
			AwsRequestID:    r.Invocation.RequestID,
		}
	}
	return report
}

func MapAlertMessageDomainToApi(m domain.AlertMessage) api.AlertMessage {
	counts := map[api.Severity]int{
		api.SeverityLow:    0,
		api.SeverityMedium: 0,
		api.SeverityHigh:   0,
	}
	for s, n := range m.SeverityCounts {
		counts[MapSeverityDomainToApi(s)] += n
	}

	return api.AlertMessage{
		Timestamp:                m.Timestamp.UTC(),
		Bucket:                   m.Resource,
		ViolationCount:           m.ViolationCount,
		InfrastructureViolations: m.InfrastructureViolations,
		Section508Violations:     m.Section508Violations,
		SeverityCounts:           counts,
		InfrastructureCompliant:  m.InfrastructureCompliant,
		Section508Compliant:      m.Section508Compliant,
		Summary:                  m.Summary,
	}
}

func MapRunDomainToApi(r domain.Run) api.Run {
	res := api.Run{
		ID:        r.ID,
		Trigger:   r.Trigger,
		Status:    string(r.Status),
		StartedAt: r.StartedAt,
		Compliant: r.Compliant,
		Error:     r.Error,
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt
		res.FinishedAt = &finished
	}
	return res
}
