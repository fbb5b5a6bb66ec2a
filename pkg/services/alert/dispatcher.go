package alert

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Notifier delivers an alert to a notification channel.
type Notifier interface {
	Send(ctx context.Context, msg domain.AlertMessage) error
}

type Dispatcher struct {
	notifier Notifier
}

func NewDispatcher(notifier Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier}
}

// Notify sends an alert for a non-compliant report. Compliant reports are
// ignored and delivery failures are logged, never returned.
func (d *Dispatcher) Notify(ctx context.Context, report domain.ComplianceReport) {
	if report.OverallCompliant {
		return
	}
	logger := zerolog.Ctx(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Err(domain.NewError(domain.ErrorKindNotify, "send alert", fmt.Errorf("panic: %v", r))).
				Str("bucket", report.Resource).
				Msg("failed to send compliance alert")
		}
	}()

	msg := BuildMessage(report)
	if err := d.notifier.Send(ctx, msg); err != nil {
		logger.Error().
			Err(domain.NewError(domain.ErrorKindNotify, "send alert", err)).
			Str("bucket", report.Resource).
			Msg("failed to send compliance alert")
		return
	}

	logger.Info().
		Str("bucket", report.Resource).
		Int("violations", msg.ViolationCount).
		Msg("compliance alert sent")
}

// BuildMessage summarises a report. Severity counts are taken from each
// violation's own severity.
func BuildMessage(report domain.ComplianceReport) domain.AlertMessage {
	counts := make(map[domain.Severity]int)
	for _, r := range []domain.ComplianceResult{report.Infrastructure, report.Section508} {
		for s, n := range r.CountBySeverity() {
			counts[s] += n
		}
	}

	msg := domain.AlertMessage{
		Timestamp:                report.Timestamp,
		Resource:                 report.Resource,
		ViolationCount:           report.ViolationCount(),
		InfrastructureViolations: len(report.Infrastructure.Violations),
		Section508Violations:     len(report.Section508.Violations),
		SeverityCounts:           counts,
		InfrastructureCompliant:  report.Infrastructure.Compliant(),
		Section508Compliant:      report.Section508.Compliant(),
	}
	msg.Summary = summarize(msg)
	return msg
}

func summarize(msg domain.AlertMessage) string {
	var failing []string
	if !msg.InfrastructureCompliant {
		failing = append(failing, fmt.Sprintf("infrastructure (%d)", msg.InfrastructureViolations))
	}
	if !msg.Section508Compliant {
		failing = append(failing, fmt.Sprintf("section508 (%d)", msg.Section508Violations))
	}
	return fmt.Sprintf("Bucket %s is non-compliant: %d violation(s), %d high severity; failing rulesets: %s",
		msg.Resource, msg.ViolationCount, msg.SeverityCounts[domain.SeverityHigh], strings.Join(failing, ", "))
}
