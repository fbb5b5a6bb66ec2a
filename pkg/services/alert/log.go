package alert

import (
	"context"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/rs/zerolog"
)

// LogNotifier writes alerts to the context logger. It is used when no
// webhook is configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, msg domain.AlertMessage) error {
	zerolog.Ctx(ctx).Warn().
		Str("bucket", msg.Resource).
		Int("violation_count", msg.ViolationCount).
		Int("high_severity_count", msg.SeverityCounts[domain.SeverityHigh]).
		Bool("infrastructure_compliant", msg.InfrastructureCompliant).
		Bool("section508_compliant", msg.Section508Compliant).
		Msg(msg.Summary)
	return nil
}
