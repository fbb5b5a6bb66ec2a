package metrics

import (
	"testing"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordReport(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordReport(domain.ComplianceReport{
		Infrastructure: domain.NonCompliant(
			domain.Violation{Type: "encryption_disabled", Severity: domain.SeverityHigh},
			domain.Violation{Type: "missing_tag", Severity: domain.SeverityMedium},
		),
		Section508: domain.NonCompliant(
			domain.Violation{Type: "missing_alt", Severity: domain.SeverityHigh, File: "a.html"},
		),
	}, 2*time.Second)
	m.RecordReport(domain.ComplianceReport{
		Infrastructure:   domain.Compliant(),
		Section508:       domain.Compliant(),
		OverallCompliant: true,
	}, time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Checks.WithLabelValues(ResultNonCompliant)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Checks.WithLabelValues(ResultCompliant)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Violations.WithLabelValues("infrastructure", "HIGH")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Violations.WithLabelValues("infrastructure", "MEDIUM")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Violations.WithLabelValues("section508", "HIGH")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration, "compliance_check_duration_seconds"))
}

func TestMetrics_RecordFailure(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordFailure(time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Checks.WithLabelValues(ResultFailed)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordFailure(time.Second)
		m.RecordReport(domain.ComplianceReport{}, time.Second)
	})
}
