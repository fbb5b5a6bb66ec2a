package metrics

import (
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultCompliant    = "compliant"
	ResultNonCompliant = "non_compliant"
	ResultFailed       = "failed"
)

// Metrics holds the Prometheus collectors of the compliance monitor.
type Metrics struct {
	Checks     *prometheus.CounterVec
	Violations *prometheus.CounterVec
	Duration   prometheus.Histogram
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliance_checks_total",
				Help: "Total number of compliance checks by result",
			},
			[]string{"result"},
		),
		Violations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliance_violations_total",
				Help: "Total number of violations found by ruleset and severity",
			},
			[]string{"ruleset", "severity"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "compliance_check_duration_seconds",
				Help:    "Duration of compliance checks in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
	}
}

// RecordReport records a completed check.
func (m *Metrics) RecordReport(report domain.ComplianceReport, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := ResultNonCompliant
	if report.OverallCompliant {
		result = ResultCompliant
	}
	m.Checks.WithLabelValues(result).Inc()
	m.Duration.Observe(elapsed.Seconds())

	m.recordViolations(domain.RulesetInfrastructure, report.Infrastructure)
	m.recordViolations(domain.RulesetSection508, report.Section508)
}

// RecordFailure records a check that aborted without a report.
func (m *Metrics) RecordFailure(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Checks.WithLabelValues(ResultFailed).Inc()
	m.Duration.Observe(elapsed.Seconds())
}

func (m *Metrics) recordViolations(ruleset domain.Ruleset, result domain.ComplianceResult) {
	for severity, n := range result.CountBySeverity() {
		m.Violations.WithLabelValues(string(ruleset), severity.String()).Add(float64(n))
	}
}
