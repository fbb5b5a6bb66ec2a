package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/adapters"
	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/services/alert"
	"github.com/de-tools/compliance-monitor/pkg/services/collector"
	"github.com/de-tools/compliance-monitor/pkg/services/compliance"
	"github.com/de-tools/compliance-monitor/pkg/services/metrics"
	"github.com/de-tools/compliance-monitor/pkg/services/policy"
	"github.com/de-tools/compliance-monitor/pkg/services/reports"
	"github.com/de-tools/compliance-monitor/pkg/services/sampler"
	"github.com/de-tools/compliance-monitor/pkg/store/client"
	"github.com/rs/zerolog"
)

const (
	violationFetchError = "fetch_error"
	violationListError  = "list_error"
)

// Monitor runs the compliance check of one bucket.
type Monitor struct {
	resourceID string
	collector  *collector.Collector
	sampler    *sampler.Sampler
	evaluator  policy.Evaluator
	reports    *reports.Store
	alerts     *alert.Dispatcher
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewMonitor(
	resourceID string,
	store client.ObjectStore,
	evaluator policy.Evaluator,
	notifier alert.Notifier,
	m *metrics.Metrics,
) *Monitor {
	return &Monitor{
		resourceID: resourceID,
		collector:  collector.NewCollector(store),
		sampler:    sampler.NewSampler(store),
		evaluator:  evaluator,
		reports:    reports.NewStore(store),
		alerts:     alert.NewDispatcher(notifier),
		metrics:    m,
		now:        time.Now,
	}
}

// Run handles one invocation. The event is logged and otherwise ignored.
func (m *Monitor) Run(ctx context.Context, event json.RawMessage) api.Response {
	logger := zerolog.Ctx(ctx)
	switch {
	case len(event) == 0:
		logger.Info().Msg("compliance check triggered")
	case json.Valid(event):
		logger.Info().RawJSON("event", event).Msg("compliance check triggered")
	default:
		logger.Info().Str("event", string(event)).Msg("compliance check triggered")
	}

	report, err := m.Check(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("compliance check failed")
		return api.Response{
			StatusCode: http.StatusInternalServerError,
			Body: api.ResponseBody{
				Message:   api.MessageFailure,
				Compliant: false,
				Error:     err.Error(),
			},
		}
	}

	apiReport := adapters.MapComplianceReportDomainToApi(report)
	return api.Response{
		StatusCode: http.StatusOK,
		Body: api.ResponseBody{
			Message:   api.MessageSuccess,
			Compliant: report.OverallCompliant,
			Report:    &apiReport,
		},
	}
}

// Check runs the pipeline and returns the report. Only configuration errors,
// cancellation and unexpected faults are returned; everything else ends up
// in the report as violations.
func (m *Monitor) Check(ctx context.Context) (report domain.ComplianceReport, err error) {
	started := m.now()
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewError(domain.ErrorKindUnexpected, "run check", fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			m.metrics.RecordFailure(m.now().Sub(started))
		}
	}()

	if m.resourceID == "" {
		return domain.ComplianceReport{}, domain.NewError(domain.ErrorKindConfiguration,
			"resolve resource", errors.New("resource identifier is not configured"))
	}

	ctx = zerolog.Ctx(ctx).With().Str("bucket", m.resourceID).Logger().WithContext(ctx)
	logger := zerolog.Ctx(ctx)

	resource := m.collector.Collect(ctx, m.resourceID)
	if err := aborted(ctx, "collect"); err != nil {
		return domain.ComplianceReport{}, err
	}

	infra := m.evaluator.Evaluate(ctx, domain.InfrastructureInput{Resource: resource}, domain.RulesetInfrastructure)
	if err := aborted(ctx, "evaluate infrastructure"); err != nil {
		return domain.ComplianceReport{}, err
	}

	keys, listErr := m.sampler.ListCandidates(ctx, m.resourceID)
	if err := aborted(ctx, "list documents"); err != nil {
		return domain.ComplianceReport{}, err
	}
	sampling := domain.Compliant()
	if listErr != nil {
		logger.Warn().Err(listErr).Msg("failed to list documents, continuing without documents")
		keys = nil
		sampling = domain.NonCompliant(domain.Violation{
			Type:     violationListError,
			Message:  fmt.Sprintf("failed to list documents of %s: %v", m.resourceID, listErr),
			Severity: domain.SeverityHigh,
		})
	}

	docs := make([]domain.DocumentResult, 0, len(keys))
	for _, key := range keys {
		result := m.checkDocument(ctx, key)
		if err := aborted(ctx, "check document "+key); err != nil {
			return domain.ComplianceReport{}, err
		}
		docs = append(docs, domain.DocumentResult{FileName: key, Result: result})
	}

	report = compliance.Combine(m.now().UTC(), m.resourceID, infra, sampling, docs)
	report.Invocation = invocationFrom(ctx)

	if _, err := m.reports.Store(ctx, m.resourceID, report); err != nil {
		logger.Error().Err(err).Msg("failed to store compliance report")
	}

	m.alerts.Notify(ctx, report)
	m.metrics.RecordReport(report, m.now().Sub(started))

	logger.Info().
		Bool("compliant", report.OverallCompliant).
		Int("violations", report.ViolationCount()).
		Int("files_checked", report.FilesChecked).
		Msg("compliance check completed")
	return report, nil
}

func (m *Monitor) checkDocument(ctx context.Context, key string) domain.ComplianceResult {
	content, err := m.sampler.Fetch(ctx, m.resourceID, key)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", key).Msg("failed to fetch document")
		return domain.NonCompliant(domain.Violation{
			Type:     violationFetchError,
			Message:  fmt.Sprintf("failed to fetch %s: %v", key, err),
			Severity: domain.SeverityHigh,
		})
	}
	return m.evaluator.Evaluate(ctx, domain.DocumentInput{Content: content, FileName: key}, domain.RulesetSection508)
}

func aborted(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewError(domain.ErrorKindUnexpected, op, err)
	}
	return nil
}
