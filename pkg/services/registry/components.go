package registry

import (
	"context"
	"fmt"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/services/alert"
	"github.com/de-tools/compliance-monitor/pkg/services/awscfg"
	"github.com/de-tools/compliance-monitor/pkg/services/config"
	"github.com/de-tools/compliance-monitor/pkg/services/metrics"
	"github.com/de-tools/compliance-monitor/pkg/services/monitor"
	"github.com/de-tools/compliance-monitor/pkg/services/policy"
	"github.com/de-tools/compliance-monitor/pkg/store/client"
	"github.com/prometheus/client_golang/prometheus"
)

// Components is the wired monitor together with its metrics registry.
type Components struct {
	Monitor  *monitor.Monitor
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewObjectStore connects to S3 with the configured AWS profile and region.
func NewObjectStore(ctx context.Context, settings *config.Settings) (client.ObjectStore, error) {
	awsCfg, err := awscfg.LoadConfig(ctx, awscfg.Settings{
		Region:  settings.AWS.Region,
		Profile: settings.AWS.Profile,
	})
	if err != nil {
		return nil, domain.NewError(domain.ErrorKindConfiguration, "load aws config", err)
	}
	return client.NewS3Store(*awsCfg), nil
}

// NewNotifier returns a webhook notifier when a webhook is configured and a
// log notifier otherwise.
func NewNotifier(settings *config.Settings) alert.Notifier {
	if settings.Alert.WebhookURL == "" {
		return alert.LogNotifier{}
	}
	return alert.NewWebhookNotifier(alert.WebhookConfig{
		URL:     settings.Alert.WebhookURL,
		Format:  settings.Alert.Format,
		Headers: settings.Alert.Headers,
	})
}

// Build assembles the monitor from settings. A missing resource id is not
// an error here; it is reported by every invocation instead.
func Build(settings *config.Settings, engines Registry, store client.ObjectStore) (*Components, error) {
	rulesets, err := settings.Rulesets()
	if err != nil {
		return nil, domain.NewError(domain.ErrorKindConfiguration, "load rulesets", err)
	}

	engine, err := engines.Create(settings.OPA)
	if err != nil {
		return nil, domain.NewError(domain.ErrorKindConfiguration, "create policy engine", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	mon := monitor.NewMonitor(
		settings.ResourceID,
		store,
		policy.NewClient(engine, rulesets),
		NewNotifier(settings),
		m,
	)

	return &Components{
		Monitor:  mon,
		Metrics:  m,
		Registry: reg,
	}, nil
}

// Setup loads the AWS object store and builds the components.
func Setup(ctx context.Context, settings *config.Settings) (*Components, error) {
	store, err := NewObjectStore(ctx, settings)
	if err != nil {
		return nil, err
	}
	components, err := Build(settings, DefaultRegistry(), store)
	if err != nil {
		return nil, fmt.Errorf("failed to build compliance monitor: %w", err)
	}
	return components, nil
}
