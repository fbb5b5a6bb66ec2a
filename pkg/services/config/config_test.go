package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("S3_BUCKET", "")
	t.Setenv("COMPLIANCE_RESOURCE_ID", "")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "", cfg.ResourceID)
	assert.Equal(t, "cli", cfg.OPA.Mode)
	assert.Equal(t, "/opt/bin/opa", cfg.OPA.Binary)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.Interval)
	assert.Equal(t, 5*time.Minute, cfg.CheckTimeout)
	assert.Equal(t, "generic", cfg.Alert.Format)

	rulesets, err := cfg.Rulesets()
	require.NoError(t, err)
	assert.Equal(t, domain.RulesetConfig{
		Name:     domain.RulesetInfrastructure,
		Document: "policies/infrastructure.rego",
		Query:    "data.infrastructure.compliance_report",
	}, rulesets[domain.RulesetInfrastructure])
	assert.Equal(t, "data.section508.compliance_report", rulesets[domain.RulesetSection508].Query)
}

func TestLoad_ResourceIDFromLegacyEnv(t *testing.T) {
	t.Setenv("COMPLIANCE_RESOURCE_ID", "")
	t.Setenv("S3_BUCKET", "my-site-bucket")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "my-site-bucket", cfg.ResourceID)
}

func TestLoad_EnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("COMPLIANCE_ALERT_WEBHOOK_URL", "https://hooks.example.com/x")
	t.Setenv("COMPLIANCE_OPA_MODE", "server")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/x", cfg.Alert.WebhookURL)
	assert.Equal(t, "server", cfg.OPA.Mode)
}

func TestLoad_ValidYAML_PopulatesFields(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "compliance.yaml")
	content := `resource_id: "docs-bucket"
aws:
  region: "eu-west-1"
opa:
  binary: "/usr/local/bin/opa"
  rulesets:
    section508:
      document: "rules/a11y.rego"
      query: "data.a11y.report"
schedule:
  interval: "6h"
alert:
  format: "slack"`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "docs-bucket", cfg.ResourceID)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "/usr/local/bin/opa", cfg.OPA.Binary)
	assert.Equal(t, 6*time.Hour, cfg.Schedule.Interval)
	assert.Equal(t, "slack", cfg.Alert.Format)

	rulesets, err := cfg.Rulesets()
	require.NoError(t, err)
	assert.Equal(t, "rules/a11y.rego", rulesets[domain.RulesetSection508].Document)
	assert.Equal(t, "data.a11y.report", rulesets[domain.RulesetSection508].Query)
	assert.Equal(t, "data.infrastructure.compliance_report", rulesets[domain.RulesetInfrastructure].Query)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resource_id: a: b"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Settings{LogLevel: "warn"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestLoad_HistoryDisabledByDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.History.DBPath)

	t.Setenv("COMPLIANCE_HISTORY_DB_PATH", "/var/lib/compliance/runs.db")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/compliance/runs.db", cfg.History.DBPath)
}
