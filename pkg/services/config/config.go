package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/spf13/viper"
)

const envPrefix = "COMPLIANCE"

type AWSSettings struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

type RulesetSettings struct {
	Document string `mapstructure:"document"`
	Query    string `mapstructure:"query"`
}

type OPASettings struct {
	// Mode selects how the policy engine is reached: "cli" or "server".
	Mode      string                     `mapstructure:"mode"`
	Binary    string                     `mapstructure:"binary"`
	WorkDir   string                     `mapstructure:"work_dir"`
	ServerURL string                     `mapstructure:"server_url"`
	Rulesets  map[string]RulesetSettings `mapstructure:"rulesets"`
}

type AlertSettings struct {
	WebhookURL string            `mapstructure:"webhook_url"`
	Format     string            `mapstructure:"format"`
	Headers    map[string]string `mapstructure:"headers"`
}

type ScheduleSettings struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

type HistorySettings struct {
	// DBPath is the DuckDB file holding the run history. Empty disables it.
	DBPath string `mapstructure:"db_path"`
}

type Settings struct {
	ResourceID   string           `mapstructure:"resource_id"`
	AWS          AWSSettings      `mapstructure:"aws"`
	OPA          OPASettings      `mapstructure:"opa"`
	Alert        AlertSettings    `mapstructure:"alert"`
	Schedule     ScheduleSettings `mapstructure:"schedule"`
	Server       ServerSettings   `mapstructure:"server"`
	History      HistorySettings  `mapstructure:"history"`
	CheckTimeout time.Duration    `mapstructure:"check_timeout"`
	LogLevel     string           `mapstructure:"log_level"`
	LogFormat    string           `mapstructure:"log_format"`
}

// Load reads settings from the optional config file and the environment.
// Environment variables use the COMPLIANCE_ prefix with dots replaced by
// underscores; S3_BUCKET is accepted as the resource id for compatibility.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("resource_id", envPrefix+"_RESOURCE_ID", "S3_BUCKET"); err != nil {
		return nil, fmt.Errorf("failed to bind resource id env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse compliance config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("resource_id", "")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("opa.mode", "cli")
	v.SetDefault("opa.binary", "/opt/bin/opa")
	v.SetDefault("opa.work_dir", "")
	v.SetDefault("opa.server_url", "http://localhost:8181")
	v.SetDefault("opa.rulesets.infrastructure.document", "policies/infrastructure.rego")
	v.SetDefault("opa.rulesets.infrastructure.query", "data.infrastructure.compliance_report")
	v.SetDefault("opa.rulesets.section508.document", "policies/section508.rego")
	v.SetDefault("opa.rulesets.section508.query", "data.section508.compliance_report")
	v.SetDefault("alert.webhook_url", "")
	v.SetDefault("alert.format", "generic")
	v.SetDefault("alert.headers", map[string]string{})
	v.SetDefault("schedule.interval", 24*time.Hour)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("history.db_path", "")
	v.SetDefault("check_timeout", 5*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Rulesets returns the configured rule document and query of every ruleset
// the monitor evaluates.
func (s *Settings) Rulesets() (map[domain.Ruleset]domain.RulesetConfig, error) {
	res := make(map[domain.Ruleset]domain.RulesetConfig, 2)
	for _, name := range []domain.Ruleset{domain.RulesetInfrastructure, domain.RulesetSection508} {
		rs, ok := s.OPA.Rulesets[string(name)]
		if !ok || rs.Query == "" {
			return nil, fmt.Errorf("ruleset %s is not configured", name)
		}
		res[name] = domain.RulesetConfig{
			Name:     name,
			Document: rs.Document,
			Query:    rs.Query,
		}
	}
	return res, nil
}
