package policy

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Query(ctx context.Context, rs domain.RulesetConfig, input []byte) ([]json.RawMessage, error) {
	args := m.Called(ctx, rs, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

var testRulesets = map[domain.Ruleset]domain.RulesetConfig{
	domain.RulesetInfrastructure: {
		Name:     domain.RulesetInfrastructure,
		Document: "policies/infrastructure.rego",
		Query:    "data.infrastructure.compliance_report",
	},
	domain.RulesetSection508: {
		Name:     domain.RulesetSection508,
		Document: "policies/section508.rego",
		Query:    "data.section508.compliance_report",
	},
}

func TestClient_Evaluate(t *testing.T) {
	infraInput := domain.InfrastructureInput{Resource: domain.ResourceConfig{
		ResourceType: "s3_bucket",
		Name:         "site",
		Tags:         map[string]string{},
	}}

	tests := []struct {
		name           string
		results        []json.RawMessage
		engineErr      error
		wantCompliant  bool
		wantViolations []domain.Violation
	}{
		{
			name:          "empty result collection is vacuously compliant",
			results:       []json.RawMessage{},
			wantCompliant: true,
		},
		{
			name:          "compliant verdict",
			results:       []json.RawMessage{json.RawMessage(`{"compliant":true,"violations":[]}`)},
			wantCompliant: true,
		},
		{
			name: "violations from first entry only",
			results: []json.RawMessage{
				json.RawMessage(`{"compliant":false,"violations":[{"type":"versioning","message":"versioning disabled","severity":"MEDIUM"}]}`),
				json.RawMessage(`{"compliant":false,"violations":[{"type":"ignored","message":"second","severity":"LOW"}]}`),
			},
			wantViolations: []domain.Violation{
				{Type: "versioning", Message: "versioning disabled", Severity: domain.SeverityMedium},
			},
		},
		{
			name:    "non-compliant without violations gets synthetic violation",
			results: []json.RawMessage{json.RawMessage(`{"compliant":false}`)},
			wantViolations: []domain.Violation{
				{
					Type:     "policy_noncompliant",
					Message:  "policy reported non-compliance without listing violations",
					Severity: domain.SeverityMedium,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(mockEngine)
			engine.On("Query", mock.Anything, testRulesets[domain.RulesetInfrastructure], mock.Anything).
				Return(tt.results, tt.engineErr)

			result := NewClient(engine, testRulesets).
				Evaluate(context.Background(), infraInput, domain.RulesetInfrastructure)

			assert.Equal(t, tt.wantCompliant, result.Compliant())
			if tt.wantCompliant {
				assert.Empty(t, result.Violations)
			} else {
				assert.Equal(t, tt.wantViolations, result.Violations)
			}
			engine.AssertExpectations(t)
		})
	}
}

func TestClient_Evaluate_FailuresBecomeSingleHighViolation(t *testing.T) {
	tests := []struct {
		name      string
		results   []json.RawMessage
		engineErr error
	}{
		{name: "engine process failure", engineErr: errors.New("opa eval failed: exit status 1")},
		{name: "unparsable verdict", results: []json.RawMessage{json.RawMessage(`"not-an-object"`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(mockEngine)
			engine.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(tt.results, tt.engineErr)

			result := NewClient(engine, testRulesets).Evaluate(context.Background(),
				domain.DocumentInput{Content: "<html></html>", FileName: "index.html"}, domain.RulesetSection508)

			assert.False(t, result.Compliant())
			require.Len(t, result.Violations, 1)
			assert.Equal(t, domain.SeverityHigh, result.Violations[0].Severity)
			assert.Equal(t, "evaluation_error", result.Violations[0].Type)
			assert.Contains(t, result.Violations[0].Message, "section508")
		})
	}
}

func TestClient_Evaluate_UnknownRuleset(t *testing.T) {
	engine := new(mockEngine)

	result := NewClient(engine, testRulesets).Evaluate(context.Background(),
		domain.DocumentInput{}, domain.Ruleset("pci"))

	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "pci")
	engine.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestEncodeInput(t *testing.T) {
	infra, err := EncodeInput(domain.InfrastructureInput{Resource: domain.ResourceConfig{
		ResourceType:      "s3_bucket",
		Name:              "site",
		Tags:              map[string]string{"Environment": "prod"},
		VersioningEnabled: true,
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"resource":{"resource_type":"s3_bucket","name":"site","tags":{"Environment":"prod"},"versioning_enabled":true,"encryption_enabled":false}}`, string(infra))

	doc, err := EncodeInput(domain.DocumentInput{Content: "<html lang=\"en\"></html>", FileName: "about.html"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"html_content":"<html lang=\"en\"></html>","file_name":"about.html"}`, string(doc))

	_, err = EncodeInput(nil)
	assert.Error(t, err)
}

func TestParseVerdict_UnknownSeverityIsHigh(t *testing.T) {
	result, err := ParseVerdict(json.RawMessage(`{"violations":[{"type":"alt","message":"img without alt","severity":"urgent","file":"a.html"}]}`))

	require.NoError(t, err)
	assert.Equal(t, []domain.Violation{
		{Type: "alt", Message: "img without alt", Severity: domain.SeverityHigh, File: "a.html"},
	}, result.Violations)
}
