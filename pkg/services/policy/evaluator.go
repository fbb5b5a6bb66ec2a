package policy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/de-tools/compliance-monitor/pkg/adapters"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	violationEvaluationError = "evaluation_error"
	violationNonCompliant    = "policy_noncompliant"
)

// Engine runs one query of a ruleset against the policy engine and returns
// the engine's result collection, which may be empty.
type Engine interface {
	Query(ctx context.Context, ruleset domain.RulesetConfig, input []byte) ([]json.RawMessage, error)
}

// Evaluator produces the verdict of a ruleset for one policy input.
type Evaluator interface {
	Evaluate(ctx context.Context, input domain.PolicyInput, ruleset domain.Ruleset) domain.ComplianceResult
}

type Client struct {
	engine   Engine
	rulesets map[domain.Ruleset]domain.RulesetConfig
}

func NewClient(engine Engine, rulesets map[domain.Ruleset]domain.RulesetConfig) *Client {
	return &Client{
		engine:   engine,
		rulesets: rulesets,
	}
}

// Evaluate never returns an error: engine and parse failures are reported as
// a single HIGH violation naming the ruleset, and an empty result collection
// is treated as compliant.
func (c *Client) Evaluate(ctx context.Context, input domain.PolicyInput, ruleset domain.Ruleset) domain.ComplianceResult {
	logger := zerolog.Ctx(ctx).With().Str("ruleset", string(ruleset)).Logger()

	result, err := c.evaluate(ctx, input, ruleset)
	if err != nil {
		logger.Error().Err(err).Msg("policy evaluation failed")
		return domain.NonCompliant(domain.Violation{
			Type:     violationEvaluationError,
			Message:  fmt.Sprintf("%s evaluation failed: %v", ruleset, err),
			Severity: domain.SeverityHigh,
		})
	}

	logger.Debug().
		Bool("compliant", result.Compliant()).
		Int("violations", len(result.Violations)).
		Msg("policy evaluated")
	return result
}

func (c *Client) evaluate(ctx context.Context, input domain.PolicyInput, ruleset domain.Ruleset) (domain.ComplianceResult, error) {
	rs, ok := c.rulesets[ruleset]
	if !ok {
		return domain.ComplianceResult{}, domain.NewError(domain.ErrorKindEvaluation,
			"resolve ruleset", fmt.Errorf("unknown ruleset %q", ruleset))
	}

	body, err := EncodeInput(input)
	if err != nil {
		return domain.ComplianceResult{}, domain.NewError(domain.ErrorKindEvaluation, "encode input", err)
	}

	results, err := c.engine.Query(ctx, rs, body)
	if err != nil {
		return domain.ComplianceResult{}, domain.NewError(domain.ErrorKindEvaluation, "query engine", err)
	}

	if len(results) == 0 {
		return domain.Compliant(), nil
	}

	// Only the first entry of the collection is interpreted.
	if len(results) > 1 {
		zerolog.Ctx(ctx).Debug().
			Str("ruleset", string(ruleset)).
			Int("ignored", len(results)-1).
			Msg("engine returned extra result entries")
	}
	result, err := ParseVerdict(results[0])
	if err != nil {
		return domain.ComplianceResult{}, domain.NewError(domain.ErrorKindEvaluation, "parse verdict", err)
	}
	return result, nil
}

type infrastructurePayload struct {
	Resource any `json:"resource"`
}

type documentPayload struct {
	HTMLContent string `json:"html_content"`
	FileName    string `json:"file_name"`
}

// EncodeInput serialises a policy input into the JSON document the rules read.
func EncodeInput(input domain.PolicyInput) ([]byte, error) {
	switch in := input.(type) {
	case domain.InfrastructureInput:
		return json.Marshal(infrastructurePayload{
			Resource: adapters.MapResourceConfigDomainToApi(in.Resource),
		})
	case domain.DocumentInput:
		return json.Marshal(documentPayload{
			HTMLContent: in.Content,
			FileName:    in.FileName,
		})
	default:
		return nil, fmt.Errorf("unsupported policy input %T", input)
	}
}

type verdictViolation struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	File     string `json:"file"`
}

type verdict struct {
	Compliant  *bool              `json:"compliant"`
	Violations []verdictViolation `json:"violations"`
}

// ParseVerdict converts one entry of the engine's result collection into a
// ComplianceResult. A verdict flagged non-compliant without violations gets
// a synthetic MEDIUM violation so that compliance and violations agree.
func ParseVerdict(raw json.RawMessage) (domain.ComplianceResult, error) {
	var v verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.ComplianceResult{}, fmt.Errorf("malformed verdict: %w", err)
	}

	violations := make([]domain.Violation, 0, len(v.Violations))
	for _, vv := range v.Violations {
		violations = append(violations, domain.Violation{
			Type:     vv.Type,
			Message:  vv.Message,
			Severity: domain.ParseSeverity(vv.Severity),
			File:     vv.File,
		})
	}

	if len(violations) == 0 && v.Compliant != nil && !*v.Compliant {
		violations = append(violations, domain.Violation{
			Type:     violationNonCompliant,
			Message:  "policy reported non-compliance without listing violations",
			Severity: domain.SeverityMedium,
		})
	}

	if len(violations) == 0 {
		return domain.Compliant(), nil
	}
	return domain.NonCompliant(violations...), nil
}
