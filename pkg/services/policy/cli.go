package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
)

// CLIEngine evaluates queries by running `opa eval` against a rule document,
// passing the input through a transient file.
type CLIEngine struct {
	binary  string
	workDir string
}

func NewCLIEngine(binary, workDir string) *CLIEngine {
	return &CLIEngine{
		binary:  binary,
		workDir: workDir,
	}
}

type evalOutput struct {
	Result []struct {
		Expressions []struct {
			Value json.RawMessage `json:"value"`
		} `json:"expressions"`
	} `json:"result"`
}

func (e *CLIEngine) Query(ctx context.Context, ruleset domain.RulesetConfig, input []byte) ([]json.RawMessage, error) {
	var results []json.RawMessage

	err := WithTransientFile(ctx, e.workDir, input, func(path string) error {
		var stdout, stderr bytes.Buffer
		// #nosec G204 - binary and rule document come from configuration, path from WithTransientFile
		cmd := exec.CommandContext(ctx, e.binary,
			"eval",
			"--format", "json",
			"--data", ruleset.Document,
			"--input", path,
			ruleset.Query,
		)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("opa eval failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
		}

		parsed, err := parseEvalOutput(stdout.Bytes())
		if err != nil {
			return err
		}
		results = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func parseEvalOutput(data []byte) ([]json.RawMessage, error) {
	var out evalOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse opa output: %w", err)
	}

	results := make([]json.RawMessage, 0, len(out.Result))
	for i, r := range out.Result {
		if len(r.Expressions) == 0 {
			return nil, fmt.Errorf("failed to parse opa output: result %d has no expressions", i)
		}
		results = append(results, r.Expressions[0].Value)
	}
	return results, nil
}
