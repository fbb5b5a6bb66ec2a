package policy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStubOPA installs a fake opa binary that records its arguments and the
// input file path, then prints output and exits with code.
func writeStubOPA(t *testing.T, output string, code int) (binary, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub engine is a shell script")
	}

	dir := t.TempDir()
	binary = filepath.Join(dir, "opa")
	argsFile = filepath.Join(dir, "args")
	outFile := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(outFile, []byte(output), 0o644))

	script := "#!/bin/sh\n" +
		"echo \"$@\" > '" + argsFile + "'\n" +
		"cat '" + outFile + "'\n" +
		"echo 'stub stderr' >&2\n" +
		"exit " + string(rune('0'+code)) + "\n"
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o755))
	return binary, argsFile
}

func inputPathFromArgs(t *testing.T, argsFile string) string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	fields := strings.Fields(string(data))
	for i, f := range fields {
		if f == "--input" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	t.Fatalf("no --input argument in %q", string(data))
	return ""
}

func TestCLIEngine_Query_Success(t *testing.T) {
	binary, argsFile := writeStubOPA(t,
		`{"result":[{"expressions":[{"value":{"compliant":true,"violations":[]},"text":"data.infrastructure.compliance_report"}]}]}`, 0)
	workDir := t.TempDir()

	results, err := NewCLIEngine(binary, workDir).Query(context.Background(),
		testRulesets[domain.RulesetInfrastructure], []byte(`{"resource":{}}`))

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.JSONEq(t, `{"compliant":true,"violations":[]}`, string(results[0]))

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "eval --format json --data policies/infrastructure.rego --input ")
	assert.Contains(t, string(args), "data.infrastructure.compliance_report")

	inputPath := inputPathFromArgs(t, argsFile)
	assert.Equal(t, workDir, filepath.Dir(inputPath))
	assert.NoFileExists(t, inputPath)
}

func TestCLIEngine_Query_UndefinedIsEmpty(t *testing.T) {
	binary, _ := writeStubOPA(t, `{}`, 0)

	results, err := NewCLIEngine(binary, t.TempDir()).Query(context.Background(),
		testRulesets[domain.RulesetSection508], []byte(`{}`))

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCLIEngine_Query_ProcessFailureCleansUp(t *testing.T) {
	binary, argsFile := writeStubOPA(t, `not json`, 2)

	_, err := NewCLIEngine(binary, t.TempDir()).Query(context.Background(),
		testRulesets[domain.RulesetSection508], []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stub stderr")
	assert.NoFileExists(t, inputPathFromArgs(t, argsFile))
}

func TestCLIEngine_Query_ParseFailureCleansUp(t *testing.T) {
	binary, argsFile := writeStubOPA(t, `not json`, 0)

	_, err := NewCLIEngine(binary, t.TempDir()).Query(context.Background(),
		testRulesets[domain.RulesetSection508], []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse opa output")
	assert.NoFileExists(t, inputPathFromArgs(t, argsFile))
}

func TestCLIEngine_MissingBinaryYieldsHighViolation(t *testing.T) {
	workDir := t.TempDir()
	client := NewClient(NewCLIEngine(filepath.Join(workDir, "no-such-opa"), workDir), testRulesets)

	result := client.Evaluate(context.Background(), domain.InfrastructureInput{}, domain.RulesetInfrastructure)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, domain.SeverityHigh, result.Violations[0].Severity)
	assert.Contains(t, result.Violations[0].Message, "infrastructure")

	entries, err := os.ReadDir(workDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseEvalOutput_MultipleResults(t *testing.T) {
	results, err := parseEvalOutput([]byte(`{"result":[{"expressions":[{"value":1}]},{"expressions":[{"value":2}]}]}`))

	require.NoError(t, err)
	assert.Equal(t, []json.RawMessage{json.RawMessage(`1`), json.RawMessage(`2`)}, results)

	_, err = parseEvalOutput([]byte(`{"result":[{"expressions":[]}]}`))
	assert.Error(t, err)
}
