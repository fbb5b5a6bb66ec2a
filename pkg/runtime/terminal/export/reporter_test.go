package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/compliance-monitor/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() api.Response {
	return api.Response{
		StatusCode: 200,
		Body: api.ResponseBody{
			Message: api.MessageSuccess,
			Report: &api.ComplianceReport{
				Timestamp: time.Date(2025, 7, 13, 10, 0, 0, 0, time.UTC),
				Bucket:    "site",
				Infrastructure: api.ComplianceResult{Compliant: false, Violations: []api.Violation{
					{Type: "versioning_disabled", Message: "versioning is off", Severity: api.SeverityMedium},
				}},
				Section508: api.ComplianceResult{Compliant: false, Violations: []api.Violation{
					{Type: "missing_alt", Message: strings.Repeat("x", 100), Severity: api.SeverityHigh, File: "index.html"},
				}},
				FilesChecked: 1,
			},
		},
	}
}

func TestReporter_Handle_Table(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, NewReporter(&out).Handle(sampleResponse()))

	s := out.String()
	assert.Contains(t, s, "Compliance report for site")
	assert.Contains(t, s, "Checked at: 2025-07-13 10:00:00 UTC")
	assert.Contains(t, s, "Overall: NON-COMPLIANT")
	assert.Contains(t, s, "| infrastructure ")
	assert.Contains(t, s, "| versioning_disabled")
	assert.Contains(t, s, "| index.html")
	assert.Contains(t, s, "...")
	assert.NotContains(t, s, strings.Repeat("x", 100))
}

func TestReporter_Handle_NoViolations(t *testing.T) {
	resp := sampleResponse()
	resp.Body.Report.Infrastructure = api.ComplianceResult{Compliant: true}
	resp.Body.Report.Section508 = api.ComplianceResult{Compliant: true}
	resp.Body.Report.OverallCompliant = true
	var out bytes.Buffer

	require.NoError(t, NewReporter(&out).Handle(resp))

	assert.Contains(t, out.String(), "Overall: COMPLIANT")
	assert.Contains(t, out.String(), "No violations found.")
}

func TestReporter_Handle_Failure(t *testing.T) {
	var out bytes.Buffer

	err := NewReporter(&out).Handle(api.Response{
		StatusCode: 500,
		Body:       api.ResponseBody{Message: api.MessageFailure, Error: "configuration: resolve resource"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Compliance check failed\nError: configuration: resolve resource\n", out.String())
}

func TestJSONReporter_Handle(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, NewJSONReporter(&out).Handle(sampleResponse()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.EqualValues(t, 200, decoded["statusCode"])
	body := decoded["body"].(map[string]any)
	assert.Equal(t, api.MessageSuccess, body["message"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
