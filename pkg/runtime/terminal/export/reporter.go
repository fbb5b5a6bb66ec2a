package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/compliance-monitor/pkg/models/api"
)

type TableConfig struct {
	RulesetWidth  int
	SeverityWidth int
	TypeWidth     int
	FileWidth     int
	MessageWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RulesetWidth:  14,
		SeverityWidth: 8,
		TypeWidth:     24,
		FileWidth:     30,
		MessageWidth:  60,
	}
}

type row struct {
	Ruleset  string
	Severity string
	Type     string
	File     string
	Message  string
}

// Reporter renders a check result as a text table of violations.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(resp api.Response) error {
	if resp.Body.Report == nil {
		_, err := fmt.Fprintf(c.writer, "%s\nError: %s\n", resp.Body.Message, resp.Body.Error)
		return err
	}

	funcMap := template.FuncMap{
		"formatRow": func(ruleset, severity, typ, file, message string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s |",
				c.config.RulesetWidth, truncate(ruleset, c.config.RulesetWidth),
				c.config.SeverityWidth, truncate(severity, c.config.SeverityWidth),
				c.config.TypeWidth, truncate(typ, c.config.TypeWidth),
				c.config.FileWidth, truncate(file, c.config.FileWidth),
				c.config.MessageWidth, truncate(message, c.config.MessageWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.RulesetWidth+2),
				strings.Repeat("-", c.config.SeverityWidth+2),
				strings.Repeat("-", c.config.TypeWidth+2),
				strings.Repeat("-", c.config.FileWidth+2),
				strings.Repeat("-", c.config.MessageWidth+2))
		},
	}

	tmpl := `
Compliance report for {{.Report.Bucket}}

Checked at: {{.Report.Timestamp.Format "2006-01-02 15:04:05 MST"}}
Overall: {{if .Report.OverallCompliant}}COMPLIANT{{else}}NON-COMPLIANT{{end}}
Infrastructure: {{if .Report.Infrastructure.Compliant}}PASS{{else}}FAIL{{end}}
Section 508: {{if .Report.Section508.Compliant}}PASS{{else}}FAIL{{end}} ({{.Report.FilesChecked}} files checked)

{{if .Rows}}{{separator}}
{{formatRow "Ruleset" "Severity" "Type" "File" "Message"}}
{{separator}}
{{range .Rows}}{{formatRow .Ruleset .Severity .Type .File .Message}}
{{end}}{{separator}}
{{else}}No violations found.
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, struct {
		Report *api.ComplianceReport
		Rows   []row
	}{
		Report: resp.Body.Report,
		Rows:   rows(resp.Body.Report),
	})
}

func rows(report *api.ComplianceReport) []row {
	var res []row
	for _, v := range report.Infrastructure.Violations {
		res = append(res, row{"infrastructure", string(v.Severity), v.Type, "", v.Message})
	}
	for _, v := range report.Section508.Violations {
		res = append(res, row{"section508", string(v.Severity), v.Type, v.File, v.Message})
	}
	return res
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// JSONReporter writes the full invocation response as indented JSON.
type JSONReporter struct {
	writer io.Writer
}

func NewJSONReporter(writer io.Writer) *JSONReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONReporter{writer: writer}
}

func (j *JSONReporter) Handle(resp api.Response) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
