package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/compliance-monitor/pkg/models/api"
)

// Reporter outputs check results to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(resp api.Response) error {
	tmpl := `
{{.Message}}
{{if .Report}}{{with .Report}}Bucket: {{.Bucket}}
Checked at: {{.Timestamp.Format "2006-01-02 15:04:05 MST"}}
Overall: {{if .OverallCompliant}}COMPLIANT{{else}}NON-COMPLIANT{{end}}
Files checked: {{.FilesChecked}}

=== infrastructure ===
{{if .Infrastructure.Compliant}}compliant
{{else}}{{range .Infrastructure.Violations}}- [{{.Severity}}] {{.Type}}: {{.Message}}
{{end}}{{end}}
=== section508 ===
{{if .Section508.Compliant}}compliant
{{else}}{{range .Section508.Violations}}- [{{.Severity}}] {{.File}} {{.Type}}: {{.Message}}
{{end}}{{end}}{{end}}{{else}}Error: {{.Error}}
{{end}}`
	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, resp.Body)
}
