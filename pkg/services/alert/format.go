package alert

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/compliance-monitor/pkg/adapters"
	"github.com/de-tools/compliance-monitor/pkg/models/domain"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, msg domain.AlertMessage) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(msg)
	default:
		return formatGeneric(msg)
	}
}

func formatGeneric(msg domain.AlertMessage) ([]byte, error) {
	return json.Marshal(adapters.MapAlertMessageDomainToApi(msg))
}

func formatSlack(msg domain.AlertMessage) ([]byte, error) {
	payload := map[string]any{
		"text": msg.Summary,
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("Compliance alert: %s", msg.Resource),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Violations:* %d", msg.ViolationCount)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*High severity:* %d", msg.SeverityCounts[domain.SeverityHigh])},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Infrastructure:* %s", statusLabel(msg.InfrastructureCompliant))},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Section 508:* %s", statusLabel(msg.Section508Compliant))},
				},
			},
		},
	}
	return json.Marshal(payload)
}

func statusLabel(compliant bool) string {
	if compliant {
		return "PASS"
	}
	return "FAIL"
}
