package alert

// WebhookConfig defines a webhook alert destination.
type WebhookConfig struct {
	URL     string
	Format  string // "generic" or "slack"
	Headers map[string]string
}
