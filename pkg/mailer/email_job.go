package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending
// email. Template currently only knows "welcome"; raw Subject/Text/HTML
// jobs are passed through as-is.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
