package mailer

// Template names understood by the email worker.
const (
	TemplateVerifyEmail         = "verify_email"
	TemplateResetPassword       = "reset_password"
	TemplateApplicationReceived = "application_received"
	TemplateApplicationStatus   = "application_status"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// When Template is set the worker renders it with Data; otherwise Subject,
// Text and HTML are sent as-is.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
