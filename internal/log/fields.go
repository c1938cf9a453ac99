package log

// Field names shared across components. Log lines use these constants so
// the same fact is always searchable under the same key.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldInvoiceID     = "invoice_id"
	FieldInvoiceNumber = "invoice_number"
	FieldReminderKind  = "kind"
)

// Component names for ForComponent.
const (
	ComponentHTTP   = "http"
	ComponentWorker = "worker"
	ComponentAMQP   = "amqp"
)
