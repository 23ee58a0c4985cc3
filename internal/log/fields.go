package log

// Common field names for structured logging
const (
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"

	FieldUserID      = "user_id"
	FieldEmail       = "email"
	FieldKind        = "kind"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldRecordID    = "record_id"
)

// Components defines standard component names
const (
	ComponentApp  = "app"
	ComponentHTTP = "http"
)
