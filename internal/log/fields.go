package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldSessionID   = "session_id"
	FieldRowCount    = "row_count"
	FieldDroppedRows = "dropped_rows"
	FieldSkippedRows = "skipped_rows"
	FieldVariant     = "schema_variant"
	FieldUsername    = "username"
	FieldUploadBytes = "upload_bytes"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentIngest  = "ingest"
	ComponentReport  = "report"
	ComponentSession = "session"
	ComponentAuth    = "auth"
)

// Operations defines standard operation names
const (
	OpUpload   = "upload"
	OpReport   = "report"
	OpOptions  = "options"
	OpLogin    = "login"
	OpValidate = "validate"
	OpParse    = "parse"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
