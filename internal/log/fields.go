package log

// Field names shared by every component.
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOwner       = "owner_id"
	FieldTransaction = "transaction_id"
	FieldOperation   = "operation"
	FieldPhase       = "phase"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldRequestID   = "request_id"
	FieldBackend     = "backend"
)

const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentRegistry = "registry"
	ComponentBackend  = "backend"
	ComponentEvents   = "events"
	ComponentImporter = "importer"
)
