package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldReportID is the report job ID.
	FieldReportID = "report_id"

	// FieldCompanyID is the tenant company ID a report is scoped to.
	FieldCompanyID = "company_id"

	// FieldReportType is the report type being generated.
	FieldReportType = "report_type"

	// FieldUserID is the acting user ID.
	FieldUserID = "user_id"

	// FieldComponent is the component/module name.
	FieldComponent = "component"
)

// Standard metric fields used for aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldStatus is the operation status.
	FieldStatus = "status"

	// FieldSize is the data size in bytes.
	FieldSize = "size"
)
